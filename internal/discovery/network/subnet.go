// internal/discovery/network/subnet.go
package network

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// commonGateways are tried with a short dial when neither the bridge
// nor the local interfaces reveal the subnet.
var commonGateways = []string{
	"192.168.1.1", "192.168.0.1", "10.0.0.1", "172.16.0.1",
}

// detectSubnet resolves the /24 prefix to scan. Detection chain:
// bridge network info, local interface addresses, trial connections
// to common gateways, then the configured static fallback.
func (s *Scanner) detectSubnet(ctx context.Context) string {
	if subnet := s.subnetFromBridge(); subnet != "" {
		s.logger.Debug("Subnet from bridge", zap.String("subnet", subnet))
		return subnet
	}
	if subnet := subnetFromInterfaces(); subnet != "" {
		s.logger.Debug("Subnet from local interfaces", zap.String("subnet", subnet))
		return subnet
	}
	if subnet := s.subnetFromGateways(ctx); subnet != "" {
		s.logger.Debug("Subnet from gateway probe", zap.String("subnet", subnet))
		return subnet
	}

	fallback := "192.168.1"
	if len(s.config.FallbackSubnets) > 0 {
		fallback = s.config.FallbackSubnets[0]
	}
	s.logger.Warn("Subnet detection failed, using fallback", zap.String("subnet", fallback))
	return fallback
}

func (s *Scanner) subnetFromBridge() string {
	if s.hint == nil {
		return ""
	}
	info, err := s.hint.NetworkInfo()
	if err != nil {
		return ""
	}
	for _, key := range []string{"local_ip", "ip", "address"} {
		if ip, ok := info[key].(string); ok {
			if subnet := prefixOf(ip); subnet != "" {
				return subnet
			}
		}
	}
	return ""
}

// subnetFromInterfaces inspects the host's own addresses.
func subnetFromInterfaces() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil {
			continue
		}
		if subnet := prefixOf(ip4.String()); subnet != "" {
			return subnet
		}
	}
	return ""
}

// subnetFromGateways dials well-known gateway addresses; the first
// one that answers implies its subnet.
func (s *Scanner) subnetFromGateways(ctx context.Context) string {
	dialer := &net.Dialer{Timeout: time.Second}
	for _, gateway := range commonGateways {
		if ctx.Err() != nil {
			return ""
		}
		conn, err := dialer.DialContext(ctx, "tcp", gateway+":80")
		if err != nil {
			continue
		}
		conn.Close()
		return prefixOf(gateway)
	}
	return ""
}

// prefixOf returns the first three octets of a v4 address.
func prefixOf(ip string) string {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return ""
	}
	return strings.Join(parts[:3], ".")
}

// buildTargets orders the scan list: known static printer addresses
// first, then gateway and broadcast-adjacent hosts, then the rest of
// the /24 range. Earlier hits shorten the perceived scan time.
func (s *Scanner) buildTargets(subnet string) []string {
	seen := make(map[string]bool)
	var targets []string

	add := func(address string) {
		if address != "" && !seen[address] {
			seen[address] = true
			targets = append(targets, address)
		}
	}

	for _, address := range s.config.StaticAddresses {
		if strings.HasPrefix(address, subnet+".") {
			add(address)
		}
	}
	for _, host := range []int{1, 254, 100, 200} {
		add(fmt.Sprintf("%s.%d", subnet, host))
	}
	for host := 2; host <= 253; host++ {
		add(fmt.Sprintf("%s.%d", subnet, host))
	}
	return targets
}

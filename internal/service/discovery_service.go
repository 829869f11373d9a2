// internal/service/discovery_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"printer-service/internal/discovery"
	"printer-service/internal/model"
	"printer-service/internal/utils"
)

// DiscoveryService fronts the scanner manager for the API layer.
type DiscoveryService struct {
	manager *discovery.Manager
	logger  *utils.ServiceLogger
}

// NewDiscoveryService creates a new discovery service instance
func NewDiscoveryService(manager *discovery.Manager, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{
		manager: manager,
		logger:  utils.NewServiceLogger(logger, "discovery-service"),
	}
}

// StartScan launches a scan across all available scanners. Rejected
// with ErrScanInProgress while another scan runs. The scan is detached
// from the caller's context so it survives the HTTP request that
// started it; cancellation goes through CancelScan.
func (ds *DiscoveryService) StartScan(ctx context.Context) error {
	_, err := ds.manager.StartScan(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	ds.logger.Info("Discovery scan started")
	return nil
}

// StartScanByType launches one scanner type.
func (ds *DiscoveryService) StartScanByType(ctx context.Context, scannerType string) error {
	_, err := ds.manager.StartScanByType(context.WithoutCancel(ctx), scannerType)
	if err != nil {
		return err
	}
	ds.logger.Info("Discovery scan started", zap.String("scanner", scannerType))
	return nil
}

// CancelScan aborts the running scan. Devices already discovered
// remain registered.
func (ds *DiscoveryService) CancelScan() {
	ds.manager.Cancel()
	ds.logger.Info("Discovery scan cancelled")
}

// Status reports whether a scan is in flight and which scanners can
// run.
func (ds *DiscoveryService) Status() model.JSONObject {
	return model.JSONObject{
		"scanning": ds.manager.IsScanning(),
		"scanners": ds.manager.GetAvailableScanners(),
	}
}

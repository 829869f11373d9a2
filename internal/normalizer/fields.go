// internal/normalizer/fields.go
package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order payloads arrive in wildly inconsistent shapes; every
// attribute is looked up under several candidate field names and the
// first usable value wins.

func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch s := v.(type) {
			case string:
				if strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			case float64:
				return strconv.FormatFloat(s, 'f', -1, 64)
			case int:
				return strconv.Itoa(s)
			}
		}
	}
	return ""
}

func intField(m map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch n := v.(type) {
			case float64:
				return int(n)
			case int:
				return n
			case string:
				if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
					return parsed
				}
			}
		}
	}
	return 0
}

func decimalField(m map[string]interface{}, keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch n := v.(type) {
			case float64:
				return decimal.NewFromFloat(n), true
			case int:
				return decimal.NewFromInt(int64(n)), true
			case string:
				cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
				cleaned = strings.TrimSuffix(cleaned, "€")
				cleaned = strings.TrimSpace(cleaned)
				if d, err := decimal.NewFromString(cleaned); err == nil {
					return d, true
				}
			}
		}
	}
	return decimal.Zero, false
}

func boolField(m map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			switch b := v.(type) {
			case bool:
				return b
			case string:
				return strings.EqualFold(b, "true") || b == "1"
			}
		}
	}
	return false
}

func arrayField(m map[string]interface{}, keys ...string) []interface{} {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]interface{}); ok && len(arr) > 0 {
				return arr
			}
		}
	}
	return nil
}

func mapField(m map[string]interface{}, keys ...string) map[string]interface{} {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if nested, ok := v.(map[string]interface{}); ok {
				return nested
			}
		}
	}
	return nil
}

func timeField(m map[string]interface{}, keys ...string) time.Time {
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}
	for _, key := range keys {
		if v, ok := m[key].(string); ok {
			for _, layout := range layouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t
				}
			}
		}
	}
	return time.Now()
}

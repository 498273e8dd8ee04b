package plan

import (
	"fmt"
	"strings"
)

// NormalizeSKU canonicalizes user input into a SKU code: friendly tier names
// map to their smallest code, everything else is upper-cased.
func NormalizeSKU(sku string) string {
	switch strings.ToLower(sku) {
	case "free":
		return "F1"
	case "shared":
		return "D1"
	default:
		return strings.ToUpper(sku)
	}
}

// SKUTierName maps a SKU code to its pricing tier, the value hosting plans
// report and the planner matches on.
func SKUTierName(sku string) (string, error) {
	switch strings.ToUpper(sku) {
	case "F1", "FREE":
		return "Free", nil
	case "D1", "SHARED":
		return "Shared", nil
	case "B1", "B2", "B3":
		return "Basic", nil
	case "S1", "S2", "S3":
		return "Standard", nil
	case "P1", "P2", "P3":
		return "Premium", nil
	case "P1V2", "P2V2", "P3V2":
		return "PremiumV2", nil
	default:
		return "", fmt.Errorf("invalid sku '%s'", sku)
	}
}

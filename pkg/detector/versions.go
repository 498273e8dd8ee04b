package detector

import (
	"strconv"
	"strings"
)

// Officially supported runtime versions per language, with one default each.
// These mirror the app-service platform's published support matrix.
var (
	NetcoreVersions = []string{"1.0", "1.1", "2.1", "2.2"}
	NodeVersions    = []string{
		"4.4", "4.5", "6.2", "6.6", "6.9", "6.11",
		"8.0", "8.1", "8.9", "8.11", "10.1", "10.10", "10.14",
	}
	DotnetVersions = []string{"3.5", "4.7"}
)

const (
	NetcoreVersionDefault = "2.2"
	NodeVersionDefault    = "8.11"
	DotnetVersionDefault  = "4.7"
	PythonVersionDefault  = "3.7"
)

// Default SKU tiers used when the caller does not pick one.
const (
	LinuxSKUDefault   = "P1V2"
	WindowsSKUDefault = "F1"
)

// netcoreVersionToProvision returns the detected version when supported,
// otherwise the default.
func netcoreVersionToProvision(detected string) string {
	if contains(NetcoreVersions, detected) {
		return detected
	}
	return NetcoreVersionDefault
}

// dotnetVersionToProvision returns the detected version when supported. A
// version older than the minimum supported one is bumped up to the minimum;
// anything else gets the default.
func dotnetVersionToProvision(detected string) string {
	if contains(DotnetVersions, detected) {
		return detected
	}
	min := DotnetVersions[0]
	if versionValue(detected) < versionValue(min) {
		return min
	}
	return DotnetVersionDefault
}

// nodeVersionToProvision maps a detected node version onto the supported list,
// bucketing unsupported versions by major version.
func nodeVersionToProvision(detected string) string {
	if contains(NodeVersions, detected) {
		return detected
	}

	major, err := strconv.Atoi(strings.SplitN(detected, ".", 2)[0])
	if err != nil {
		return NodeVersionDefault
	}

	switch {
	case major >= 10:
		return "10.14"
	case major >= 8:
		return NodeVersionDefault
	case major >= 6:
		return "6.9"
	case major >= 4:
		return "4.5"
	default:
		return NodeVersionDefault
	}
}

func contains(versions []string, v string) bool {
	for _, candidate := range versions {
		if candidate == v {
			return true
		}
	}
	return false
}

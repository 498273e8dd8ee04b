package config

import "time"

// Platform defaults
const (
	// DefaultSKU is the hosting plan SKU used when neither the user nor the
	// detector picks one.
	DefaultSKU = "B1"

	// DefaultLocation is used when no location is given and none can be
	// resolved from the management plane.
	DefaultLocation = "westus"
)

// Timeouts & Durations
const (
	// DefaultBuildTimeout is the timeout for a queued container build run.
	DefaultBuildTimeout = 60 * time.Minute

	// DefaultLogPollInterval is the delay between build run status polls.
	DefaultLogPollInterval = 5 * time.Second

	// DefaultProvisionTimeout is the timeout for resource provisioning calls.
	DefaultProvisionTimeout = 10 * time.Minute
)

// Archive naming
const (
	// BuildArchivePrefix prefixes temporary build upload archives.
	BuildArchivePrefix = "build_archive_"
)

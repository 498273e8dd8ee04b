package build

import (
	"context"
	"io"
	"time"
)

// Platform defaults for remote build agents.
const (
	PlatformOSLinux   = "Linux"
	PlatformArchAMD64 = "amd64"
)

// Request describes a docker build submitted to the registry's build service.
type Request struct {
	ImageNames     []string
	PushEnabled    bool
	SourceLocation string
	DockerfilePath string
	OS             string
	Architecture   string
	Timeout        time.Duration
	Arguments      map[string]string
}

// SourceUploader packs and uploads a local source tree for a remote build,
// returning the source location token the build service consumes.
type SourceUploader interface {
	Upload(ctx context.Context, registry, resourceGroup, sourceDir, archivePath, dockerfilePath, renamedDockerfile string) (string, error)
}

// RunScheduler queues a build request and returns the run identifier.
type RunScheduler interface {
	ScheduleRun(ctx context.Context, resourceGroup, registry string, req Request) (string, error)
}

// LogStreamer follows the logs of a scheduled run until it finishes.
type LogStreamer interface {
	Stream(ctx context.Context, resourceGroup, registry, runID string, out io.Writer) error
}

// Dependencies are the remote collaborators a build queueing needs.
type Dependencies struct {
	Uploader  SourceUploader
	Scheduler RunScheduler
	Logs      LogStreamer
}

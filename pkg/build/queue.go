package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"azup/pkg/config"
	"azup/pkg/util"

	"github.com/google/uuid"
)

// Options configures one queued container build.
type Options struct {
	ResourceGroup string
	Registry      string
	ImageName     string
	SourceDir     string
	Out           io.Writer
}

// QueueBuild archives and uploads the source tree, queues a push-enabled
// linux/amd64 docker build for it, and streams the run's logs. The temporary
// archive is removed best-effort whether or not the upload succeeds. Returns
// the run identifier.
func QueueBuild(ctx context.Context, deps Dependencies, opts Options) (string, error) {
	sourceDir, err := util.ValidateSourceDir(opts.SourceDir)
	if err != nil {
		return "", err
	}
	dockerfile, err := util.RequireDockerfile(sourceDir)
	if err != nil {
		return "", err
	}

	// A unique in-archive name keeps the build's Dockerfile reference
	// unambiguous even when the tree holds several.
	renamed := fmt.Sprintf("%x_%s", uuid.New(), filepath.Base(dockerfile))
	archivePath := filepath.Join(os.TempDir(), fmt.Sprintf("%s%x.tar.gz", config.BuildArchivePrefix, uuid.New()))
	defer os.Remove(archivePath)

	sourceLocation, err := deps.Uploader.Upload(ctx, opts.Registry, opts.ResourceGroup,
		sourceDir, archivePath, dockerfile, renamed)
	if err != nil {
		return "", fmt.Errorf("uploading source for build: %w", err)
	}

	runID, err := deps.Scheduler.ScheduleRun(ctx, opts.ResourceGroup, opts.Registry, Request{
		ImageNames:     []string{opts.ImageName},
		PushEnabled:    true,
		SourceLocation: sourceLocation,
		DockerfilePath: renamed,
		OS:             PlatformOSLinux,
		Architecture:   PlatformArchAMD64,
		Timeout:        config.DefaultBuildTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("queueing build: %w", err)
	}

	if deps.Logs != nil {
		if err := deps.Logs.Stream(ctx, opts.ResourceGroup, opts.Registry, runID, opts.Out); err != nil {
			return runID, fmt.Errorf("streaming logs for run '%s': %w", runID, err)
		}
	}
	return runID, nil
}

// ImageName derives the default image tag for a source directory:
// "basename:YYYYMMDD_HHMMSS".
func ImageName(sourceDir string) string {
	return filepath.Base(sourceDir) + ":" + time.Now().Format("20060102_150405")
}

package azure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"azup/pkg/config"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
)

// Stream implements build.LogStreamer: it polls the run until a terminal
// state, then downloads the run's log blob and writes it to out. A run that
// ends in any state other than Succeeded is an error.
func (c *Client) Stream(ctx context.Context, resourceGroup, registry, runID string, out io.Writer) error {
	for {
		resp, err := c.runs.Get(ctx, resourceGroup, registry, runID, nil)
		if err != nil {
			return fmt.Errorf("fetching run '%s': %w", runID, err)
		}

		var status armcontainerregistry.RunStatus
		if resp.Properties != nil && resp.Properties.Status != nil {
			status = *resp.Properties.Status
		}

		switch status {
		case armcontainerregistry.RunStatusSucceeded,
			armcontainerregistry.RunStatusFailed,
			armcontainerregistry.RunStatusCanceled,
			armcontainerregistry.RunStatusError,
			armcontainerregistry.RunStatusTimeout:
			if err := c.writeRunLog(ctx, resourceGroup, registry, runID, out); err != nil {
				return err
			}
			if status != armcontainerregistry.RunStatusSucceeded {
				return fmt.Errorf("build run '%s' finished with status %s", runID, status)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.DefaultLogPollInterval):
		}
	}
}

func (c *Client) writeRunLog(ctx context.Context, resourceGroup, registry, runID string, out io.Writer) error {
	sas, err := c.runs.GetLogSasURL(ctx, resourceGroup, registry, runID, nil)
	if err != nil {
		return fmt.Errorf("fetching log url for run '%s': %w", runID, err)
	}
	if sas.LogLink == nil || *sas.LogLink == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *sas.LogLink, nil)
	if err != nil {
		return fmt.Errorf("building log request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading log for run '%s': %w", runID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading log for run '%s': %s", runID, resp.Status)
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

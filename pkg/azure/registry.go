package azure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"azup/pkg/archive"
	"azup/pkg/build"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
)

// FindRegistry locates a container registry by name across the subscription
// and returns the resource group holding it. Exactly one match is required.
func (c *Client) FindRegistry(ctx context.Context, name string) (string, error) {
	var matches []*armcontainerregistry.Registry
	pager := c.registries.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("listing registries: %w", err)
		}
		for _, r := range page.Value {
			if strings.EqualFold(deref(r.Name), name) {
				matches = append(matches, r)
			}
		}
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("found %d registries named '%s', expected exactly one", len(matches), name)
	}
	rg := resourceGroupFromID(deref(matches[0].ID))
	if rg == "" {
		return "", fmt.Errorf("registry '%s' has no resource group in its id", name)
	}
	return rg, nil
}

// RegistryCredentials returns the registry's admin username and password.
// The admin user must be enabled on the registry.
func (c *Client) RegistryCredentials(ctx context.Context, resourceGroup, name string) (string, string, error) {
	reg, err := c.registries.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return "", "", fmt.Errorf("fetching registry '%s': %w", name, err)
	}

	creds, err := c.registries.ListCredentials(ctx, resourceGroup, name, nil)
	if err != nil {
		return "", "", fmt.Errorf("fetching credentials for registry '%s': %w", name, err)
	}
	return adminCredentials(name, reg.Registry, creds.RegistryListCredentialsResult)
}

// adminCredentials extracts the admin username and first password from the
// registry resources, requiring the admin user to be enabled.
func adminCredentials(name string, reg armcontainerregistry.Registry, creds armcontainerregistry.RegistryListCredentialsResult) (string, string, error) {
	if reg.Properties == nil || reg.Properties.AdminUserEnabled == nil || !*reg.Properties.AdminUserEnabled {
		return "", "", fmt.Errorf("admin user is not enabled on registry '%s'; enable it or provide credentials", name)
	}
	if creds.Username == nil || len(creds.Passwords) == 0 || creds.Passwords[0].Value == nil {
		return "", "", fmt.Errorf("registry '%s' returned no admin credentials", name)
	}
	return *creds.Username, *creds.Passwords[0].Value, nil
}

// Upload implements build.SourceUploader: it packs the source tree and pushes
// it to the registry's build-source location, returning the relative path
// token the build service consumes.
func (c *Client) Upload(ctx context.Context, registry, resourceGroup, sourceDir, archivePath, dockerfilePath, renamedDockerfile string) (string, error) {
	if err := archive.TarGzDir(sourceDir, archivePath, dockerfilePath, renamedDockerfile); err != nil {
		return "", err
	}

	upload, err := c.registries.GetBuildSourceUploadURL(ctx, resourceGroup, registry, nil)
	if err != nil {
		return "", fmt.Errorf("requesting build source upload url: %w", err)
	}
	if upload.UploadURL == nil || upload.RelativePath == nil {
		return "", errors.New("registry returned an incomplete upload definition")
	}

	blob, err := blockblob.NewClientWithNoCredential(*upload.UploadURL, nil)
	if err != nil {
		return "", fmt.Errorf("building upload client: %w", err)
	}
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive '%s': %w", archivePath, err)
	}
	defer f.Close()
	if _, err := blob.UploadFile(ctx, f, nil); err != nil {
		return "", fmt.Errorf("uploading source archive: %w", err)
	}
	return *upload.RelativePath, nil
}

// ScheduleRun implements build.RunScheduler by submitting a docker build
// request and waiting for it to be queued.
func (c *Client) ScheduleRun(ctx context.Context, resourceGroup, registry string, req build.Request) (string, error) {
	images := make([]*string, 0, len(req.ImageNames))
	for _, name := range req.ImageNames {
		images = append(images, to.Ptr(name))
	}
	var args []*armcontainerregistry.Argument
	for name, value := range req.Arguments {
		args = append(args, &armcontainerregistry.Argument{
			Name:  to.Ptr(name),
			Value: to.Ptr(value),
		})
	}

	request := &armcontainerregistry.DockerBuildRequest{
		ImageNames:     images,
		IsPushEnabled:  to.Ptr(req.PushEnabled),
		SourceLocation: to.Ptr(req.SourceLocation),
		DockerFilePath: to.Ptr(req.DockerfilePath),
		Platform: &armcontainerregistry.PlatformProperties{
			OS:           to.Ptr(armcontainerregistry.OS(req.OS)),
			Architecture: to.Ptr(armcontainerregistry.Architecture(req.Architecture)),
		},
		Arguments: args,
	}
	if req.Timeout > 0 {
		request.Timeout = to.Ptr(int32(req.Timeout.Seconds()))
	}

	poller, err := c.registries.BeginScheduleRun(ctx, resourceGroup, registry, request, nil)
	if err != nil {
		return "", fmt.Errorf("scheduling build run: %w", err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("scheduling build run: %w", err)
	}
	if resp.Properties == nil || resp.Properties.RunID == nil {
		return "", errors.New("build service returned no run id")
	}
	return *resp.Properties.RunID, nil
}

// resourceGroupFromID extracts the resource group segment from an ARM id.
func resourceGroupFromID(id string) string {
	parts := strings.Split(id, "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return parts[i+1]
		}
	}
	return ""
}

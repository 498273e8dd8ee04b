package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Client wraps the management-plane clients for one subscription. A fresh
// client is built per invocation; nothing is cached across runs.
type Client struct {
	subscriptionID string

	groups     *armresources.ResourceGroupsClient
	plans      *armappservice.PlansClient
	webApps    *armappservice.WebAppsClient
	management *armappservice.WebSiteManagementClient
	registries *armcontainerregistry.RegistriesClient
	runs       *armcontainerregistry.RunsClient
}

// NewClient builds management-plane clients for the subscription using the
// ambient credential chain (environment, managed identity, az CLI).
func NewClient(subscriptionID string) (*Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("building credential: %w", err)
	}

	groups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building resource group client: %w", err)
	}
	plans, err := armappservice.NewPlansClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building hosting plan client: %w", err)
	}
	webApps, err := armappservice.NewWebAppsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building web app client: %w", err)
	}
	management, err := armappservice.NewWebSiteManagementClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building management client: %w", err)
	}
	registries, err := armcontainerregistry.NewRegistriesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry client: %w", err)
	}
	runs, err := armcontainerregistry.NewRunsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry runs client: %w", err)
	}

	return &Client{
		subscriptionID: subscriptionID,
		groups:         groups,
		plans:          plans,
		webApps:        webApps,
		management:     management,
		registries:     registries,
		runs:           runs,
	}, nil
}

// SubscriptionID returns the subscription this client targets.
func (c *Client) SubscriptionID() string {
	return c.subscriptionID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

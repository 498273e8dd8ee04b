package azure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"azup/pkg/plan"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
)

// ResourceGroupExists implements plan.Inventory.
func (c *Client) ResourceGroupExists(ctx context.Context, name string) (bool, error) {
	resp, err := c.groups.CheckExistence(ctx, name, nil)
	if err != nil {
		return false, fmt.Errorf("checking resource group '%s': %w", name, err)
	}
	return resp.Success, nil
}

// ListHostingPlans implements plan.Inventory.
func (c *Client) ListHostingPlans(ctx context.Context, resourceGroup string) ([]plan.HostingPlan, error) {
	var out []plan.HostingPlan
	pager := c.plans.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing hosting plans in '%s': %w", resourceGroup, err)
		}
		for _, p := range page.Value {
			hp := plan.HostingPlan{
				Name:     deref(p.Name),
				Location: deref(p.Location),
			}
			if p.SKU != nil {
				hp.SKUTier = deref(p.SKU.Tier)
			}
			if p.Properties != nil && p.Properties.Reserved != nil {
				hp.Reserved = *p.Properties.Reserved
			}
			out = append(out, hp)
		}
	}
	return out, nil
}

// ListAppNames implements plan.Inventory.
func (c *Client) ListAppNames(ctx context.Context, resourceGroup string) ([]string, error) {
	var names []string
	pager := c.webApps.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing apps in '%s': %w", resourceGroup, err)
		}
		for _, site := range page.Value {
			names = append(names, deref(site.Name))
		}
	}
	return names, nil
}

// CountAppsInPlan implements plan.Inventory.
func (c *Client) CountAppsInPlan(ctx context.Context, resourceGroup, planName string) (int, error) {
	count := 0
	pager := c.plans.NewListWebAppsPager(resourceGroup, planName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("listing apps in plan '%s': %w", planName, err)
		}
		count += len(page.Value)
	}
	return count, nil
}

// DefaultLocation returns the first geo region that can host the given SKU
// tier, used when the caller supplies no location.
func (c *Client) DefaultLocation(ctx context.Context, skuTier string, linuxWorkersEnabled bool) (string, error) {
	opts := &armappservice.WebSiteManagementClientListGeoRegionsOptions{
		LinuxWorkersEnabled: to.Ptr(linuxWorkersEnabled),
	}
	for _, name := range armappservice.PossibleSKUNameValues() {
		if strings.EqualFold(string(name), skuTier) {
			opts.SKU = to.Ptr(name)
			break
		}
	}

	pager := c.management.NewListGeoRegionsPager(opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("listing geo regions: %w", err)
		}
		for _, region := range page.Value {
			if region.Name != nil {
				return *region.Name, nil
			}
		}
	}
	return "", errors.New("no geo region available for the requested sku")
}

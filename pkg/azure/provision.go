package azure

import (
	"context"
	"errors"
	"fmt"

	"azup/pkg/plan"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// PlanSpec describes a hosting plan to create.
type PlanSpec struct {
	Name     string
	Location string
	SKU      string
	IsLinux  bool
	HyperV   bool
	Workers  int32
}

// CreateResourceGroup creates or updates a resource group.
func (c *Client) CreateResourceGroup(ctx context.Context, name, location string) error {
	_, err := c.groups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(location),
	}, nil)
	if err != nil {
		return fmt.Errorf("creating resource group '%s': %w", name, err)
	}
	return nil
}

// CreateHostingPlan creates a hosting plan and waits for provisioning to
// finish. Requesting Linux and Hyper-V together is a user-input error.
func (c *Client) CreateHostingPlan(ctx context.Context, resourceGroup string, spec PlanSpec) error {
	if spec.IsLinux && spec.HyperV {
		return errors.New("usage error: --linux and --hyper-v are mutually exclusive")
	}

	sku := plan.NormalizeSKU(spec.SKU)
	tier, err := plan.SKUTierName(sku)
	if err != nil {
		return err
	}

	properties := &armappservice.PlanProperties{}
	if spec.IsLinux {
		properties.Reserved = to.Ptr(true)
	}
	if spec.HyperV {
		properties.HyperV = to.Ptr(true)
	}

	skuDef := &armappservice.SKUDescription{
		Name: to.Ptr(sku),
		Tier: to.Ptr(tier),
	}
	if spec.Workers > 0 {
		skuDef.Capacity = to.Ptr(spec.Workers)
	}

	poller, err := c.plans.BeginCreateOrUpdate(ctx, resourceGroup, spec.Name, armappservice.Plan{
		Location:   to.Ptr(spec.Location),
		SKU:        skuDef,
		Properties: properties,
	}, nil)
	if err != nil {
		return fmt.Errorf("creating hosting plan '%s': %w", spec.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("creating hosting plan '%s': %w", spec.Name, err)
	}
	return nil
}

// CreateWebApp creates an app on the named hosting plan and waits for it.
func (c *Client) CreateWebApp(ctx context.Context, resourceGroup, name, location, planName string) error {
	serverFarmID := fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Web/serverfarms/%s",
		c.subscriptionID, resourceGroup, planName)

	poller, err := c.webApps.BeginCreateOrUpdate(ctx, resourceGroup, name, armappservice.Site{
		Location: to.Ptr(location),
		Properties: &armappservice.SiteProperties{
			ServerFarmID: to.Ptr(serverFarmID),
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("creating app '%s': %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("creating app '%s': %w", name, err)
	}
	return nil
}

// Apply provisions everything the plan marks for creation, in dependency
// order. It refuses to touch a group the planner flagged as existing but
// OS-incompatible instead of colliding on the name.
func (c *Client) Apply(ctx context.Context, decision plan.Plan, req plan.Request) error {
	if err := decision.Validate(); err != nil {
		return err
	}

	if decision.CreateNewResourceGroup {
		if err := c.CreateResourceGroup(ctx, decision.ResourceGroupName, req.Location); err != nil {
			return err
		}
	}

	if decision.CreateNewPlan {
		spec := PlanSpec{
			Name:     decision.PlanName,
			Location: req.Location,
			SKU:      req.SKU,
			IsLinux:  req.IsLinux,
		}
		if req.IsLinux {
			spec.Workers = 1
		}
		if err := c.CreateHostingPlan(ctx, decision.ResourceGroupName, spec); err != nil {
			return err
		}
	}

	if decision.CreateNewApp {
		if err := c.CreateWebApp(ctx, decision.ResourceGroupName, req.AppName, req.Location, decision.PlanName); err != nil {
			return err
		}
	}
	return nil
}

package plan

import (
	"context"
	"fmt"
)

// HostingPlan is the inventory snapshot of an existing app-service plan.
type HostingPlan struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	SKUTier  string `json:"sku_tier"`
	Reserved bool   `json:"reserved"` // Linux-only plan
}

// Inventory reads the current state of a resource group from the management
// plane. Implementations do a single synchronous read per call and never
// cache; planner output is only as consistent as that snapshot.
type Inventory interface {
	// ResourceGroupExists reports whether the named resource group exists.
	ResourceGroupExists(ctx context.Context, name string) (bool, error)

	// ListHostingPlans returns all hosting plans in the resource group.
	ListHostingPlans(ctx context.Context, resourceGroup string) ([]HostingPlan, error)

	// ListAppNames returns the names of all apps in the resource group.
	ListAppNames(ctx context.Context, resourceGroup string) ([]string, error)

	// CountAppsInPlan returns the number of apps hosted on the named plan.
	CountAppsInPlan(ctx context.Context, resourceGroup, planName string) (int, error)
}

// Request carries the desired deployment target for one invocation.
type Request struct {
	ResourceGroup   string // already resolved, never empty
	Location        string
	SKU             string // SKU code, e.g. "B1" or "P1V2"
	PlanName        string // optional explicit hosting plan name
	DefaultPlanBase string // base for generated plan names
	IsLinux         bool
	AppName         string
}

// Plan is the create-or-reuse decision for one invocation. It is computed
// fresh each time and never persisted.
type Plan struct {
	ResourceGroupName      string `json:"resource_group_name"`
	CreateNewResourceGroup bool   `json:"create_new_resource_group"`

	// GroupExistsIncompatible is set when the group exists but hosts plans
	// for the other OS, so it cannot be reused. Provisioning should refuse
	// to proceed rather than collide on the existing name.
	GroupExistsIncompatible bool `json:"group_exists_incompatible,omitempty"`

	PlanName      string `json:"plan_name"`
	CreateNewPlan bool   `json:"create_new_plan"`

	CreateNewApp    bool `json:"create_new_app"`
	WarnTooManyApps bool `json:"warn_too_many_apps,omitempty"`
}

// Validate reports whether the plan can be provisioned at all. A group that
// exists but cannot be reused would collide on its own name, so provisioning
// must not be attempted.
func (p Plan) Validate() error {
	if p.GroupExistsIncompatible {
		return fmt.Errorf("%w: '%s'", ErrGroupIncompatible, p.ResourceGroupName)
	}
	return nil
}

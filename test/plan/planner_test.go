package plan_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"azup/pkg/plan"
)

// fakeInventory is an in-memory snapshot implementing plan.Inventory.
type fakeInventory struct {
	groups      map[string]bool
	plans       map[string][]plan.HostingPlan
	apps        map[string][]string
	appsPerPlan map[string]int
}

func (f *fakeInventory) ResourceGroupExists(_ context.Context, name string) (bool, error) {
	return f.groups[name], nil
}

func (f *fakeInventory) ListHostingPlans(_ context.Context, rg string) ([]plan.HostingPlan, error) {
	return f.plans[rg], nil
}

func (f *fakeInventory) ListAppNames(_ context.Context, rg string) ([]string, error) {
	return f.apps[rg], nil
}

func (f *fakeInventory) CountAppsInPlan(_ context.Context, _, planName string) (int, error) {
	return f.appsPerPlan[planName], nil
}

func baseRequest() plan.Request {
	return plan.Request{
		ResourceGroup:   "user_rg_linux_westus",
		Location:        "westus",
		SKU:             "B1",
		DefaultPlanBase: "user_rg_linux_westus",
		IsLinux:         true,
		AppName:         "myapp",
	}
}

func TestMissingGroupCreatesEverything(t *testing.T) {
	inv := &fakeInventory{groups: map[string]bool{}}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !decision.CreateNewResourceGroup {
		t.Error("Expected a new resource group")
	}
	if decision.GroupExistsIncompatible {
		t.Error("Missing group must not be flagged as incompatible")
	}
	if !decision.CreateNewPlan {
		t.Error("Expected a new hosting plan")
	}
	if decision.PlanName != "user_rg_linux_westus" {
		t.Errorf("Expected plan named after the default base, got %q", decision.PlanName)
	}
	if !decision.CreateNewApp {
		t.Error("Expected a new app")
	}
}

func TestEmptyGroupIsVacuouslyCompatible(t *testing.T) {
	req := baseRequest()
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
	}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if decision.CreateNewResourceGroup {
		t.Error("Group with zero plans must be reusable")
	}
	if !decision.CreateNewPlan {
		t.Error("Expected a new plan in the empty group")
	}
}

func TestIncompatibleOSBlocksReuse(t *testing.T) {
	// Existing group has one Linux-reserved plan, request is Windows.
	req := baseRequest()
	req.IsLinux = false
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
		plans: map[string][]plan.HostingPlan{
			req.ResourceGroup: {
				{Name: "linuxplan", Location: "westus", SKUTier: "Basic", Reserved: true},
			},
		},
	}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !decision.CreateNewResourceGroup {
		t.Error("Incompatible group must not be reused")
	}
	if !decision.GroupExistsIncompatible {
		t.Error("Expected the existing-but-incompatible flag")
	}
	if verr := decision.Validate(); !errors.Is(verr, plan.ErrGroupIncompatible) {
		t.Errorf("Expected ErrGroupIncompatible from Validate, got %v", verr)
	}
}

func TestValidatePassesCompatiblePlans(t *testing.T) {
	inv := &fakeInventory{groups: map[string]bool{}}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if verr := decision.Validate(); verr != nil {
		t.Errorf("Expected a fresh-infrastructure plan to validate, got %v", verr)
	}
}

func TestPlanReuseMatchesSKUAndLocation(t *testing.T) {
	req := baseRequest()
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
		plans: map[string][]plan.HostingPlan{
			req.ResourceGroup: {
				// Alphabetically later but matching; earlier one mismatches.
				{Name: "user_rg_linux_westus_2", Location: "West US", SKUTier: "basic", Reserved: true},
				{Name: "user_rg_linux_westus_1", Location: "eastus", SKUTier: "Basic", Reserved: true},
			},
		},
		apps: map[string][]string{req.ResourceGroup: {"other"}},
	}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if decision.CreateNewPlan {
		t.Error("Expected plan reuse")
	}
	if decision.PlanName != "user_rg_linux_westus_2" {
		t.Errorf("Expected reuse of user_rg_linux_westus_2, got %q", decision.PlanName)
	}
	if !decision.CreateNewApp {
		t.Error("Expected a new app when no name matches")
	}
}

func TestPlanNumberingIncrementsLastCandidate(t *testing.T) {
	// Candidates exist but none match the requested SKU: synthesize
	// "{base}_3" from the alphabetically-last candidate.
	req := baseRequest()
	req.SKU = "S1"
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
		plans: map[string][]plan.HostingPlan{
			req.ResourceGroup: {
				{Name: "user_rg_linux_westus_1", Location: "westus", SKUTier: "Basic", Reserved: true},
				{Name: "user_rg_linux_westus_2", Location: "westus", SKUTier: "Basic", Reserved: true},
			},
		},
	}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !decision.CreateNewPlan {
		t.Error("Expected a new plan")
	}
	if decision.PlanName != "user_rg_linux_westus_3" {
		t.Errorf("Expected user_rg_linux_westus_3, got %q", decision.PlanName)
	}
	if !decision.CreateNewApp {
		t.Error("A new plan always implies a new app")
	}
}

func TestExplicitPlanNameUsedVerbatim(t *testing.T) {
	req := baseRequest()
	req.SKU = "S1"
	req.PlanName = "user_rg_linux_westus_1"
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
		plans: map[string][]plan.HostingPlan{
			req.ResourceGroup: {
				{Name: "user_rg_linux_westus_1", Location: "westus", SKUTier: "Basic", Reserved: true},
			},
		},
	}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !decision.CreateNewPlan {
		t.Error("Expected a new plan when no candidate matches the SKU")
	}
	if decision.PlanName != "user_rg_linux_westus_1" {
		t.Errorf("Expected the explicit plan name verbatim, got %q", decision.PlanName)
	}
}

func TestAppReuseIsCaseInsensitive(t *testing.T) {
	req := baseRequest()
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
		plans: map[string][]plan.HostingPlan{
			req.ResourceGroup: {
				{Name: "user_rg_linux_westus_1", Location: "westus", SKUTier: "Basic", Reserved: true},
			},
		},
		apps: map[string][]string{req.ResourceGroup: {"MyApp"}},
	}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if decision.CreateNewPlan {
		t.Error("Expected plan reuse")
	}
	if decision.CreateNewApp {
		t.Error("Expected app reuse for a case-insensitive name match")
	}
}

func TestTooManyAppsWarning(t *testing.T) {
	req := baseRequest()
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
		plans: map[string][]plan.HostingPlan{
			req.ResourceGroup: {
				{Name: "user_rg_linux_westus_1", Location: "westus", SKUTier: "Basic", Reserved: true},
			},
		},
		appsPerPlan: map[string]int{"user_rg_linux_westus_1": 6},
	}
	planner := plan.NewPlanner(inv)

	decision, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !decision.WarnTooManyApps {
		t.Error("Expected a warning for a plan hosting more than 5 apps")
	}
}

func TestPlanIsIdempotentForUnchangedSnapshot(t *testing.T) {
	req := baseRequest()
	inv := &fakeInventory{
		groups: map[string]bool{req.ResourceGroup: true},
		plans: map[string][]plan.HostingPlan{
			req.ResourceGroup: {
				{Name: "user_rg_linux_westus_1", Location: "westus", SKUTier: "Basic", Reserved: true},
				{Name: "user_rg_linux_westus_2", Location: "eastus", SKUTier: "Standard", Reserved: true},
			},
		},
		apps: map[string][]string{req.ResourceGroup: {"myapp", "other"}},
	}
	planner := plan.NewPlanner(inv)

	first, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	second, err := planner.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical plans, got %+v and %+v", first, second)
	}
}

func TestInvalidSKUFails(t *testing.T) {
	req := baseRequest()
	req.SKU = "Z9"
	planner := plan.NewPlanner(&fakeInventory{})

	if _, err := planner.Plan(context.Background(), req); err == nil {
		t.Fatal("Expected invalid sku to fail")
	}
}

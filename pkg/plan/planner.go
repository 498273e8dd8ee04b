package plan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrGroupIncompatible is returned by provisioning layers when a plan flags
// the target resource group as existing but unusable for the requested OS.
var ErrGroupIncompatible = errors.New("resource group exists but its hosting plans target a different operating system")

// maxAppsPerPlan is the soft capacity heuristic for reused hosting plans;
// crossing it only produces a warning.
const maxAppsPerPlan = 5

// Planner decides whether to create or reuse deployment infrastructure based
// on a live inventory snapshot.
type Planner struct {
	inventory Inventory
}

// NewPlanner creates a planner reading from the given inventory.
func NewPlanner(inventory Inventory) *Planner {
	return &Planner{inventory: inventory}
}

// Plan applies the create-or-reuse rules to the current inventory snapshot.
// It performs reads only; nothing is provisioned here.
func (p *Planner) Plan(ctx context.Context, req Request) (Plan, error) {
	tier, err := SKUTierName(NormalizeSKU(req.SKU))
	if err != nil {
		return Plan{}, err
	}

	exists, err := p.inventory.ResourceGroupExists(ctx, req.ResourceGroup)
	if err != nil {
		return Plan{}, fmt.Errorf("checking resource group '%s': %w", req.ResourceGroup, err)
	}

	var plans []HostingPlan
	compatible := true
	if exists {
		plans, err = p.inventory.ListHostingPlans(ctx, req.ResourceGroup)
		if err != nil {
			return Plan{}, fmt.Errorf("listing hosting plans in '%s': %w", req.ResourceGroup, err)
		}
		// A single plan for the other OS makes the whole group unusable.
		// Zero plans are vacuously compatible.
		for _, hp := range plans {
			if hp.Reserved != req.IsLinux {
				compatible = false
				break
			}
		}
	}

	result := Plan{ResourceGroupName: req.ResourceGroup}

	if !exists || !compatible {
		result.CreateNewResourceGroup = true
		result.GroupExistsIncompatible = exists && !compatible
		result.PlanName = firstNonEmpty(req.PlanName, req.DefaultPlanBase)
		result.CreateNewPlan = true
		result.CreateNewApp = true
		return result, nil
	}

	planName, createPlan, err := p.selectHostingPlan(plans, req, tier)
	if err != nil {
		return Plan{}, err
	}
	result.PlanName = planName
	result.CreateNewPlan = createPlan

	if createPlan {
		result.CreateNewApp = true
		return result, nil
	}

	count, err := p.inventory.CountAppsInPlan(ctx, req.ResourceGroup, planName)
	if err != nil {
		return Plan{}, fmt.Errorf("counting apps in plan '%s': %w", planName, err)
	}
	result.WarnTooManyApps = count > maxAppsPerPlan

	result.CreateNewApp, err = p.shouldCreateApp(ctx, req.ResourceGroup, req.AppName)
	if err != nil {
		return Plan{}, err
	}
	return result, nil
}

// selectHostingPlan picks an existing plan to reuse, or names the new one to
// create. Candidates are the group's plans whose name contains the requested
// name (or the default base), alphabetically sorted; the first candidate
// matching SKU tier and location wins.
func (p *Planner) selectHostingPlan(plans []HostingPlan, req Request, tier string) (string, bool, error) {
	nameFilter := firstNonEmpty(req.PlanName, req.DefaultPlanBase)

	var candidates []HostingPlan
	for _, hp := range plans {
		if strings.Contains(hp.Name, nameFilter) {
			candidates = append(candidates, hp)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Name < candidates[j].Name
	})

	for _, hp := range candidates {
		if strings.EqualFold(hp.SKUTier, tier) && locationMatches(hp.Location, req.Location) {
			return hp.Name, false, nil
		}
	}

	if len(candidates) > 0 && req.PlanName == "" {
		name, err := nextPlanName(req.DefaultPlanBase, candidates[len(candidates)-1].Name)
		if err != nil {
			return "", false, err
		}
		return name, true, nil
	}
	return nameFilter, true, nil
}

// shouldCreateApp reports whether no app in the group already carries the
// target name (case-insensitive).
func (p *Planner) shouldCreateApp(ctx context.Context, resourceGroup, appName string) (bool, error) {
	names, err := p.inventory.ListAppNames(ctx, resourceGroup)
	if err != nil {
		return false, fmt.Errorf("listing apps in '%s': %w", resourceGroup, err)
	}
	for _, name := range names {
		if strings.EqualFold(name, appName) {
			return false, nil
		}
	}
	return true, nil
}

// nextPlanName generates "{base}_{n+1}" from the numeric suffix of the
// alphabetically-last existing candidate.
func nextPlanName(base, lastName string) (string, error) {
	tokens := strings.Split(lastName, "_")
	if len(tokens) < 5 {
		return "", fmt.Errorf("hosting plan name '%s' has no numeric suffix to increment", lastName)
	}
	n, err := strconv.Atoi(tokens[4])
	if err != nil {
		return "", fmt.Errorf("hosting plan name '%s' has no numeric suffix to increment: %w", lastName, err)
	}
	return fmt.Sprintf("%s_%d", base, n+1), nil
}

// locationMatches compares locations exactly or with spaces stripped, so
// "West US" matches "westus".
func locationMatches(planLocation, requested string) bool {
	if planLocation == requested {
		return true
	}
	stripped := strings.ToLower(strings.ReplaceAll(planLocation, " ", ""))
	return stripped == strings.ToLower(requested)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

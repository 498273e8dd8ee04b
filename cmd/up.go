package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"azup/pkg/archive"
	"azup/pkg/config"
	"azup/pkg/detector"
	"azup/pkg/plan"
	"azup/pkg/util"

	"github.com/spf13/cobra"
)

var (
	upResourceGroup string
	upPlanName      string
	upAppName       string
	upSKU           string
	upLocation      string
	upLinux         bool
	upDryRun        bool
)

var upCmd = &cobra.Command{
	Use:   "up [SOURCE_PATH]",
	Short: "Create or reuse infrastructure and deploy a source tree",
	Long: `Detects the runtime of the source directory, then reuses or creates the
resource group, hosting plan, and app needed to host it. Names not given
explicitly are derived from your account, OS flavor, and location.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runUp,
}

func init() {
	upCmd.Flags().StringVarP(&upResourceGroup, "resource-group", "g", "", "resource group to deploy into (default: derived from your account)")
	upCmd.Flags().StringVar(&upPlanName, "plan", "", "hosting plan to use or create")
	upCmd.Flags().StringVarP(&upAppName, "name", "n", "", "app name (default: source directory name)")
	upCmd.Flags().StringVar(&upSKU, "sku", "", "hosting plan SKU (default: from runtime detection)")
	upCmd.Flags().StringVarP(&upLocation, "location", "l", "", "region to deploy into")
	upCmd.Flags().BoolVar(&upLinux, "linux", false, "provision Linux hosting")
	upCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "print the infrastructure plan without provisioning")
}

func runUp(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	sourceDir := "."
	if len(args) > 0 {
		sourceDir = args[0]
	}
	sourceDir, err := util.ValidateSourceDir(sourceDir)
	if err != nil {
		fatal(err)
	}

	profile, err := detector.Detect(sourceDir)
	if err != nil {
		fatal(err)
	}

	sku := firstNonEmpty(upSKU, profile.DefaultSKU, config.DefaultSKU)

	// Interpreted runtimes default to Linux hosting unless the user says
	// otherwise.
	isLinux := upLinux
	if !cmd.Flags().Changed("linux") {
		isLinux = profile.Language == detector.LanguagePython || profile.Language == detector.LanguageNode
	}

	client, account, err := newClient()
	if err != nil {
		fatal(err)
	}

	cliDefaults, err := config.LoadCLIDefaults()
	if err != nil {
		fatal(err)
	}

	location := firstNonEmpty(upLocation, cliDefaults.Location)
	if location == "" {
		if tier, terr := plan.SKUTierName(plan.NormalizeSKU(sku)); terr == nil {
			location, _ = client.DefaultLocation(ctx, tier, isLinux)
		}
		location = firstNonEmpty(location, config.DefaultLocation)
	}

	user := plan.UserPrefix(account.UserName)
	appName := firstNonEmpty(upAppName, filepath.Base(sourceDir))
	req := plan.Request{
		ResourceGroup:   plan.ResourceGroupName(firstNonEmpty(upResourceGroup, cliDefaults.Group), user, isLinux, location),
		Location:        location,
		SKU:             sku,
		PlanName:        upPlanName,
		DefaultPlanBase: plan.PlanBaseName(user, isLinux, location),
		IsLinux:         isLinux,
		AppName:         appName,
	}

	decision, err := plan.NewPlanner(client).Plan(ctx, req)
	if err != nil {
		fatal(err)
	}

	if upDryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(decision)
		return
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Subscription:"), client.SubscriptionID())
	reportPlan(decision)

	err = runWithSpinner("Provisioning infrastructure...", func() error {
		applyCtx, cancel := context.WithTimeout(ctx, config.DefaultProvisionTimeout)
		defer cancel()
		return client.Apply(applyCtx, decision, req)
	})
	if err != nil {
		fatal(err)
	}

	zipPath, err := archive.ZipDir(sourceDir, profile.Language)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Packed source into '%s'\n", zipPath)
	fmt.Printf("%s\n", endingMsgStyle.Render(
		fmt.Sprintf("App '%s' is ready in resource group '%s' (plan '%s')",
			appName, decision.ResourceGroupName, decision.PlanName)))
}

func reportPlan(decision plan.Plan) {
	if decision.CreateNewResourceGroup {
		fmt.Printf("Creating resource group '%s'...\n", decision.ResourceGroupName)
	} else {
		fmt.Printf("Resource group '%s' already exists.\n", decision.ResourceGroupName)
	}
	if decision.CreateNewPlan {
		fmt.Printf("Creating hosting plan '%s'...\n", decision.PlanName)
	} else {
		fmt.Printf("Reusing hosting plan '%s'.\n", decision.PlanName)
	}
	if decision.WarnTooManyApps {
		fmt.Printf("%s\n", warnStyle.Render(
			fmt.Sprintf("Plan '%s' already hosts more than 5 apps; consider a dedicated plan.", decision.PlanName)))
	}
	if !decision.CreateNewApp {
		fmt.Println("App already exists, it will be updated in place.")
	}
}

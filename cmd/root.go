package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"azup/pkg/detector"
	"azup/pkg/util"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	jsonOutput bool

	logoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#3C9DFF")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	endingMsgStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
)

const Logo = `
 █████╗ ███████╗██╗   ██╗██████╗
██╔══██╗╚══███╔╝██║   ██║██╔══██╗
███████║  ███╔╝ ██║   ██║██████╔╝
██╔══██║ ███╔╝  ██║   ██║██╔═══╝
██║  ██║███████╗╚██████╔╝██║
╚═╝  ╚═╝╚══════╝ ╚═════╝ ╚═╝
`

var rootCmd = &cobra.Command{
	Use:   "azup [SOURCE_PATH]",
	Short: "Deploy a local source tree to the app service platform",
	Long: Logo + `
azup inspects a source directory to infer its runtime, decides whether to
reuse or create the resource group, hosting plan, and app it needs, and hands
the archived source to the platform's build and deployment services.`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	Run:     runRootCommand,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRootCommand(cmd *cobra.Command, args []string) {
	sourceDir := "."
	if len(args) > 0 {
		sourceDir = args[0]
	}

	sourceDir, err := util.ValidateSourceDir(sourceDir)
	if err != nil {
		fatal(err)
	}

	if jsonOutput {
		profile, err := detector.Detect(sourceDir)
		if err != nil {
			fatal(err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(profile)
		return
	}

	fmt.Printf("%s\n", logoStyle.Render(Logo))

	var profile detector.Profile
	err = runWithSpinner("Detecting runtime...", func() error {
		var derr error
		profile, derr = detector.Detect(sourceDir)
		return derr
	})
	if err != nil {
		fatal(err)
	}

	printProfile(profile)
}

func printProfile(p detector.Profile) {
	if !p.Detected() {
		fmt.Println("No supported runtime detected in this directory.")
		return
	}
	fmt.Printf("%s %s\n", labelStyle.Render("Language:"), p.Language)
	if p.EvidencePath != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("Evidence:"), p.EvidencePath)
	}
	fmt.Printf("%s %s\n", labelStyle.Render("Detected version:"), p.DetectedVersion)
	fmt.Printf("%s %s\n", labelStyle.Render("Runtime to provision:"), p.ProvisionVersion)
	fmt.Printf("%s %s\n", labelStyle.Render("Default SKU:"), p.DefaultSKU)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(containerCmd)
}

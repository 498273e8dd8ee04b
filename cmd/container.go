package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"azup/pkg/build"
	"azup/pkg/util"

	"github.com/spf13/cobra"
)

var (
	containerRegistry string
	containerImage    string
)

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Remote container build commands",
}

var containerUpCmd = &cobra.Command{
	Use:   "up [SOURCE_PATH]",
	Short: "Build and push a container image from local source",
	Long: `Archives the source directory, uploads it to the registry's build service,
queues a docker build for it, and streams the build logs. The directory must
contain a Dockerfile at its root.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runContainerUp,
}

var containerCredentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Show the registry's admin credentials",
	Long: `Looks up the container registry and prints its admin username and password,
for configuring an app or a docker login against the registry. The admin user
must be enabled on the registry.`,
	Args: cobra.NoArgs,
	Run:  runContainerCredentials,
}

func init() {
	containerUpCmd.Flags().StringVarP(&containerRegistry, "registry", "r", "", "container registry name (required)")
	containerUpCmd.Flags().StringVarP(&containerImage, "image", "t", "", "image name and tag (default: derived from the source directory)")
	containerUpCmd.MarkFlagRequired("registry")

	containerCredentialsCmd.Flags().StringVarP(&containerRegistry, "registry", "r", "", "container registry name (required)")
	containerCredentialsCmd.MarkFlagRequired("registry")

	containerCmd.AddCommand(containerUpCmd)
	containerCmd.AddCommand(containerCredentialsCmd)
}

func runContainerUp(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	sourceDir := "."
	if len(args) > 0 {
		sourceDir = args[0]
	}
	sourceDir, err := util.ValidateSourceDir(sourceDir)
	if err != nil {
		fatal(err)
	}
	if _, err := util.RequireDockerfile(sourceDir); err != nil {
		fatal(err)
	}

	client, _, err := newClient()
	if err != nil {
		fatal(err)
	}

	registryRG, err := client.FindRegistry(ctx, containerRegistry)
	if err != nil {
		fatal(err)
	}

	image := firstNonEmpty(containerImage, build.ImageName(sourceDir))
	fmt.Printf("Queueing build for image '%s' in registry '%s'...\n", image, containerRegistry)

	runID, err := build.QueueBuild(ctx, build.Dependencies{
		Uploader:  client,
		Scheduler: client,
		Logs:      client,
	}, build.Options{
		ResourceGroup: registryRG,
		Registry:      containerRegistry,
		ImageName:     image,
		SourceDir:     sourceDir,
		Out:           os.Stdout,
	})
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%s\n", endingMsgStyle.Render(fmt.Sprintf("Build run '%s' succeeded", runID)))
}

func runContainerCredentials(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()

	client, _, err := newClient()
	if err != nil {
		fatal(err)
	}

	registryRG, err := client.FindRegistry(ctx, containerRegistry)
	if err != nil {
		fatal(err)
	}

	username, password, err := client.RegistryCredentials(ctx, registryRG, containerRegistry)
	if err != nil {
		fatal(err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]string{"username": username, "password": password})
		return
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Username:"), username)
	fmt.Printf("%s %s\n", labelStyle.Render("Password:"), password)
}

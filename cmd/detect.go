package cmd

import (
	"github.com/spf13/cobra"
)

// detectCmd is an explicit alias for the root detection behavior
var detectCmd = &cobra.Command{
	Use:   "detect [SOURCE_PATH]",
	Short: "Detect the runtime of a source directory",
	Long: `Inspects the source directory for language evidence (requirements.txt,
package.json, *.csproj, *.html) and reports the runtime profile that would be
provisioned for it.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDetect,
}

func runDetect(cmd *cobra.Command, args []string) {
	runRootCommand(cmd, args)
}

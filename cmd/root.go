package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "chromeshell",
	Short: "A thin client shell around a local Chromium",
	Long: `chromeshell launches a local Chromium with the shell's switch policy,
fans lifecycle notifications out to the registered delegates, and loads
bundled ("internal") extensions from the shell's resource bundle.

Configuration comes from the environment (a .env file is honored):
  CHROMESHELL_CHROME                path of the Chromium/Chrome executable
  CHROMESHELL_RESOURCE_DIR          on-disk override for bundled resources
  CHROMESHELL_REMOTE_DEBUGGING_PORT default DevTools port for 'run'`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env files are fine; the environment still applies.
		_ = godotenv.Load()
	},
}

func init() {
	// Browser switches are spelled with hyphens; accept underscores too.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// Root returns the root command for execution.
func Root() *cobra.Command {
	return rootCmd
}

package cli

import (
	"github.com/spf13/cobra"
)

// newConfigValidateCmd creates the config validate command. Loading already
// validates, so reaching RunE means the config is usable.
func newConfigValidateCmd(s *session) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Example: `  # Validate the resolved configuration
  adpatch config validate

  # Validate a specific file and show the effective values
  adpatch --config ci/adpatch.yaml config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("Configuration is valid\n")
			if verbose {
				cfg := s.cfg
				cmd.Println()
				cmd.Println("Configuration details:")
				cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
				cmd.Printf("  Base path: %s\n", cfg.BasePath)
				cmd.Printf("  Profile: %s\n", cfg.Profile)
				cmd.Printf("  File overrides: %d\n", len(cfg.Files))
				cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
				cmd.Printf("  Log file: %s\n", cfg.Logging.File)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the effective configuration")

	return cmd
}

package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/adpatch/internal/config"
)

// NewConfigInitCmd creates the config init command, which writes a config
// file holding the defaults.
func NewConfigInitCmd() *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Example: `  # Create ./adpatch.yaml
  adpatch config init

  # Overwrite an existing file
  adpatch config init --force`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			if path != "" {
				cfg.SetConfigPath(path)
			}

			if !force {
				exists, err := cfg.Exists()
				if err != nil {
					return err
				}
				if exists {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
			}

			if err := cfg.Save(); err != nil {
				return err
			}

			cmd.Printf("Configuration initialized at %s\n", cfg.ConfigPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&path, "path", "", "file to write (default ./"+config.DefaultFileName+")")

	return cmd
}

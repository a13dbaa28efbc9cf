package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/adpatch/internal/patch"
)

// newListCmd creates the list command, which prints resolved target paths.
func newListCmd(s *session) *cobra.Command {
	var basePath, profile string

	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "Print the full paths of the target files",
		Example: `  # Targets of the configured profile
  adpatch list

  # Targets of the split profile under another checkout
  adpatch list --profile split --base-path ../site/src/app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, base, files, err := targets(s.cfg, basePath, profile, args)
			if err != nil {
				return err
			}
			p, err := patch.New(patch.Options{BasePath: base, Files: files})
			if err != nil {
				return err
			}
			for _, rel := range p.Files() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), p.FullPath(rel))
			}
			return nil
		},
	}

	addTargetFlags(cmd, &basePath, &profile)

	return cmd
}

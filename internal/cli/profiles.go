package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/adpatch/internal/patch"
)

// tabwriterPadding is the minimum padding between columns.
const tabwriterPadding = 2

// newProfilesCmd creates the profiles command.
func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in rule profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabwriterPadding, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tMARKER\tFILES\tRULES\tDESCRIPTION")
			for _, name := range patch.ProfileNames() {
				p, err := patch.LookupProfile(name)
				if err != nil {
					return err
				}
				marker := p.Rules.Marker
				if marker == "" {
					marker = "-"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					name, marker, len(p.Files), strings.Join(p.Rules.RuleNames(), ","), p.Description)
			}
			return w.Flush()
		},
	}
}

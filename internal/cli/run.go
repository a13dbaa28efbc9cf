package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/adpatch/internal/config"
	"github.com/rshade/adpatch/internal/patch"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	basePath string
	profile  string
	dryRun   bool
	summary  bool
}

// newRunCmd creates the run command, which patches the target files.
func newRunCmd(s *session) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Patch the target page files",
		Long: `Applies the selected profile's rules to each target file under the base path.

Each file is reported on its own line:
  File not found: <full path>    the file does not exist, nothing written
  Already updated: <path>        the marker is present, nothing written
  Updated: <path>                rules applied and the file rewritten
  Skipped: <path> (...)          a required anchor is missing, nothing written

Positional paths, relative to the base path, replace the profile's file list.
Any read or write failure stops the run; files patched before it stay patched.`,
		Example: `  # Patch with the defaults
  adpatch run

  # Preview without writing
  adpatch run --dry-run --summary

  # Patch a single page of another checkout
  adpatch run --base-path ../site/src/app ocr/page.tsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, s, opts, args)
		},
	}

	addTargetFlags(cmd, &opts.basePath, &opts.profile)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a count summary after Done!")

	return cmd
}

// addTargetFlags registers the flags that select the target files.
func addTargetFlags(cmd *cobra.Command, basePath, profile *string) {
	cmd.Flags().StringVar(basePath, "base-path", "",
		"directory the target paths are relative to (overrides config and "+config.EnvBasePath+")")
	cmd.Flags().StringVar(profile, "profile", "",
		"rule profile: banner, split or repair (overrides config and "+config.EnvProfile+")")
}

// targets resolves the profile, base path and file list for a command.
// args win over the config's files, which win over the profile's list.
func targets(cfg *config.Config, basePath, profileName string, args []string) (patch.Profile, string, []string, error) {
	if profileName == "" {
		profileName = cfg.Profile
	}
	profile, err := patch.LookupProfile(profileName)
	if err != nil {
		return patch.Profile{}, "", nil, err
	}

	base, err := cfg.ResolveBasePath(basePath)
	if err != nil {
		return patch.Profile{}, "", nil, err
	}

	files := profile.Files
	switch {
	case len(args) > 0:
		files = args
	case len(cfg.Files) > 0:
		files = cfg.Files
	}

	return profile, base, files, nil
}

// runPatch executes the patcher for the run command and the bare root.
func runPatch(cmd *cobra.Command, s *session, opts runOptions, args []string) error {
	profile, base, files, err := targets(s.cfg, opts.basePath, opts.profile, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p, err := patch.New(patch.Options{
		BasePath: base,
		Files:    files,
		Rules:    profile.Rules,
		DryRun:   opts.dryRun,
		Reporter: patch.NewConsoleReporter(out, isTerminal(out), opts.summary),
	})
	if err != nil {
		return err
	}

	logger.Debug().
		Str("profile", profile.Rules.Name).
		Str("base_path", base).
		Int("files", len(files)).
		Msg("starting patch run")

	_, err = p.Run(cmd.Context())
	return err
}

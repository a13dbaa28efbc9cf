package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/adpatch/internal/config"
	"github.com/rshade/adpatch/internal/logging"
)

// skipConfigAnnotation marks commands that must run without loading the
// config file, such as `config init`.
const skipConfigAnnotation = "adpatch/skip-config"

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// session is the state shared by every command of one invocation.
type session struct {
	lookupEnv func(string) (string, bool)
	cfg       *config.Config
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the adpatch CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	return newRootCmd(ver, &session{lookupEnv: lookupEnv})
}

func newRootCmd(ver string, s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adpatch",
		Short: "Patch page sources with vertical ad slots",
		Long: `adpatch rewrites a fixed list of Next.js page sources in place, injecting
the ad banner import and wrapping page content with left and right ad slots.
Files that already carry the banner are left alone, so re-running is safe.

Running adpatch with no subcommand is the same as "adpatch run".`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd, s.cfg)
			s.logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(s.logResult)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPatch(cmd, s, runOptions{}, nil)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default ./adpatch.yaml, then the XDG config dir)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(
		newRunCmd(s),
		newListCmd(s),
		newProfilesCmd(),
		newConfigCmd(s),
	)
	s.closeLogOnError(cmd)

	return cmd
}

// closeLogOnError wraps the RunE of cmd and its children so a failing command
// still releases the log file. Cobra skips PersistentPostRunE after an error.
func (s *session) closeLogOnError(cmd *cobra.Command) {
	for _, child := range cmd.Commands() {
		s.closeLogOnError(child)
	}
	runE := cmd.RunE
	if runE == nil {
		return
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		err := runE(c, args)
		if err != nil {
			if closeErr := cleanupLogging(s.logResult); closeErr != nil {
				logger.Debug().Err(closeErr).Msg("closing log file")
			}
		}
		return err
	}
}

// loadConfig resolves the config for this invocation. Commands carrying
// skipConfigAnnotation get the defaults.
func (s *session) loadConfig(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfigAnnotation] != "" {
		s.cfg = config.New()
		return nil
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, s.lookupEnv)
	if err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

const rootCmdExample = `  # Patch every page of the default profile under ./src/app
  adpatch

  # Preview which pages would change
  adpatch run --dry-run

  # Patch pages of another checkout
  adpatch run --base-path ../PDFConverter/src/app

  # Patch only two pages
  adpatch run ocr/page.tsx quiz/page.tsx

  # Apply the left/right component variant
  adpatch run --profile split

  # Show the files a profile targets
  adpatch list --profile split

  # Write a starter config
  adpatch config init`

// newConfigCmd creates the config command group.
func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), newConfigValidateCmd(s))
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/adpatch/internal/config"
	"github.com/rshade/adpatch/internal/logging"
)

// setupLogging configures logging from the config and the --debug flag and
// attaches the logger and a fresh run id to the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.LogPathResult {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	lc := loggingCfg.ToLoggingConfig()
	lc.Caller = debug
	result := logging.NewLoggerWithPath(lc, cmd.ErrOrStderr())

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	runID := logging.NewRunID()
	logger = logging.ComponentLogger(result.Logger, "cli").With().Str("run_id", runID).Logger()

	// Packages below the CLI tag their own loggers from the context run id.
	ctx := logging.ContextWithRunID(cmd.Context(), runID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().
		Str("command", cmd.Name()).
		Str("config", cfg.ConfigPath()).
		Msg("command started")

	return result
}

// cleanupLogging closes the log file handle, if any. It is safe to call more
// than once.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}

// Package cli implements the courier command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Project-Sylos/Courier/internal/config"
	"github.com/Project-Sylos/Courier/internal/gofile"
	"github.com/Project-Sylos/Courier/internal/logging"
	"github.com/Project-Sylos/Courier/internal/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "dev"

// Exit codes
const (
	ExitSuccess  = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitAPIError = 3
)

// usageError marks errors caused by the command line itself
type usageError struct {
	error
}

func (e usageError) Unwrap() error { return e.error }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usage), gofile.IsValidation(err):
		return ExitUsage
	case gofile.IsAPIError(err):
		return ExitAPIError
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// globalFlags are the persistent flags of the root command
type globalFlags struct {
	configPath string
	envFile    string
	token      string
	baseURL    string
	insecure   bool
	logLevel   string
	logFormat  string
	jsonOutput bool
}

// app carries what every command needs once the flags are parsed
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	flags  globalFlags

	cfg    *types.Config
	log    *zap.Logger
	client *gofile.Client
}

// NewRootCommand builds the courier command tree
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "courier",
		Short: "Command line client for the gofile.io API",
		Long: `Courier uploads files to gofile.io and manages the folders of an account.

The account token is taken from --token, the GOFILE_TOKEN environment
variable, the "token" key of the .env file or the config file, in that order.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.configPath, "config", config.DefaultConfigPath, "Config file")
	flags.StringVar(&a.flags.envFile, "env-file", "", "File holding token=<token> (default ./.env)")
	flags.StringVar(&a.flags.token, "token", "", "Account token")
	flags.StringVar(&a.flags.baseURL, "base-url", "", "API base URL")
	flags.BoolVar(&a.flags.insecure, "insecure", false, "Allow plain http URLs (local sandbox)")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.flags.logFormat, "log-format", "", "Log format: console, json")
	flags.BoolVar(&a.flags.jsonOutput, "json", false, "Print results as JSON")

	root.AddCommand(
		newGetServerCommand(a),
		newUploadFileCommand(a),
		newGetContentCommand(a),
		newGetContentsCommand(a),
		newCreateFolderCommand(a),
		newSetFolderOptionCommand(a),
		newCopyContentCommand(a),
		newDeleteContentCommand(a),
		newGetAccountDetailsCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads the configuration, applies the flags and builds the client
func (a *app) setup(cmd *cobra.Command) error {
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.Load(a.flags.configPath, explicit)
	if err != nil {
		return usageError{err}
	}

	if a.flags.envFile != "" {
		cfg.Account.EnvFile = a.flags.envFile
	}
	if a.flags.insecure {
		cfg.API.Insecure = true
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return usageError{err}
	}

	if a.flags.token != "" {
		cfg.Account.Token = a.flags.token
	}
	if a.flags.baseURL != "" {
		cfg.API.BaseURL = a.flags.baseURL
	}
	if a.flags.logLevel != "" {
		cfg.Logging.Level = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		cfg.Logging.Format = a.flags.logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return usageError{err}
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := gofile.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger
	a.client = client
	logger.Debug("configured",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("token", cfg.Account.Token != ""),
	)
	return nil
}

// Execute runs the command line and returns the exit code. Errors are
// printed once to errOut.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCommand(in, out, errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// checkArgs fails with a usage error unless minArgs <= len(args) <= maxArgs.
// maxArgs < 0 means no upper bound.
func checkArgs(minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < minArgs {
			return usagef("command %s needs %d arguments minimum: you provided %d", cmd.Name(), minArgs, len(args))
		}
		if maxArgs >= 0 && len(args) > maxArgs {
			return usagef("command %s needs %d arguments maximum: you provided %d: %q", cmd.Name(), maxArgs, len(args), args)
		}
		return nil
	}
}

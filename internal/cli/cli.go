package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/specialistvlad/ardublockgo/internal/app"
	"github.com/specialistvlad/ardublockgo/internal/hcl"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

func failure(err error) *ExitError {
	return &ExitError{Code: 1, Message: err.Error()}
}

// state is shared by the root command and its subcommands. The App is built
// once flags are parsed.
type state struct {
	configPath string
	logLevel   string
	logFormat  string
	board      string
	logW       io.Writer
	app        *app.App
}

// NewRootCommand builds the command tree. Command output goes to outW, logs to
// errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	st := &state{logW: errW}
	cmd := &cobra.Command{
		Use:   "ardublock",
		Short: "Compile block workspaces into Arduino sketches",
		Long: "ardublock loads block workspaces written in HCL, checks that every block\n" +
			"using a named hardware instance has a matching configuration block, and\n" +
			"generates the Arduino sketch they describe.\n",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: st.setup,
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&st.configPath, "config", "", "Path to a YAML config file.")
	cmd.PersistentFlags().StringVar(&st.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	cmd.PersistentFlags().StringVar(&st.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	cmd.PersistentFlags().StringVar(&st.board, "board", "", "Board profile overriding the workspace board.")
	cmd.SetOut(outW)
	cmd.SetErr(errW)

	cmd.AddCommand(
		newGenerateCommand(st),
		newValidateCommand(st),
		newFormatCommand(st),
		newPublishCommand(st),
		newKindsCommand(st),
	)
	return cmd
}

// setup resolves the configuration: defaults, then the config file, then
// flags given explicitly on the command line.
func (st *state) setup(cmd *cobra.Command, _ []string) error {
	cfg := app.DefaultConfig()
	if st.configPath != "" {
		loaded, err := app.LoadConfigFile(st.configPath, cfg)
		if err != nil {
			return usageError(err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(st.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = strings.ToLower(st.logFormat)
	}
	if flags.Changed("board") {
		cfg.Board = st.board
	}
	if f := flags.Lookup("url"); f != nil && f.Changed {
		cfg.Publish.URL = f.Value.String()
	}
	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		timeout, err := flags.GetDuration("timeout")
		if err != nil {
			return usageError(err)
		}
		cfg.Publish.Timeout = timeout
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return usageError(err)
	}
	st.app = app.NewApp(st.logW, validated, hcl.NewLoader(), hcl.NewWriter())
	return nil
}

// Execute runs the command line args. Every returned error is an *ExitError;
// cobra's own argument and flag errors map to exit code 2.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err)
}

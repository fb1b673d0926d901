package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ofchat-go/internal/cli/config"
	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/infra/buildinfo"
	"github.com/yndnr/ofchat-go/internal/telemetry/logger"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
)

// runtimeKey is the metadata key holding the *Runtime.
const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "ofchat-cli",
		Usage:   "Register and sign in to OfChat",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RegisterCommand(),
			LoginCommand(),
			LogoutCommand(),
			WhoamiCommand(),
			StatusCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before:          setup,
		After:           teardown,
		ExitErrHandler:  exitErrHandler,
		HideHelpCommand: true,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.ofchat/cli.yaml)",
			EnvVars: []string{"OFCHAT_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory holding the saved session",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log diagnostics to stderr",
		},
		&cli.StringFlag{
			Name:  "metrics-textfile",
			Usage: "Write client metrics to this file on exit (node-exporter textfile format)",
		},
	}
}

// flagOverrides maps explicitly set global flags onto config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("data-dir") {
		overrides["session.data_dir"] = c.String("data-dir")
	}
	if c.IsSet("output") {
		overrides["output.format"] = c.String("output")
	}
	return overrides
}

// setup loads the configuration and prepares the Runtime.
func setup(c *cli.Context) error {
	var cfg *config.CLIConfig
	if initializing(c) {
		cfg = config.Default()
	} else {
		var err error
		cfg, err = config.Load(c.String("config"), flagOverrides(c))
		if err != nil {
			return cli.Exit(fmt.Sprintf("load config: %v", err), 2)
		}
	}

	level := cfg.Log.Level
	if c.Bool("verbose") {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:  level,
		Format: logger.FormatText,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[runtimeKey] = &Runtime{
		Config:     cfg,
		ConfigPath: c.String("config"),
		Logger:     log,
		Metrics:    metric.NewRegistry(metric.WithoutRuntimeCollectors()),
		In:         c.App.Reader,
		Out:        c.App.Writer,
		ErrOut:     c.App.ErrWriter,
		textfile:   c.String("metrics-textfile"),
	}
	return nil
}

// initializing reports whether this run is "config init", which must work
// before any config file exists.
func initializing(c *cli.Context) bool {
	args := c.Args().Slice()
	return len(args) >= 2 && args[0] == "config" && args[1] == "init"
}

// teardown releases the Runtime.
func teardown(c *cli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil
	}
	return rt.Close()
}

// getRuntime returns the Runtime set up for this run.
func getRuntime(c *cli.Context) (*Runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

// exitErrHandler prints the error. Domain errors print as
// "<category>: <reason>". The exit status is left to the caller; see
// ExitCode.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) && exitCoder.Error() == "" {
		return
	}
	fmt.Fprintln(c.App.ErrWriter, "Error: "+describe(err))
}

// ExitCode returns the process exit status for an error returned by the
// application.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		return exitCoder.ExitCode()
	}
	return 1
}

// describe renders err for the user.
func describe(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return fmt.Sprintf("%s: %s", de.Category, de.Reason())
	}
	return err.Error()
}

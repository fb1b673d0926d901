package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ofchat-go/internal/cli/config"
	"github.com/yndnr/ofchat-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Local configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write a configuration file with the default settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

// configShow prints the merged configuration. Nested sections do not fit
// a table, so the table format prints YAML.
func configShow(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	formatter := rt.Formatter()
	if _, ok := formatter.(*output.TableFormatter); ok {
		formatter = &output.YAMLFormatter{}
	}
	return formatter.Format(rt.Out, rt.Config)
}

func configInit(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	path := rt.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("%s already exists; use --force to overwrite", path), 1)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(rt.Out, "Wrote %s\n", path)
	return nil
}

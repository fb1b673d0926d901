package command

import (
	"context"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ofchat-go/internal/cli/connection"
	"github.com/yndnr/ofchat-go/internal/infra/buildinfo"
)

// pingAttempts bounds the retries of a status probe.
const pingAttempts = 3

// ServiceStatus is one row of the status output.
type ServiceStatus struct {
	Service   string        `json:"service" yaml:"service"`
	URL       string        `json:"url" yaml:"url"`
	Reachable bool          `json:"reachable" yaml:"reachable"`
	Detail    string        `json:"detail" yaml:"detail"`
	Latency   time.Duration `json:"latency" yaml:"latency"`
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check that the verification and account services answer",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	verification, accounts := rt.Clients()
	targets := []struct {
		name   string
		client *connection.HTTPClient
	}{
		{"verification", verification},
		{"account", accounts},
	}

	statuses := make([]ServiceStatus, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i] = probe(c.Context, t.name, t.client)
		}()
	}
	wg.Wait()

	if err := rt.Print(statuses); err != nil {
		return err
	}
	for _, s := range statuses {
		if !s.Reachable {
			return cli.Exit("", 1)
		}
	}
	return nil
}

func probe(ctx context.Context, name string, client *connection.HTTPClient) ServiceStatus {
	start := time.Now()
	banner, err := client.Ping(ctx, pingAttempts)
	status := ServiceStatus{
		Service:   name,
		URL:       client.BaseURL(),
		Reachable: err == nil,
		Detail:    banner,
		Latency:   time.Since(start).Round(time.Millisecond),
	}
	if err != nil {
		status.Detail = describe(err)
	}
	return status
}

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			rt, err := getRuntime(c)
			if err != nil {
				return err
			}
			return rt.Print(buildinfo.Get())
		},
	}
}

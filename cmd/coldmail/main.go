package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"alfredoptarigan/cold-mail-generator/internal/client"
	"alfredoptarigan/cold-mail-generator/internal/config"
	"alfredoptarigan/cold-mail-generator/internal/logger"
	"alfredoptarigan/cold-mail-generator/internal/ui/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := logger.Init(logger.DefaultDir()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	defer logger.Close()

	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path to the TOML config file (default ~/.config/coldmail/config.toml)",
	}

	app := &cli.Command{
		Name:   "coldmail",
		Usage:  "Generate cold emails for job postings",
		Flags:  []cli.Flag{configFlag},
		Action: tuiAction,
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "Open the interactive job URL form",
				Action: tuiAction,
			},
			{
				Name:      "submit",
				Usage:     "Submit one job URL and print the generated email",
				ArgsUsage: "<job-url>",
				Action:    submitAction,
			},
			{
				Name:  "config",
				Usage: "Show or change the CLI configuration",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the current configuration",
						Action: configShowAction,
					},
					{
						Name:      "set",
						Usage:     "Set a configuration value",
						ArgsUsage: "key=value",
						Action:    configSetAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.LogError(err, "command failed")
		if !errors.Is(err, tui.ErrGenerationFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		logger.Close()
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.ClientConfig, string, error) {
	path := cmd.String("config")
	if path == "" {
		defaultPath, err := config.ClientConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = defaultPath
	}

	cfg, err := config.LoadClientConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newClient(cmd *cli.Command) (*client.Client, time.Duration, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, 0, err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	log.Printf("using API at %s (timeout %s)", cfg.BaseURL, timeout)
	return client.NewClient(cfg.BaseURL, timeout), timeout, nil
}

func tuiAction(ctx context.Context, cmd *cli.Command) error {
	apiClient, timeout, err := newClient(cmd)
	if err != nil {
		return err
	}

	if err := apiClient.CheckHealth(ctx); err != nil {
		logger.LogError(err, "API health check failed")
	}

	return tui.Run(ctx, apiClient, timeout)
}

func submitAction(ctx context.Context, cmd *cli.Command) error {
	jobURL := cmd.Args().First()

	apiClient, timeout, err := newClient(cmd)
	if err != nil {
		return err
	}

	return tui.Submit(ctx, os.Stdout, apiClient, jobURL, timeout)
}

func configShowAction(ctx context.Context, cmd *cli.Command) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("# %s\n", path)
	fmt.Print(cfg.String())
	return nil
}

func configSetAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: coldmail config set key=value")
	}

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Set(cmd.Args().First()); err != nil {
		return err
	}

	if err := config.SaveClientConfig(path, cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Updated %s\n", path)
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/harunnryd/verblume/internal/api"
	"github.com/harunnryd/verblume/internal/config"
	"github.com/harunnryd/verblume/internal/gateway"
	"github.com/harunnryd/verblume/internal/model"
	"github.com/harunnryd/verblume/internal/planner"
	"github.com/harunnryd/verblume/internal/progress"
	"github.com/harunnryd/verblume/internal/render"

	"github.com/spf13/cobra"
)

// app bundles the pieces a command needs, built from the loaded config.
type app struct {
	cfg      *config.Config
	metrics  *api.Metrics
	planner  *planner.Planner
	store    *progress.Store
	renderer render.Renderer
}

func gatewayPolicy(c config.GatewayConfig) (gateway.Policy, error) {
	delay, err := config.DurationOrDefault(c.InitialDelay, config.DefaultGatewayInitialDelay)
	if err != nil {
		return gateway.Policy{}, fmt.Errorf("gateway.initial_delay: %w", err)
	}
	return gateway.Policy{MaxAttempts: c.MaxAttempts, InitialDelay: delay}, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	loaded, err := loadConfigForCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	format, err := render.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(format)
	if err != nil {
		return nil, err
	}

	router, err := model.NewModelRouter(loaded.Models)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model router: %w", err)
	}

	policy, err := gatewayPolicy(loaded.Gateway)
	if err != nil {
		return nil, err
	}
	metrics := api.NewMetrics()
	gw := gateway.New(policy, gateway.WithObserver(metrics))

	store, err := progress.Open(loaded.Store)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      loaded,
		metrics:  metrics,
		planner:  planner.New(router, gw, planner.ConfigFrom(loaded)),
		store:    store,
		renderer: renderer,
	}, nil
}

// openStore is for commands that only touch learner data.
func openStore(cmd *cobra.Command) (*progress.Store, render.Renderer, error) {
	loaded, err := loadConfigForCommand(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	format, err := render.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, nil, err
	}
	renderer, err := render.New(format)
	if err != nil {
		return nil, nil, err
	}
	store, err := progress.Open(loaded.Store)
	if err != nil {
		return nil, nil, err
	}
	return store, renderer, nil
}

func loadConfigForCommand(cmd *cobra.Command) (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	return config.Load(cmd)
}

func printOut(s string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, s)
	return nil
}

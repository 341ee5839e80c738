package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iongraph/iongraph/pkg/config"
	"github.com/iongraph/iongraph/pkg/store"

	"github.com/iongraph/iongraph/internal/httpapi"
)

// serveCommand creates the serve command, exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		mongo   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve computed layouts over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, mongo, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (default from config, or :8080)")
	cmd.Flags().StringVar(&mongo, "mongo-uri", "", "MongoDB connection string for persistent layout storage (in-memory if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout/artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI string, noCache bool) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr == "" {
		addr = cfg.Serve.Addr
	}
	if addr == "" {
		addr = ":8080"
	}
	if mongoURI == "" {
		mongoURI = cfg.Serve.Mongo
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer runner.Close()

	var backingStore store.Store
	if mongoURI != "" {
		mongoStore, err := store.NewMongoStore(ctx, mongoURI, "iongraph", "layouts")
		if err != nil {
			return fmt.Errorf("connect to mongo: %w", err)
		}
		defer mongoStore.Close(ctx)
		backingStore = mongoStore
		c.Logger.Infof("Persisting layouts to %s", mongoURI)
	} else {
		backingStore = store.NewMemStore()
		c.Logger.Info("No mongo-uri configured; persisted layouts are in-memory only")
	}

	server := &httpapi.Server{Runner: runner, Store: backingStore, Logger: c.Logger}

	c.Logger.Infof("Listening on %s", addr)
	return httpapi.Serve(ctx, addr, server)
}

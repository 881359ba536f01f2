package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/memobit/labsql/internal/api"
	"github.com/memobit/labsql/schema"
)

type cmdServe struct {
	global *cmdGlobal

	flagListen string
}

// Command generates the command definition.
func (c *cmdServe) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "serve"
	cmd.Short = "Serve the tracker API"
	cmd.Long = `Description:
  Serve the tracker API

  The server stops gracefully on SIGINT or SIGTERM.
`
	cmd.RunE = c.Run
	cmd.Flags().StringVarP(&c.flagListen, "listen", "l", "", "Address to listen on, overrides the configuration"+"``")

	return cmd
}

// Run runs the actual command logic.
func (c *cmdServe) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	cfg, err := c.global.load()
	if err != nil {
		return err
	}

	if c.flagListen != "" {
		cfg.Listen = c.flagListen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	db, err := c.global.connect(ctx, cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewServer(db, api.WithDebug(cfg.Debug), api.WithLogger(log.StandardLogger())).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("listen", cfg.Listen).Info("Starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("API server failed: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("Failed to shut down the API server: %w", err)
	}

	return nil
}

func schemaLogger(logger log.FieldLogger) schema.Option {
	return schema.WithLogger(logger.WithField("component", "schema"))
}

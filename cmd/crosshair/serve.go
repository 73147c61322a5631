package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/demo"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
)

type serveOptions struct {
	ConfigPaths []string
	Addr        string
	BaseDir     string
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart sessions over HTTP",
		Long: `Serve exposes chart interaction sessions over a JSON HTTP API. Documents
passed with -c are loaded at startup; more can be posted to /charts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := root.newLogger(cmd.ErrOrStderr(), "serve")
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			srv, err := newDemoServer(opts, log)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), srv, opts.Addr, log)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.ConfigPaths, "config", "c", nil, "Chart documents to load at startup")
	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&opts.BaseDir, "base-dir", ".", "Directory for relative workbook paths in posted documents")

	return cmd
}

// newDemoServer creates the server and registers a session per document.
func newDemoServer(opts serveOptions, log *logger.Logger) (*demo.Server, error) {
	baseDir, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	srv := demo.NewServer(demo.Options{Logger: log, BaseDir: baseDir})

	for _, path := range opts.ConfigPaths {
		if err := validateConfigPath(path); err != nil {
			return nil, err
		}
		c, err := chart.Load(path, chart.WithLogger(log), chart.WithProgress(srv.Progress()))
		if err != nil {
			return nil, err
		}
		sess, err := srv.AddChart(c)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", path, err)
		}
		log.Info("chart loaded", "config", path, "session_id", sess.ID)
	}
	return srv, nil
}

func runServe(ctx context.Context, srv *demo.Server, addr string, log *logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

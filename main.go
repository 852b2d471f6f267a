// File: main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "selfie-captcha",
		Short:         "Selfie grid captcha server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newPreviewCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		debug      bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the captcha HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if debug {
				cfg.Server.Debug = true
				cfg.Log.Level = "debug"
			}
			setupLogger(cfg.Log)
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")
	cmd.Flags().BoolVar(&debug, "debug", false, "strict invariants and debug logging")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var (
		grid     int
		fraction float64
		seed     int64
		reveal   bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate one challenge and print it to the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if grid < 1 || grid > maxGridSize {
				return fmt.Errorf("%w: --grid must be between 1 and %d", ErrConfiguration, maxGridSize)
			}
			def := DefaultConfig().Captcha
			var rnd Rand = newRand()
			if cmd.Flags().Changed("seed") {
				rnd = rand.New(rand.NewSource(seed))
			}
			ch, err := GenerateChallenge(rnd, grid, def.Shapes, def.Colors, fraction)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderPreview(ch, reveal))
			return nil
		},
	}
	cmd.Flags().IntVar(&grid, "grid", 5, "grid size N")
	cmd.Flags().Float64Var(&fraction, "fraction", 0.5, "share of sectors carrying a watermark")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for a reproducible grid")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "highlight the correct sectors")
	return cmd
}

func setupLogger(cfg LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func serve(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := NewMetrics(reg)

	store := NewSessionStore(cfg, metrics, log.Logger)
	defer store.Close()
	if cfg.Server.SessionTTL > 0 {
		go store.RunSweeper(ctx, cfg.Server.SessionTTL, time.Minute)
	}

	h := NewHandler(store, cfg.Captcha, log.Logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(h, reg, log.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Int("grid", cfg.Captcha.GridSize).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("run server")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
		return err
	}
	return nil
}

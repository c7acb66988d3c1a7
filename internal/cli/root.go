// Package cli implements escrowctl, the operator CLI for the escrow.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/xraph/escrow/api"
	audithook "github.com/xraph/escrow/audit_hook"
	"github.com/xraph/escrow/observability"
	"github.com/xraph/escrow/plugin"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
	driver     string
	journal    string
	height     uint32
	history    bool
}

// NewRootCommand builds the escrowctl command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:           "escrowctl",
		Short:         "Operate a recurring-access subscription escrow",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&o.driver, "driver", "", "journal driver: memory or bolt")
	root.PersistentFlags().StringVar(&o.journal, "journal", "", "bolt journal file")

	root.AddCommand(
		newSimulateCommand(o),
		newInspectCommand(o),
		newServeCommand(o),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// load resolves the config and applies flags that were set explicitly.
func (o *rootOptions) load(cmd *cobra.Command) (Config, *slog.Logger, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return cfg, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = o.driver
	}
	if flags.Changed("journal") {
		cfg.Journal = o.journal
		if !flags.Changed("driver") {
			cfg.Driver = "bolt"
		}
	}
	if flags.Changed("height") {
		cfg.Height = o.height
	}
	if err := cfg.validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, cfg.Logger(cmd.ErrOrStderr()), nil
}

func newSimulateCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate SCRIPT",
		Short: "Run a YAML call script against the simulated ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.load(cmd)
			if err != nil {
				return err
			}
			sc, err := LoadScript(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := start(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.stop() }()

			out := cmd.OutOrStdout()
			if err := sc.run(ctx, rt, out); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return report(ctx, out, rt.engine, o.history)
		},
	}
	cmd.Flags().BoolVar(&o.history, "history", false, "print the journal after the run")
	return cmd
}

func newInspectCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Replay a journal and print the resulting state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := o.load(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := start(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.stop() }()

			return report(ctx, cmd.OutOrStdout(), rt.engine, o.history)
		},
	}
	cmd.Flags().Uint32Var(&o.height, "height", 0, "ledger height to evaluate expiries at")
	cmd.Flags().BoolVar(&o.history, "history", false, "print the journal")
	return cmd
}

func newServeCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP query surface and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := o.load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			rt, err := start(ctx, cfg, logger, servePlugins(reg, logger)...)
			if err != nil {
				return err
			}
			defer func() { _ = rt.stop() }()

			srv := &http.Server{
				Addr:              cfg.Listen,
				Handler:           newServeHandler(cfg, rt, reg, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return listen(ctx, srv, logger)
		},
	}
	cmd.Flags().Uint32Var(&o.height, "height", 0, "simulated ledger height")
	return cmd
}

// servePlugins wires metrics into reg and the audit trail into the log.
func servePlugins(reg *prometheus.Registry, logger *slog.Logger) []plugin.Plugin {
	reg.MustRegister(collectors.NewGoCollector())

	audit := audithook.New(audithook.RecorderFunc(func(ctx context.Context, ev *audithook.AuditEvent) error {
		logger.InfoContext(ctx, "audit",
			"id", ev.ID,
			"action", ev.Action,
			"resource_id", ev.ResourceID,
			"outcome", ev.Outcome,
		)
		return nil
	}), audithook.WithLogger(logger))

	return []plugin.Plugin{
		observability.NewMetricsExtension(observability.NewPrometheusFactory(reg, "")),
		audit,
	}
}

func newServeHandler(cfg Config, rt *runtime, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Mount(cfg.BasePath, api.New(rt.engine, api.WithLogger(logger)).Handle())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func listen(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("escrowctl: listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("escrowctl: shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

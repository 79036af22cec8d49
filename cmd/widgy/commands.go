package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	widgy "github.com/goliatone/go-cms-widgy"
	"github.com/goliatone/go-cms-widgy/internal/permissions"
	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
)

type rootOptions struct {
	configPath string
}

type serveOptions struct {
	addr     string
	seed     bool
	devStaff bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "widgy",
		Short:         "Serve widgy page previews and form endpoints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	return cmd
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview and form HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.HTTP.Addr = opts.addr
			}

			var moduleOpts []widgy.Option
			if opts.devStaff {
				moduleOpts = append(moduleOpts, widgy.WithPrincipalResolver(devPrincipal{}))
			}
			module, err := widgy.New(cfg, moduleOpts...)
			if err != nil {
				return err
			}
			defer module.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := prepare(ctx, module, opts.seed); err != nil {
				return err
			}

			handler, err := module.Handler()
			if err != nil {
				return err
			}
			return listen(ctx, cmd, cfg.HTTP.Addr, handler)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides http.addr)")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Load demo pages before serving")
	cmd.Flags().BoolVar(&opts.devStaff, "dev-staff", false, "Treat every request as a staff user (local use only)")
	return cmd
}

func newSeedCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create tables and load demo pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			module, err := widgy.New(cfg)
			if err != nil {
				return err
			}
			defer module.Close()

			if err := module.Migrate(cmd.Context()); err != nil {
				return err
			}
			demo, err := module.Seed(cmd.Context())
			if errors.Is(err, widgy.ErrAlreadySeeded) {
				fmt.Fprintln(cmd.OutOrStdout(), "demo data already present")
				return nil
			}
			if err != nil {
				return err
			}
			container := module.Container()
			fmt.Fprintf(cmd.OutOrStdout(), "published preview: %s\n", container.PreviewURL(demo.PublishedRoot))
			fmt.Fprintf(cmd.OutOrStdout(), "draft preview:     %s\n", container.PreviewURL(demo.ContactRoot))
			fmt.Fprintf(cmd.OutOrStdout(), "orphan preview:    %s\n", container.PreviewURL(demo.OrphanRoot))
			return nil
		},
	}
}

func loadConfig(path string) (widgy.Config, error) {
	if path == "" {
		return widgy.DefaultConfig(), nil
	}
	return widgy.LoadConfig(path)
}

func prepare(ctx context.Context, module *widgy.Module, seed bool) error {
	container := module.Container()
	if container.AutoMigrate() {
		if err := module.Migrate(ctx); err != nil {
			return err
		}
	}
	if !seed {
		return nil
	}
	if _, err := module.Seed(ctx); err != nil && !errors.Is(err, widgy.ErrAlreadySeeded) {
		return err
	}
	return nil
}

func listen(ctx context.Context, cmd *cobra.Command, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "widgy listening on %s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type devPrincipal struct{}

func (devPrincipal) CurrentPrincipal(context.Context) (interfaces.Principal, error) {
	return permissions.StaticPrincipal{
		Subject:     "dev",
		Staff:       true,
		Permissions: permissions.NewSet(permissions.PreviewPermission),
	}, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/artpar/favtag/internal/config"
	"github.com/artpar/favtag/internal/server"
	"github.com/artpar/favtag/internal/store/sqlite"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	ListenAddr     string
	AllowedOrigins []string
}

// NewServeCommand creates the serve command.
func NewServeCommand(global *GlobalOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tagging server",
		Long:  "Serve the tagging API over HTTP from the local SQLite database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ListenAddr, "listen", "l", "", "Address to listen on (default from config)")
	cmd.Flags().StringSliceVar(&opts.AllowedOrigins, "allow-origin", nil, "Origins allowed by CORS")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, global *GlobalOptions, opts *ServeOptions) error {
	if global.LogFile == "" {
		// The server runs in the foreground; log to the terminal by default.
		global.LogFile = "-"
	}
	cfg, logger, err := global.setup()
	if err != nil {
		return err
	}

	if opts.ListenAddr != "" {
		config.WithListenAddr(opts.ListenAddr)(&cfg)
	}
	if len(opts.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = opts.AllowedOrigins
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	s, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	srv := server.New(s, cfg.Server, logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tagging server listening on http://%s\n", srv.ListenAddr())

	<-ctx.Done()
	return srv.Stop()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the fenceline command-line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/fenceline/internal/server"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP API.
const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP diagnostics API",
		Long: `Serve the segmentation engine over HTTP.

Endpoints:
  POST /v1/segments    split a buffer
  POST /v1/validate    report a dangling fence
  POST /v1/blocks      extract code blocks
  POST /v1/crosscheck  compare against CommonMark
  GET  /health         health check
  GET  /stats          usage statistics`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			srv := server.New(server.Options{
				Config:  cfg,
				Version: Version,
				Logger:  a.logger,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", srv.Addr())

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&host, "host", server.DefaultHost, "listen host")
	cmd.Flags().IntVarP(&port, "port", "p", server.DefaultPort, "listen port")
	return cmd
}

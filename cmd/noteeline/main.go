package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yungbote/noteeline-backend/internal/app"
	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/data/db"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/platform/shutdown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "noteeline",
		Short:         "Note-taking expansion backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(), newExportCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := shutdown.NotifyContext(cmd.Context())
			defer stop()

			a, err := app.New(ctx)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			defer a.Close()
			if err := a.Run(ctx); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env)
			if err != nil {
				return err
			}
			defer log.Sync()
			dbs, err := db.Open(cfg.Database, log)
			if err != nil {
				return err
			}
			defer dbs.Close()
			if err := db.AutoMigrateAll(dbs.DB()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", cfg.Database.Driver)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <note>",
		Short: "Write a note's session log as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := app.New(ctx)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			defer a.Close()

			file, err := a.Services.Sessions.ExportStored(ctx, args[0])
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(file.Artifact, "", "  ")
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, file.FileName)
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"awesomeblog/cmd/app"
	"awesomeblog/internal/config"
	"awesomeblog/internal/database"
	"awesomeblog/internal/logger"
	"awesomeblog/internal/models"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Connect(ctx, cfg, log)
			if err != nil {
				log.Error("startup failed", zap.Error(err))
				return err
			}
			defer a.Close()

			return a.Serve(ctx)
		},
	}
}

func newSchemaCmd() *cobra.Command {
	var driver string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL for every model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if driver == "" {
				cfg, err := config.LoadConfig()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				driver = cfg.DB.Driver
			}
			dialect, err := database.DialectFor(driver)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range models.Registry().All() {
				for _, stmt := range s.DDL(dialect.TableOptions) {
					fmt.Fprintf(out, "%s;\n", dialect.TranslateDDL(stmt))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "database driver (mysql, postgres, sqlite3); defaults to the configured one")
	return cmd
}

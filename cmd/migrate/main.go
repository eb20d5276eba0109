package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"leadgen-backend/config"
	mongorepo "leadgen-backend/internal/repository/mongo"
	"leadgen-backend/internal/repository/postgres"
	"leadgen-backend/pkg/database"
	"leadgen-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	migrateDryRun  bool
	migrateTimeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the submission store",
		Long: `Creates the tables (PostgreSQL) or indexes (MongoDB) used by the intake API.

The store is chosen the same way the API chooses it: MONGODB_URI wins over DATABASE_URL.

Examples:
  migrate up
  migrate schema > schema.sql`,
	}

	rootCmd.PersistentFlags().DurationVar(&migrateTimeout, "timeout", 30*time.Second, "give up after this long")
	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(schemaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply the schema to the configured store",
		Args:  cobra.NoArgs,
		RunE:  runUp,
	}
	cmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "print what would be applied without connecting")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the PostgreSQL schema",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), postgres.Schema())
		},
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	switch {
	case cfg.MongoURI != "":
		if migrateDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "Would create createdAt indexes in MongoDB database %q\n", cfg.MongoDatabase)
			return nil
		}
		client, err := database.NewMongoConnection(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())
		if err := mongorepo.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "MongoDB indexes are up to date")
		return nil

	case cfg.DBUrl != "":
		if migrateDryRun {
			fmt.Fprint(cmd.OutOrStdout(), postgres.Schema())
			return nil
		}
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "PostgreSQL schema is up to date")
		return nil
	}

	return fmt.Errorf("no submission store configured: set MONGODB_URI or DATABASE_URL")
}

package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/service"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the history schema and tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := database.Migrate(db, log); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully.")
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var station, passphrase string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange the station passphrase for API tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}

			svc := service.NewAuthService(cfg.Auth, auth.NewJWTManager(cfg.JWT), log)
			pair, err := svc.Login(context.Background(), station, passphrase, "cli")
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pair)
		},
	}
	cmd.Flags().StringVar(&station, "station", "cli", "Station name recorded as token subject")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Station passphrase")
	_ = cmd.MarkFlagRequired("passphrase")

	cmd.AddCommand(hashCmd())
	return cmd
}

func hashCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the bcrypt hash to use as AUTH_PASSPHRASE_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashPassphrase(passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase to hash")
	_ = cmd.MarkFlagRequired("passphrase")
	return cmd
}

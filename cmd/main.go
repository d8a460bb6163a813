package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ConciergeService/internal/infra/migrations"
	"github.com/m04kA/SMC-ConciergeService/internal/seed"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "concierge",
		Short: "SMC Concierge scheduling service",
		Long:  "Provider calendars, bookable windows, provider ranking and slot reservation for the concierge platform.",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to the TOML configuration file")

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		seedCmd(),
		syncAvailabilityCmd(),
		reconcileTasksCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			migrator := migrations.NewMigrator(a.dbm, a.txManager)
			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			migrator := migrations.NewMigrator(a.dbm, a.txManager)
			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format(time.RFC3339)
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}

	cmd.AddCommand(upCmd, statusCmd)
	return cmd
}

func seedCmd() *cobra.Command {
	var (
		providerID int64
		days       int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo providers with weekday slots, or fill the schedule of an existing provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := seed.DefaultConfig()
			if days > 0 {
				cfg.Days = days
			}
			seeder := seed.NewSeeder(a.providerRepository, a.slotRepository, a.availability, cfg, a.log)

			if providerID > 0 {
				return seedProvider(cmd.Context(), a, seeder, providerID)
			}

			result, err := seeder.Run(cmd.Context(), seed.DefaultProviders())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Printf("Seeded %d provider(s), %d resource(s), %d slot(s).\n", result.Providers, result.Resources, result.Slots)
			return nil
		},
	}

	cmd.Flags().Int64Var(&providerID, "provider-id", 0, "fill the schedule of an existing provider instead of creating demo providers")
	cmd.Flags().IntVar(&days, "days", 0, "how many days ahead to generate (default 14)")
	return cmd
}

func seedProvider(ctx context.Context, a *app, seeder *seed.Seeder, providerID int64) error {
	provider, err := a.providerRepository.GetByID(ctx, providerID)
	if err != nil {
		return fmt.Errorf("provider %d: %w", providerID, err)
	}
	resource, err := a.slots.EnsureDefaultResource(ctx, providerID)
	if err != nil {
		return err
	}

	n, err := seeder.SeedSlots(ctx, provider, &resource.ID)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	fmt.Printf("Created %d slot(s) for provider %d (%s).\n", n, provider.ID, provider.Name)
	return nil
}

func syncAvailabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-availability",
		Short: "Recompute the next-available shortcut for every provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.availability.SyncAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Providers: %d, updated: %d, failed: %d\n", result.Total, result.Updated, result.Failed)
			return nil
		},
	}
}

func reconcileTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-tasks",
		Short: "Create missing confirmation and follow-up tasks for existing bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath, false)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.tasks.ReconcileMissing(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Bookings: %d, tasks created: %d, failed: %d\n", result.Bookings, result.Created, result.Failed)
			return nil
		},
	}
}

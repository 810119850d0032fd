package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/cmd/cli/commands"
	"github.com/oakfieldcare/rota-engine/internal/config"
	"github.com/oakfieldcare/rota-engine/pkg/core/availability"
	"github.com/oakfieldcare/rota-engine/pkg/core/schedule"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
	"github.com/oakfieldcare/rota-engine/pkg/postgres"
	"github.com/oakfieldcare/rota-engine/pkg/utils/logging"
)

var app *commands.AppContext

func main() {
	rootCmd := &cobra.Command{
		Use:   "rota",
		Short: "Care rota validation engine",
		Long:  `Validates proposed care shifts against the scheduling rules, resolves carer availability, and manages single and batch shift writes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(commands.ValidateShiftCmd(appRef))
	rootCmd.AddCommand(commands.CreateShiftCmd(appRef))
	rootCmd.AddCommand(commands.UpdateShiftCmd(appRef))
	rootCmd.AddCommand(commands.CheckAvailabilityCmd(appRef))
	rootCmd.AddCommand(commands.WeekViewCmd(appRef))
	rootCmd.AddCommand(commands.ImportShiftsCmd(appRef))
	rootCmd.AddCommand(commands.PlanRecurringCmd(appRef))
	rootCmd.AddCommand(commands.ConfirmShiftCmd(appRef))
	rootCmd.AddCommand(commands.DeleteShiftsCmd(appRef))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef defers AppContext access until after PersistentPreRunE has run
func appRef() *commands.AppContext {
	return app
}

// initApp sets up the logger, config, database and engine components
func initApp() error {
	ctx := context.Background()

	logger, err := logging.InitLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	validator := validation.New(database, logger,
		validation.WithWeeklyHourLimit(cfg.Scheduling.WeeklyHourLimit),
		validation.WithRestPeriod(cfg.Scheduling.RestPeriodHours))

	resolver := availability.New(database, logger,
		availability.WithWeeklyHourLimit(cfg.Scheduling.WeeklyHourLimit),
		availability.WithRestPeriod(cfg.Scheduling.RestPeriodHours),
		availability.WithConcurrency(cfg.Scheduling.AvailabilityConcurrency))

	aggregator := schedule.New(database, validator, logger)

	app = &commands.AppContext{
		Cfg:        cfg,
		Store:      database,
		Validator:  validator,
		Resolver:   resolver,
		Aggregator: aggregator,
		Logger:     logger,
		Ctx:        ctx,
	}

	logger.Info("application initialized",
		zap.Float64("weeklyHourLimit", cfg.Scheduling.WeeklyHourLimit),
		zap.Float64("restPeriodHours", cfg.Scheduling.RestPeriodHours))

	return nil
}

package main

import (
	"fmt"

	"go-catalog-api/internal/constraint"
	"go-catalog-api/internal/model"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const checksFlag = "checks"

var migrateFlags = map[string]cobraflags.Flag{
	checksFlag: &cobraflags.StringFlag{
		Name:  checksFlag,
		Value: "sync",
		Usage: "CHECK constraint handling after AutoMigrate (sync, skip)",
	},
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and add missing CHECK constraints",
		RunE:  migrateCommand,
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

func migrateCommand(cmd *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	checks := migrateFlags[checksFlag].GetString()
	if checks != "sync" && checks != "skip" {
		return fmt.Errorf("invalid --%s value %q", checksFlag, checks)
	}

	if err := e.db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if checks == "skip" {
		fmt.Fprintln(cmd.OutOrStdout(), "Tables migrated, CHECK constraints skipped")
		return nil
	}

	added, err := constraint.Sync(cmd.Context(), e.db, e.log, model.All()...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tables migrated, %d CHECK constraints added\n", len(added))
	return nil
}

func newConstraintsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "constraints",
		Short: "Print the CHECK constraints derived from the models",
		Long: `Print the CHECK constraints derived from the column classes of every model.

The plan is built offline against the PostgreSQL dialect; no connection is made.`,
		RunE: constraintsCommand,
	}
}

func constraintsCommand(cmd *cobra.Command, _ []string) error {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return err
	}

	checks, err := constraint.Plan(db, model.All()...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), constraint.Format(checks))
	return nil
}

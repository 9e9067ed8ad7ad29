package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qx/budget_robot/internal/config"
	"github.com/qx/budget_robot/internal/store"
	"github.com/qx/budget_robot/internal/svc"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations to PostgreSQL",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	c := loadConfig()
	if c.Database.Driver != config.DriverPostgres {
		return errors.New("migrate needs Database.Driver: postgres")
	}
	if err := c.Validate(false); err != nil {
		return err
	}
	c.MustSetUp()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool := svc.MustConnect(ctx, c.Database)
	defer pool.Close()

	if err := store.Migrate(ctx, pool); err != nil {
		return err
	}
	fmt.Println("  Schema is up to date.")
	return nil
}

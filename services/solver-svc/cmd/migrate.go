package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"kflow/migrations"
	"kflow/pkg/apperror"
	"kflow/pkg/database"
)

type cmdMigrateUp struct{}

type cmdMigrateDown struct{}

type cmdMigrateStatus struct{}

func init() {
	mustAddCmd(cmdMigrate, "up", "Apply pending migrations", "Apply all pending migrations", &cmdMigrateUp{})
	mustAddCmd(cmdMigrate, "down", "Roll back one migration", "Roll back the most recently applied migration", &cmdMigrateDown{})
	mustAddCmd(cmdMigrate, "status", "Show migration status", "Show every embedded migration and whether it is applied", &cmdMigrateStatus{})
}

// withMigrator открывает базу и отдаёт мигратор в fn
func withMigrator(fn func(ctx context.Context, m *database.Migrator) error) error {
	ctx := context.Background()

	app, err := startup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	db, err := app.database(ctx)
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(db.Pool(), migrations.Postgres())
	if err != nil {
		return apperror.Wrap(err, apperror.CodeDatabase, "failed to create migrator")
	}
	defer m.Close()

	return fn(ctx, m)
}

func (cmd *cmdMigrateUp) Execute([]string) error {
	return withMigrator(func(ctx context.Context, m *database.Migrator) error {
		n, err := m.Up(ctx)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeDatabase, "migrate up failed")
		}
		fmt.Fprintf(os.Stdout, "applied %d migrations\n", n)
		return nil
	})
}

func (cmd *cmdMigrateDown) Execute([]string) error {
	return withMigrator(func(ctx context.Context, m *database.Migrator) error {
		if err := m.Down(ctx); err != nil {
			return apperror.Wrap(err, apperror.CodeDatabase, "migrate down failed")
		}
		fmt.Fprintln(os.Stdout, "rolled back one migration")
		return nil
	})
}

func (cmd *cmdMigrateStatus) Execute([]string) error {
	return withMigrator(func(ctx context.Context, m *database.Migrator) error {
		statuses, err := m.Status(ctx)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeDatabase, "migrate status failed")
		}

		var table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Version", "Source", "Applied"})
		for _, s := range statuses {
			table.Append([]string{strconv.FormatInt(s.Version, 10), s.Source, strconv.FormatBool(s.Applied)})
		}
		table.Render()
		return nil
	})
}

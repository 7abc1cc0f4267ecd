package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/report"
	"kflow/services/solver-svc/internal/repository"
)

type runArgs struct {
	ID string `positional-arg-name:"run-id" description:"Run UUID"`
}

type cmdHistoryList struct {
	Limit  int `short:"n" long:"limit" description:"Maximum number of runs to show (default history.list_limit)"`
	Offset int `long:"offset" description:"Number of newest runs to skip"`
}

type cmdHistoryShow struct {
	Format string  `short:"f" long:"format" choice:"text" choice:"table" choice:"json" choice:"csv" choice:"markdown" choice:"xlsx" choice:"pdf" description:"Report format (default report.format)"`
	Output string  `short:"o" long:"output" default:"-" description:"Report file to write. Use - for stdout"`
	Args   runArgs `positional-args:"yes" required:"yes"`
}

type cmdHistoryDelete struct {
	Args runArgs `positional-args:"yes" required:"yes"`
}

func init() {
	mustAddCmd(cmdHistory, "list", "List stored runs", "List stored runs, newest first", &cmdHistoryList{})
	mustAddCmd(cmdHistory, "show", "Show a stored run", "Render the stored solution of a run as a report", &cmdHistoryShow{})
	mustAddCmd(cmdHistory, "delete", "Delete a stored run", "Delete a run from history", &cmdHistoryDelete{})
}

// openHistory поднимает приложение и репозиторий истории
func openHistory(ctx context.Context) (*application, repository.RunRepository, error) {
	app, err := startup(ctx)
	if err != nil {
		return nil, nil, err
	}

	repo, err := app.storedHistory(ctx)
	if err != nil {
		app.Close()
		return nil, nil, err
	}
	return app, repo, nil
}

// historyError переводит ошибки репозитория в коды приложения
func historyError(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrRunNotFound):
		return apperror.Wrap(err, apperror.CodeNotFound, "run "+id+" not found").WithField("run-id")
	case errors.Is(err, repository.ErrInvalidRunID):
		return apperror.Wrap(err, apperror.CodeInvalidInput, "malformed run id "+strconv.Quote(id)).WithField("run-id")
	default:
		return apperror.Wrap(err, apperror.CodeDatabase, "history query failed")
	}
}

func (cmd *cmdHistoryList) Execute([]string) error {
	ctx := context.Background()

	app, repo, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	limit := cmd.Limit
	if limit <= 0 {
		limit = app.cfg.History.ListLimit
	}

	runs, total, err := repo.List(ctx, &repository.ListOptions{Limit: limit, Offset: cmd.Offset})
	if err != nil {
		return historyError(err, "")
	}

	var table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Vertices", "Edges", "K", "Feasible", "Total", "Average", "Duration", "Created"})

	for _, r := range runs {
		cost, average := "-", "-"
		if r.Feasible {
			cost = humanize.Comma(r.TotalCost)
			average = strconv.FormatFloat(r.AverageCost, 'f', report.DefaultDecimals, 64)
		}
		table.Append([]string{
			r.ID,
			r.Name,
			humanize.Comma(int64(r.Vertices)),
			humanize.Comma(int64(r.Edges)),
			strconv.Itoa(r.K),
			strconv.FormatBool(r.Feasible),
			cost,
			average,
			fmt.Sprintf("%.2f ms", r.DurationMs),
			humanize.Time(r.CreatedAt),
		})
	}
	table.Render()

	fmt.Fprintf(os.Stdout, "%d of %d runs\n", len(runs), total)
	return nil
}

func (cmd *cmdHistoryShow) Execute([]string) error {
	ctx := context.Background()

	app, repo, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	run, err := repo.Get(ctx, cmd.Args.ID)
	if err != nil {
		return historyError(err, cmd.Args.ID)
	}

	format := cmd.Format
	if format == "" {
		format = app.cfg.Report.Format
	}
	gen, err := report.New(format)
	if err != nil {
		return err
	}

	title := app.cfg.Report.Title
	if run.Name != "" {
		title = run.Name
	}

	out, err := gen.Generate(ctx, &report.Data{
		Title:       title,
		Author:      app.cfg.Report.Author,
		Decimals:    app.cfg.Report.Decimals,
		RunID:       run.ID,
		Solution:    run.Solution,
		GeneratedAt: run.CreatedAt,
	})
	if err != nil {
		return err
	}

	return writeOutput(cmd.Output, out)
}

func (cmd *cmdHistoryDelete) Execute([]string) error {
	ctx := context.Background()

	app, repo, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := repo.Delete(ctx, cmd.Args.ID); err != nil {
		return historyError(err, cmd.Args.ID)
	}

	fmt.Fprintf(os.Stdout, "deleted run %s\n", cmd.Args.ID)
	return nil
}

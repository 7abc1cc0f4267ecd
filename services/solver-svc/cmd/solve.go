package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kflow/pkg/apperror"
	"kflow/pkg/domain"
	"kflow/pkg/logger"
	"kflow/services/solver-svc/internal/parser"
	"kflow/services/solver-svc/internal/report"
	"kflow/services/solver-svc/internal/service"
)

type cmdSolve struct {
	Input  string `short:"i" long:"input" default:"-" description:"Problem file to read. Use - for stdin"`
	Output string `short:"o" long:"output" default:"-" description:"Report file to write. Use - for stdout"`
	Format string `short:"f" long:"format" choice:"text" choice:"table" choice:"json" choice:"csv" choice:"markdown" choice:"xlsx" choice:"pdf" description:"Report format (default report.format)"`

	Directed bool `long:"directed" description:"Treat every edge line as one-way"`
	Source   int  `long:"source" description:"1-indexed source vertex (default 1)"`
	Sink     int  `long:"sink" description:"1-indexed sink vertex (default n)"`

	Name    string        `long:"name" description:"Name stored with the run"`
	Timeout time.Duration `long:"timeout" description:"Abort the solve after this duration (default solver.timeout)"`
	NoCache bool          `long:"no-cache" description:"Bypass the solution cache"`
}

func init() {
	mustAddCmd(flagParser.Command, "solve", "Solve a minimum-cost k-flow problem",
		"Read a problem, route k units of flow at minimum cost and print the paths", &cmdSolve{})
}

func (cmd *cmdSolve) Execute([]string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := startup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if cmd.Timeout > 0 {
		app.cfg.Solver.Timeout = cmd.Timeout
	}

	mode := domain.ModeUndirected
	if cmd.Directed || app.cfg.Solver.Directed {
		mode = domain.ModeDirected
	}

	p, err := cmd.readProblem(mode)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithSolverConfig(app.cfg.Solver),
		service.WithMetrics(app.metrics),
	}
	if !cmd.NoCache {
		if c := app.solverCache(); c != nil {
			opts = append(opts, service.WithCache(c))
		}
	}

	repo, err := app.history(ctx)
	if err != nil {
		logger.Warn("History unavailable, run will not be saved", "error", err)
	} else if repo != nil {
		opts = append(opts, service.WithHistory(repo))
	}

	svc := service.NewSolverService(app.cfg.App.Version, opts...)
	result, err := svc.Solve(ctx, p)
	if err != nil {
		return err
	}

	format := cmd.Format
	if format == "" {
		format = app.cfg.Report.Format
	}
	gen, err := report.New(format)
	if err != nil {
		return err
	}

	out, err := gen.Generate(ctx, &report.Data{
		Title:    app.cfg.Report.Title,
		Author:   app.cfg.Report.Author,
		Decimals: app.cfg.Report.Decimals,
		RunID:    result.RunID,
		Problem:  p,
		Solution: result.Solution,
	})
	if err != nil {
		return err
	}

	return writeOutput(cmd.Output, out)
}

func (cmd *cmdSolve) readProblem(mode domain.EdgeMode) (*domain.Problem, error) {
	var in io.Reader = os.Stdin
	if cmd.Input != "-" && cmd.Input != "" {
		f, err := os.Open(cmd.Input)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidInput, "failed to open input").WithField("input")
		}
		defer f.Close()
		in = f
	}

	return parser.Parse(in, parser.Options{
		Name:   cmd.Name,
		Mode:   mode,
		Source: cmd.Source,
		Sink:   cmd.Sink,
	})
}

// writeOutput пишет отчёт в файл или stdout для "-"
func writeOutput(path string, out []byte) error {
	if path == "-" || path == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return apperror.Wrap(err, apperror.CodeReport, "failed to write report").WithField("output")
	}
	return nil
}

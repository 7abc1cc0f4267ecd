package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"kflow/pkg/apperror"
	"kflow/pkg/cache"
)

type cmdCacheStats struct{}

type cmdCacheClear struct{}

func init() {
	cmd := mustAddCmd(flagParser.Command, "cache", "Inspect the solution cache",
		"Show statistics of the solution cache or drop every cached solution", &struct{}{})
	mustAddCmd(cmd, "stats", "Show cache statistics", "Show key count, hit rate and memory of the cache backend", &cmdCacheStats{})
	mustAddCmd(cmd, "clear", "Drop cached solutions", "Delete every cached solution, other keys are kept", &cmdCacheClear{})
}

// withCache поднимает приложение и отдаёт кэш решений в fn
func withCache(fn func(ctx context.Context, c *cache.SolverCache) error) error {
	ctx := context.Background()

	app, err := startup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	c := app.solverCache()
	if c == nil {
		return apperror.New(apperror.CodeConfig, "cache is disabled, set cache.enabled").WithField("cache.enabled")
	}
	return fn(ctx, c)
}

func (cmd *cmdCacheStats) Execute([]string) error {
	return withCache(func(ctx context.Context, c *cache.SolverCache) error {
		stats, err := c.Stats(ctx)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeCache, "failed to read cache stats")
		}

		var table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Backend", "Keys", "Hits", "Misses", "Hit rate", "Memory"})
		table.Append([]string{
			stats.Backend,
			humanize.Comma(stats.TotalKeys),
			humanize.Comma(stats.Hits),
			humanize.Comma(stats.Misses),
			strconv.FormatFloat(stats.HitRate*100, 'f', 1, 64) + "%",
			humanize.Bytes(uint64(stats.MemoryBytes)),
		})
		table.Render()
		return nil
	})
}

func (cmd *cmdCacheClear) Execute([]string) error {
	return withCache(func(ctx context.Context, c *cache.SolverCache) error {
		n, err := c.InvalidateAll(ctx)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeCache, "failed to clear cache")
		}
		fmt.Fprintf(os.Stdout, "removed %d cached solutions\n", n)
		return nil
	})
}

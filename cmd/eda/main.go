// Command eda runs the recommender, imputer and chart renderer from the
// command line against the configured datasets.
//
//	eda recommend -user 42 -top 5
//	eda impute -dataset users -target promedio_gasto_comida -condition cero \
//	    -group estrato_socioeconomico,ciudad -statistic media -out users_clean.csv
//	eda chart -dataset restaurants -kind hist -x rating -bins 20 -out rating.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tastelens/backend/config"
	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/infrastructure/cache"
	"github.com/tastelens/backend/internal/infrastructure/chart"
	"github.com/tastelens/backend/internal/infrastructure/dataset"
	"github.com/tastelens/backend/internal/infrastructure/report"
	"github.com/tastelens/backend/internal/logging"
	"github.com/tastelens/backend/internal/usecase"
)

const usage = `usage: eda <command> [flags]

commands:
  recommend   recommend restaurants for a user
  impute      fill invalid cells of a column with per-group statistics
  chart       render a chart of a dataset as PNG
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "eda:", err)
		}
		os.Exit(1)
	}
}

// app holds the services shared by every command
type app struct {
	cfg      *config.Config
	datasets *dataset.Repository
	stdout   io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return flag.ErrHelp
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console", Output: stderr})

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	a := &app{
		cfg:      cfg,
		datasets: dataset.NewRepository(cfg.Datasets, cfg.Schema, memoryCache, cfg.Cache.TTL),
		stdout:   stdout,
	}

	switch args[0] {
	case "recommend":
		return a.recommend(ctx, args[1:], stderr)
	case "impute":
		return a.impute(ctx, args[1:], stderr)
	case "chart":
		return a.chart(ctx, args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stderr, usage)
		return flag.ErrHelp
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

// reporter returns the console reporter for text output and nil for JSON
func (a *app) reporter(format string) (domain.Reporter, error) {
	switch format {
	case "text":
		return report.NewConsoleReporter(a.stdout), nil
	case "json":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown format %q, want text or json", format)
}

func (a *app) analysis(reporter domain.Reporter) *usecase.AnalysisService {
	recommender := usecase.NewRecommendationService(reporter, usecase.RecommenderConfig{
		DefaultTopN:        a.cfg.Recommender.TopN,
		AliasPrefix:        a.cfg.Schema.AliasPrefix,
		SortByScore:        a.cfg.Recommender.SortByScore,
		EnableDebugLogging: a.cfg.Recommender.EnableDebugLogging,
	})
	return usecase.NewAnalysisService(
		a.datasets,
		recommender,
		usecase.NewImputationService(reporter),
		chart.NewRenderer(a.cfg.Chart.Width, a.cfg.Chart.Height),
	)
}

func (a *app) recommend(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	user := fs.String("user", "", "user id")
	top := fs.Int("top", 0, "number of restaurants (default from config)")
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reporter, err := a.reporter(*format)
	if err != nil {
		return err
	}
	rec, err := a.analysis(reporter).Recommend(ctx, &domain.RecommendationRequest{UserID: *user, TopN: *top})
	if err != nil {
		return err
	}
	if reporter == nil {
		return a.writeJSON(rec)
	}
	return nil
}

func (a *app) impute(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("impute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("dataset", dataset.UsersDataset, "dataset name")
	target := fs.String("target", "", "column to fill")
	condition := fs.String("condition", "null", "cells to replace: null, negative or zero")
	group := fs.String("group", "", "two comma-separated grouping columns")
	statistic := fs.String("statistic", "mean", "fill statistic: mean, median or mode")
	out := fs.String("out", "", "write the imputed table to this CSV file")
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	groupBy := strings.Split(*group, ",")
	if len(groupBy) != 2 {
		return fmt.Errorf("%w: -group needs exactly two columns", domain.ErrInvalidRequest)
	}
	cond, err := domain.ParseCondition(*condition)
	if err != nil {
		return err
	}
	stat, err := domain.ParseStatistic(*statistic)
	if err != nil {
		return err
	}

	reporter, err := a.reporter(*format)
	if err != nil {
		return err
	}
	result, err := a.analysis(reporter).Impute(ctx, *name, domain.ImputationRequest{
		Target:    *target,
		Condition: cond,
		GroupBy:   [2]string{strings.TrimSpace(groupBy[0]), strings.TrimSpace(groupBy[1])},
		Statistic: stat,
	})
	if err != nil {
		return err
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		if err := dataset.WriteCSV(f, result.Table); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logging.Info().Str("path", *out).Msg("Imputed table written")
	}

	if reporter == nil {
		return a.writeJSON(result)
	}
	return nil
}

func (a *app) chart(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("dataset", dataset.RestaurantsDataset, "dataset name")
	kind := fs.String("kind", "", "chart kind: bar, count, hist, box, scatter, heatmap, pairplot or violin")
	var spec domain.ChartSpec
	fs.StringVar(&spec.X, "x", "", "x column")
	fs.StringVar(&spec.Y, "y", "", "y column")
	fs.StringVar(&spec.Hue, "hue", "", "colour grouping column")
	order := fs.String("order", "", "comma-separated category order")
	fs.StringVar(&spec.Palette, "palette", "", "colour palette")
	fs.StringVar(&spec.Title, "title", "", "chart title")
	fs.StringVar(&spec.XLabel, "xlabel", "", "x axis label")
	fs.StringVar(&spec.YLabel, "ylabel", "", "y axis label")
	fs.IntVar(&spec.Bins, "bins", 0, "histogram bins")
	fs.Float64Var(&spec.Width, "width", 0, "figure width in inches")
	fs.Float64Var(&spec.Height, "height", 0, "figure height in inches")
	fs.BoolVar(&spec.Horizontal, "horizontal", false, "draw bars horizontally")
	out := fs.String("out", "", "output PNG file (default <output_dir>/<dataset>_<kind>.png)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	k, err := domain.ParseChartKind(*kind)
	if err != nil {
		return err
	}
	spec.Kind = k
	if *order != "" {
		spec.Order = strings.Split(*order, ",")
	}

	path := *out
	if path == "" {
		if err := os.MkdirAll(a.cfg.Chart.OutputDir, 0o755); err != nil {
			return err
		}
		path = filepath.Join(a.cfg.Chart.OutputDir, fmt.Sprintf("%s_%s.png", *name, k))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.analysis(nil).Chart(ctx, f, *name, spec); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)
	return nil
}

func (a *app) writeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"salescli/internal/app"
	"salescli/internal/infrastructure"
	"salescli/internal/services"
	"salescli/internal/submission"
)

type options struct {
	id      string
	files   []string
	weights []float64
}

func main() {
	id := flag.String("id", "", "identifier embedded in the output file name")
	files := flag.String("files", "", "comma separated prediction files, relative to the data directory")
	weights := flag.String("weights", "", "comma separated weights, one per file (enables weighted averaging)")
	data := flag.String("data", "", "data directory (defaults to dataset.data_dir from the config)")
	flag.Parse()

	opts, err := parseOptions(*id, *files, *weights)
	if err != nil {
		slog.Error("Invalid arguments", "error", err)
		flag.Usage()
		os.Exit(2)
	}

	cli, err := app.NewCLI("ensemble", *data)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	if err := cli.Files.ValidateCSVFiles(cli.Paths.DataDir, opts.files); err != nil {
		cli.Logger.Error("Input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.Logger.Info("Starting ensemble",
		slog.String("id", opts.id),
		slog.Any("files", opts.files),
		slog.Bool("weighted", opts.weights != nil),
		slog.String("normalization", cli.Config.Ensemble.Normalization))

	if err := run(infrastructure.ContextWithTraceID(context.Background()), cli.Services.Submission, opts, os.Stdout); err != nil {
		cli.Logger.Error("Ensemble failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *services.SubmissionService, opts options, stdout io.Writer) error {
	var (
		res *services.SubmissionResult
		err error
	)
	if opts.weights != nil {
		res, err = svc.Weighted(ctx, opts.files, opts.weights, opts.id)
	} else {
		res, err = svc.Average(ctx, opts.files, opts.id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Combined %d submissions into %s\n", res.Inputs, res.Path)
	return nil
}

func parseOptions(id, files, weights string) (options, error) {
	if id == "" {
		return options{}, errors.New("-id is required")
	}
	opts := options{id: id, files: splitList(files)}
	if len(opts.files) == 0 {
		return options{}, errors.New("-files is required")
	}

	if ws := splitList(weights); len(ws) > 0 {
		opts.weights = make([]float64, len(ws))
		for i, w := range ws {
			v, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return options{}, fmt.Errorf("weight %q: %w", w, err)
			}
			opts.weights[i] = v
		}
		if len(opts.weights) != len(opts.files) {
			return options{}, fmt.Errorf("%d files, %d weights: %w", len(opts.files), len(opts.weights), submission.ErrWeightMismatch)
		}
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/internal/app"
	"salescli/internal/infrastructure"
	"salescli/internal/services"
)

type options struct {
	id       string
	mode     string
	out      string
	downcast bool
}

func main() {
	id := flag.String("id", "", "feature set id (reads feature_set_{id}.csv or .xlsx)")
	mode := flag.String("mode", "all", "all | train_and_val | trainval | test")
	data := flag.String("data", "", "data directory (defaults to dataset.data_dir from the config)")
	out := flag.String("out", "", "output directory (defaults to <output_dir>/partitions/<id>)")
	downcast := flag.Bool("downcast", false, "narrow numeric columns to 32 bits before writing")
	flag.Parse()

	if *id == "" {
		slog.Error("Missing required flag", "flag", "id")
		flag.Usage()
		os.Exit(2)
	}

	cli, err := app.NewCLI("partition", *data)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	opts := options{
		id:       *id,
		mode:     *mode,
		out:      *out,
		downcast: *downcast || cli.Config.Dataset.Downcast,
	}
	if opts.out == "" {
		opts.out = cli.Paths.PartitionDir(opts.id)
	}

	if err := cli.Files.ValidateDataDirectory(cli.Paths.DataDir); err != nil {
		cli.Logger.Error("Data directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.Logger.Info("Starting partition export",
		slog.String("id", opts.id),
		slog.String("mode", opts.mode),
		slog.String("data_dir", cli.Paths.DataDir),
		slog.String("output_dir", opts.out),
		slog.Bool("downcast", opts.downcast))

	if err := run(infrastructure.ContextWithTraceID(context.Background()), cli.Services.Dataset, opts, os.Stdout); err != nil {
		cli.Logger.Error("Partition export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *services.DatasetService, opts options, stdout io.Writer) error {
	if opts.id == "" {
		return errors.New("feature set id is required")
	}

	res, err := svc.Export(ctx, opts.id, opts.mode, opts.out, opts.downcast)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Feature set %s: %d rows, %d features\n", res.Summary.ID, res.Summary.Rows, len(res.Summary.Features))
	for _, f := range res.Files {
		name := filepath.Base(f)
		if s, ok := res.Summary.Slices[sliceName(name)]; ok {
			fmt.Fprintf(stdout, "Wrote %s (%d rows)\n", f, s.Rows)
			continue
		}
		fmt.Fprintf(stdout, "Wrote %s\n", f)
	}
	return nil
}

// sliceName maps an exported file back to its slice key.
func sliceName(file string) string {
	switch file {
	case services.TrainFile:
		return "train"
	case services.ValFile:
		return "val"
	case services.TrainValFile:
		return "trainval"
	case services.TestFile:
		return "test"
	}
	return ""
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"salescli/internal/app"
	"salescli/internal/infrastructure"
	"salescli/internal/services"
)

func main() {
	truth := flag.String("truth", "", "ground truth submission file")
	pred := flag.String("pred", "", "prediction submission file")
	data := flag.String("data", "", "data directory relative names resolve against")
	asJSON := flag.Bool("json", false, "print the scores as JSON")
	flag.Parse()

	if *truth == "" || *pred == "" {
		slog.Error("Both -truth and -pred are required")
		flag.Usage()
		os.Exit(2)
	}

	cli, err := app.NewCLI("evaluate", *data)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	if err := cli.Files.ValidateCSVFiles(cli.Paths.DataDir, []string{*truth, *pred}); err != nil {
		cli.Logger.Error("Input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(infrastructure.ContextWithTraceID(context.Background()), cli.Services.Submission, *truth, *pred, *asJSON, os.Stdout); err != nil {
		cli.Logger.Error("Evaluation failed",
			slog.String("truth", *truth),
			slog.String("pred", *pred),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *services.SubmissionService, truth, pred string, asJSON bool, stdout io.Writer) error {
	res, err := svc.Score(ctx, truth, pred)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(stdout, "rows: %d\nclipped_rmse: %.6f\nelementwise_rmse: %.6f\n", res.Rows, res.RMSE, res.ElementwiseRMSE)
	return nil
}

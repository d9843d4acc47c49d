// Command infracost-comment renders an infracost pull request comment.
//
// Usage:
//
//	infracost-comment [--diff PATH] [--base PATH] [--pr PATH] [--out PATH]
//	                  [--currency CODE] [--title TITLE] [--marker MARKER]
//
// PATH may be a local file or an s3://bucket/key URL. Unset flags fall back to
// the INFRACOST_* environment variables and then to the conventional file names.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/finops-claw-gang/infracost-comment/internal/comment"
	"github.com/finops-claw-gang/infracost-comment/internal/config"
	"github.com/finops-claw-gang/infracost-comment/internal/observability"
	"github.com/finops-claw-gang/infracost-comment/internal/storage"
)

var version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("infracost-comment", flag.ContinueOnError)
	fs.SetOutput(stderr)
	diff := fs.String("diff", "", "infracost diff JSON")
	base := fs.String("base", "", "base branch breakdown JSON")
	pr := fs.String("pr", "", "pull request breakdown JSON")
	out := fs.String("out", "", "where to write the Markdown comment")
	cur := fs.String("currency", "", "currency code (default: document currency, then USD)")
	title := fs.String("title", "", "comment title")
	marker := fs.String("marker", "", "marker line identifying the comment")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "infracost-comment: %v\n", err)
		return 1
	}
	if *cur != "" {
		cfg.Currency = *cur
	}
	if *title != "" {
		cfg.Title = *title
	}
	if *marker != "" {
		cfg.Marker = *marker
	}

	logger := observability.InitLogger(cfg.LogLevel, stderr)

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(ctx, "infracost-comment", version)
		if err != nil {
			logger.Error("otel init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Warn("metrics unavailable", "error", err)
	}

	g := comment.New(storage.New(cfg.S3()), comment.WithMetrics(metrics), comment.WithLogger(logger))
	res, err := g.Run(ctx, comment.Request{
		Diff:         cfg.DiffCandidates(*diff),
		Base:         cfg.BaseCandidates(*base),
		PR:           cfg.PRCandidates(*pr),
		Output:       cfg.Output(*out),
		Currency:     cfg.Currency,
		CurrencyFlag: cfg.CurrencyFlag,
		Options:      cfg.ReportOptions(),
	})
	if err != nil {
		var nie *comment.NoInputError
		if errors.As(err, &nie) {
			fmt.Fprintln(stderr, "infracost-comment: no infracost JSON found; attempted:")
			for _, loc := range nie.Attempted {
				fmt.Fprintf(stderr, "  - %s\n", loc)
			}
			return 1
		}
		fmt.Fprintf(stderr, "infracost-comment: %v\n", err)
		return 1
	}

	for _, in := range res.Inputs {
		fmt.Fprintf(stdout, "read %s: %s\n", in.Role, in.Location)
	}
	fmt.Fprintf(stdout, "strategy: %s\n", res.Strategy)
	fmt.Fprintf(stdout, "monthly: past %.2f, future %.2f, delta %.2f %s\n",
		res.Totals.Past, res.Totals.Future, res.Totals.Delta, res.Currency.Code)
	fmt.Fprintf(stdout, "wrote %s (%s)\n", res.Output, res.Change.Status)
	return 0
}

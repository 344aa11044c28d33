// pdf-process scans a corpus of extracted bid-document texts for
// suspicious similarity: full-corpus scans, bid-response cross-checks,
// template comparison, nearest-document search, per-company analysis
// and a composite plain-text report.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tonyispowerful/pdf-process/internal/config"
	"github.com/tonyispowerful/pdf-process/internal/db/leveldb"
	"github.com/tonyispowerful/pdf-process/internal/domain"
	logpkg "github.com/tonyispowerful/pdf-process/internal/logger"
	"github.com/tonyispowerful/pdf-process/internal/metric"
	"github.com/tonyispowerful/pdf-process/internal/metrics"
	documentrepo "github.com/tonyispowerful/pdf-process/internal/repository/document"
	"github.com/tonyispowerful/pdf-process/internal/repository/embcache"
	"github.com/tonyispowerful/pdf-process/internal/repository/reportfile"
	openaiEmb "github.com/tonyispowerful/pdf-process/internal/transport/openai"
	reportuc "github.com/tonyispowerful/pdf-process/internal/usecase/report"
	scanuc "github.com/tonyispowerful/pdf-process/internal/usecase/scan"
	scoreuc "github.com/tonyispowerful/pdf-process/internal/usecase/score"
	"github.com/tonyispowerful/pdf-process/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the composition root, built once per command invocation.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *leveldb.Store
	docs    *documentrepo.Repo
	scanner *scanuc.Service
	reports *reportuc.Service
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func buildApp(configPath string) (*app, error) {
	env := config.GetEnv()

	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting pdf-process",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("store", cfg.Store.Path),
	)

	metrics.Register()
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, logger)
	}

	store, err := leveldb.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}

	// Embedder chain: provider -> cache decorator. Without an API key
	// the semantic metric stays registered but fails per comparison and
	// is scored 0 by the ensemble.
	var embedder domain.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
		if cfg.Embedding.Cache {
			embedder = embcache.New(embedder, store, logger)
		}
	}

	registry := metric.NewDefaultRegistry(metric.Options{
		NGramSize:   cfg.Similarity.NGramSize,
		ShingleSize: cfg.Similarity.ShingleSize,
		Stemming:    cfg.Similarity.Stemming,
		Embedder:    embedder,
	})

	scorer, err := scoreuc.New(registry, scoreuc.Config{
		Metrics:     cfg.Similarity.Metrics,
		Weights:     cfg.Similarity.Weights,
		Threshold:   cfg.Similarity.Threshold,
		Renormalize: cfg.Similarity.Renormalize,
	}, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create scorer: %w", err)
	}

	docs := documentrepo.New(store)
	scanner := scanuc.New(docs, scorer, logger).
		WithWorkers(cfg.Similarity.Workers).
		WithTopN(cfg.Similarity.TopN)
	reports := reportuc.New(scanner, reportfile.New(), logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		docs:    docs,
		scanner: scanner,
		reports: reports,
	}, nil
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("Metrics listener stopped", zap.Error(err))
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pdf-process",
		Short:         "Bid document similarity detection",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (overrides ENV lookup)")

	root.AddCommand(
		newScanCmd(&configPath),
		newBidsCmd(&configPath),
		newCompareCmd(&configPath),
		newSimilarCmd(&configPath),
		newCompanyCmd(&configPath),
		newReportCmd(&configPath),
		newSeedCmd(&configPath),
	)
	return root
}

// withApp wraps a command body with composition-root setup, teardown
// and signal-driven cancellation.
func withApp(configPath *string, fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(*configPath)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return fn(ctx, a, cmd, args)
	}
}

func newScanCmd(configPath *string) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Compare every document pair in the corpus",
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold (default from config)")
	cmd.RunE = withApp(configPath, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		outcome, err := a.scanner.ScanAll(ctx, pick(threshold, a.cfg.Similarity.Threshold))
		if err != nil {
			return err
		}
		printOutcome(cmd, outcome)
		return nil
	})
	return cmd
}

func newBidsCmd(configPath *string) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "bids",
		Short: "Cross-check bid responses for plagiarism",
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold (default from config)")
	cmd.RunE = withApp(configPath, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		outcome, err := a.scanner.ScanBidResponses(ctx, pick(threshold, a.cfg.Similarity.Threshold))
		if err != nil {
			return err
		}
		printOutcome(cmd, outcome)
		return nil
	})
	return cmd
}

func newCompareCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <target> <template>",
		Short: "Compare one document against a template",
		Args:  cobra.ExactArgs(2),
	}
	cmd.RunE = withApp(configPath, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		result, err := a.scanner.CompareNamed(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		printResult(cmd, result)
		return nil
	})
	return cmd
}

func newSimilarCmd(configPath *string) *cobra.Command {
	var threshold float64
	var topN int

	cmd := &cobra.Command{
		Use:   "similar <file>",
		Short: "Find the documents most similar to one document",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold (default from config)")
	cmd.Flags().IntVar(&topN, "top", 0, "result cap (default from config)")
	cmd.RunE = withApp(configPath, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		matches, err := a.scanner.FindSimilar(ctx, args[0], pick(threshold, a.cfg.Similarity.Threshold), topN)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			cmd.Println("No similar documents found.")
			return nil
		}
		for i, m := range matches {
			cmd.Printf("%d. %s: %.3f (%s)", i+1, m.FileName, m.Overall, m.Tier)
			if m.Company != "" {
				cmd.Printf("  [%s]", m.Company)
			}
			cmd.Println()
		}
		return nil
	})
	return cmd
}

func newCompanyCmd(configPath *string) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "company <name>",
		Short: "Analyze one company's submissions against each other",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0.6, "similarity threshold")
	cmd.RunE = withApp(configPath, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		analysis, err := a.scanner.AnalyzeCompany(ctx, args[0], threshold)
		if err != nil {
			return err
		}
		cmd.Printf("%s: %d document(s), %d similar pair(s)\n",
			analysis.Company, analysis.TotalDocuments, analysis.SimilarPairs)
		if analysis.InsufficientData {
			cmd.Println("Not enough documents to compare.")
			return nil
		}
		for _, r := range analysis.Results {
			cmd.Printf("- %s <-> %s: %.3f (%s)\n", r.FileA, r.FileB, r.Overall, r.Tier)
			for _, p := range r.Patterns {
				cmd.Printf("    pattern: %s\n", p)
			}
		}
		return nil
	})
	return cmd
}

func newReportCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the composite similarity report",
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "report output path (default from config)")
	cmd.RunE = withApp(configPath, func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		path := output
		if path == "" {
			path = a.cfg.Report.OutputPath
		}
		rep, err := a.reports.Generate(ctx, path)
		if err != nil {
			// A persist failure still yields a usable report; print it
			// before surfacing the error.
			if rep.Summary.Total() > 0 || len(rep.Sections) > 0 {
				cmd.Print(reportuc.Render(rep))
			}
			return err
		}
		cmd.Printf("Report written to %s (%d similar pairs)\n", path, rep.Summary.Total())
		return nil
	})
	return cmd
}

// seedDoc is the JSON ingestion format of the seed command.
type seedDoc struct {
	FileName  string `json:"file_name"`
	FileType  string `json:"file_type"`
	Text      string `json:"text"`
	Company   string `json:"company"`
	Purchaser string `json:"purchaser"`
}

func newSeedCmd(configPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Load extracted documents from a JSON array into the store",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite documents that already exist")
	cmd.RunE = withApp(configPath, func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		var seeds []seedDoc
		if err := json.Unmarshal(data, &seeds); err != nil {
			return fmt.Errorf("parse seed file: %w", err)
		}

		var stored, skipped int
		for _, sd := range seeds {
			if !force {
				exists, err := a.docs.Exists(ctx, sd.FileName)
				if err != nil {
					return fmt.Errorf("check %s: %w", sd.FileName, err)
				}
				if exists {
					skipped++
					continue
				}
			}
			doc := domain.Document{
				FileName:  sd.FileName,
				Type:      domain.ParseDocType(sd.FileType),
				Text:      sd.Text,
				Company:   sd.Company,
				Purchaser: sd.Purchaser,
			}
			if err := a.docs.Put(ctx, doc); err != nil {
				return fmt.Errorf("store %s: %w", sd.FileName, err)
			}
			stored++
		}
		cmd.Printf("Seeded %d document(s), skipped %d existing\n", stored, skipped)
		return nil
	})
	return cmd
}

// pick prefers a flag value over the configured default.
func pick(flag, fallback float64) float64 {
	if flag > 0 {
		return flag
	}
	return fallback
}

func printOutcome(cmd *cobra.Command, outcome domain.ScanOutcome) {
	if outcome.InsufficientData {
		cmd.Println("Not enough documents to compare.")
		return
	}
	if outcome.Partial {
		cmd.Println("Scan interrupted; results are incomplete.")
	}
	if len(outcome.Results) == 0 {
		cmd.Printf("No pairs above threshold %.2f among %d documents.\n",
			outcome.Threshold, outcome.EligibleDocs)
		return
	}
	cmd.Printf("%d similar pair(s) among %d documents:\n",
		len(outcome.Results), outcome.EligibleDocs)
	for _, r := range outcome.Results {
		printResult(cmd, r)
	}
}

func printResult(cmd *cobra.Command, r domain.SimilarityResult) {
	cmd.Printf("- %s <-> %s: %.3f (%s)\n", r.FileA, r.FileB, r.Overall, r.Tier)
	if r.CompanyA != "" || r.CompanyB != "" {
		cmd.Printf("    companies: %s / %s\n", r.CompanyA, r.CompanyB)
	}
	if r.PlagiarismRisk != "" {
		cmd.Printf("    plagiarism risk: %s\n", r.PlagiarismRisk)
	}
	for _, name := range r.MetricNames() {
		ms := r.Scores[name]
		if ms.Failed {
			cmd.Printf("    %s: failed\n", name)
			continue
		}
		cmd.Printf("    %s: %.3f\n", name, ms.Score)
	}
	cmd.Printf("    %s\n", r.Tier.Recommendation())
}

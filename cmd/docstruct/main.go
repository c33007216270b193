package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/docstruct/constants"
	"github.com/joseph-ayodele/docstruct/internal/common"
	"github.com/joseph-ayodele/docstruct/internal/convert"
	"github.com/joseph-ayodele/docstruct/internal/llm/openai"
	"github.com/joseph-ayodele/docstruct/internal/pipeline"
	"github.com/joseph-ayodele/docstruct/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory to process documents from (required)")
		out       = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		cachePath = flag.String("cache", "", "processed-set cache file (optional, defaults to <dir>/.hashes.txt)")
		docTypeIn = flag.String("type", "cv", "document type: cv or invoice")
		force     = flag.Bool("force", false, "reprocess files even if their digest is already cached")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	docType, err := constants.ParseDocType(*docTypeIn)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		name := "cv_database.xlsx"
		if docType == constants.DocTypeInvoice {
			name = "invoice_database.xlsx"
		}
		*out = filepath.Join(filepath.Dir(*dir), name)
	}

	// .env is optional; environment variables win.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	converter := convert.NewDoclingClient(convert.Config{
		BaseURL: cfg.Converter.BaseURL,
		Timeout: cfg.Converter.Timeout,
	}, logger)

	extractor := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	logger.Info("OpenAI client initialized", "model", cfg.LLM.Model)

	p := pipeline.New(logger, converter, extractor, store.NewWriter(logger))

	summary, err := p.Run(context.Background(), pipeline.Options{
		RootDir:   *dir,
		StorePath: *out,
		CachePath: *cachePath,
		DocType:   docType,
		Force:     *force,
	})
	if err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	for _, r := range summary.Results {
		if r.Err != "" {
			printError("%s: %s\n", r.Path, r.Err)
		}
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", summary.Matched)
	fmt.Printf("- Files processed: %d\n", summary.Processed)
	fmt.Printf("- Skipped (cached): %d\n", summary.Skipped)
	fmt.Printf("- Failures: %d\n", summary.Failed)
	fmt.Printf("- Output: %s\n", *out)
}

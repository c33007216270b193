// Package pipeline walks an input tree and runs the per-file chain:
// cache check → convert → extract → normalize → write → cache commit.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docstruct/constants"
	"github.com/joseph-ayodele/docstruct/internal/cache"
	"github.com/joseph-ayodele/docstruct/internal/common"
	"github.com/joseph-ayodele/docstruct/internal/convert"
	"github.com/joseph-ayodele/docstruct/internal/hashing"
	"github.com/joseph-ayodele/docstruct/internal/llm"
	"github.com/joseph-ayodele/docstruct/internal/normalize"
	"github.com/joseph-ayodele/docstruct/internal/store"
)

// Status is the terminal state of one file for this run.
type Status string

const (
	StatusWritten             Status = "WRITTEN"
	StatusSkipped             Status = "SKIPPED"
	StatusHashFailed          Status = "HASH_FAILED"
	StatusConversionFailed    Status = "CONVERSION_FAILED"
	StatusExtractionFailed    Status = "EXTRACTION_FAILED"
	StatusNormalizationFailed Status = "NORMALIZATION_FAILED"
	StatusWriteFailed         Status = "WRITE_FAILED"
)

// FileResult is the per-file outcome.
type FileResult struct {
	Path   string
	Digest string
	Status Status
	Err    string
}

// Summary aggregates one run.
type Summary struct {
	Scanned   uint32
	Matched   uint32
	Processed uint32
	Skipped   uint32
	Failed    uint32
	Results   []FileResult
}

// Options configure one batch run.
type Options struct {
	RootDir   string
	StorePath string
	CachePath string // default: <RootDir>/.hashes.txt
	DocType   constants.DocType
	Force     bool // reprocess files whose digest is already cached
}

// Pipeline wires the stages together. Execution is sequential: one file at a
// time in walk order, no concurrent access to the store or the cache.
type Pipeline struct {
	logger    *slog.Logger
	converter convert.TextConverter
	extractor llm.Extractor
	store     *store.Writer
}

func New(logger *slog.Logger, converter convert.TextConverter, extractor llm.Extractor, writer *store.Writer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:    logger,
		converter: converter,
		extractor: extractor,
		store:     writer,
	}
}

// runState threads per-run accumulators through the walk instead of any
// package-level state.
type runState struct {
	processed *cache.ProcessedSet
	nextID    int
	summary   Summary
}

// Run walks opts.RootDir and processes every accepted file. A file's failure
// never aborts the batch; its digest is committed to the cache only after a
// successful store write, so failed files are retried on the next run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	if strings.TrimSpace(opts.RootDir) == "" {
		return nil, common.NewAppError("PIPELINE_ERROR", "root directory is required", common.ErrInvalidInput)
	}
	if strings.TrimSpace(opts.StorePath) == "" {
		return nil, common.NewAppError("PIPELINE_ERROR", "store path is required", common.ErrInvalidInput)
	}
	if opts.DocType == "" {
		opts.DocType = constants.DocTypeCV
	}
	if opts.CachePath == "" {
		opts.CachePath = filepath.Join(opts.RootDir, ".hashes.txt")
	}

	runID := uuid.New().String()
	start := time.Now()
	p.logger.Info("pipeline.run.start",
		"run_id", runID,
		"root", opts.RootDir,
		"store", opts.StorePath,
		"cache", opts.CachePath,
		"doc_type", string(opts.DocType),
		"force", opts.Force,
	)

	processed, err := cache.Load(opts.CachePath, p.logger)
	if err != nil {
		return nil, common.WrapError(err, "load processed-set cache")
	}
	nextID, err := p.store.NextParentID(opts.StorePath, normalize.RootSheet(opts.DocType))
	if err != nil {
		return nil, common.WrapError(err, "seed parent identifier")
	}

	run := &runState{processed: processed, nextID: nextID}

	walkErr := filepath.WalkDir(opts.RootDir, func(path string, d fs.DirEntry, walkErr error) error {
		run.summary.Scanned++
		if walkErr != nil {
			run.summary.Failed++
			run.summary.Results = append(run.summary.Results, FileResult{Path: path, Status: StatusHashFailed, Err: walkErr.Error()})
			return nil // continue walking
		}
		if path != opts.RootDir && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.AllowedExt(filepath.Ext(path)) {
			return nil
		}
		run.summary.Matched++

		res := p.processFile(ctx, path, opts, run)
		run.summary.Results = append(run.summary.Results, res)
		switch res.Status {
		case StatusWritten:
			run.summary.Processed++
		case StatusSkipped:
			run.summary.Skipped++
		default:
			run.summary.Failed++
			p.logger.Error("pipeline.file.failed", "run_id", runID, "path", path, "status", string(res.Status), "error", res.Err)
		}
		return nil
	})
	if walkErr != nil {
		return &run.summary, common.WrapError(walkErr, "walk")
	}

	p.logger.Info("pipeline.run.done",
		"run_id", runID,
		"scanned", run.summary.Scanned,
		"matched", run.summary.Matched,
		"processed", run.summary.Processed,
		"skipped", run.summary.Skipped,
		"failed", run.summary.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &run.summary, nil
}

func (p *Pipeline) processFile(ctx context.Context, path string, opts Options, run *runState) FileResult {
	res := FileResult{Path: path}

	digest, err := hashing.FileDigest(path)
	if err != nil {
		res.Status = StatusHashFailed
		res.Err = err.Error()
		return res
	}
	res.Digest = digest

	if !opts.Force && run.processed.Contains(digest) {
		p.logger.Debug("pipeline.file.cached", "path", path, "digest", digest)
		res.Status = StatusSkipped
		return res
	}

	conv, err := p.converter.Convert(ctx, path)
	if err != nil {
		res.Status = StatusConversionFailed
		res.Err = common.WrapError(err, common.ErrConversion.Error()).Error()
		return res
	}

	raw, err := p.extractor.Extract(ctx, llm.ExtractRequest{
		MarkdownText: conv.Markdown,
		SourcePath:   path,
		DocType:      opts.DocType,
	})
	if err != nil {
		res.Status = StatusExtractionFailed
		res.Err = common.WrapError(err, common.ErrExtraction.Error()).Error()
		return res
	}

	sets, err := p.normalizeDocument(raw, opts.DocType, run.nextID, path)
	if err != nil {
		res.Status = StatusNormalizationFailed
		res.Err = common.WrapError(err, common.ErrNormalization.Error()).Error()
		return res
	}

	if err := p.store.Append(opts.StorePath, normalize.SheetOrder(opts.DocType), sets); err != nil {
		// Do not commit the cache entry: the file stays eligible for retry.
		res.Status = StatusWriteFailed
		res.Err = common.WrapError(err, common.ErrStoreWrite.Error()).Error()
		return res
	}
	run.nextID++

	if err := run.processed.Mark(digest); err != nil {
		// Rows are already written; the worst case is a duplicate append next
		// run, which the store tolerates.
		p.logger.Warn("pipeline.cache.mark_failed", "path", path, "digest", digest, "error", err)
	}

	p.logger.Info("pipeline.file.ok", "path", path, "digest", digest, "parent_id", run.nextID-1)
	res.Status = StatusWritten
	return res
}

func (p *Pipeline) normalizeDocument(raw []byte, docType constants.DocType, parentID int, path string) (map[string]*normalize.RowSet, error) {
	switch docType {
	case constants.DocTypeInvoice:
		var doc llm.InvoiceDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal invoice: %w", err)
		}
		return normalize.Invoice(&doc, parentID, path)
	default:
		var doc llm.CVDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal cv: %w", err)
		}
		return normalize.CV(&doc, parentID, path)
	}
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

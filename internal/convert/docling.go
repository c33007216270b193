package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Config for the docling-serve client.
type Config struct {
	BaseURL string        // default http://localhost:5001
	Timeout time.Duration // http client timeout
}

// DoclingClient converts documents to markdown via a docling-serve instance.
type DoclingClient struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewDoclingClient(cfg Config, logger *slog.Logger) *DoclingClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5001"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DoclingClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// Convert uploads the file and returns its markdown rendering. PDFs are
// pre-checked locally with pdfcpu so an unreadable or corrupt file fails fast
// without a round-trip to the converter.
func (c *DoclingClient) Convert(ctx context.Context, path string) (Result, error) {
	rid := uuid.New().String()
	start := time.Now()

	pages := 0
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		n, err := api.PageCountFile(path)
		if err != nil {
			c.log.Error("convert.precheck.failed", "req_id", rid, "path", path, "error", err)
			return Result{}, fmt.Errorf("pdf precheck: %w", err)
		}
		pages = n
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read source file: %w", err)
	}

	c.log.Info("convert.start",
		"req_id", rid,
		"path", path,
		"bytes", len(raw),
		"pages", pages,
	)

	body := map[string]any{
		"options": map[string]any{
			"to_formats":        []string{"md"},
			"image_export_mode": "placeholder",
		},
		"sources": []map[string]any{
			{
				"kind":          "file",
				"filename":      filepath.Base(path),
				"base64_string": base64.StdEncoding.EncodeToString(raw),
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1alpha/convert/source"
	respBody, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("convert.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, err
	}

	var out struct {
		Status   string `json:"status"`
		Document struct {
			MDContent string `json:"md_content"`
		} `json:"document"`
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return Result{}, fmt.Errorf("decode docling response: %w", err)
	}
	if out.Status != "success" || out.Document.MDContent == "" {
		c.log.Error("convert.failed",
			"req_id", rid, "status", out.Status, "errors", strings.Join(out.Errors, "; "),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{}, fmt.Errorf("docling conversion failed: status=%s errors=%s",
			out.Status, strings.Join(out.Errors, "; "))
	}

	elapsed := time.Since(start)
	c.log.Info("convert.ok",
		"req_id", rid,
		"path", path,
		"markdown_len", len(out.Document.MDContent),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return Result{
		Markdown: out.Document.MDContent,
		Pages:    pages,
		Duration: elapsed,
	}, nil
}

func (c *DoclingClient) post(ctx context.Context, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("docling http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("docling response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("docling status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

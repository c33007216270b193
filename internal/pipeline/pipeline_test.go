package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docstruct/constants"
	"github.com/joseph-ayodele/docstruct/internal/convert"
	"github.com/joseph-ayodele/docstruct/internal/hashing"
	"github.com/joseph-ayodele/docstruct/internal/llm"
	"github.com/joseph-ayodele/docstruct/internal/store"
)

// fakeConverter returns canned markdown keyed by base name, or an error.
type fakeConverter struct {
	failFor map[string]error
	calls   []string
}

func (f *fakeConverter) Convert(_ context.Context, path string) (convert.Result, error) {
	base := filepath.Base(path)
	f.calls = append(f.calls, base)
	if err, ok := f.failFor[base]; ok {
		return convert.Result{}, err
	}
	return convert.Result{Markdown: "# converted " + base, Pages: 1}, nil
}

// fakeExtractor returns canned JSON keyed by base name, or an error.
type fakeExtractor struct {
	docs    map[string]string
	failFor map[string]error
	calls   []string
}

func (f *fakeExtractor) Extract(_ context.Context, req llm.ExtractRequest) ([]byte, error) {
	base := filepath.Base(req.SourcePath)
	f.calls = append(f.calls, base)
	if err, ok := f.failFor[base]; ok {
		return nil, err
	}
	doc, ok := f.docs[base]
	if !ok {
		return nil, errors.New("no canned document")
	}
	return []byte(doc), nil
}

const janeJSON = `{
	"full_name": "Jane Doe",
	"email": "jane@example.com",
	"experience": [
		{"company": "Acme", "title": "Engineer", "start_date": "March 2015",
		 "responsibilities": ["pipelines", "reviews"]},
		{"company": "Beta", "title": "Lead"}
	],
	"skills": [{"name": "Go", "level": "expert"}]
}`

const omarJSON = `{"full_name": "Omar Diaz", "email": "omar@example.com"}`

type fixture struct {
	dir       string
	storePath string
	cachePath string
	conv      *fakeConverter
	extr      *fakeExtractor
	p         *Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	fx := &fixture{
		dir:       dir,
		storePath: filepath.Join(t.TempDir(), "out.xlsx"),
		cachePath: filepath.Join(dir, ".hashes.txt"),
		conv:      &fakeConverter{failFor: map[string]error{}},
		extr: &fakeExtractor{
			docs:    map[string]string{"jane.pdf": janeJSON, "omar.pdf": omarJSON},
			failFor: map[string]error{},
		},
	}
	fx.p = New(nil, fx.conv, fx.extr, store.NewWriter(nil))
	return fx
}

func (fx *fixture) addFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(fx.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (fx *fixture) run(t *testing.T, force bool) *Summary {
	t.Helper()
	summary, err := fx.p.Run(context.Background(), Options{
		RootDir:   fx.dir,
		StorePath: fx.storePath,
		CachePath: fx.cachePath,
		DocType:   constants.DocTypeCV,
		Force:     force,
	})
	require.NoError(t, err)
	return summary
}

func (fx *fixture) rowCount(t *testing.T, sheet string) int {
	t.Helper()
	f, err := excelize.OpenFile(fx.storePath)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return len(rows)
}

func (fx *fixture) cacheLines(t *testing.T) []string {
	t.Helper()
	raw, err := os.ReadFile(fx.cachePath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestRun_NewAndCachedFile(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	pathB := fx.addFile(t, "omar.pdf", "omar cv bytes")

	// Pre-seed omar's digest as already processed.
	digestB, err := hashing.FileDigest(pathB)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fx.cachePath, []byte(digestB+"\n"), 0o644))

	summary := fx.run(t, false)
	assert.EqualValues(t, 2, summary.Matched)
	assert.EqualValues(t, 1, summary.Processed)
	assert.EqualValues(t, 1, summary.Skipped)
	assert.EqualValues(t, 0, summary.Failed)

	// Only jane went through the adapters.
	assert.Equal(t, []string{"jane.pdf"}, fx.conv.calls)
	assert.Equal(t, []string{"jane.pdf"}, fx.extr.calls)

	// One root row + sub-entity rows, headers included.
	assert.Equal(t, 2, fx.rowCount(t, "Candidates"))
	assert.Equal(t, 3, fx.rowCount(t, "Experience"))
	assert.Equal(t, 2, fx.rowCount(t, "Skills"))

	// Cache now has both digests.
	assert.Len(t, fx.cacheLines(t), 2)
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	fx.addFile(t, "omar.pdf", "omar cv bytes")

	first := fx.run(t, false)
	assert.EqualValues(t, 2, first.Processed)
	candidates := fx.rowCount(t, "Candidates")
	experience := fx.rowCount(t, "Experience")

	second := fx.run(t, false)
	assert.EqualValues(t, 0, second.Processed)
	assert.EqualValues(t, 2, second.Skipped)
	assert.Equal(t, candidates, fx.rowCount(t, "Candidates"))
	assert.Equal(t, experience, fx.rowCount(t, "Experience"))
}

func TestRun_ForceReprocessesAndAppendsDuplicate(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")

	fx.run(t, false)
	require.Equal(t, 2, fx.rowCount(t, "Candidates"))
	require.Len(t, fx.cacheLines(t), 1)

	summary := fx.run(t, true)
	assert.EqualValues(t, 1, summary.Processed)

	// Duplicate-on-purpose: a second row set and a second cache line.
	assert.Equal(t, 3, fx.rowCount(t, "Candidates"))
	lines := fx.cacheLines(t)
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1])
}

func TestRun_ParentIDsAreSequentialAcrossRuns(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	fx.run(t, false)

	fx.addFile(t, "omar.pdf", "omar cv bytes")
	fx.run(t, false)

	f, err := excelize.OpenFile(fx.storePath)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()
	rows, err := f.GetRows("Candidates")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[2][0])
}

func TestRun_ConversionFailureSkipsFileAndKeepsCacheClean(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	fx.addFile(t, "corrupt.pdf", "garbage")
	fx.conv.failFor["corrupt.pdf"] = errors.New("unreadable stream")

	summary := fx.run(t, false)
	assert.EqualValues(t, 1, summary.Processed)
	assert.EqualValues(t, 1, summary.Failed)

	var failed FileResult
	for _, r := range summary.Results {
		if r.Status == StatusConversionFailed {
			failed = r
		}
	}
	assert.Contains(t, failed.Path, "corrupt.pdf")
	assert.Contains(t, failed.Err, "unreadable stream")

	// Only jane's digest committed; corrupt.pdf is retried next run.
	assert.Len(t, fx.cacheLines(t), 1)
	second := fx.run(t, false)
	assert.Equal(t, []string{"corrupt.pdf"}, fx.conv.calls[len(fx.conv.calls)-1:])
	assert.EqualValues(t, 1, second.Failed)
}

func TestRun_ExtractionFailureKeepsCacheClean(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	fx.extr.failFor["jane.pdf"] = errors.New("schema validation failed")

	summary := fx.run(t, false)
	assert.EqualValues(t, 0, summary.Processed)
	assert.EqualValues(t, 1, summary.Failed)
	assert.Equal(t, StatusExtractionFailed, summary.Results[0].Status)
	assert.Empty(t, fx.cacheLines(t))
}

func TestRun_NormalizationFailureKeepsCacheClean(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	fx.extr.docs["jane.pdf"] = `{"full_name": "", "email": "jane@example.com"}`

	summary := fx.run(t, false)
	assert.EqualValues(t, 1, summary.Failed)
	assert.Equal(t, StatusNormalizationFailed, summary.Results[0].Status)
	assert.Empty(t, fx.cacheLines(t))
}

func TestRun_StoreWriteFailureDoesNotCommitCache(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	// A missing parent directory makes the workbook save fail.
	fx.storePath = filepath.Join(t.TempDir(), "missing", "out.xlsx")

	summary := fx.run(t, false)
	assert.EqualValues(t, 1, summary.Failed)
	assert.Equal(t, StatusWriteFailed, summary.Results[0].Status)
	assert.Empty(t, fx.cacheLines(t))
}

func TestRun_FiltersExtensionsAndHiddenFiles(t *testing.T) {
	fx := newFixture(t)
	fx.addFile(t, "jane.pdf", "jane cv bytes")
	fx.addFile(t, "photo.png", "png bytes")
	fx.addFile(t, "notes.xlsx", "xlsx bytes")
	fx.addFile(t, ".hidden.pdf", "hidden bytes")

	summary := fx.run(t, false)
	assert.EqualValues(t, 1, summary.Matched)
	assert.EqualValues(t, 1, summary.Processed)
}

func TestRun_WalksNestedDirectories(t *testing.T) {
	fx := newFixture(t)
	sub := filepath.Join(fx.dir, "north")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "jane.pdf"), []byte("jane"), 0o644))

	summary := fx.run(t, false)
	assert.EqualValues(t, 1, summary.Processed)
}

func TestRun_RequiresRootAndStore(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.p.Run(context.Background(), Options{StorePath: "x.xlsx"})
	require.Error(t, err)
	_, err = fx.p.Run(context.Background(), Options{RootDir: fx.dir})
	require.Error(t, err)
}

package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/observability"
	"github.com/couchcryptid/sedbuilder/internal/pipeline"
	"github.com/couchcryptid/sedbuilder/internal/render"
	"github.com/couchcryptid/sedbuilder/internal/table"
)

const sedDoc = `{"ResponseInfo":{"statusCode":"OK"},"Properties":{"Nh":1e20},"Catalogs":[{"Catalog":{"CatalogName":"C1","ErrorRadius":5.0},"SourceData":[{"Frequency":1e14,"Nufnu":1e-11,"FrequencyError":1e12,"NufnuError":1e-12},{"Info":"Upper Limit"}]}]}`

var exportTime = time.Date(2026, time.March, 3, 21, 0, 0, 0, time.UTC)

// --- mocks ---

type mockFetcher struct {
	calls []string
	err   error
}

func (m *mockFetcher) GetData(_ context.Context, ra, dec float64) (*domain.Response, error) {
	coords, err := domain.NewCoordinates(ra, dec)
	if err != nil {
		return nil, err
	}
	m.calls = append(m.calls, coords.Key())
	if m.err != nil {
		return nil, m.err
	}
	return domain.ParseResponse([]byte(sedDoc))
}

type mockLoader struct {
	batches [][]domain.ExportEvent
	err     error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.ExportEvent) error {
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, events)
	return nil
}

type harness struct {
	pipeline *pipeline.Pipeline
	fetcher  *mockFetcher
	loader   *mockLoader
	metrics  *observability.Metrics
}

func newHarness(t *testing.T, format render.Format, opts render.Options) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClockAt(exportTime)

	h := &harness{fetcher: &mockFetcher{}, loader: &mockLoader{}, metrics: metrics}
	tfm := pipeline.NewTransformer(render.New(logger, metrics), format, opts, clock)
	h.pipeline = pipeline.New(h.fetcher, tfm, h.loader, clock, logger, metrics)
	return h
}

func mustCoords(t *testing.T, ra, dec float64) domain.Coordinates {
	t.Helper()
	c, err := domain.NewCoordinates(ra, dec)
	require.NoError(t, err)
	return c
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	h := newHarness(t, render.FormatTable, render.Options{})
	positions := []domain.Coordinates{mustCoords(t, 166.11, 38.21), mustCoords(t, 83.6329, 22.0144)}

	n, err := h.pipeline.Run(context.Background(), positions)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []string{"166.11,38.21", "83.6329,22.0144"}, h.fetcher.calls)
	require.Len(t, h.loader.batches, 1)
	batch := h.loader.batches[0]
	require.Len(t, batch, 2)

	want := domain.ExportEvent{
		Key:             "166.11,38.21",
		Format:          "table",
		ContentType:     "application/json",
		ExportedAt:      exportTime,
		Measurements:    1,
		WarningsDropped: 1,
	}
	if diff := cmp.Diff(want, batch[0], cmpopts.IgnoreFields(domain.ExportEvent{}, "Body")); diff != "" {
		t.Errorf("export event mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, string(batch[0].Body), `"columns"`)

	assert.InDelta(t, 2, testutil.ToFloat64(h.metrics.DocumentsExported.WithLabelValues("table")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(h.metrics.WarningRowsDropped), 0)
	assert.NoError(t, h.pipeline.CheckReadiness(context.Background()))
}

func TestPipeline_Run_Jetset(t *testing.T) {
	p, err := table.NewJetsetParams(0.1)
	require.NoError(t, err)
	h := newHarness(t, render.FormatJetset, render.Options{Jetset: &p})

	_, err = h.pipeline.Run(context.Background(), []domain.Coordinates{mustCoords(t, 10, 10)})
	require.NoError(t, err)
	require.Len(t, h.loader.batches, 1)
	assert.Contains(t, string(h.loader.batches[0][0].Body), `"name":"x"`)
}

func TestPipeline_Run_FetchErrorStops(t *testing.T) {
	h := newHarness(t, render.FormatJSON, render.Options{})
	h.fetcher.err = errors.New("boom")

	_, err := h.pipeline.Run(context.Background(), []domain.Coordinates{mustCoords(t, 1, 1), mustCoords(t, 2, 2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch 1,1")
	assert.Len(t, h.fetcher.calls, 1, "the run stops at the first failure")
	assert.Empty(t, h.loader.batches)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.ExportErrors.WithLabelValues("fetch")), 0)
	assert.Error(t, h.pipeline.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RenderError(t *testing.T) {
	h := newHarness(t, render.FormatJetset, render.Options{})

	_, err := h.pipeline.Run(context.Background(), []domain.Coordinates{mustCoords(t, 1, 1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrInvalidRedshift)
	assert.Empty(t, h.loader.batches)
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.ExportErrors.WithLabelValues("render")), 0)
}

func TestPipeline_Run_LoadError(t *testing.T) {
	h := newHarness(t, render.FormatJSON, render.Options{})
	h.loader.err = errors.New("broker down")

	_, err := h.pipeline.Run(context.Background(), []domain.Coordinates{mustCoords(t, 1, 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.ExportErrors.WithLabelValues("load")), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	h := newHarness(t, render.FormatJSON, render.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.pipeline.Run(ctx, []domain.Coordinates{mustCoords(t, 1, 1)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.fetcher.calls)
}

func TestPipeline_Run_NoPositions(t *testing.T) {
	h := newHarness(t, render.FormatJSON, render.Options{})

	n, err := h.pipeline.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, h.loader.batches)
}

func TestPipeline_Export(t *testing.T) {
	h := newHarness(t, render.FormatCSV, render.Options{})
	resp, err := domain.ParseResponse([]byte(sedDoc))
	require.NoError(t, err)

	event, err := h.pipeline.Export(context.Background(), "mrk421.json", resp)
	require.NoError(t, err)

	assert.Equal(t, "mrk421.json", event.Key)
	assert.Equal(t, "text/csv", event.ContentType)
	assert.Equal(t, exportTime, event.ExportedAt)
	assert.Empty(t, h.fetcher.calls)
	require.Len(t, h.loader.batches, 1)
	assert.Equal(t, event, h.loader.batches[0][0])
}

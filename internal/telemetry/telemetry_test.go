package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"lifegrid/internal/sims/survival"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runWorld drives a small world with the given observers attached and returns
// the stats of every tick, including the reset.
func runWorld(t *testing.T, ticks int, observers ...survival.PopulationObserver) (survival.Config, []survival.Stats) {
	t.Helper()
	cfg := survival.DefaultConfig()
	cfg.Width = 24
	cfg.Height = 24
	cfg.Seed = 21
	cfg.SpawnChance = 0.1

	opts := []survival.Option{survival.WithLogger(quietLogger())}
	for _, o := range observers {
		opts = append(opts, survival.WithObserver(o))
	}
	world := survival.NewWithConfig(cfg, opts...)
	world.Reset(0)
	stats := []survival.Stats{world.Stats()}
	for i := 0; i < ticks; i++ {
		stats = append(stats, world.Tick())
	}
	return cfg, stats
}

func TestTickLogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tl, err := OpenTickLog(dir, 21, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, stats := runWorld(t, 25, tl)
	if err := tl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if tl.Err() != nil {
		t.Fatalf("write error: %v", tl.Err())
	}
	if tl.Path() != TickLogPath(dir, 21) {
		t.Fatalf("path = %s", tl.Path())
	}

	got, err := ReadTickLogFile(tl.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := make([]Record, 0, len(stats))
	for _, s := range stats {
		want = append(want, RecordFromStats(s))
	}
	if !slices.Equal(got, want) {
		t.Fatalf("tick log has %d records, want %d matching the run", len(got), len(want))
	}
}

func TestTickLogWriteAfterCloseIsRemembered(t *testing.T) {
	tl, err := OpenTickLog(t.TempDir(), 1, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := tl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	tl.ObserveTick(survival.Stats{Tick: 1})
	if tl.Err() == nil {
		t.Fatal("expected the failed write to be recorded")
	}
}

func TestTickRecordsMatchSchema(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("testdata", "tick_record.schema.json"))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}

	dir := t.TempDir()
	tl, err := OpenTickLog(dir, 5, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	runWorld(t, 10, tl)
	if err := tl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	records, err := ReadTickLogFile(tl.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatal(err)
		}
		if err := schema.Validate(doc); err != nil {
			t.Fatalf("tick %d: %v", r.Tick, err)
		}
	}

	var bad any
	_ = json.Unmarshal([]byte(`{"tick":1,"living":-1}`), &bad)
	if err := schema.Validate(bad); err == nil {
		t.Fatal("schema should reject incomplete records")
	}
}

func TestIndexSummarizesRun(t *testing.T) {
	ctx := context.Background()
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "stats", "index.db"), quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ix.Close()

	cfg := survival.DefaultConfig()
	cfg.Seed = 21
	runID, err := ix.BeginRun(ctx, cfg)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	_, stats := runWorld(t, 30, ix)
	if ix.Err() != nil {
		t.Fatalf("write error: %v", ix.Err())
	}

	records, err := ix.Records(ctx, runID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != len(stats) {
		t.Fatalf("stored %d ticks, want %d", len(records), len(stats))
	}

	sum, err := ix.Summary(ctx, runID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := RunSummary{RunID: runID, Seed: 21, Ticks: len(stats)}
	for _, s := range stats {
		want.PeakLiving = max(want.PeakLiving, s.Living)
		want.MaxOldest = max(want.MaxOldest, s.OldestLiving)
		want.Births += s.Births
		want.Deaths += s.Deaths
		want.Consumed += s.Consumed
	}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}

	second, err := ix.BeginRun(ctx, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second == runID {
		t.Fatal("runs should get distinct ids")
	}
	empty, err := ix.Summary(ctx, second)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if empty.Ticks != 0 {
		t.Fatalf("new run has %d ticks", empty.Ticks)
	}
	if _, err := ix.Summary(ctx, 9999); err == nil {
		t.Fatal("unknown run should fail")
	}
}

func TestIndexRequiresRun(t *testing.T) {
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"), quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ix.Close()
	if err := ix.Record(Record{Tick: 1}); err == nil {
		t.Fatal("recording without a run should fail")
	}
}

package runlog_test

import (
	"errors"
	"path/filepath"
	"testing"

	"lifeaccel/internal/runlog"
)

func openTestLog(t *testing.T) *runlog.Log {
	t.Helper()
	l, err := runlog.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func testMeta() runlog.RunMeta {
	return runlog.RunMeta{
		Engine:  "pool",
		Rows:    180,
		Cols:    320,
		Workers: 8,
		Seed:    42,
		Fill:    0.3,
		Pattern: "",
	}
}

func TestStartRunRoundTripsMetadata(t *testing.T) {
	l := openTestLog(t)
	id, err := l.StartRun(testMeta())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	run, err := l.Run(id)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Meta != testMeta() {
		t.Errorf("expected meta %+v, got %+v", testMeta(), run.Meta)
	}
	if run.StartedAt.IsZero() {
		t.Error("expected a start timestamp")
	}
	if !run.FinishedAt.IsZero() {
		t.Error("expected an open run to have no finish timestamp")
	}
}

func TestRecordAndReadBackSamples(t *testing.T) {
	l := openTestLog(t)
	id, err := l.StartRun(testMeta())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	in := []runlog.Sample{
		{Generation: 120, Live: 900, LiveDelta: -40, StepMillis: 1.5, TickMillis: 16.6, TPS: 60.1, AvgTPS: 59.8},
		{Generation: 60, Live: 940, LiveDelta: -100, StepMillis: 1.7, TickMillis: 16.7, TPS: 59.9, AvgTPS: 59.9},
		{Generation: 180, Live: 870, LiveDelta: -30, StepMillis: 1.4, TickMillis: 16.5, TPS: 60.4, AvgTPS: 60.0},
	}
	for _, s := range in {
		if err := l.Record(id, s); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	out, err := l.Samples(id)
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(out))
	}
	wantOrder := []uint64{60, 120, 180}
	for i, s := range out {
		if s.Generation != wantOrder[i] {
			t.Errorf("expected generation %d at position %d, got %d", wantOrder[i], i, s.Generation)
		}
	}
	if out[1] != in[0] {
		t.Errorf("expected sample %+v, got %+v", in[0], out[1])
	}
}

func TestFinishRunStampsSummary(t *testing.T) {
	l := openTestLog(t)
	id, err := l.StartRun(testMeta())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := l.FinishRun(id, runlog.Summary{Generations: 600, FinalLive: 123}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	run, err := l.Run(id)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.FinishedAt.IsZero() {
		t.Error("expected a finish timestamp")
	}
	if run.Generations != 600 {
		t.Errorf("expected 600 generations, got %d", run.Generations)
	}
	if run.FinalLive != 123 {
		t.Errorf("expected final live 123, got %d", run.FinalLive)
	}
}

func TestUnknownRunIDsReportNotFound(t *testing.T) {
	l := openTestLog(t)
	if _, err := l.Run(977); !errors.Is(err, runlog.ErrNotFound) {
		t.Errorf("Run: expected ErrNotFound, got %v", err)
	}
	if err := l.FinishRun(977, runlog.Summary{}); !errors.Is(err, runlog.ErrNotFound) {
		t.Errorf("FinishRun: expected ErrNotFound, got %v", err)
	}
}

func TestSamplesAreScopedToTheirRun(t *testing.T) {
	l := openTestLog(t)
	first, err := l.StartRun(testMeta())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	second, err := l.StartRun(testMeta())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := l.Record(first, runlog.Sample{Generation: 1, Live: 10}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := l.Record(second, runlog.Sample{Generation: 2, Live: 20}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := l.Samples(second)
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(got) != 1 || got[0].Generation != 2 || got[0].Live != 20 {
		t.Errorf("expected only the second run's sample, got %+v", got)
	}
}

package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/san-kum/sitnikov/internal/integrators"
	"github.com/san-kum/sitnikov/internal/ode"
	"github.com/san-kum/sitnikov/internal/orbit"
	"github.com/san-kum/sitnikov/internal/physics"
	"github.com/san-kum/sitnikov/internal/scan"
	"github.com/san-kum/sitnikov/internal/sim"
)

func testSolution(t *testing.T) (*sim.Solution, sim.Config) {
	t.Helper()

	el, err := orbit.NewElements(1, 0.2)
	if err != nil {
		t.Fatalf("elements: %v", err)
	}

	cfg := sim.DefaultConfig()
	cfg.Periods = 1
	cfg.Step = 0.5

	batch := sim.NewBatch(physics.NewSitnikov(el), func() ode.Integrator { return integrators.NewRK4() })
	sol, err := batch.Run(context.Background(), []scan.Condition{{Z0: 0.5}, {Z0: 1.0}}, cfg)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	return sol, cfg
}

func TestSaveSolutionRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	sol, cfg := testSolution(t)
	runID, err := store.SaveSolution(1, 0.2, cfg.Periods, cfg.Step, "rk4", sol)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Rows != 2 || meta.Samples != sol.Stride {
		t.Errorf("metadata rows=%d samples=%d, want 2 and %d", meta.Rows, meta.Samples, sol.Stride)
	}
	if meta.Ecc != 0.2 {
		t.Errorf("metadata e=%g, want 0.2", meta.Ecc)
	}
}

func TestSaveSolutionCSVLayout(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	sol, cfg := testSolution(t)
	runID, err := store.SaveSolution(1, 0.2, cfg.Periods, cfg.Step, "rk4", sol)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, runID, "states.csv"))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	wantRows := 1 + len(sol.States) // header + one line per state
	if len(records) != wantRows {
		t.Fatalf("csv has %d rows, want %d", len(records), wantRows)
	}
	if records[0][0] != "row" || records[0][2] != "z" {
		t.Errorf("unexpected header %v", records[0])
	}

	// Row indices must follow the flat row-major layout.
	rowOfLine := func(line int) int {
		n, err := strconv.Atoi(records[line][0])
		if err != nil {
			t.Fatalf("line %d: bad row index %q", line, records[line][0])
		}
		return n
	}
	if rowOfLine(1) != 0 {
		t.Error("first state line should belong to row 0")
	}
	if rowOfLine(1+sol.Stride) != 1 {
		t.Error("stride-th state line should belong to row 1")
	}
}

func TestSaveTrajectoryAndList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	el, err := orbit.NewElements(1, 0)
	if err != nil {
		t.Fatalf("elements: %v", err)
	}
	cfg := sim.DefaultConfig()
	cfg.Periods = 1
	cfg.Step = 0.5

	tr, err := sim.New(physics.NewSitnikov(el), integrators.NewRK4()).
		Run(context.Background(), ode.State{0.5, 0}, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := store.SaveTrajectory(1, 0, cfg.Periods, cfg.Step, "rk4", tr); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
	if runs[0].Rows != 1 || runs[0].Samples != len(tr.States) {
		t.Errorf("listed metadata %+v inconsistent with trajectory", runs[0])
	}
}

func TestListEmptyStore(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

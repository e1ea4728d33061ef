package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/morph/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames:  3,
		Elapsed: time.Second,
		Metrics: map[string]float64{"convergence": 1, "spread": 42},
		Series: map[string][]float64{
			"convergence": {0, 0.5, 1},
			"spread":      {10, 30, 42},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := NewRunMetadata(RunMetadata{Script: "default", Initial: "initial", Population: 100, Seed: 42, Workers: 2}, testResult())
	runID, err := st.Save(meta, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID || loaded.Seed != 42 || loaded.Frames != 3 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Metrics["spread"] != 42 {
		t.Errorf("expected spread 42, got %f", loaded.Metrics["spread"])
	}
	if loaded.FPS != 3 {
		t.Errorf("expected 3 fps, got %f", loaded.FPS)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if got := series["convergence"]; len(got) != 3 || got[1] != 0.5 {
		t.Errorf("unexpected convergence series %v", got)
	}
	if got := series["spread"]; len(got) != 3 || got[2] != 42 {
		t.Errorf("unexpected spread series %v", got)
	}
}

func TestStoreUnevenSeries(t *testing.T) {
	st := New(t.TempDir())
	result := &sim.Result{Series: map[string][]float64{"a": {1, 2, 3}, "b": {4}}}
	runID, err := st.Save(RunMetadata{}, result)
	if err != nil {
		t.Fatal(err)
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(series["a"]) != 3 || len(series["b"]) != 1 {
		t.Errorf("unexpected series lengths %d/%d", len(series["a"]), len(series["b"]))
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := New(filepath.Join(dir, "missing")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list for a missing dir, got %v, %v", runs, err)
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(NewRunMetadata(RunMetadata{Script: "rings"}, testResult()), testResult()); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	meta := NewRunMetadata(RunMetadata{Script: "default", Seed: 7}, testResult())
	if err := ExportJSON(path, meta, testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Seed   int64                `json:"seed"`
		Series map[string][]float64 `json:"series"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Seed != 7 || len(got.Series["spread"]) != 3 {
		t.Errorf("unexpected export %+v", got)
	}
}

// Package storage keeps records of headless runs on disk: a metadata.json
// per run plus the per-frame metric series as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/morph/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes how a run was set up and how it ended.
type RunMetadata struct {
	ID         string             `json:"id"`
	Script     string             `json:"script"`
	Initial    string             `json:"initial"`
	Schedule   map[int]string     `json:"schedule,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Population int                `json:"population"`
	Seed       int64              `json:"seed"`
	Frames     int                `json:"frames"`
	Workers    int                `json:"workers"`
	FastTrig   bool               `json:"fast_trig"`
	Elapsed    time.Duration      `json:"elapsed"`
	FPS        float64            `json:"fps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewRunMetadata fills the result-derived fields of meta.
func NewRunMetadata(meta RunMetadata, result *sim.Result) RunMetadata {
	meta.Timestamp = time.Now()
	meta.Frames = result.Frames
	meta.Elapsed = result.Elapsed
	meta.FPS = result.FPS()
	meta.Metrics = result.Metrics
	return meta
}

// Save writes meta and the result's series under a fresh run ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Script
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeSeries(csvFile, result.Series); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeSeries(f *os.File, series map[string][]float64) error {
	names := make([]string, 0, len(series))
	rows := 0
	for name, vals := range series {
		names = append(names, name)
		if len(vals) > rows {
			rows = len(vals)
		}
	}
	sort.Strings(names)

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"frame"}, names...)); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa(i)}
		for _, name := range names {
			v := ""
			if vals := series[name]; i < len(vals) {
				v = strconv.FormatFloat(vals[i], 'f', 6, 64)
			}
			row = append(row, v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back the metric series of a run. Blank cells end a
// series early.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	series := make(map[string][]float64)
	if len(records) == 0 {
		return series, nil
	}
	header := records[0]
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for j := 1; j < len(record) && j < len(header); j++ {
			if record[j] == "" {
				continue
			}
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s column %s: %w", runID, header[j], err)
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}
	return series, nil
}

// ExportJSON writes meta and the full series of a run to path as one
// JSON document.
func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	data := struct {
		RunMetadata
		Series map[string][]float64 `json:"series"`
	}{meta, result.Series}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

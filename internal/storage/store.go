package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/sitnikov/internal/sim"
)

// Store persists runs as one directory each: metadata.json alongside a
// states.csv holding the flat row-major state sequence.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	A          float64            `json:"a"`
	Ecc        float64            `json:"e"`
	Periods    int                `json:"periods"`
	Step       float64            `json:"step"`
	Integrator string             `json:"integrator"`
	Rows       int                `json:"rows"`
	Samples    int                `json:"samples"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// SaveSolution persists an aggregated scan result and returns its run ID.
func (s *Store) SaveSolution(a, ecc float64, periods int, step float64, integrator string, sol *sim.Solution) (string, error) {
	meta := RunMetadata{
		A: a, Ecc: ecc, Periods: periods, Step: step, Integrator: integrator,
		Rows:    sol.Rows(),
		Samples: sol.Stride,
	}

	return s.save("scan", meta, func(w *csv.Writer) error {
		if err := w.Write([]string{"row", "anomaly", "z", "v"}); err != nil {
			return err
		}
		for i := 0; i < sol.Rows(); i++ {
			for k, st := range sol.Row(i) {
				if err := writeSample(w, strconv.Itoa(i), sol.Anomalies[k], st[0], st[1]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SaveTrajectory persists a single-condition run and returns its run ID.
func (s *Store) SaveTrajectory(a, ecc float64, periods int, step float64, integrator string, tr *sim.Trajectory) (string, error) {
	meta := RunMetadata{
		A: a, Ecc: ecc, Periods: periods, Step: step, Integrator: integrator,
		Rows:    1,
		Samples: len(tr.Anomalies),
		Metrics: tr.Metrics,
	}

	return s.save("run", meta, func(w *csv.Writer) error {
		if err := w.Write([]string{"row", "anomaly", "z", "v"}); err != nil {
			return err
		}
		for k, st := range tr.States {
			if err := writeSample(w, "0", tr.Anomalies[k], st[0], st[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) save(kind string, meta RunMetadata, writeStates func(*csv.Writer) error) (string, error) {
	runID := fmt.Sprintf("%s_%d", kind, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := writeStates(w); err != nil {
		return "", err
	}
	w.Flush()
	return runID, w.Error()
}

func writeSample(w *csv.Writer, row string, anomaly, z, v float64) error {
	return w.Write([]string{
		row,
		strconv.FormatFloat(anomaly, 'f', 6, 64),
		strconv.FormatFloat(z, 'g', -1, 64),
		strconv.FormatFloat(v, 'g', -1, 64),
	})
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
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

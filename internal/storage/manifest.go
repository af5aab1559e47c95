package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/raytrace"
	"github.com/san-kum/acoustray/internal/sim"
)

const manifestName = "run.json"

// Manifest records the parameters and per-frame statistics of a run.
type Manifest struct {
	Scenario     string             `json:"scenario"`
	Timestamp    time.Time          `json:"timestamp"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Frames       int                `json:"frames"`
	Steps        int                `json:"steps"`
	CellSize     float64            `json:"cell_size"`
	XRange       grid.Range         `json:"x_range"`
	YRange       grid.Range         `json:"y_range"`
	Sources      int                `json:"sources"`
	Boundaries   int                `json:"boundaries"`
	PeakRays     int                `json:"peak_rays"`
	MaxIntensity float64            `json:"max_intensity"`
	Events       raytrace.Events    `json:"events"`
	Metrics      map[string]float64 `json:"metrics"`
	Stats        []sim.Stats        `json:"stats"`
}

// NewManifest fills a manifest from a finished run.
func NewManifest(scenario string, s *sim.Simulation, cellSize, dt, duration float64, res *sim.Result) *Manifest {
	xr, yr := s.Ranges()
	return &Manifest{
		Scenario:     scenario,
		Timestamp:    time.Now(),
		Dt:           dt,
		Duration:     duration,
		Frames:       res.Frames,
		Steps:        res.Steps,
		CellSize:     cellSize,
		XRange:       xr,
		YRange:       yr,
		Sources:      len(s.Sources()),
		Boundaries:   len(s.Boundaries()),
		PeakRays:     res.PeakRays,
		MaxIntensity: res.MaxIntensity,
		Events:       res.Events,
		Metrics:      res.Metrics,
		Stats:        res.Stats,
	}
}

func (s *Store) WriteManifest(m *Manifest) error {
	file, err := os.Create(filepath.Join(s.dir, manifestName))
	if err != nil {
		return err
	}
	defer file.Close()

	if err := EncodeManifest(file, m); err != nil {
		return err
	}
	return file.Close()
}

// EncodeManifest writes m as indented JSON.
func EncodeManifest(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func (s *Store) LoadManifest() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, manifestName))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/birdsim/internal/damage"
	"github.com/san-kum/birdsim/internal/experiment"
	"github.com/san-kum/birdsim/internal/export"
	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/impact"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is everything about a run except its samples.
type RunMetadata struct {
	ID           string                `json:"id"`
	Bird         string                `json:"bird"`
	Timestamp    time.Time             `json:"timestamp"`
	Params       flight.Params         `json:"params"`
	Attack       damage.Mode           `json:"attack"`
	InitialSpeed float64               `json:"initial_speed"`
	FinalSpeed   float64               `json:"final_speed"`
	Steps        int                   `json:"steps"`
	Metrics      map[string]float64    `json:"metrics"`
	Obstacles    []impact.Obstacle     `json:"obstacles,omitempty"`
	Collision    *impact.Collision     `json:"collision,omitempty"`
	ContactTime  float64               `json:"contact_time"`
	Multiplier   float64               `json:"multiplier"`
	ImpactForce  float64               `json:"impact_force"`
	Impacts      []damage.ImpactResult `json:"impacts"`
}

func (s *Store) Save(out *experiment.Outcome) (string, error) {
	if out == nil || out.Result == nil {
		return "", errors.New("storage: empty outcome")
	}

	ts := s.now()
	runID, runDir, err := s.mkRunDir(out.Bird, ts)
	if err != nil {
		return "", err
	}

	res := out.Result
	meta := RunMetadata{
		ID:           runID,
		Bird:         out.Bird,
		Timestamp:    ts,
		Params:       res.Params,
		Attack:       out.Attack,
		InitialSpeed: res.InitialSpeed,
		FinalSpeed:   res.FinalSpeed,
		Steps:        res.Steps,
		Metrics:      res.Metrics,
		Obstacles:    out.Obstacles,
		Collision:    out.Collision,
		ContactTime:  out.ContactTime,
		Multiplier:   out.Multiplier,
		ImpactForce:  out.ImpactForce,
		Impacts:      out.Impacts,
	}

	if err := writeRun(runDir, meta, res.Trajectory); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, traj flight.Trajectory) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	return export.WriteFile(filepath.Join(runDir, trajectoryFile), traj, export.Raw)
}

// mkRunDir creates a fresh directory named bird_millis, bumping the
// suffix while the name is taken. Only the last path element of bird is
// used, so runs always land directly under baseDir.
func (s *Store) mkRunDir(bird string, ts time.Time) (string, string, error) {
	bird = runPrefix(bird)
	stamp := ts.UnixMilli()
	for i := 0; i < 1000; i++ {
		runID := fmt.Sprintf("%s_%d", bird, stamp+int64(i))
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("storage: no free run id for %s", bird)
}

func runPrefix(bird string) string {
	name := filepath.Base(filepath.Clean(bird))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "run"
	}
	return name
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (flight.Trajectory, error) {
	return export.ReadFile(filepath.Join(s.baseDir, runID, trajectoryFile), export.Raw)
}

// LoadOutcome rebuilds the outcome that produced a stored run.
func (s *Store) LoadOutcome(runID string) (*experiment.Outcome, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	traj, err := s.LoadTrajectory(runID)
	if err != nil {
		return nil, err
	}

	return &experiment.Outcome{
		Bird:   meta.Bird,
		Attack: meta.Attack,
		Result: &flight.Result{
			Params:       meta.Params,
			Trajectory:   traj,
			InitialSpeed: meta.InitialSpeed,
			FinalSpeed:   meta.FinalSpeed,
			Steps:        meta.Steps,
			Metrics:      meta.Metrics,
		},
		Obstacles:   meta.Obstacles,
		Collision:   meta.Collision,
		ContactTime: meta.ContactTime,
		Multiplier:  meta.Multiplier,
		ImpactForce: meta.ImpactForce,
		Impacts:     meta.Impacts,
	}, nil
}

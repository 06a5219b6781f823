package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/rigid"
	"github.com/san-kum/fingerkin/internal/sweep"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	modelFile    = "model.cbor"
)

var ErrMalformedSamples = errors.New("storage: malformed samples file")

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
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Kind        string             `json:"kind"`
	Timestamp   time.Time          `json:"timestamp"`
	Joints      int                `json:"joints"`
	Tendons     int                `json:"tendons"`
	Dt          float64            `json:"dt,omitempty"`
	Duration    float64            `json:"duration,omitempty"`
	TimeScaling string             `json:"time_scaling,omitempty"`
	Steps       int                `json:"steps"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the samples and a CBOR
// snapshot of the model. ID, Timestamp, Joints, Tendons and Steps are filled
// in from the arguments.
func (s *Store) Save(meta RunMetadata, model *finger.Model, result *sweep.Result) (id string, err error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Joints = model.NumJoints()
	meta.Tendons = model.NumTendons()
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), meta.Joints, meta.Tendons, result.Samples); err != nil {
		return "", err
	}

	data, err := cbor.Marshal(model.Snapshot())
	if err != nil {
		return "", fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, modelFile), data, 0644); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeSamples(path string, joints, tendons int, samples []sweep.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for i := 0; i < joints; i++ {
		header = append(header, fmt.Sprintf("theta%d", i))
	}
	header = append(header, "x", "y", "z")
	for i := 0; i < tendons; i++ {
		header = append(header, fmt.Sprintf("s%d", i))
	}
	header = append(header, "manipulability")
	if err := w.Write(header); err != nil {
		return err
	}

	for i, smp := range samples {
		if len(smp.JointAngles) != joints || len(smp.Excursions) != tendons {
			return fmt.Errorf("sample %d: %d joint angles and %d excursions, want %d and %d",
				i, len(smp.JointAngles), len(smp.Excursions), joints, tendons)
		}
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(smp.Time))
		for _, v := range smp.JointAngles {
			row = append(row, formatFloat(v))
		}
		for _, v := range smp.Tip {
			row = append(row, formatFloat(v))
		}
		for _, v := range smp.Excursions {
			row = append(row, formatFloat(v))
		}
		row = append(row, formatFloat(smp.Manipulability))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// LoadModel decodes the model snapshot saved with a run.
func (s *Store) LoadModel(runID string) (*finger.Model, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, modelFile))
	if err != nil {
		return nil, err
	}

	var snap finger.Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return finger.FromSnapshot(snap)
}

func (s *Store) LoadSamples(runID string) ([]sweep.Sample, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sweep.Sample{}, nil
	}

	want := 1 + meta.Joints + 3 + meta.Tendons + 1
	samples := make([]sweep.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != want {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", ErrMalformedSamples, i+1, len(record), want)
		}
		values := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedSamples, i+1, err)
			}
			values[j] = v
		}
		samples = append(samples, parseSample(values, meta.Joints, meta.Tendons))
	}
	return samples, nil
}

func parseSample(values []float64, joints, tendons int) sweep.Sample {
	k := 1
	smp := sweep.Sample{Time: values[0]}
	smp.JointAngles = append([]float64(nil), values[k:k+joints]...)
	k += joints
	smp.Tip = rigid.Vec3{values[k], values[k+1], values[k+2]}
	k += 3
	smp.Excursions = append([]float64(nil), values[k:k+tendons]...)
	k += tendons
	smp.Manipulability = values[k]
	return smp
}

func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}

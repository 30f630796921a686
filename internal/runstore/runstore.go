package runstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabclean/internal/analysis"
	"github.com/KaramelBytes/tabclean/internal/dataset"
	"github.com/KaramelBytes/tabclean/internal/utils"
)

const runExt = ".json"

// ErrNotFound is returned when no saved run matches an id.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguous is returned when an id prefix matches more than one run.
var ErrAmbiguous = errors.New("ambiguous run id")

// Run is one persisted clean+analyze outcome.
type Run struct {
	ID              string                  `json:"id" yaml:"id"`
	Dataset         dataset.Meta            `json:"dataset" yaml:"dataset"`
	CreatedAt       time.Time               `json:"created_at" yaml:"created_at"`
	AnalyzedCleaned bool                    `json:"analyzed_cleaned" yaml:"analyzed_cleaned"`
	Cleaning        analysis.CleaningReport `json:"cleaning" yaml:"cleaning"`
	Result          analysis.AnalysisResult `json:"result" yaml:"result"`
}

// NewRun captures an outcome for the dataset described by meta.
func NewRun(meta dataset.Meta, out analysis.Outcome) *Run {
	return &Run{
		ID:              uuid.NewString(),
		Dataset:         meta,
		CreatedAt:       time.Now().UTC(),
		AnalyzedCleaned: out.AnalyzedCleaned,
		Cleaning:        out.Cleaning,
		Result:          out.Result,
	}
}

// Store keeps runs as <id>.json files in one directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created on first Save.
func New(dir string) *Store { return &Store{dir: dir} }

// Dir returns the on-disk run directory.
func (s *Store) Dir() string { return s.dir }

// Save writes the run using an atomic rename.
func (s *Store) Save(r *Run) error {
	if r == nil || r.ID == "" {
		return errors.New("run id not set")
	}
	if err := utils.EnsureDir(s.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.dir, r.ID+runExt), data)
}

// Load reads a run by full id or unique id prefix.
func (s *Store) Load(id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty id: %w", ErrNotFound)
	}
	path := filepath.Join(s.dir, id+runExt)
	if _, err := os.Stat(path); err != nil {
		ids, lerr := s.ids()
		if lerr != nil {
			return nil, lerr
		}
		var matches []string
		for _, cand := range ids {
			if strings.HasPrefix(cand, id) {
				matches = append(matches, cand)
			}
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		case 1:
			path = filepath.Join(s.dir, matches[0]+runExt)
		default:
			return nil, fmt.Errorf("%s matches %d runs: %w", id, len(matches), ErrAmbiguous)
		}
	}
	return readRun(path)
}

// List returns every saved run, newest first.
func (s *Store) List() ([]*Run, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	runs := make([]*Run, 0, len(ids))
	for _, id := range ids {
		r, err := readRun(filepath.Join(s.dir, id+runExt))
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

func (s *Store) ids() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runs dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, runExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, runExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func readRun(path string) (*Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotFound)
		}
		return nil, fmt.Errorf("read run: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	return &r, nil
}

package stats

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/config"
	"github.com/pthm-cable/ringfield/layout"
)

// Writer handles structured render output with CSV telemetry.
type Writer struct {
	dir string
}

// NewWriter creates a telemetry writer rooted at dir.
// Returns nil if dir is empty (output disabled).
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating stats directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteConfig saves the active configuration as YAML alongside the CSVs.
func (w *Writer) WriteConfig(cfg *config.Config) error {
	if w == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(w.dir, "config.yaml"))
}

// WritePlan writes recipe.csv and summary.csv for the plan.
func (w *Writer) WritePlan(plan *layout.Plan) error {
	if w == nil {
		return nil
	}
	records, summary := Collect(plan)

	f, err := os.Create(filepath.Join(w.dir, "recipe.csv"))
	if err != nil {
		return fmt.Errorf("creating recipe.csv: %w", err)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		f.Close()
		return fmt.Errorf("writing recipe: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing recipe.csv: %w", err)
	}

	f, err = os.Create(filepath.Join(w.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	if err := gocsv.Marshal([]Summary{summary}, f); err != nil {
		f.Close()
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing summary.csv: %w", err)
	}
	return nil
}

// WriteColors writes the names of the distinct colors drawn, one per
// line, in first-use order.
func (w *Writer) WriteColors(plan *layout.Plan, db *colordb.DB) error {
	if w == nil || plan.ColorsUsed == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(w.dir, "colors.txt"))
	if err != nil {
		return fmt.Errorf("creating colors.txt: %w", err)
	}
	for _, k := range plan.ColorsUsed.Keys() {
		name := fmt.Sprintf("key-%d", k)
		if spec := db.Color(k); spec != nil {
			name = spec.Name
		}
		if _, err := fmt.Fprintln(f, name); err != nil {
			f.Close()
			return fmt.Errorf("writing colors: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing colors.txt: %w", err)
	}
	return nil
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/audioswarm/internal/boids"
)

// Report summarises a headless run.
type Report struct {
	Preset    string               `json:"preset"`
	Source    string               `json:"source"`
	Seed      int64                `json:"seed"`
	Timestamp time.Time            `json:"timestamp"`
	Frames    int                  `json:"frames"`
	Bands     int                  `json:"bands"`
	Params    boids.Params         `json:"params"`
	Metrics   map[string]float64   `json:"metrics"`
	Series    map[string][]float64 `json:"series,omitempty"`
}

// WriteJSON writes r to path, or to stdout when path is "-".
func WriteJSON(path string, r *Report) error {
	return withFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	})
}

// WriteCSV writes r's series as columns, one row per frame.
func WriteCSV(path string, r *Report) error {
	names := make([]string, 0, len(r.Series))
	rows := 0
	for name, pts := range r.Series {
		names = append(names, name)
		rows = max(rows, len(pts))
	}
	sort.Strings(names)

	return withFile(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(append([]string{"frame"}, names...)); err != nil {
			return err
		}
		for i := 0; i < rows; i++ {
			row := []string{strconv.Itoa(i + 1)}
			for _, name := range names {
				pts := r.Series[name]
				if i < len(pts) {
					row = append(row, strconv.FormatFloat(pts[i], 'f', 6, 64))
				} else {
					row = append(row, "")
				}
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func withFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return f.Close()
}

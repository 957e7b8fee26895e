package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/audioswarm/internal/boids"
)

func sampleReport() *Report {
	return &Report{
		Preset:  "classic",
		Source:  "demo",
		Seed:    7,
		Frames:  3,
		Bands:   31,
		Params:  boids.DefaultParams(),
		Metrics: map[string]float64{"speed": 4.5},
		Series: map[string][]float64{
			"speed":        {4, 5, 4.5},
			"polarization": {0.1, 0.2},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := WriteJSON(path, sampleReport()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Preset != "classic" || got.Metrics["speed"] != 4.5 || got.Params.Visibility != 30 {
		t.Errorf("decoded %+v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	if err := WriteCSV(path, sampleReport()); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(records))
	}
	if h := records[0]; h[0] != "frame" || h[1] != "polarization" || h[2] != "speed" {
		t.Errorf("header %v", h)
	}
	if last := records[3]; last[1] != "" || last[2] != "4.500000" {
		t.Errorf("last row %v", last)
	}
}

func TestWriteJSONBadPath(t *testing.T) {
	if err := WriteJSON(filepath.Join(t.TempDir(), "missing", "run.json"), sampleReport()); err == nil {
		t.Error("expected error for missing directory")
	}
}

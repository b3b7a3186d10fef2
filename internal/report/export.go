package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"kvload/internal/stats"
)

// Export writes the report in the format implied by the file extension:
// .json, .yaml/.yml, or .csv (one row per worker).
func Export(r *stats.Report, filename string) error {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return ExportJSON(r, filename)
	case ".yaml", ".yml":
		return ExportYAML(r, filename)
	case ".csv":
		return ExportCSV(r, filename)
	default:
		return fmt.Errorf("unsupported report format %q (want .json, .yaml or .csv)", ext)
	}
}

func ExportJSON(r *stats.Report, filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func ExportYAML(r *stats.Report, filename string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ExportCSV writes the per-worker breakdown followed by a "total" row.
func ExportCSV(r *stats.Report, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"worker", "attempts", "successes", "failures", "avg_latency_ms"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, ws := range r.Workers {
		record := []string{
			strconv.Itoa(ws.WorkerID),
			strconv.FormatUint(ws.Attempts, 10),
			strconv.FormatUint(ws.Successes, 10),
			strconv.FormatUint(ws.Failures, 10),
			strconv.FormatFloat(ws.AvgLatencyMs, 'f', 3, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	total := []string{
		"total",
		strconv.FormatUint(r.TotalAttempts, 10),
		strconv.FormatUint(r.TotalRequests, 10),
		strconv.FormatUint(r.Failures, 10),
		strconv.FormatFloat(r.AverageLatencyMs, 'f', 3, 64),
	}
	if err := w.Write(total); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// Package status generates the run summary atomtx writes after every
// transform or watch cycle.
//
// The summary is a small JSON file (.atomtx/status.json) that editor
// integrations and `atomtx config` read to show what the last run did.
package status

import (
	"encoding/json"
	"os"
	"sort"
)

// StatusFile is the filename within the .atomtx directory where status JSON is written.
const StatusFile = "status.json"

// topN bounds TopFiles.
const topN = 3

// FileStatus is the outcome of one file in a run.
type FileStatus struct {
	Path     string
	Changed  bool
	Cached   bool
	Skipped  bool // rejected by the prefilter
	Rewrites int
	Err      string
}

// StatusData is the JSON payload written after a run.
type StatusData struct {
	Command    string   `json:"command"`
	Passes     []string `json:"passes"`
	Files      int      `json:"files"`
	Changed    int      `json:"changed"`
	Cached     int      `json:"cached"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Rewrites   int      `json:"rewrites"`
	TopFiles   []string `json:"top_files"`
	Errors     []string `json:"errors,omitempty"`
	DurationMs int64    `json:"duration_ms"`
	FinishedAt int64    `json:"finished_at"`
}

// Generate summarizes the outcomes of one run.
func Generate(command string, passes []string, files []FileStatus) *StatusData {
	sd := &StatusData{
		Command:  command,
		Passes:   passes,
		Files:    len(files),
		TopFiles: topFiles(files, topN),
	}
	for _, f := range files {
		switch {
		case f.Err != "":
			sd.Failed++
			sd.Errors = append(sd.Errors, f.Path+": "+f.Err)
			continue
		case f.Skipped:
			sd.Skipped++
		}
		if f.Changed {
			sd.Changed++
		}
		if f.Cached {
			sd.Cached++
		}
		sd.Rewrites += f.Rewrites
	}
	return sd
}

// WriteJSON writes the status data as JSON to a file.
func WriteJSON(path string, data *StatusData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ReadJSON loads a status file. A missing file returns nil, nil.
func ReadJSON(path string) (*StatusData, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sd StatusData
	if err := json.Unmarshal(b, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

// topFiles returns the top N file paths sorted by rewrites descending.
func topFiles(files []FileStatus, n int) []string {
	var ranked []FileStatus
	for _, f := range files {
		if f.Err == "" && f.Rewrites > 0 {
			ranked = append(ranked, f)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rewrites != ranked[j].Rewrites {
			return ranked[i].Rewrites > ranked[j].Rewrites
		}
		return ranked[i].Path < ranked[j].Path
	})

	limit := n
	if limit > len(ranked) {
		limit = len(ranked)
	}

	result := make([]string, limit)
	for i := 0; i < limit; i++ {
		result[i] = ranked[i].Path
	}
	return result
}

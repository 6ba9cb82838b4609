// Package provenance records what each pipeline stage consumed and
// produced. One JSON record per invocation is dropped into the stage's log
// directory so an output file can always be traced back to its inputs.
package provenance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Record describes one external-stage invocation.
type Record struct {
	ID         string            `json:"id"`
	Stage      string            `json:"stage"`
	Inputs     map[string]string `json:"inputs,omitempty"`
	Outputs    map[string]string `json:"outputs,omitempty"`
	Command    []string          `json:"command,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Start opens a record for the named stage with a fresh ID.
func Start(stage string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Stage:     stage,
		Inputs:    make(map[string]string),
		Outputs:   make(map[string]string),
		StartedAt: time.Now().UTC(),
	}
}

// AddInput registers a named input path.
func (r *Record) AddInput(name, path string) {
	r.Inputs[name] = path
}

// AddOutput registers a named output path.
func (r *Record) AddOutput(name, path string) {
	r.Outputs[name] = path
}

// Finish stamps the end time and, when the stage failed, the error text.
func (r *Record) Finish(err error) {
	r.FinishedAt = time.Now().UTC()
	if err != nil {
		r.Error = err.Error()
	}
}

// Write persists the record as pretty JSON into dir, creating dir if
// needed. The filename embeds stage and ID so records never collide.
func (r *Record) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create provenance dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal provenance: %w", err)
	}
	p := filepath.Join(dir, fmt.Sprintf("provenance.%s.%s.json", r.Stage, r.ID))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write provenance: %w", err)
	}
	return p, nil
}

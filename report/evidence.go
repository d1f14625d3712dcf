package report

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/f32sweep/f32err"
	"github.com/lattice-substrate/f32sweep/sweep"
)

const EvidenceSchemaVersion = "f32sweep.evidence.v1"

// Run status values.
const (
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
	StatusViolation = "violation"
)

// Evidence is the machine-consumed record of one run.
type Evidence struct {
	SchemaVersion string            `json:"schema_version"`
	Lane          string            `json:"lane,omitempty"`
	First         string            `json:"first"`
	Last          string            `json:"last"`
	Patterns      uint64            `json:"patterns"`
	Converters    []string          `json:"converters"`
	Workers       int               `json:"workers"`
	Counts        map[string]uint64 `json:"counts,omitempty"`
	Status        string            `json:"status"`
	FailureClass  string            `json:"failure_class,omitempty"`
	Failure       string            `json:"failure,omitempty"`
	ElapsedMS     int64             `json:"elapsed_ms,omitempty"`
	GoVersion     string            `json:"go_version"`
}

// NewEvidence builds the record for a run over r. res is nil when the run
// aborted; runErr is the abort or validation error, if any.
func NewEvidence(r sweep.Range, converters []string, res *sweep.Result, runErr error) *Evidence {
	ev := &Evidence{
		SchemaVersion: EvidenceSchemaVersion,
		First:         fmt.Sprintf("0x%08x", r.First),
		Last:          fmt.Sprintf("0x%08x", r.Last),
		Patterns:      r.Len(),
		Converters:    converters,
		Status:        StatusCompleted,
		GoVersion:     runtime.Version(),
	}
	if res != nil {
		ev.Converters = res.Converters
		ev.Workers = res.Workers
		ev.Counts = res.Counts.Map()
		ev.ElapsedMS = res.Elapsed.Milliseconds()
	}
	if runErr != nil {
		class := f32err.ClassOf(runErr)
		ev.FailureClass = string(class)
		ev.Failure = runErr.Error()
		ev.Status = StatusAborted
		if class == f32err.ConsistencyViolation {
			ev.Status = StatusViolation
		}
	}
	return ev
}

// Canonical returns the RFC 8785 canonical JSON encoding of ev. With
// deterministic set, timing is left out so reruns are byte-identical.
func (ev *Evidence) Canonical(deterministic bool) ([]byte, error) {
	out := *ev
	if deterministic {
		out.ElapsedMS = 0
	}
	raw, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode evidence: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize evidence: %w", err)
	}
	return canonical, nil
}

// Package plan loads sweep plan files: named pattern ranges ("lanes") with
// optional converter lists and expected category counts, used to pin
// regression baselines in CI.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/xerrors"

	"github.com/lattice-substrate/f32sweep/f32class"
	"github.com/lattice-substrate/f32sweep/f32trip"
	"github.com/lattice-substrate/f32sweep/sweep"
)

// Version is the only plan document version accepted.
const Version = "plan.v1"

// Plan is a set of lanes executed in id order.
type Plan struct {
	Version string `json:"version"`
	Lanes   []Lane `json:"lanes"`
}

// Lane is one pattern range to sweep.
type Lane struct {
	ID    string `json:"id"`
	First string `json:"first"`
	Last  string `json:"last"`
	// Converters overrides the run's converters when non-empty.
	Converters []string `json:"converters,omitempty"`
	// Workers overrides the run's worker count when positive.
	Workers int `json:"workers,omitempty"`
	// Expect maps category names to the counts the lane must produce.
	// Categories left out are not checked.
	Expect map[string]uint64 `json:"expect,omitempty"`
}

// Load reads, decodes and validates a plan document.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("read plan: %w", err)
	}
	return Decode(data)
}

// Decode decodes and validates a plan document. Unknown fields and trailing
// content are rejected.
func Decode(data []byte) (*Plan, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var p Plan
	if err := dec.Decode(&p); err != nil {
		return nil, xerrors.Errorf("decode plan json: %w", err)
	}
	if err := ensureSingleJSONDocument(dec); err != nil {
		return nil, xerrors.Errorf("decode plan json: %w", err)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func ensureSingleJSONDocument(dec *json.Decoder) error {
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return fmt.Errorf("unexpected trailing json content")
		}
		return fmt.Errorf("decode trailing json token: %w", err)
	}
	return nil
}

// Validate checks plan semantics.
func Validate(p *Plan) error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}
	if p.Version != Version {
		return fmt.Errorf("plan version %q is not %q", p.Version, Version)
	}
	if len(p.Lanes) == 0 {
		return fmt.Errorf("plan must include at least one lane")
	}
	seen := make(map[string]struct{}, len(p.Lanes))
	for i := range p.Lanes {
		l := &p.Lanes[i]
		if l.ID == "" {
			return fmt.Errorf("lane[%d] id is required", i)
		}
		if _, ok := seen[l.ID]; ok {
			return fmt.Errorf("duplicate lane id: %s", l.ID)
		}
		seen[l.ID] = struct{}{}
		if _, err := l.Range(); err != nil {
			return xerrors.Errorf("lane %s: %w", l.ID, err)
		}
		for _, name := range l.Converters {
			if !slices.Contains(f32trip.Names(), name) {
				return fmt.Errorf("lane %s: unknown converter %q", l.ID, name)
			}
		}
		if l.Workers < 0 {
			return fmt.Errorf("lane %s: workers cannot be negative", l.ID)
		}
		for name := range l.Expect {
			if _, ok := f32class.ParseCategory(name); !ok {
				return fmt.Errorf("lane %s: expect: unknown category %q", l.ID, name)
			}
		}
	}
	return nil
}

// Range returns the lane's parsed pattern range.
func (l *Lane) Range() (sweep.Range, error) {
	return sweep.ParseRange(l.First, l.Last)
}

// Ordered returns the lanes sorted by id.
func (p *Plan) Ordered() []*Lane {
	byID := make(map[string]*Lane, len(p.Lanes))
	for i := range p.Lanes {
		byID[p.Lanes[i].ID] = &p.Lanes[i]
	}
	ids := maps.Keys(byID)
	slices.Sort(ids)
	out := make([]*Lane, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out
}

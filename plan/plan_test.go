package plan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/f32sweep/f32class"
	"github.com/lattice-substrate/f32sweep/f32err"
	"github.com/lattice-substrate/f32sweep/sweep"
)

func TestLoadCIPlan(t *testing.T) {
	p, err := Load(filepath.Join("..", "plans", "ci.json"))
	require.NoError(t, err)
	assert.Equal(t, Version, p.Version)

	var ids []string
	for _, l := range p.Ordered() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"first-normal", "max-finite", "negative-zero", "one"}, ids)

	// Every pinned expectation must agree with the bit layout.
	for _, l := range p.Ordered() {
		r, err := l.Range()
		require.NoError(t, err)
		want := f32class.Expected(r.First, r.Last)
		for name, n := range l.Expect {
			cat, ok := f32class.ParseCategory(name)
			require.True(t, ok)
			assert.Equal(t, want.Get(cat), n, "lane %s category %s", l.ID, name)
		}
	}
}

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", `{"version":"plan.v1","lanes":[{"id":"a","first":"0","last":"1","extra":1}]}`, "unknown field"},
		{"trailing", `{"version":"plan.v1","lanes":[{"id":"a","first":"0","last":"1"}]} {}`, "trailing json content"},
		{"version", `{"version":"plan.v0","lanes":[{"id":"a","first":"0","last":"1"}]}`, "plan version"},
		{"no lanes", `{"version":"plan.v1","lanes":[]}`, "at least one lane"},
		{"no id", `{"version":"plan.v1","lanes":[{"first":"0","last":"1"}]}`, "lane[0] id is required"},
		{"duplicate", `{"version":"plan.v1","lanes":[{"id":"a","first":"0","last":"1"},{"id":"a","first":"0","last":"1"}]}`, "duplicate lane id: a"},
		{"inverted", `{"version":"plan.v1","lanes":[{"id":"a","first":"0x10","last":"0x01"}]}`, "is above last"},
		{"bad bound", `{"version":"plan.v1","lanes":[{"id":"a","first":"0x1ffffffff","last":"1"}]}`, "invalid bit pattern"},
		{"converter", `{"version":"plan.v1","lanes":[{"id":"a","first":"0","last":"1","converters":["printf"]}]}`, `unknown converter "printf"`},
		{"workers", `{"version":"plan.v1","lanes":[{"id":"a","first":"0","last":"1","workers":-1}]}`, "workers cannot be negative"},
		{"category", `{"version":"plan.v1","lanes":[{"id":"a","first":"0","last":"1","expect":{"Denormal":1}}]}`, `unknown category "Denormal"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writePlan(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "read plan: "))
}

func TestValidateNil(t *testing.T) {
	assert.EqualError(t, Validate(nil), "plan is nil")
}

func TestExecuteRunsLanesInIDOrder(t *testing.T) {
	p, err := Decode([]byte(`{"version":"plan.v1","lanes":[
		{"id":"b","first":"0x7f7ffff0","last":"0x7f800010","converters":["exact"],"expect":{"Normal":16,"Infinite":1,"NaN":16}},
		{"id":"a","first":"0","last":"0xff","workers":3,"expect":{"Zero":1,"Subnormal":255}}
	]}`))
	require.NoError(t, err)

	outcomes, err := Execute(context.Background(), p, sweep.Options{})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "a", outcomes[0].Lane.ID)
	assert.Equal(t, 3, outcomes[0].Result.Workers)
	assert.Equal(t, []string{"strconv"}, outcomes[0].Result.Converters)
	assert.Equal(t, "b", outcomes[1].Lane.ID)
	assert.Equal(t, []string{"exact"}, outcomes[1].Result.Converters)
	assert.Equal(t, uint64(33), outcomes[1].Result.Counts.Total())
}

func TestExecuteStopsAtExpectMismatch(t *testing.T) {
	p, err := Decode([]byte(`{"version":"plan.v1","lanes":[
		{"id":"a","first":"0","last":"0xff","expect":{"Zero":2,"Subnormal":254}},
		{"id":"b","first":"0","last":"0xff"}
	]}`))
	require.NoError(t, err)

	outcomes, err := Execute(context.Background(), p, sweep.Options{})
	require.Error(t, err)
	require.Len(t, outcomes, 1)
	assert.NotNil(t, outcomes[0].Result)
	assert.Equal(t, f32err.ConsistencyViolation, f32err.ClassOf(err))
	assert.Contains(t, err.Error(), "Zero count is 1, expected 2")
	assert.Contains(t, err.Error(), "Subnormal count is 255, expected 254")
}

func TestCheckIgnoresUnlistedCategories(t *testing.T) {
	l := &Lane{ID: "a", Expect: map[string]uint64{"Normal": 3}}
	var c f32class.Counts
	for i := 0; i < 3; i++ {
		c.Add(f32class.Normal)
	}
	c.Add(f32class.NaN)
	assert.NoError(t, l.Check(c))
}

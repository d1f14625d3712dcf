package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/f32sweep/f32class"
	"github.com/lattice-substrate/f32sweep/f32err"
)

func TestValidateFullRangeLayout(t *testing.T) {
	r := FullRange()
	res := &Result{Range: r, Counts: f32class.Expected(r.First, r.Last)}
	require.NoError(t, Validate(res))

	assert.Equal(t, uint64(FullZeroCount), res.Counts.Get(f32class.Zero))
	assert.Equal(t, uint64(FullInfiniteCount), res.Counts.Get(f32class.Infinite))
	assert.Equal(t, uint64(FullNaNCount), res.Counts.Get(f32class.NaN))
	assert.Equal(t, uint64(16_777_214), res.Counts.Get(f32class.Subnormal))
	assert.Equal(t, uint64(4_261_412_864), res.Counts.Get(f32class.Normal))
	assert.Equal(t, uint64(4_294_967_296), res.Counts.Total())
}

func TestValidateReportsEveryViolation(t *testing.T) {
	r := FullRange()
	counts := f32class.Expected(r.First, r.Last)
	// Misfile one zero and one infinity as normals.
	counts[f32class.Zero]--
	counts[f32class.Infinite]--
	counts[f32class.Normal] += 2

	err := Validate(&Result{Range: r, Counts: counts})
	require.Error(t, err)
	assert.Equal(t, f32err.ConsistencyViolation, f32err.ClassOf(err))

	msg := err.Error()
	assert.Contains(t, msg, "Zero count is 1, layout gives 2")
	assert.Contains(t, msg, "Infinite count is 1, layout gives 2")
	assert.Contains(t, msg, "Normal count is 4261412866")
	assert.Contains(t, msg, "full range Zero count is 1, want 2")
	assert.Contains(t, msg, "full range Infinite count is 1, want 2")
	assert.NotContains(t, msg, "counts sum to")
}

func TestValidateDetectsLostPatterns(t *testing.T) {
	r := Range{First: 0, Last: 0x00800000}
	counts := f32class.Expected(r.First, r.Last)
	counts[f32class.Subnormal]--

	err := Validate(&Result{Range: r, Counts: counts})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counts sum to 8388608, range holds 8388609 patterns")
}

func TestValidateNil(t *testing.T) {
	assert.Equal(t, f32err.InternalError, f32err.ClassOf(Validate(nil)))
}

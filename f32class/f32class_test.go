package f32class

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySpecialValues(t *testing.T) {
	cases := []struct {
		name string
		bits uint32
		want Category
	}{
		{"positive zero", 0x00000000, Zero},
		{"negative zero", 0x80000000, Zero},
		{"positive infinity", 0x7f800000, Infinite},
		{"negative infinity", 0xff800000, Infinite},
		{"quiet NaN", 0x7fc00000, NaN},
		{"signalling NaN", 0x7f800001, NaN},
		{"negative NaN max payload", 0xffffffff, NaN},
		{"smallest subnormal", 0x00000001, Subnormal},
		{"largest subnormal", 0x007fffff, Subnormal},
		{"negative largest subnormal", 0x807fffff, Subnormal},
		{"smallest normal", 0x00800000, Normal},
		{"negative smallest normal", 0x80800000, Normal},
		{"one", 0x3f800000, Normal},
		{"max finite", 0x7f7fffff, Normal},
		{"negative max finite", 0xff7fffff, Normal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := math.Float32frombits(tc.bits)
			assert.Equal(t, tc.want, Classify(f), "Classify")
			assert.Equal(t, tc.want, ClassifyBits(tc.bits), "ClassifyBits")
		})
	}
}

func TestMinNormalBoundary(t *testing.T) {
	require.Equal(t, uint32(0x00800000), math.Float32bits(MinNormal))
	assert.Equal(t, Normal, Classify(MinNormal))
	assert.Equal(t, Normal, Classify(-MinNormal))

	below := math.Nextafter32(MinNormal, 0)
	assert.Equal(t, uint32(0x007fffff), math.Float32bits(below))
	assert.Equal(t, Subnormal, Classify(below))
	assert.Equal(t, Subnormal, Classify(-below))
}

func TestEveryNaNPatternIsNaN(t *testing.T) {
	for _, sign := range []uint32{0, signMask} {
		for mant := uint32(1); mant <= mantissaMask; mant++ {
			bits := sign | exponentMask | mant
			if c := Classify(math.Float32frombits(bits)); c != NaN {
				t.Fatalf("pattern 0x%08x classified as %s", bits, c)
			}
		}
	}
}

func TestClassifyAgreesWithBits(t *testing.T) {
	stride := uint64(4099)
	if os.Getenv("F32SWEEP_FULL") != "" {
		stride = 1
	}
	for b := uint64(0); b <= math.MaxUint32; b += stride {
		bits := uint32(b)
		if got, want := Classify(math.Float32frombits(bits)), ClassifyBits(bits); got != want {
			t.Fatalf("pattern 0x%08x: Classify=%s ClassifyBits=%s", bits, got, want)
		}
	}

	// Dense neighbourhoods around every layout boundary, both signs.
	for _, sign := range []uint32{0, signMask} {
		for _, s := range layout {
			for _, edge := range []uint32{s.lo, s.hi} {
				for d := int64(-64); d <= 64; d++ {
					bits := uint32(int64(edge|sign) + d)
					if got, want := Classify(math.Float32frombits(bits)), ClassifyBits(bits); got != want {
						t.Fatalf("pattern 0x%08x: Classify=%s ClassifyBits=%s", bits, got, want)
					}
				}
			}
		}
	}
}

func TestCategoryNames(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(c.String())
		require.True(t, ok, c.String())
		assert.Equal(t, c, got)
	}
	_, ok := ParseCategory("Denormal")
	assert.False(t, ok)
	assert.Equal(t, "Category(9)", Category(9).String())
}

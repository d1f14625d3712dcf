// Package f32class partitions IEEE 754 binary32 values into five mutually
// exclusive categories: zero, infinite, NaN, subnormal and normal.
//
// Classify works on the float value with IEEE comparisons; ClassifyBits works
// on the raw encoding. Both must agree for every one of the 2^32 patterns.
package f32class

import (
	"math"
	"strconv"
)

// Category is one of the five binary32 value classes.
type Category uint8

const (
	Zero Category = iota
	Infinite
	NaN
	Subnormal
	Normal

	// NumCategories is the number of categories.
	NumCategories = 5
)

// Categories lists every category in report order.
var Categories = [NumCategories]Category{Zero, Infinite, NaN, Subnormal, Normal}

var categoryNames = [NumCategories]string{"Zero", "Infinite", "NaN", "Subnormal", "Normal"}

// MinNormal is the smallest positive normal binary32 value, 2^-126.
const MinNormal float32 = 0x1p-126

const (
	signMask     = 0x80000000
	exponentMask = 0x7f800000
	mantissaMask = 0x007fffff
)

// String returns the stable category name.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// Classify returns the category of f.
func Classify(f float32) Category {
	switch {
	case math.IsInf(float64(f), 0):
		return Infinite
	case f != f:
		return NaN
	case -MinNormal < f && f < MinNormal && f != 0:
		return Subnormal
	case f == 0:
		return Zero
	default:
		return Normal
	}
}

// ClassifyBits returns the category of the binary32 value encoded by bits.
func ClassifyBits(bits uint32) Category {
	exp := bits & exponentMask
	mant := bits & mantissaMask
	switch exp {
	case 0:
		if mant == 0 {
			return Zero
		}
		return Subnormal
	case exponentMask:
		if mant == 0 {
			return Infinite
		}
		return NaN
	default:
		return Normal
	}
}

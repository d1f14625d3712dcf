// Package f32fmt formats IEEE 754 binary32 values as their shortest
// round-tripping decimal string without relying on strconv's formatter.
//
// Digits are generated with the Burger-Dybvig free-format algorithm over
// exact math/big integers, using the binary32 rounding interval, so the output
// is an independent oracle for the platform's float32-to-decimal path. The
// digits are laid out with the ECMAScript Number::toString rules (ECMA-262
// radix 10, steps 6-9): plain integers up to 21 digits, fixed-point down to
// 1e-6, exponential otherwise.
package f32fmt

import (
	"errors"
	"math"
	"math/big"
	"strconv"
)

var (
	ErrNotFinite = errors.New("f32fmt: value is not finite (NaN or Infinity)")

	bigTen = big.NewInt(10)
)

const (
	mantissaBits = 23
	exponentBias = 127
	// minExponent is the binary exponent of the least significant mantissa
	// bit for subnormals and the smallest normal binade.
	minExponent = 1 - exponentBias - mantissaBits
)

// FormatFloat32 formats f with the shortest decimal significand that parses
// back to f as a binary32 value.
//
// Special cases:
//   - Negative zero returns "0".
//   - NaN and ±Infinity return ErrNotFinite.
func FormatFloat32(f float32) (string, error) {
	if f != f || math.IsInf(float64(f), 0) {
		return "", ErrNotFinite
	}
	if f == 0 {
		return "0", nil
	}
	negative := f < 0
	if negative {
		f = -f
	}
	digits, n := ShortestDigits(f)
	return layout(negative, digits, n), nil
}

// layout places the significand digits around the decimal point.
// n is the decimal exponent: value = 0.<digits> * 10^n.
func layout(negative bool, digits string, n int) string {
	k := len(digits)
	buf := make([]byte, 0, k+8)
	if negative {
		buf = append(buf, '-')
	}

	switch {
	case k <= n && n <= 21:
		buf = append(buf, digits...)
		for i := 0; i < n-k; i++ {
			buf = append(buf, '0')
		}
	case 0 < n && n <= 21:
		buf = append(buf, digits[:n]...)
		buf = append(buf, '.')
		buf = append(buf, digits[n:]...)
	case -6 < n && n <= 0:
		buf = append(buf, '0', '.')
		for i := 0; i < -n; i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
	default:
		buf = append(buf, digits[0])
		if k > 1 {
			buf = append(buf, '.')
			buf = append(buf, digits[1:]...)
		}
		buf = append(buf, 'e')
		if n-1 >= 0 {
			buf = append(buf, '+')
		}
		buf = strconv.AppendInt(buf, int64(n-1), 10)
	}
	return string(buf)
}

// interval is the Burger-Dybvig scaled state: r/s is the value, and
// mMinus/s, mPlus/s are the distances to the rounding boundaries below and
// above it.
type interval struct {
	r, s, mPlus, mMinus *big.Int
	// even mantissas round half to even, so both boundaries are inclusive.
	even bool
}

// roundsDown reports whether the remainder is within the lower boundary.
func (iv *interval) roundsDown() bool {
	if iv.even {
		return iv.r.Cmp(iv.mMinus) <= 0
	}
	return iv.r.Cmp(iv.mMinus) < 0
}

// reachesHigh reports whether x/s is at or past the upper boundary.
func (iv *interval) reachesHigh(x *big.Int) bool {
	if iv.even {
		return x.Cmp(iv.s) >= 0
	}
	return x.Cmp(iv.s) > 0
}

func (iv *interval) scaleNumerators(p *big.Int) {
	iv.r.Mul(iv.r, p)
	iv.mPlus.Mul(iv.mPlus, p)
	iv.mMinus.Mul(iv.mMinus, p)
}

// newInterval builds the scaled state for a positive finite nonzero binary32.
func newInterval(f float32) *interval {
	bits := math.Float32bits(f)
	mantissa := uint64(bits & (1<<mantissaBits - 1))
	biasedExp := int(bits >> mantissaBits & 0xff)

	fMant, fExp := mantissa, minExponent
	if biasedExp != 0 {
		fMant |= 1 << mantissaBits
		fExp = biasedExp - exponentBias - mantissaBits
	}

	// At the bottom of a binade the gap below f is half the gap above it.
	lowerBoundary := biasedExp > 1 && mantissa == 0

	iv := &interval{
		r:      new(big.Int).SetUint64(fMant),
		s:      big.NewInt(1),
		mPlus:  big.NewInt(1),
		mMinus: big.NewInt(1),
		even:   fMant%2 == 0,
	}
	shift := uint(1)
	if lowerBoundary {
		shift = 2
		iv.mPlus.SetInt64(2)
	}
	iv.r.Lsh(iv.r, shift)
	if fExp >= 0 {
		e := uint(fExp)
		iv.r.Lsh(iv.r, e)
		iv.mPlus.Lsh(iv.mPlus, e)
		iv.mMinus.Lsh(iv.mMinus, e)
		iv.s.Lsh(iv.s, shift)
	} else {
		iv.s.Lsh(iv.s, uint(-fExp)+shift)
	}
	return iv
}

// ShortestDigits returns the shortest decimal significand of a positive
// finite nonzero f and its decimal exponent n, such that 0.<digits> * 10^n
// rounds to f.
func ShortestDigits(f float32) (string, int) {
	iv := newInterval(f)

	// Estimate n = ceil(log10(f)); the fixups below correct it by one.
	n := int(math.Ceil(math.Log10(float64(f))))
	if n > 0 {
		iv.s.Mul(iv.s, pow10(n))
	} else if n < 0 {
		iv.scaleNumerators(pow10(-n))
	}

	high := new(big.Int)
	if iv.reachesHigh(high.Add(iv.r, iv.mPlus)) {
		iv.s.Mul(iv.s, bigTen)
		n++
	}
	for !iv.reachesHigh(high.Mul(high.Add(iv.r, iv.mPlus), bigTen)) {
		iv.scaleNumerators(bigTen)
		n--
	}

	var buf [16]byte
	k := 0
	quot, rem := new(big.Int), new(big.Int)
	for {
		iv.scaleNumerators(bigTen)
		quot.DivMod(iv.r, iv.s, rem)
		iv.r.Set(rem)
		d := byte(quot.Int64())

		low := iv.roundsDown()
		up := iv.reachesHigh(high.Add(iv.r, iv.mPlus))
		switch {
		case !low && !up:
			buf[k] = '0' + d
			k++
			continue
		case low && !up:
		case !low && up:
			d++
		default:
			// Both neighbours are admissible: take the nearer, ties to even.
			switch c := high.Lsh(iv.r, 1).Cmp(iv.s); {
			case c > 0, c == 0 && d%2 == 1:
				d++
			}
		}
		buf[k] = '0' + d
		k++
		break
	}

	// A rounded-up final 9 carries into the preceding digits.
	for i := k - 1; i > 0 && buf[i] > '9'; i-- {
		buf[i] = '0'
		buf[i-1]++
	}
	if buf[0] > '9' {
		copy(buf[1:k+1], buf[:k])
		buf[0], buf[1] = '1', '0'
		k++
		n++
	}
	for k > 1 && buf[k-1] == '0' {
		k--
	}
	return string(buf[:k]), n
}

// binary32 decimal exponents stay within [-45, 39].
var pow10Cache [48]*big.Int

func init() {
	pow10Cache[0] = big.NewInt(1)
	for i := 1; i < len(pow10Cache); i++ {
		pow10Cache[i] = new(big.Int).Mul(pow10Cache[i-1], bigTen)
	}
}

// pow10 returns 10^n. The result MUST NOT be mutated.
func pow10(n int) *big.Int {
	if n < len(pow10Cache) {
		return pow10Cache[n]
	}
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

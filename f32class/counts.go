package f32class

// Counts holds one counter per category. The zero value is ready to use.
// Counts from disjoint ranges combine with Merge; the result does not depend
// on merge order.
type Counts [NumCategories]uint64

// Add increments the counter for c.
func (c *Counts) Add(cat Category) {
	c[cat]++
}

// Get returns the counter for cat.
func (c Counts) Get(cat Category) uint64 {
	return c[cat]
}

// Merge returns the element-wise sum of c and o.
func (c Counts) Merge(o Counts) Counts {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Total returns the sum of all counters.
func (c Counts) Total() uint64 {
	var n uint64
	for _, v := range c {
		n += v
	}
	return n
}

// Map returns the counters keyed by category name.
func (c Counts) Map() map[string]uint64 {
	m := make(map[string]uint64, NumCategories)
	for _, cat := range Categories {
		m[cat.String()] = c[cat]
	}
	return m
}

type segment struct {
	lo, hi uint32
	cat    Category
}

// layout is the binary32 encoding space for a positive sign bit, in ascending
// pattern order. The negative half is the same layout offset by signMask.
var layout = [...]segment{
	{0x00000000, 0x00000000, Zero},
	{0x00000001, mantissaMask, Subnormal},
	{0x00800000, exponentMask - 1, Normal},
	{exponentMask, exponentMask, Infinite},
	{exponentMask + 1, 0x7fffffff, NaN},
}

// Expected returns the exact number of patterns of each category in the
// inclusive pattern range [first, last]. It returns zero counts when
// first > last.
func Expected(first, last uint32) Counts {
	var c Counts
	if first > last {
		return c
	}
	for _, sign := range [2]uint32{0, signMask} {
		for _, s := range layout {
			c[s.cat] += overlap(uint64(s.lo|sign), uint64(s.hi|sign), uint64(first), uint64(last))
		}
	}
	return c
}

func overlap(lo, hi, first, last uint64) uint64 {
	if first > lo {
		lo = first
	}
	if last < hi {
		hi = last
	}
	if lo > hi {
		return 0
	}
	return hi - lo + 1
}

package word

// Double is a 72-bit ones'-complement value held as a register pair,
// most significant word first.
type Double [2]Word

// DoubleNegativeZero is the 72-bit all-ones value.
var DoubleNegativeZero = Double{NegativeZero, NegativeZero}

func (d Double) IsNegative() bool {
	return d[0].IsNegative()
}

// IsZero is true for both positive and negative zero.
func (d Double) IsZero() bool {
	return (d[0]&Mask == 0 && d[1]&Mask == 0) ||
		(d[0]&Mask == NegativeZero && d[1]&Mask == NegativeZero)
}

func (d Double) Negate() Double {
	return Double{d[0].Negate(), d[1].Negate()}
}

// Magnitude returns the unsigned 72-bit magnitude as (high 8 bits, low 64 bits).
func (d Double) Magnitude() (hi uint64, lo uint64) {
	if d.IsNegative() {
		d = d.Negate()
	}
	hi = uint64(d[0]&Mask) >> 28
	lo = uint64(d[0]&Mask)<<36 | uint64(d[1]&Mask)
	return
}

// DoubleFromMagnitude builds a 72-bit value from an unsigned magnitude and sign.
func DoubleFromMagnitude(hi, lo uint64, negative bool) Double {
	d := Double{
		Word((hi<<28)|(lo>>36)) & Mask,
		Word(lo) & Mask,
	}
	if negative {
		d = d.Negate()
	}
	return d
}

// AddDoubleSimple adds two 72-bit values with end-around carry.
func AddDoubleSimple(a, b Double) Double {
	lo := uint64(a[1]&Mask) + uint64(b[1]&Mask)
	hi := uint64(a[0]&Mask) + uint64(b[0]&Mask)
	if lo&carryBit != 0 {
		lo &= uint64(Mask)
		hi++
	}
	if hi&carryBit != 0 {
		hi &= uint64(Mask)
		lo++
		if lo&carryBit != 0 {
			lo &= uint64(Mask)
			hi = (hi + 1) & uint64(Mask)
		}
	}
	result := Double{Word(hi), Word(lo)}
	if result == DoubleNegativeZero && a != b {
		result = Double{}
	}
	return result
}

// AddDouble adds two 72-bit values, and reports carry and overflow.
func AddDouble(a, b Double) (sum Double, carry bool, overflow bool) {
	sum = AddDoubleSimple(a, b)
	neg1 := a.IsNegative()
	neg2 := b.IsNegative()
	negRes := sum.IsNegative()
	if negRes {
		carry = neg1 && neg2
	} else {
		carry = neg1 || neg2
	}
	overflow = (neg1 == neg2) && (neg1 != negRes)
	return
}

// CompareDouble orders two 72-bit values algebraically. Negative zero is less
// than positive zero.
func CompareDouble(a, b Double) int {
	an := a.IsNegative()
	bn := b.IsNegative()
	switch {
	case an && !bn:
		return -1
	case !an && bn:
		return 1
	}
	// Same sign: ones'-complement ordering matches unsigned ordering.
	for n := range 2 {
		switch {
		case a[n]&Mask < b[n]&Mask:
			return -1
		case a[n]&Mask > b[n]&Mask:
			return 1
		}
	}
	return 0
}

package word

// RightCircular rotates right by count bits, modulo 36.
func RightCircular(w Word, count uint) Word {
	count %= Bits
	w &= Mask
	if count == 0 {
		return w
	}
	return ((w >> count) | (w << (Bits - count))) & Mask
}

// LeftCircular rotates left by count bits, modulo 36.
func LeftCircular(w Word, count uint) Word {
	return RightCircular(w, Bits-(count%Bits))
}

// RightLogical shifts right, filling with zeros.
func RightLogical(w Word, count uint) Word {
	if count >= Bits {
		return 0
	}
	return (w & Mask) >> count
}

// LeftLogical shifts left, filling with zeros.
func LeftLogical(w Word, count uint) Word {
	if count >= Bits {
		return 0
	}
	return (w << count) & Mask
}

// RightAlgebraic shifts right, filling with the sign.
func RightAlgebraic(w Word, count uint) Word {
	if w.IsNegative() {
		return RightLogical(w.Negate(), count).Negate()
	}
	return RightLogical(w, count)
}

// DoubleRightLogical shifts a 72-bit value right, filling with zeros.
func DoubleRightLogical(d Double, count uint) Double {
	hi := d[0] & Mask
	lo := d[1] & Mask
	switch {
	case count >= 2*Bits:
		return Double{}
	case count >= Bits:
		return Double{0, hi >> (count - Bits)}
	case count == 0:
		return Double{hi, lo}
	}
	return Double{hi >> count, ((lo >> count) | (hi << (Bits - count))) & Mask}
}

// DoubleLeftLogical shifts a 72-bit value left, filling with zeros.
func DoubleLeftLogical(d Double, count uint) Double {
	hi := d[0] & Mask
	lo := d[1] & Mask
	switch {
	case count >= 2*Bits:
		return Double{}
	case count >= Bits:
		return Double{(lo << (count - Bits)) & Mask, 0}
	case count == 0:
		return Double{hi, lo}
	}
	return Double{((hi << count) | (lo >> (Bits - count))) & Mask, (lo << count) & Mask}
}

// DoubleRightCircular rotates a 72-bit value right, modulo 72.
func DoubleRightCircular(d Double, count uint) Double {
	count %= 2 * Bits
	if count == 0 {
		return Double{d[0] & Mask, d[1] & Mask}
	}
	r := DoubleRightLogical(d, count)
	l := DoubleLeftLogical(d, 2*Bits-count)
	return Double{r[0] | l[0], r[1] | l[1]}
}

// DoubleLeftCircular rotates a 72-bit value left, modulo 72.
func DoubleLeftCircular(d Double, count uint) Double {
	return DoubleRightCircular(d, 2*Bits-(count%(2*Bits)))
}

// DoubleRightAlgebraic shifts a 72-bit value right, filling with the sign.
func DoubleRightAlgebraic(d Double, count uint) Double {
	if d.IsNegative() {
		return DoubleRightLogical(d.Negate(), count).Negate()
	}
	return DoubleRightLogical(d, count)
}

// Normalize rotates left until bit 0 differs from bit 1, returning the
// rotated word and the rotation count. Zero words of either sign are
// returned unchanged with a count of 35.
func Normalize(w Word) (Word, uint) {
	w &= Mask
	if w.IsZero() {
		return w, Bits - 1
	}
	count := uint(0)
	for w.Bit(0) == w.Bit(1) {
		w = LeftCircular(w, 1)
		count++
	}
	return w, count
}

// NormalizeDouble is Normalize over 72 bits; zero values return a count of 71.
func NormalizeDouble(d Double) (Double, uint) {
	d = Double{d[0] & Mask, d[1] & Mask}
	if d.IsZero() {
		return d, 2*Bits - 1
	}
	count := uint(0)
	for d[0].Bit(0) == d[0].Bit(1) {
		d = DoubleLeftCircular(d, 1)
		count++
	}
	return d, count
}

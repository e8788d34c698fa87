package word

import (
	"math/bits"
)

// Multiply forms the 72-bit signed product of two words.
func Multiply(a, b Word) Double {
	hi, lo := bits.Mul64(uint64(a.Magnitude()), uint64(b.Magnitude()))
	return DoubleFromMagnitude(hi, lo, a.IsNegative() != b.IsNegative())
}

// MultiplySingle forms the product of two words, reporting overflow when
// the product does not fit in a single word.
func MultiplySingle(a, b Word) (product Word, overflow bool) {
	hi, lo := bits.Mul64(uint64(a.Magnitude()), uint64(b.Magnitude()))
	overflow = hi != 0 || lo > uint64(Largest)
	product = Word(lo) & Mask
	if a.IsNegative() != b.IsNegative() {
		product = product.Negate()
	}
	return
}

// MultiplyFractional forms the 72-bit product of two words, shifted left one
// bit so that the binary point sits to the right of the sign.
func MultiplyFractional(a, b Word) Double {
	hi, lo := bits.Mul64(uint64(a.Magnitude()), uint64(b.Magnitude()))
	hi = hi<<1 | lo>>63
	lo <<= 1
	return DoubleFromMagnitude(hi, lo, a.IsNegative() != b.IsNegative())
}

// divide divides a 72-bit magnitude by a word magnitude. ok is false when
// the divisor is zero or the quotient does not fit in a word.
func divide(hi, lo, divisor uint64) (quotient, remainder uint64, ok bool) {
	if divisor == 0 || hi >= divisor {
		return
	}
	quotient, remainder = bits.Div64(hi, lo, divisor)
	ok = quotient <= uint64(Largest)
	return
}

// DivideInteger divides a 72-bit dividend by a word. The quotient takes the
// algebraic sign of the division; the remainder takes the dividend's sign.
// ok is false on division by either zero, or on quotient overflow.
func DivideInteger(dividend Double, divisor Word) (quotient, remainder Word, ok bool) {
	hi, lo := dividend.Magnitude()
	q, r, ok := divide(hi, lo, uint64(divisor.Magnitude()))
	if !ok {
		return
	}
	quotient = Word(q)
	remainder = Word(r)
	if dividend.IsNegative() != divisor.IsNegative() {
		quotient = quotient.Negate()
	}
	if dividend.IsNegative() {
		remainder = remainder.Negate()
	}
	return
}

// DivideSingleFractional divides a word, taken as the high word of a 72-bit
// dividend shifted right one bit, by a word.
func DivideSingleFractional(dividend Word, divisor Word) (quotient Word, ok bool) {
	low := PositiveZero
	if dividend.IsNegative() {
		low = NegativeZero
	}
	quotient, _, ok = DivideInteger(DoubleRightAlgebraic(Double{dividend, low}, 1), divisor)
	return
}

// DivideFractional divides a 72-bit dividend, shifted right one bit, by a word.
func DivideFractional(dividend Double, divisor Word) (quotient, remainder Word, ok bool) {
	return DivideInteger(DoubleRightAlgebraic(dividend, 1), divisor)
}

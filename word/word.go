// Package word implements the 36-bit ones'-complement machine word.
//
// A Word is held in the low 36 bits of a uint64. All-ones is negative
// zero: numerically equal to, but bit-distinct from, positive zero.
package word

import (
	"fmt"
)

// Word is a 36-bit ones'-complement value.
type Word uint64

const (
	Bits = 36 // Bits in a word.

	Mask         Word = 0777777777777 // Significant bits of a word.
	SignBit      Word = 0400000000000 // Bit 0, the sign.
	NegativeZero Word = Mask          // All ones.
	PositiveZero Word = 0             // All zeros.
	Largest      Word = 0377777777777 // Largest positive value.

	carryBit = uint64(1) << Bits
)

// FromInt converts a native integer to a word.
// Values outside of the 36-bit range are truncated.
func FromInt(v int64) Word {
	if v < 0 {
		return Word(uint64(-v)).Negate()
	}
	return Word(v) & Mask
}

// Int returns the native value of the word. Negative zero is 0.
func (w Word) Int() int64 {
	w &= Mask
	if w.IsNegative() {
		return -int64(w.Negate())
	}
	return int64(w)
}

// Canon masks the word to its 36 significant bits.
func (w Word) Canon() Word {
	return w & Mask
}

func (w Word) IsNegative() bool {
	return w&SignBit != 0
}

// IsZero is true for both positive and negative zero.
func (w Word) IsZero() bool {
	w &= Mask
	return w == PositiveZero || w == NegativeZero
}

func (w Word) IsNegativeZero() bool {
	return w&Mask == NegativeZero
}

// Negate returns the ones'-complement negative.
func (w Word) Negate() Word {
	return ^w & Mask
}

// Magnitude returns the absolute value.
func (w Word) Magnitude() Word {
	if w.IsNegative() {
		return w.Negate()
	}
	return w & Mask
}

// Bit returns bit n, numbered from 0 at the sign.
func (w Word) Bit(n uint) bool {
	return w&(SignBit>>n) != 0
}

// SetBit sets or clears bit n, numbered from 0 at the sign.
func (w Word) SetBit(n uint, on bool) Word {
	if on {
		return w | (SignBit >> n)
	}
	return w &^ (SignBit >> n)
}

// String formats the word as twelve octal digits.
func (w Word) String() string {
	return fmt.Sprintf("%012o", uint64(w&Mask))
}

// Octal formats the word in halves, as `HHHHHH,HHHHHH`.
func (w Word) Octal() string {
	return fmt.Sprintf("%06o,%06o", uint64(H1.Get(w)), uint64(H2.Get(w)))
}

// AddSimple adds with end-around carry, ignoring carry and overflow.
// A negative zero sum is normalized to positive zero unless both addends
// were identical.
func AddSimple(a, b Word) Word {
	a &= Mask
	b &= Mask
	sum := uint64(a) + uint64(b)
	if sum&carryBit != 0 {
		sum = (sum & uint64(Mask)) + 1
	}
	result := Word(sum)
	if result == NegativeZero && a != b {
		result = PositiveZero
	}
	return result
}

// Add adds with end-around carry, and reports the carry and overflow designators.
func Add(a, b Word) (sum Word, carry bool, overflow bool) {
	sum = AddSimple(a, b)
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

// Compare orders two words algebraically. Negative zero is less than
// positive zero.
func Compare(a, b Word) int {
	ai := a.Int()
	bi := b.Int()
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	}
	an := a.IsNegative()
	bn := b.IsNegative()
	switch {
	case an && !bn:
		return -1
	case !an && bn:
		return 1
	}
	return 0
}

// SignExtend sign extends the low width bits of v to a full word.
func SignExtend(v Word, width uint) Word {
	if width >= Bits {
		return v & Mask
	}
	field := (Word(1) << width) - 1
	v &= field
	if v&(Word(1)<<(width-1)) != 0 {
		v |= Mask &^ field
	}
	return v
}

func SignExtend12(v Word) Word { return SignExtend(v, 12) }
func SignExtend18(v Word) Word { return SignExtend(v, 18) }
func SignExtend24(v Word) Word { return SignExtend(v, 24) }

// AddField adds two ones'-complement values confined to a field of the given width.
// Both values are sign extended, added, and truncated back to the field width.
func AddField(a, b Word, width uint) Word {
	field := (Word(1) << width) - 1
	return AddSimple(SignExtend(a, width), SignExtend(b, width)) & field
}

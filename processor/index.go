package processor

import (
	"github.com/ezrec/em2200/word"
)

// Index register fields.
var (
	xiField   = word.H1                         // Increment.
	xmField   = word.H2                         // Modifier.
	xi12Field = word.T1                         // 12-bit increment, 24-bit indexing.
	xm24Field = word.Field{Shift: 0, Width: 24} // 24-bit modifier.
)

// IndexRegister is a general register viewed as an increment and modifier.
type IndexRegister word.Word

func (xr IndexRegister) XI() word.Word   { return xiField.Get(word.Word(xr)) }
func (xr IndexRegister) XM() word.Word   { return xmField.Get(word.Word(xr)) }
func (xr IndexRegister) XI12() word.Word { return xi12Field.Get(word.Word(xr)) }
func (xr IndexRegister) XM24() word.Word { return xm24Field.Get(word.Word(xr)) }

// SignedXM returns the modifier sign extended to a full word.
func (xr IndexRegister) SignedXM() word.Word { return xmField.Signed(word.Word(xr)) }

// SignedXM24 returns the 24-bit modifier sign extended to a full word.
func (xr IndexRegister) SignedXM24() word.Word { return xm24Field.Signed(word.Word(xr)) }

// Increment18 adds XI to XM.
func (xr IndexRegister) Increment18() IndexRegister {
	xm := word.AddField(xr.XM(), xr.XI(), 18)
	return IndexRegister(xmField.Set(word.Word(xr), xm))
}

// Decrement18 subtracts XI from XM.
func (xr IndexRegister) Decrement18() IndexRegister {
	xm := word.AddField(xr.XM(), xr.XI().Negate(), 18)
	return IndexRegister(xmField.Set(word.Word(xr), xm))
}

// Increment24 adds the 12-bit XI to the 24-bit XM.
func (xr IndexRegister) Increment24() IndexRegister {
	xm := word.AddField(xr.XM24(), word.SignExtend12(xr.XI12()), 24)
	return IndexRegister(xm24Field.Set(word.Word(xr), xm))
}

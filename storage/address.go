package storage

import (
	"fmt"

	"github.com/ezrec/em2200/word"
)

// AbsoluteAddress locates a word in main storage.
type AbsoluteAddress struct {
	UPI     uint16 // Main storage processor holding the word.
	Segment uint32 // Segment within the storage processor.
	Offset  uint32 // Word offset within the segment.
}

// AddOffset returns the address displaced by n words.
func (aa AbsoluteAddress) AddOffset(n int) AbsoluteAddress {
	aa.Offset = uint32(int64(aa.Offset) + int64(n))
	return aa
}

func (aa AbsoluteAddress) String() string {
	return fmt.Sprintf("%o:%o:%o", aa.UPI, aa.Segment, aa.Offset)
}

// Words encodes the address as two words: the segment, and UPI in the high
// four bits over the 32-bit offset.
func (aa AbsoluteAddress) Words() (w [2]word.Word) {
	w[0] = word.Word(aa.Segment) & 0177777777
	w[1] = (word.Word(aa.UPI&017) << 32) | word.Word(aa.Offset)
	return
}

// AddressFromWords decodes an address encoded by Words.
func AddressFromWords(w0, w1 word.Word) AbsoluteAddress {
	return AbsoluteAddress{
		UPI:     uint16((w1 >> 32) & 017),
		Segment: uint32(w0 & 0177777777),
		Offset:  uint32(w1 & 037777777777),
	}
}

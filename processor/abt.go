package processor

import (
	"github.com/ezrec/em2200/word"
)

const (
	ABT_SIZE = 15 // Entries, for B1 through B15.
)

// ActiveBaseTableEntry records the bank name last loaded into a base register.
type ActiveBaseTableEntry struct {
	Level      uint           // Bank descriptor table level.
	BDI        uint           // Bank descriptor index.
	Offset     uint32         // Subset offset given at load time.
	Descriptor BankDescriptor // Descriptor words read at load time.
}

// Word encodes the entry as L,BDI in H1 and the offset in H2.
func (e ActiveBaseTableEntry) Word() word.Word {
	return word.H1.Set(word.Word(e.Offset)&0777777, joinLBDI(e.Level, e.BDI))
}

// ActiveBaseTableEntryFromWord decodes an entry stored by Word.
func ActiveBaseTableEntryFromWord(w word.Word) (e ActiveBaseTableEntry) {
	e.Level, e.BDI = splitLBDI(word.H1.Get(w))
	e.Offset = uint32(word.H2.Get(w))
	return
}

// ActiveBaseTable holds an entry for each of B1 through B15.
type ActiveBaseTable [ABT_SIZE]ActiveBaseTableEntry

// Entry returns the entry for a base register, 1 through 15.
func (abt *ActiveBaseTable) Entry(brIndex uint) (e ActiveBaseTableEntry, ok bool) {
	if brIndex < 1 || brIndex > ABT_SIZE {
		return
	}
	return abt[brIndex-1], true
}

// SetEntry replaces the entry for a base register, 1 through 15.
func (abt *ActiveBaseTable) SetEntry(brIndex uint, e ActiveBaseTableEntry) (ok bool) {
	if brIndex < 1 || brIndex > ABT_SIZE {
		return
	}
	abt[brIndex-1] = e
	return true
}

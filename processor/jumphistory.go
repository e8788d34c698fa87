package processor

import (
	"github.com/ezrec/em2200/word"
)

const (
	JUMP_HISTORY_SIZE      = 128 // Entries in the jump history table.
	JUMP_HISTORY_THRESHOLD = 120 // Entries at which the table is reported full.
)

// JumpHistory records the program address of each taken jump.
type JumpHistory struct {
	entries   []word.Word
	threshold bool
}

// Add records a program address, and reports whether the threshold was
// just reached. The oldest entries are discarded once the table is full.
func (jh *JumpHistory) Add(par word.Word) (thresholdReached bool) {
	if len(jh.entries) == JUMP_HISTORY_SIZE {
		jh.entries = jh.entries[1:]
	}
	jh.entries = append(jh.entries, par)

	if !jh.threshold && len(jh.entries) >= JUMP_HISTORY_THRESHOLD {
		jh.threshold = true
		thresholdReached = true
	}
	return
}

// Entries returns the recorded addresses, oldest first.
func (jh *JumpHistory) Entries() []word.Word {
	return append([]word.Word(nil), jh.entries...)
}

func (jh *JumpHistory) Len() int {
	return len(jh.entries)
}

// Clear empties the table.
func (jh *JumpHistory) Clear() {
	jh.entries = jh.entries[:0]
	jh.threshold = false
}

package processor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/em2200/word"
)

func FuzzProcessor(f *testing.F) {
	seeds := []uint64{
		0,
		uint64(word.Mask),
		uint64(MakeInstruction(010, word.JU, 1, 0, 0, 0, 5)),
		uint64(MakeInstruction(074, 015, 004, 0, 0, 0, 0)),
		uint64(MakeInstruction(074, 004, 0, 0, 0, 0, testBasicCodeLower)),
		uint64(MakeInstruction(001, 0, 0, 0, 0, 0, 0200)),
		uint64(MakeInstruction(075, 013, 0, 0, 0, 0, 0)),
	}
	for _, iw := range seeds {
		for pp := range uint8(4) {
			f.Add(iw, false, pp)
			f.Add(iw, true, pp)
		}
	}

	f.Fuzz(func(t *testing.T, iw uint64, basic bool, pp uint8) {
		assert := assert.New(t)

		m := newTestMachine(t, basic)
		m.p.DR.SetProcessorPrivilege(uint(pp & 03))
		m.p.SetA(1, 0123456701234)
		m.p.SetX(2, 0000001000004)
		m.load(Instruction(word.Word(iw)&word.Mask), halt)

		iw_str := fmt.Sprintf("%012o basic:%v pp:%d", uint64(word.Word(iw)&word.Mask), basic, pp&03)

		err := m.p.Start()
		assert.NoError(err, iw_str)

		for range 64 {
			err = m.p.Step()
			if err != nil {
				break
			}
		}

		var stop *ErrStop
		var failed *ErrInstruction
		switch {
		case err == nil:
			// Still running, jumping in place.
			m.p.Stop(STOP_PANEL_HALT, 0)
		case errors.As(err, &stop):
			assert.Equal(m.p.StopReason(), stop.Reason, iw_str)
			if stop.Reason == STOP_DEBUG && m.p.PAR.BDI == testHandlerBDI {
				mi := m.p.LastInterrupt()
				if assert.NotNil(mi, iw_str) {
					assert.Equal(uint64(testHaltBase+mi.Class), stop.Detail, iw_str)
				}
			}
		case errors.As(err, &failed):
			assert.NoError(err, iw_str)
		default:
			assert.ErrorIs(err, ErrNotRunning, iw_str)
		}

		assert.False(m.p.Running(), iw_str)
		assert.LessOrEqual(m.p.PAR.PC, uint32(0777777), iw_str)
		assert.LessOrEqual(word.Word(m.p.DR), word.Mask, iw_str)
		for n, value := range m.p.GRS {
			assert.LessOrEqual(value, word.Mask, "%v grs %03o", iw_str, n)
		}
	})
}

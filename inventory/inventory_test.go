package inventory

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/em2200/processor"
)

func TestManager(t *testing.T) {
	assert := assert.New(t)

	inv := New()
	defer inv.Close()

	ms0, err := inv.CreateMainStorage("MSP0", 01000)
	assert.NoError(err)
	assert.Equal(uint16(FIRST_MAIN_STORAGE_UPI), ms0.UPI)

	ms1, err := inv.CreateMainStorage("MSP1", 0)
	assert.NoError(err)
	assert.Equal(uint16(FIRST_MAIN_STORAGE_UPI+1), ms1.UPI)

	_, err = inv.CreateMainStorage("MSP0", 01000)
	assert.ErrorIs(err, ErrNodeDuplicate)

	ip0, err := inv.CreateProcessor("IP0")
	assert.NoError(err)
	assert.Equal(uint16(FIRST_INSTRUCTION_UPI), ip0.UPI)
	assert.Equal(processor.STOP_INITIAL, ip0.StopReason())

	located, err := ip0.Locator.LocateStorage(ms1.UPI)
	assert.NoError(err)
	assert.Same(ms1, located)

	found, err := inv.Processor(ip0.UPI)
	assert.NoError(err)
	assert.Same(ip0, found)

	_, err = inv.LocateStorage(ip0.UPI)
	assert.ErrorIs(err, ErrNodeMissing(ip0.UPI))

	nodes := maps.Collect(inv.Nodes())
	assert.Equal(map[uint16]string{0: "MSP0", 1: "MSP1", 24: "IP0"}, nodes)

	var order []uint16
	for upi := range inv.Nodes() {
		order = append(order, upi)
	}
	assert.Equal([]uint16{0, 1, 24}, order)

	assert.NoError(inv.Delete(ms0.UPI))
	_, err = inv.LocateStorage(ms0.UPI)
	assert.Error(err)

	// The freed UPI is reused.
	ms2, err := inv.CreateMainStorage("MSP2", 010)
	assert.NoError(err)
	assert.Equal(uint16(0), ms2.UPI)

	assert.ErrorIs(inv.Delete(077), ErrNodeMissing(077))

	assert.NoError(inv.Close())
	_, err = inv.CreateProcessor("IP1")
	assert.ErrorIs(err, ErrClosed)
}

func TestManagerLimit(t *testing.T) {
	assert := assert.New(t)

	inv := New()
	defer inv.Close()

	for n := range MAX_INSTRUCTION_PROCESSORS {
		_, err := inv.CreateProcessor(string(rune('A' + n)))
		assert.NoError(err)
	}

	_, err := inv.CreateProcessor("extra")
	assert.ErrorIs(err, ErrNodeLimit)
}

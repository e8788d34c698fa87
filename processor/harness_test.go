package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

// Test machine layout, as absolute offsets in segment 0 of UPI 1.
const (
	testUPI         = 1
	testStorageSize = 0100000

	testBDTAddress     = 000000 // Level 0 BDT, holding the interrupt vectors.
	testHandlerAddress = 002000 // Standard interrupt handlers.
	testICSAddress     = 003000 // Interrupt control stack.
	testCodeAddress    = 010000 // Extended mode code.
	testDataAddress    = 020000 // Extended mode data.
	testBasicCode      = 030000 // Basic mode code.
	testBasicData      = 050000 // Basic mode data.

	testHandlerBDI   = 040
	testICSBDI       = 041
	testCodeBDI      = 042
	testDataBDI      = 043
	testBasicCodeBDI = 044
	testBasicDataBDI = 045
	testIndirectBDI  = 046
	testQueueBDI     = 047

	testBasicCodeLower = 001000
	testBasicDataLower = 020000

	testHaltBase = 01000 // HALT detail of the standard handlers, plus the class.
)

var allPermissions = AccessPermissions{Enter: true, Read: true, Write: true}

type testLocator map[uint16]*storage.MainStorage

func (tl testLocator) LocateStorage(upi uint16) (ms *storage.MainStorage, err error) {
	ms, ok := tl[upi]
	if !ok {
		err = errors.New("no such storage")
	}
	return
}

// testMachine is a processor with a banking environment and the standard
// interrupt handlers, which halt with 01000 plus the interrupt class.
type testMachine struct {
	t     *testing.T
	ms    *storage.MainStorage
	p     *Processor
	basic bool
}

func testAddress(offset uint32) storage.AbsoluteAddress {
	return storage.AbsoluteAddress{UPI: testUPI, Offset: offset}
}

func testDescriptor(bankType BankType, lower, upper, offset uint32) BankDescriptor {
	return NewBankDescriptor(bankType, AccessLock{}, AccessPermissions{Read: true}, allPermissions,
		false, lower, upper, testAddress(offset))
}

func newTestMachine(t *testing.T, basic bool) (m *testMachine) {
	ms := storage.NewMainStorage("msp0", testUPI, testStorageSize)
	p := NewProcessor("ip0", 0, testLocator{testUPI: ms})
	m = &testMachine{t: t, ms: ms, p: p, basic: basic}

	p.BR[BR_LEVEL0_BDT] = NewBaseRegister(testDescriptor(BANK_EXTENDED, 0, 01777, testBDTAddress))

	m.setDescriptor(testHandlerBDI, testDescriptor(BANK_EXTENDED, 0, uint32(CLASS_COUNT)-1, testHandlerAddress))
	for class := range uint32(CLASS_COUNT) {
		m.write(testHandlerAddress+class, MakeInstruction(077, 017, 017, 0, 0, 0, uint(testHaltBase+class)).Word())
		m.write(testBDTAddress+class, word.H1.Set(word.Word(class), joinLBDI(0, testHandlerBDI)))
	}

	m.setDescriptor(testICSBDI, testDescriptor(BANK_EXTENDED, 0, 0777, testICSAddress))
	p.BR[BR_ICS] = NewBaseRegister(m.descriptor(testICSBDI))
	p.GRS.Set(ICS_POINTER, word.Word(ICS_FRAME_SIZE)<<18|01000)

	m.setDescriptor(testCodeBDI, testDescriptor(BANK_EXTENDED, 0, 07777, testCodeAddress))
	m.setDescriptor(testDataBDI, testDescriptor(BANK_EXTENDED, 0, 07777, testDataAddress))
	m.setDescriptor(testBasicCodeBDI, testDescriptor(BANK_BASIC, testBasicCodeLower, 017777, testBasicCode))
	m.setDescriptor(testBasicDataBDI, testDescriptor(BANK_BASIC, testBasicDataLower, 027777, testBasicData))

	if basic {
		p.DR.SetBasicMode(true)
		p.BR[12] = NewBaseRegister(m.descriptor(testBasicCodeBDI))
		p.ABT.SetEntry(12, ActiveBaseTableEntry{BDI: testBasicCodeBDI})
		p.BR[13] = NewBaseRegister(m.descriptor(testBasicDataBDI))
		p.ABT.SetEntry(13, ActiveBaseTableEntry{BDI: testBasicDataBDI})
		p.PAR = ProgramAddressRegister{BDI: testBasicCodeBDI, PC: testBasicCodeLower}
	} else {
		p.BR[BR_CODE] = NewBaseRegister(m.descriptor(testCodeBDI))
		p.BR[2] = NewBaseRegister(m.descriptor(testDataBDI))
		p.ABT.SetEntry(2, ActiveBaseTableEntry{BDI: testDataBDI})
		p.PAR = ProgramAddressRegister{BDI: testCodeBDI}
	}

	return
}

func (m *testMachine) write(offset uint32, value word.Word) {
	err := m.ms.Write(testAddress(offset), value)
	if err != nil {
		m.t.Fatal(err)
	}
}

func (m *testMachine) read(offset uint32) word.Word {
	value, err := m.ms.Read(testAddress(offset))
	if err != nil {
		m.t.Fatal(err)
	}
	return value
}

func (m *testMachine) setDescriptor(bdi uint, bd BankDescriptor) {
	err := m.ms.WriteBlock(testAddress(testBDTAddress+uint32(bdi)*BD_WORDS), bd[:])
	if err != nil {
		m.t.Fatal(err)
	}
}

func (m *testMachine) descriptor(bdi uint) (bd BankDescriptor) {
	err := m.ms.ReadBlock(testAddress(testBDTAddress+uint32(bdi)*BD_WORDS), bd[:])
	if err != nil {
		m.t.Fatal(err)
	}
	return
}

// codeBank is the base register the program is fetched through.
func (m *testMachine) codeBank() *BaseRegister {
	if m.basic {
		return &m.p.BR[12]
	}
	return &m.p.BR[BR_CODE]
}

// dataBank is the base register of the data bank.
func (m *testMachine) dataBank() *BaseRegister {
	if m.basic {
		return &m.p.BR[13]
	}
	return &m.p.BR[2]
}

// dataAddress is the first relative address of the data bank.
func (m *testMachine) dataAddress() uint32 {
	if m.basic {
		return testBasicDataLower
	}
	return 0
}

// load stores a program at the PAR.
func (m *testMachine) load(program ...Instruction) {
	br := m.codeBank()
	for n, iw := range program {
		addr := br.Absolute(m.p.PAR.PC + uint32(n))
		err := m.ms.Write(addr, iw.Word())
		if err != nil {
			m.t.Fatal(err)
		}
	}
}

// setData stores words in the data bank, at a relative address.
func (m *testMachine) setData(relative uint32, values ...word.Word) {
	br := m.dataBank()
	for n, value := range values {
		err := m.ms.Write(br.Absolute(relative+uint32(n)), value)
		if err != nil {
			m.t.Fatal(err)
		}
	}
}

// data reads a word of the data bank, at a relative address.
func (m *testMachine) data(relative uint32) word.Word {
	value, err := m.ms.Read(m.dataBank().Absolute(relative))
	if err != nil {
		m.t.Fatal(err)
	}
	return value
}

// run runs until the processor stops, returning the stop.
func (m *testMachine) run() (stop *ErrStop) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.p.Run(ctx)
	if !errors.As(err, &stop) {
		m.t.Fatalf("unexpected run result: %v", err)
	}
	return
}

// halt is the HALT ending every test program, with a detail of 0.
var halt = MakeInstruction(077, 017, 017, 0, 0, 0, 0)

// asm encodes an instruction by mnemonic. Fixed j and a fields of the
// mnemonic override the given ones.
func asm(t *testing.T, basic bool, mnemonic string, j, a, x, h, i, u uint) Instruction {
	enc, err := LookupMnemonic(mnemonic, basic)
	if err != nil {
		t.Fatal(err)
	}
	switch enc.Index {
	case INDEX_FJ:
		j = enc.J
	case INDEX_FA:
		a = enc.A
	case INDEX_FJA:
		j = enc.J
		a = enc.A
	}
	return MakeInstruction(enc.F, j, a, x, h, i, u)
}

// ext encodes an extended mode instruction, with the u field formed from
// b and d.
func ext(t *testing.T, mnemonic string, j, a, x, h, b, d uint) Instruction {
	return asm(t, false, mnemonic, j, a, x, h, 0, (b&017)<<12|(d&07777))
}

// bas encodes a basic mode instruction.
func bas(t *testing.T, mnemonic string, j, a, x, h, i, u uint) Instruction {
	return asm(t, true, mnemonic, j, a, x, h, i, u)
}

package processor

import (
	"testing"

	"github.com/ezrec/em2200/word"
	"github.com/stretchr/testify/assert"
)

// programTest runs a program to a HALT, and checks the stop detail.
type programTest struct {
	name    string
	basic   bool
	setup   func(m *testMachine)
	program []Instruction
	detail  uint64
	check   func(assert *assert.Assertions, m *testMachine)
}

func runProgramTests(t *testing.T, table []programTest) {
	assert := assert.New(t)

	for _, entry := range table {
		m := newTestMachine(t, entry.basic)
		if entry.setup != nil {
			entry.setup(m)
		}
		m.load(append(entry.program, halt)...)

		stop := m.run()
		assert.Equal(STOP_DEBUG, stop.Reason, entry.name)
		assert.Equal(entry.detail, stop.Detail, "%s: detail %04o", entry.name, stop.Detail)
		if entry.check != nil {
			entry.check(assert, m)
		}
	}
}

func TestExec_Load(t *testing.T) {
	runProgramTests(t, []programTest{
		{
			name:  "la_u_aa_u",
			basic: true,
			program: []Instruction{
				bas(t, "LA", word.JU, 0, 0, 0, 0, 7),
				bas(t, "AA", word.JU, 0, 0, 0, 0, 014),
			},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(023), m.p.A(0))
				assert.False(m.p.DR.Carry())
				assert.False(m.p.DR.Overflow())
			},
		},
		{
			name: "la_w",
			setup: func(m *testMachine) {
				m.setData(010, 0123)
			},
			program: []Instruction{ext(t, "LA", word.JW, 3, 0, 0, 2, 010)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0123), m.p.A(3))
			},
		},
		{
			name: "la_h1",
			setup: func(m *testMachine) {
				m.setData(010, 0000123000456)
			},
			program: []Instruction{ext(t, "LA", word.JH1, 0, 0, 0, 2, 010)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0123), m.p.A(0))
			},
		},
		{
			name: "la_xh2",
			setup: func(m *testMachine) {
				m.setData(010, 0000000777770)
			},
			program: []Instruction{ext(t, "LA", word.JXH2, 0, 0, 0, 2, 010)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0777777777770), m.p.A(0))
			},
		},
		{
			name:    "lna_u",
			program: []Instruction{ext(t, "LNA", word.JU, 0, 0, 0, 0, 5)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0777777777772), m.p.A(0))
			},
		},
		{
			name: "lma",
			setup: func(m *testMachine) {
				m.setData(0, 0777777777772)
			},
			program: []Instruction{ext(t, "LMA", word.JW, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(5), m.p.A(0))
			},
		},
		{
			name:    "lxsi",
			program: []Instruction{ext(t, "LXSI", word.JU, 1, 0, 0, 0, 01111)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0111100000000), m.p.X(1))
			},
		},
		{
			name: "lsbo",
			setup: func(m *testMachine) {
				m.p.SetX(1, 0777777777776)
			},
			program: []Instruction{ext(t, "LSBO", word.JU, 1, 0, 0, 0, 035)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0357777777776), m.p.X(1))
			},
		},
		{
			name: "lsbl",
			setup: func(m *testMachine) {
				m.p.SetX(1, 0000000444444)
			},
			program: []Instruction{ext(t, "LSBL", word.JU, 1, 0, 0, 0, 033)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0003300444444), m.p.X(1))
			},
		},
		{
			name: "lxm_lxi",
			program: []Instruction{
				ext(t, "LXM", word.JU, 2, 0, 0, 0, 0100),
				ext(t, "LXI", word.JU, 2, 0, 0, 0, 2),
			},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0000002000100), m.p.X(2))
			},
		},
		{
			name: "dl",
			setup: func(m *testMachine) {
				m.setData(020, 1, 2)
			},
			program: []Instruction{ext(t, "DL", 0, 2, 0, 0, 2, 020)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(1), m.p.A(2))
				assert.Equal(word.Word(2), m.p.A(3))
			},
		},
		{
			name: "dln",
			setup: func(m *testMachine) {
				m.setData(020, 0, 1)
			},
			program: []Instruction{ext(t, "DLN", 0, 2, 0, 0, 2, 020)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0777777777777), m.p.A(2))
				assert.Equal(word.Word(0777777777776), m.p.A(3))
			},
		},
		{
			name: "lr_grs",
			setup: func(m *testMachine) {
				m.p.GRS.Set(GRS_A0+5, 0555)
			},
			program: []Instruction{ext(t, "LR", word.JW, 1, 0, 0, 0, GRS_A0+5)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0555), m.p.R(1))
			},
		},
		{
			name:  "la_basic_grs",
			basic: true,
			setup: func(m *testMachine) {
				m.p.SetR(0, 5)
			},
			program: []Instruction{bas(t, "LA", word.JW, 0, 0, 0, 0, GRS_R0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(5), m.p.A(0))
			},
		},
		{
			name:  "la_basic_indexed",
			basic: true,
			setup: func(m *testMachine) {
				m.setData(testBasicDataLower+3, 0321)
				m.p.SetX(4, 0000001000002)
			},
			program: []Instruction{bas(t, "LA", word.JW, 0, 4, 1, 0, testBasicDataLower+1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0321), m.p.A(0))
				assert.Equal(word.Word(0000001000003), m.p.X(4))
			},
		},
		{
			name:  "la_basic_indirect",
			basic: true,
			setup: func(m *testMachine) {
				m.setData(testBasicDataLower, testBasicDataLower+010)
				m.setData(testBasicDataLower+010, 0707)
			},
			program: []Instruction{bas(t, "LA", word.JW, 0, 0, 0, 1, testBasicDataLower)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0707), m.p.A(0))
			},
		},
		{
			name: "lrs",
			setup: func(m *testMachine) {
				m.setData(040, 1, 2, 3)
				// Two registers from R4, then one from X1.
				m.p.SetA(0, word.Word(1)<<27|word.Word(GRS_X0+1)<<18|word.Word(2)<<9|(GRS_R0+4))
			},
			program: []Instruction{ext(t, "LRS", 0, 0, 0, 0, 2, 040)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(1), m.p.R(4))
				assert.Equal(word.Word(2), m.p.R(5))
				assert.Equal(word.Word(3), m.p.X(1))
			},
		},
		{
			name: "lpd_spd",
			program: []Instruction{
				asm(t, true, "LPD", 0, 0, 0, 0, 0, 021),
				asm(t, true, "SPD", 0, 0, 0, 0, 0, testBasicDataLower),
			},
			basic: true,
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.True(m.p.DR.Carry())
				assert.True(m.p.DR.DivideCheck())
				assert.False(m.p.DR.Overflow())
				assert.Equal(word.Word(021), m.data(testBasicDataLower))
			},
		},
		{
			name: "ld_pp3",
			setup: func(m *testMachine) {
				m.p.DR.SetProcessorPrivilege(3)
			},
			program: []Instruction{ext(t, "LD", 0, 0, 0, 0, 2, 0)},
			detail:  testHaltBase + uint64(CLASS_INVALID_INSTRUCTION),
		},
	})
}

func TestExec_Store(t *testing.T) {
	runProgramTests(t, []programTest{
		{
			name: "sa_h2",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0123)
				m.setData(0, 0555555555555)
			},
			program: []Instruction{ext(t, "SA", word.JH2, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0555555000123), m.data(0))
			},
		},
		{
			name: "sna",
			setup: func(m *testMachine) {
				m.p.SetA(1, 5)
			},
			program: []Instruction{ext(t, "SNA", word.JW, 1, 0, 0, 2, 1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0777777777772), m.data(1))
			},
		},
		{
			name: "sp1_h1",
			setup: func(m *testMachine) {
				m.setData(0, 0343434343434)
			},
			program: []Instruction{ext(t, "SP1", word.JH1, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0000001343434), m.data(0))
			},
		},
		{
			name: "sfs",
			program: []Instruction{
				ext(t, "SFS", word.JW, 0, 0, 0, 2, 0),
				ext(t, "SNZ", word.JW, 0, 0, 0, 2, 1),
			},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0050505050505), m.data(0))
				assert.Equal(word.Word(0777777777777), m.data(1))
			},
		},
		{
			name: "sz_u",
			setup: func(m *testMachine) {
				m.setData(0, 0123)
			},
			program: []Instruction{ext(t, "SZ", word.JU, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0123), m.data(0))
			},
		},
		{
			name: "ds",
			setup: func(m *testMachine) {
				m.p.SetA(4, 1)
				m.p.SetA(5, 2)
			},
			program: []Instruction{ext(t, "DS", 0, 4, 0, 0, 2, 030)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(1), m.data(030))
				assert.Equal(word.Word(2), m.data(031))
			},
		},
		{
			name: "sx_grs",
			setup: func(m *testMachine) {
				m.p.SetX(3, 0444)
			},
			program: []Instruction{ext(t, "SX", word.JW, 3, 0, 0, 0, GRS_R0+7)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0444), m.p.R(7))
			},
		},
		{
			name:    "sa_grs_denied",
			basic:   true,
			program: []Instruction{bas(t, "SA", word.JW, 0, 0, 0, 0, 040)},
			detail:  testHaltBase + uint64(CLASS_REFERENCE_VIOLATION),
			check: func(assert *assert.Assertions, m *testMachine) {
				mi := m.p.LastInterrupt()
				kind, brIndex, fetch := mi.ReferenceViolation()
				assert.Equal(RV_GRS, kind)
				assert.Equal(uint(0), brIndex)
				assert.False(fetch)
			},
		},
		{
			name: "srs",
			setup: func(m *testMachine) {
				m.p.SetR(4, 7)
				m.p.SetR(5, 8)
				m.p.SetA(0, word.Word(2)<<9|(GRS_R0+4))
			},
			program: []Instruction{ext(t, "SRS", 0, 0, 0, 0, 2, 050)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(7), m.data(050))
				assert.Equal(word.Word(8), m.data(051))
			},
		},
		{
			name: "sd",
			setup: func(m *testMachine) {
				m.p.DR.SetCarry(true)
			},
			program: []Instruction{ext(t, "SD", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0).SetBit(DB_CARRY, true), m.data(0))
			},
		},
	})
}

func TestExec_Fixed(t *testing.T) {
	haltDivide := testHaltBase + uint64(CLASS_ARITHMETIC_EXCEPTION)
	haltTrap := testHaltBase + uint64(CLASS_OPERATION_TRAP)

	runProgramTests(t, []programTest{
		{
			name: "aa_overflow",
			setup: func(m *testMachine) {
				m.p.SetA(0, word.Largest)
			},
			program: []Instruction{ext(t, "AA", word.JU, 0, 0, 0, 0, 1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0400000000000), m.p.A(0))
				assert.True(m.p.DR.Overflow())
				assert.False(m.p.DR.Carry())
			},
		},
		{
			name: "aa_overflow_trap",
			setup: func(m *testMachine) {
				m.p.SetA(0, word.Largest)
				m.p.DR.SetOperationTrap(true)
			},
			program: []Instruction{ext(t, "AA", word.JU, 0, 0, 0, 0, 1)},
			detail:  haltTrap,
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0400000000000), m.p.GRS.Get(GRS_A0))
			},
		},
		{
			name: "aa_carry",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0777777777776)
			},
			program: []Instruction{ext(t, "AA", word.JU, 0, 0, 0, 0, 2)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(1), m.p.A(0))
				assert.True(m.p.DR.Carry())
				assert.False(m.p.DR.Overflow())
			},
		},
		{
			name: "ana",
			setup: func(m *testMachine) {
				m.p.SetA(0, 5)
			},
			program: []Instruction{ext(t, "ANA", word.JU, 0, 0, 0, 0, 3)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(2), m.p.A(0))
			},
		},
		{
			name: "au",
			setup: func(m *testMachine) {
				m.p.SetA(0, 5)
			},
			program: []Instruction{ext(t, "AU", word.JU, 0, 0, 0, 0, 3)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(5), m.p.A(0))
				assert.Equal(word.Word(010), m.p.A(1))
			},
		},
		{
			name: "ax",
			setup: func(m *testMachine) {
				m.p.SetX(3, 5)
			},
			program: []Instruction{ext(t, "AX", word.JU, 3, 0, 0, 0, 1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(6), m.p.X(3))
			},
		},
		{
			name: "ah",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0000001000002)
				m.setData(0, 0000003777777)
			},
			program: []Instruction{ext(t, "AH", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0000004000002), m.p.A(0))
			},
		},
		{
			name: "add1",
			setup: func(m *testMachine) {
				m.setData(0, 5)
			},
			program: []Instruction{ext(t, "ADD1", word.JW, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(6), m.data(0))
			},
		},
		{
			name: "inc_skip",
			setup: func(m *testMachine) {
				m.setData(0, 5)
			},
			program: []Instruction{
				ext(t, "INC", word.JW, 0, 0, 0, 2, 0),
				ext(t, "LA", word.JU, 0, 0, 0, 0, 1),
			},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(6), m.data(0))
				assert.Equal(word.Word(0), m.p.A(0))
			},
		},
		{
			name: "inc_to_zero",
			setup: func(m *testMachine) {
				m.setData(0, 0777777777776)
			},
			program: []Instruction{
				ext(t, "INC", word.JW, 0, 0, 0, 2, 0),
				ext(t, "LA", word.JU, 0, 0, 0, 0, 1),
			},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0), m.data(0))
				assert.Equal(word.Word(1), m.p.A(0))
			},
		},
		{
			name: "enz",
			setup: func(m *testMachine) {
				m.setData(0, word.NegativeZero)
			},
			program: []Instruction{
				ext(t, "ENZ", word.JW, 0, 0, 0, 2, 0),
				ext(t, "LA", word.JU, 0, 0, 0, 0, 1),
			},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.PositiveZero, m.data(0))
				assert.Equal(word.Word(1), m.p.A(0))
			},
		},
		{
			name:  "add1_basic_pp3",
			basic: true,
			setup: func(m *testMachine) {
				m.p.DR.SetProcessorPrivilege(3)
			},
			program: []Instruction{bas(t, "ADD1", word.JW, 0, 0, 0, 0, testBasicDataLower)},
			detail:  testHaltBase + uint64(CLASS_INVALID_INSTRUCTION),
		},
		{
			name: "da",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0)
				m.p.SetA(1, 1)
				m.setData(0, 0, 2)
			},
			program: []Instruction{ext(t, "DA", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0), m.p.A(0))
				assert.Equal(word.Word(3), m.p.A(1))
			},
		},
		{
			name: "mi",
			setup: func(m *testMachine) {
				m.p.SetA(0, 3)
			},
			program: []Instruction{ext(t, "MI", word.JU, 0, 0, 0, 0, 5)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0), m.p.A(0))
				assert.Equal(word.Word(017), m.p.A(1))
			},
		},
		{
			name: "msi",
			setup: func(m *testMachine) {
				m.p.SetA(0, 3)
			},
			program: []Instruction{ext(t, "MSI", word.JU, 0, 0, 0, 0, 5)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(017), m.p.A(0))
			},
		},
		{
			name: "di",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0)
				m.p.SetA(1, 021)
			},
			program: []Instruction{ext(t, "DI", word.JU, 0, 0, 0, 0, 5)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(3), m.p.A(0))
				assert.Equal(word.Word(2), m.p.A(1))
				assert.False(m.p.DR.DivideCheck())
			},
		},
		{
			name: "di_zero",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0)
				m.p.SetA(1, 021)
			},
			program: []Instruction{ext(t, "DI", word.JU, 0, 0, 0, 0, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0), m.p.A(0))
				assert.Equal(word.Word(0), m.p.A(1))
				assert.True(m.p.DR.DivideCheck())
			},
		},
		{
			name:  "di_zero_exception",
			basic: true,
			setup: func(m *testMachine) {
				m.p.SetA(0, 0)
				m.p.SetA(1, 021)
				m.p.DR.SetArithmeticException(true)
			},
			program: []Instruction{bas(t, "DI", word.JU, 0, 0, 0, 0, 0)},
			detail:  haltDivide,
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(021), m.p.GRS.Get(GRS_A0+1))
				mi := m.p.LastInterrupt()
				assert.Equal(CLASS_ARITHMETIC_EXCEPTION, mi.Class)
				assert.Equal(uint(AX_DIVIDE_CHECK), mi.ShortStatus)
			},
		},
	})
}

func TestExec_Logical(t *testing.T) {
	runProgramTests(t, []programTest{
		{
			name: "or",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0707)
			},
			program: []Instruction{ext(t, "OR", word.JU, 0, 0, 0, 0, 070)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0777), m.p.A(1))
			},
		},
		{
			name: "xor",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0707)
			},
			program: []Instruction{ext(t, "XOR", word.JU, 0, 0, 0, 0, 0777)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(070), m.p.A(1))
			},
		},
		{
			name: "and",
			setup: func(m *testMachine) {
				m.p.SetA(0, 0707)
			},
			program: []Instruction{ext(t, "AND", word.JU, 0, 0, 0, 0, 0700)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0700), m.p.A(1))
			},
		},
		{
			name: "mlu",
			setup: func(m *testMachine) {
				m.p.SetR(2, 0777000)
				m.p.SetA(0, 0123456)
				m.setData(0, 0654321)
			},
			program: []Instruction{ext(t, "MLU", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0654456), m.p.A(1))
			},
		},
	})
}

func TestExec_Shift(t *testing.T) {
	runProgramTests(t, []programTest{
		{
			name:    "ssc",
			setup:   func(m *testMachine) { m.p.SetA(0, 1) },
			program: []Instruction{ext(t, "SSC", 0, 0, 0, 0, 0, 1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0400000000000), m.p.A(0))
			},
		},
		{
			name:    "ssa",
			setup:   func(m *testMachine) { m.p.SetA(0, 0400000000000) },
			program: []Instruction{ext(t, "SSA", 0, 0, 0, 0, 0, 1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0600000000000), m.p.A(0))
			},
		},
		{
			name:    "ssl",
			setup:   func(m *testMachine) { m.p.SetA(0, 0400000000000) },
			program: []Instruction{ext(t, "SSL", 0, 0, 0, 0, 0, 3)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0040000000000), m.p.A(0))
			},
		},
		{
			name:    "lssl",
			setup:   func(m *testMachine) { m.p.SetA(0, 1) },
			program: []Instruction{ext(t, "LSSL", 0, 0, 0, 0, 0, 3)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(010), m.p.A(0))
			},
		},
		{
			name:    "lssc",
			setup:   func(m *testMachine) { m.p.SetA(0, 0400000000000) },
			program: []Instruction{ext(t, "LSSC", 0, 0, 0, 0, 0, 1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(1), m.p.A(0))
			},
		},
		{
			name: "dsl",
			setup: func(m *testMachine) {
				m.p.SetA(0, 1)
				m.p.SetA(1, 0)
			},
			program: []Instruction{ext(t, "DSL", 0, 0, 0, 0, 0, 36)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0), m.p.A(0))
				assert.Equal(word.Word(1), m.p.A(1))
			},
		},
		{
			name: "shift_count_indexed",
			setup: func(m *testMachine) {
				m.p.SetA(0, 1)
				m.p.SetX(1, 2)
			},
			program: []Instruction{ext(t, "LSSL", 0, 0, 1, 0, 0, 1)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(010), m.p.A(0))
			},
		},
		{
			name:    "lsc",
			setup:   func(m *testMachine) { m.setData(0, 1) },
			program: []Instruction{ext(t, "LSC", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0200000000000), m.p.A(0))
				assert.Equal(word.Word(34), m.p.A(1))
			},
		},
		{
			name:    "lsc_zero",
			program: []Instruction{ext(t, "LSC", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0), m.p.A(0))
				assert.Equal(word.Word(35), m.p.A(1))
			},
		},
	})
}

// skipProbe follows a test instruction; A15 is 1 only if it was not skipped.
func skipProbe(t *testing.T) Instruction {
	return ext(t, "LA", word.JU, 15, 0, 0, 0, 1)
}

func TestExec_Compare(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		setup func(m *testMachine)
		iw    Instruction
		skip  bool
	}){
		{"tz_zero", nil, ext(t, "TZ", word.JW, 0, 0, 0, 2, 0), true},
		{"tz_negative_zero", func(m *testMachine) { m.setData(0, word.NegativeZero) }, ext(t, "TZ", word.JW, 0, 0, 0, 2, 0), true},
		{"tz_nonzero", func(m *testMachine) { m.setData(0, 5) }, ext(t, "TZ", word.JW, 0, 0, 0, 2, 0), false},
		{"tnz", func(m *testMachine) { m.setData(0, 5) }, ext(t, "TNZ", word.JW, 0, 0, 0, 2, 0), true},
		{"tp", nil, ext(t, "TP", word.JU, 0, 0, 0, 0, 5), true},
		{"tn", func(m *testMachine) { m.setData(0, 0777777777772) }, ext(t, "TN", word.JW, 0, 0, 0, 2, 0), true},
		{"tpz", func(m *testMachine) { m.setData(0, word.NegativeZero) }, ext(t, "TPZ", word.JW, 0, 0, 0, 2, 0), false},
		{"tmz", func(m *testMachine) { m.setData(0, word.NegativeZero) }, ext(t, "TMZ", word.JW, 0, 0, 0, 2, 0), true},
		{"tgz", nil, ext(t, "TGZ", word.JU, 0, 0, 0, 0, 1), true},
		{"tlz", func(m *testMachine) { m.setData(0, 0777777777776) }, ext(t, "TLZ", word.JW, 0, 0, 0, 2, 0), true},
		{"tnop", nil, ext(t, "TNOP", word.JU, 0, 0, 0, 0, 0), false},
		{"tskp", nil, ext(t, "TSKP", word.JU, 0, 0, 0, 0, 0), true},
		{"te", func(m *testMachine) { m.p.SetA(0, 5) }, ext(t, "TE", word.JU, 0, 0, 0, 0, 5), true},
		{"tne", func(m *testMachine) { m.p.SetA(0, 5) }, ext(t, "TNE", word.JU, 0, 0, 0, 0, 5), false},
		{"tle", func(m *testMachine) { m.p.SetA(0, 5) }, ext(t, "TLE", word.JU, 0, 0, 0, 0, 3), true},
		{"tg", func(m *testMachine) { m.p.SetA(0, 5) }, ext(t, "TG", word.JU, 0, 0, 0, 0, 7), true},
		{"tw", func(m *testMachine) { m.p.SetA(0, 1); m.p.SetA(1, 5) }, ext(t, "TW", word.JU, 0, 0, 0, 0, 3), true},
		{"tw_low", func(m *testMachine) { m.p.SetA(0, 1); m.p.SetA(1, 5) }, ext(t, "TW", word.JU, 0, 0, 0, 0, 1), false},
		{"tnw", func(m *testMachine) { m.p.SetA(0, 1); m.p.SetA(1, 5) }, ext(t, "TNW", word.JU, 0, 0, 0, 0, 7), true},
		{"tep_odd", func(m *testMachine) { m.p.SetA(0, 3) }, ext(t, "TEP", word.JU, 0, 0, 0, 0, 1), false},
		{"top_odd", func(m *testMachine) { m.p.SetA(0, 3) }, ext(t, "TOP", word.JU, 0, 0, 0, 0, 1), true},
		{"dte", func(m *testMachine) {
			m.p.SetA(0, 1)
			m.p.SetA(1, 2)
			m.setData(0, 1, 2)
		}, ext(t, "DTE", 0, 0, 0, 0, 2, 0), true},
		{"mte", func(m *testMachine) {
			m.p.SetR(2, 0777)
			m.p.SetA(0, 0123)
			m.setData(0, 0777000123)
		}, ext(t, "MTE", 0, 0, 0, 0, 2, 0), true},
		{"matg", func(m *testMachine) {
			m.p.SetR(2, word.Mask)
			m.p.SetA(0, 1)
			m.setData(0, 0777777777776)
		}, ext(t, "MATG", 0, 0, 0, 0, 2, 0), true},
		{"mtg_signed", func(m *testMachine) {
			m.p.SetR(2, word.Mask)
			m.p.SetA(0, 1)
			m.setData(0, 0777777777776)
		}, ext(t, "MTG", 0, 0, 0, 0, 2, 0), false},
	}

	for _, entry := range table {
		m := newTestMachine(t, false)
		if entry.setup != nil {
			entry.setup(m)
		}
		m.load(entry.iw, skipProbe(t), halt)

		stop := m.run()
		assert.Equal(STOP_DEBUG, stop.Reason, entry.name)
		assert.Equal(uint64(0), stop.Detail, entry.name)
		if entry.skip {
			assert.Equal(word.Word(0), m.p.A(15), entry.name)
		} else {
			assert.Equal(word.Word(1), m.p.A(15), entry.name)
		}
	}
}

func TestExec_TLEM(t *testing.T) {
	runProgramTests(t, []programTest{
		{
			name:    "tlem",
			setup:   func(m *testMachine) { m.p.SetX(1, 0000001000005) },
			program: []Instruction{ext(t, "TLEM", word.JU, 1, 0, 0, 0, 3), skipProbe(t)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0), m.p.A(15))
				assert.Equal(word.Word(0000001000006), m.p.X(1))
			},
		},
	})
}

func TestExec_TestAndSet(t *testing.T) {
	haltTS := testHaltBase + uint64(CLASS_TEST_AND_SET)

	runProgramTests(t, []programTest{
		{
			name:    "ts_clear",
			program: []Instruction{ext(t, "TS", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(tsLockBit, m.data(0))
			},
		},
		{
			name:    "ts_set",
			setup:   func(m *testMachine) { m.setData(0, tsLockBit) },
			program: []Instruction{ext(t, "TS", 0, 0, 0, 0, 2, 0)},
			detail:  haltTS,
			check: func(assert *assert.Assertions, m *testMachine) {
				mi := m.p.LastInterrupt()
				assert.Equal(word.Word(2)<<18, mi.Status[1])
			},
		},
		{
			name:    "tss_clear",
			program: []Instruction{ext(t, "TSS", 0, 0, 0, 0, 2, 0), skipProbe(t)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(tsLockBit, m.data(0))
				assert.Equal(word.Word(0), m.p.A(15))
			},
		},
		{
			name:    "tss_set",
			setup:   func(m *testMachine) { m.setData(0, tsLockBit|5) },
			program: []Instruction{ext(t, "TSS", 0, 0, 0, 0, 2, 0), skipProbe(t)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(tsLockBit|5, m.data(0))
				assert.Equal(word.Word(1), m.p.A(15))
			},
		},
		{
			name:    "tcs_set",
			setup:   func(m *testMachine) { m.setData(0, tsLockBit|5) },
			program: []Instruction{ext(t, "TCS", 0, 0, 0, 0, 2, 0), skipProbe(t)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(5), m.data(0))
				assert.Equal(word.Word(0), m.p.A(15))
			},
		},
		{
			name:    "ts_replaces_s1",
			setup:   func(m *testMachine) { m.setData(0, 0700000000000) },
			program: []Instruction{ext(t, "TS", 0, 0, 0, 0, 2, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0010000000000), m.data(0))
			},
		},
		{
			name:    "tcs_replaces_s1",
			setup:   func(m *testMachine) { m.setData(0, 0770000123456) },
			program: []Instruction{ext(t, "TCS", 0, 0, 0, 0, 2, 0), skipProbe(t)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0000000123456), m.data(0))
				assert.Equal(word.Word(0), m.p.A(15))
			},
		},
	})
}

func TestExec_System(t *testing.T) {
	haltSignal := testHaltBase + uint64(CLASS_SIGNAL)

	runProgramTests(t, []programTest{
		{
			name:    "halt_detail",
			program: []Instruction{ext(t, "HALT", 0, 0, 0, 0, 0, 0123)},
			detail:  0123,
		},
		{
			name:    "nop_indexes",
			setup:   func(m *testMachine) { m.p.SetX(1, 0000002000000) },
			program: []Instruction{ext(t, "NOP", 0, 0, 1, 1, 0, 0)},
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(word.Word(0000002000002), m.p.X(1))
			},
		},
		{
			name:    "er",
			basic:   true,
			program: []Instruction{bas(t, "ER", 0, 0, 0, 0, 0, 077)},
			detail:  haltSignal,
			check: func(assert *assert.Assertions, m *testMachine) {
				mi := m.p.LastInterrupt()
				assert.Equal(uint(SIGNAL_EXECUTIVE_REQUEST), mi.ShortStatus)
				assert.Equal(word.Word(077), mi.Status[0])
				// The ER completed before the interrupt was taken.
				frame := m.read(testICSAddress + 01000 - ICS_FRAME_SIZE)
				assert.Equal(ProgramAddressRegister{BDI: testBasicCodeBDI, PC: testBasicCodeLower + 1}.Word(), frame)
			},
		},
		{
			name:    "sgnl",
			program: []Instruction{ext(t, "SGNL", 0, 0, 0, 0, 0, 5)},
			detail:  haltSignal,
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(uint(SIGNAL_SGNL), m.p.LastInterrupt().ShortStatus)
			},
		},
		{
			name:    "iar_pp3",
			setup:   func(m *testMachine) { m.p.DR.SetProcessorPrivilege(3) },
			program: []Instruction{ext(t, "IAR", 0, 0, 0, 0, 0, 0)},
			detail:  testHaltBase + uint64(CLASS_INVALID_INSTRUCTION),
		},
		{
			name:    "undefined",
			program: []Instruction{MakeInstruction(0, 0, 0, 0, 0, 0, 0)},
			detail:  testHaltBase + uint64(CLASS_INVALID_INSTRUCTION),
			check: func(assert *assert.Assertions, m *testMachine) {
				assert.Equal(uint(II_UNDEFINED_FUNCTION_CODE), m.p.LastInterrupt().ShortStatus)
			},
		},
	})
}

func TestExec_IAR(t *testing.T) {
	assert := assert.New(t)

	m := newTestMachine(t, false)
	m.load(ext(t, "IAR", 0, 0, 0, 0, 0, 042))

	stop := m.run()
	assert.Equal(STOP_INITIATE_AUTO_RECOVERY, stop.Reason)
	assert.Equal(uint64(042), stop.Detail)
	assert.Equal(STOP_INITIATE_AUTO_RECOVERY, m.p.StopReason())
}

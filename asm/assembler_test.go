package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/word"
)

// encode assembles an instruction by mnemonic, for comparison.
func encode(t *testing.T, basic bool, mnemonic string, j, a, x, h, i, u uint) word.Word {
	enc, err := processor.LookupMnemonic(mnemonic, basic)
	if err != nil {
		t.Fatal(err)
	}
	switch enc.Index {
	case processor.INDEX_FJ:
		j = enc.J
	case processor.INDEX_FA:
		a = enc.A
	case processor.INDEX_FJA:
		j = enc.J
		a = enc.A
	}
	return processor.MakeInstruction(enc.F, j, a, x, h, i, u).Word()
}

func parse(t *testing.T, program ...string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0100", asm.Equate["GRS_R0"])
	assert.Equal("6", asm.Equate["ICS_FRAME_SIZE"])

	_, err = prog.Bank(0, 040)
	assert.ErrorIs(err, ErrProgramEmpty)
}

func TestAssemblerExtended(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"; a comment",
		".equ COUNT 5",
		"start: LA,U A1,COUNT   ; immediate",
		"       LA A2,data,,B2",
		"       J loop",
		"loop:  HALT 0",
		"data:  + 0123,0456",
		"       + $(COUNT*2)",
		"       LA,XU A3,-1",
		"       JGD GRS_R0,loop",
		"       LA,H1 A4,010,*X5,B3",
		"       + start",
	)
	assert.NoError(err)
	if err != nil {
		return
	}

	expected := []word.Word{
		encode(t, false, "LA", word.JU, 1, 0, 0, 0, 5),
		encode(t, false, "LA", word.JW, 2, 0, 0, 0, 2<<12|4),
		encode(t, false, "J", 0, 0, 0, 0, 0, 3),
		encode(t, false, "HALT", 0, 0, 0, 0, 0, 0),
		0000123000456,
		10,
		encode(t, false, "LA", word.JXU, 3, 0, 1, 1, 0177776),
		encode(t, false, "JGD", 04, 0, 0, 0, 0, 3),
		encode(t, false, "LA", word.JH1, 4, 5, 1, 0, 3<<12|010),
		0,
	}

	assert.Equal(expected, prog.Words(0))
	assert.Equal(map[string]uint32{"start": 0, "loop": 3, "data": 4}, prog.Labels)
	assert.False(prog.Basic)
	assert.Equal(uint32(0), prog.Entry())
	assert.Equal(uint32(0), prog.Lower())
	assert.Equal(uint32(9), prog.Upper())

	// Every word decodes as the mnemonic that assembled it.
	assert.Equal(processor.OP_LA, processor.Decode(processor.Instruction(expected[0]), false))
	assert.Equal(processor.OP_J, processor.Decode(processor.Instruction(expected[2]), false))
	assert.Equal(processor.OP_JGD, processor.Decode(processor.Instruction(expected[7]), false))

	mod, err := prog.Module(0, 040)
	assert.NoError(err)
	assert.Equal(processor.ProgramAddressRegister{Level: 0, BDI: 040, PC: 0}, mod.Entry)
	assert.Equal(processor.BANK_EXTENDED, mod.Banks[0].Type)
	assert.Equal(expected, mod.Banks[0].Words)
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".basic",
		".org 01004",
		"start:  LA,H1 A3,*0100,*X4",
		"        SLJ target",
		"        HALT $(start + 1)",
		".org 01000",
		"target: + 0",
	)
	assert.NoError(err)
	if err != nil {
		return
	}

	assert.True(prog.Basic)
	assert.Equal(uint32(01000), prog.Lower())
	assert.Equal(uint32(01006), prog.Upper())
	assert.Equal(uint32(01004), prog.Entry())

	bank, err := prog.Bank(1, 0100)
	assert.NoError(err)
	assert.Equal(processor.BANK_BASIC, bank.Type)
	assert.Equal(uint32(01000), bank.Lower)
	assert.Equal([]word.Word{
		0, 0, 0, 0,
		encode(t, true, "LA", word.JH1, 3, 4, 1, 1, 0100),
		encode(t, true, "SLJ", 0, 0, 0, 0, 0, 01000),
		encode(t, true, "HALT", 0, 0, 0, 0, 0, 01005),
	}, bank.Words)

	listing := prog.Listing()
	assert.Equal(uint32(01000), listing[0].Address)
	assert.Equal(7, listing[0].LineNo)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".macro LOADI reg val",
		"@top: LA,U reg,val",
		"      J @top",
		".endm",
		"LOADI A5 7",
		"LOADI A6 $(3+4)",
	)
	assert.NoError(err)
	if err != nil {
		return
	}

	assert.Equal([]word.Word{
		encode(t, false, "LA", word.JU, 5, 0, 0, 0, 7),
		encode(t, false, "J", 0, 0, 0, 0, 0, 0),
		encode(t, false, "LA", word.JU, 6, 0, 0, 0, 7),
		encode(t, false, "J", 0, 0, 0, 0, 0, 2),
	}, prog.Words(0))
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		err     error
	}){
		{"partial", []string{"LA,Z A1,0"}, ErrPartialWord},
		{"partial_fixed", []string{"J,U 0"}, ErrPartialWordFixed},
		{"register", []string{"LA Q1,0"}, ErrRegisterInvalid},
		{"register_range", []string{"LA A16,0"}, ErrRegisterInvalid},
		{"range", []string{"LA,U A1,0777777777"}, ErrFieldRange},
		{"d_range", []string{"LA A1,010000,,B2"}, ErrFieldRange},
		{"mnemonic", []string{"FOO A1"}, processor.ErrMnemonic},
		{"basic_only", []string{"SLJ 0"}, processor.ErrMnemonic},
		{"label_missing", []string{"J nowhere"}, ErrLabelMissing("nowhere")},
		{"equ_syntax", []string{".equ A"}, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, ErrEquateDuplicate},
		{"label_duplicate", []string{"x: + 0", "x: + 1"}, ErrLabelDuplicate},
		{"org_syntax", []string{".org"}, ErrOrgSyntax},
		{"org_overlap", []string{"+ 1", ".org 0", "+ 2"}, ErrOrgOverlap},
		{"endm", []string{".endm"}, ErrMacroLonelyEndm},
		{"macro", []string{".macro M"}, ErrMacroLonely},
		{"macro_nesting", []string{".macro M", ".macro N"}, ErrMacroNesting},
		{"macro_args", []string{".macro M a", ".endm", "M"}, ErrMacroSyntax},
		{"extra", []string{"LA A1,0,X3,B2,5"}, ErrOpcodeExtraArgs},
		{"extra_words", []string{"LA A1,0 X3"}, ErrOpcodeExtraArgs},
		{"data_missing", []string{"+"}, ErrOpcodeValueMissing},
		{"number", []string{"+ 0x1g"}, ErrParseNumber("0x1g")},
		{"value_missing", []string{"LA"}, ErrOpcodeValueMissing},
	}

	for _, entry := range table {
		_, err := parse(t, entry.program...)
		assert.ErrorIs(err, entry.err, entry.name)
		var syntax *ErrSyntax
		assert.ErrorAs(err, &syntax, entry.name)
	}

	_, err := parse(t, "LA,U A1,$(1 +)")
	assert.Error(err)
}

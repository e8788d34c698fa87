// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/word"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"ICS_FRAME_SIZE": fmt.Sprintf("%d", processor.ICS_FRAME_SIZE),
	"GRS_A0":         fmt.Sprintf("%#o", processor.GRS_A0),
	"GRS_R0":         fmt.Sprintf("%#o", processor.GRS_R0),
	"GRS_EX0":        fmt.Sprintf("%#o", processor.GRS_EX0),
	"GRS_EA0":        fmt.Sprintf("%#o", processor.GRS_EA0),
	"GRS_ER0":        fmt.Sprintf("%#o", processor.GRS_ER0),
}

// Assembler is a single pass macro assembler for hand written 2200
// instruction processor programs.
//
// A statement is one of:
//
//	label: MNEMONIC[,j] [a,]u[,x[,b]]   ; an instruction
//	label: + value[,value]              ; a word, or a pair of half words
//	.org address                        ; set the location counter
//	.equ NAME value                     ; define an equate
//	.basic / .extended                  ; select the instruction set
//	.macro NAME arg... / .endm          ; define a macro
//
// An x field of *Xn increments the index register. In basic mode a u
// field of *u is indirect. Values are Go integer literals, equates,
// labels, or $(...) starlark expressions over the equates and the labels
// defined so far. A label used as a u field before it is defined is
// linked once the whole program is assembled.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of assembled words.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	basic      bool   // Assembling basic mode instructions.
	location   uint32 // Location counter.
	expansions int    // Macro expansions so far, for @ labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// partialMap maps partial word designator names to j field values. The
// quarter word names assume the quarter word mode designator is set.
var partialMap = map[string]uint{
	"W":   word.JW,
	"H2":  word.JH2,
	"H1":  word.JH1,
	"XH2": word.JXH2,
	"XH1": word.JXH1,
	"T3":  word.JT3,
	"T2":  word.JT2,
	"T1":  word.JT1,
	"Q1":  word.JT1,
	"Q2":  word.JXH1,
	"Q3":  word.JT2,
	"Q4":  word.JT3,
	"S6":  word.JS6,
	"S5":  word.JS5,
	"S4":  word.JS4,
	"S3":  word.JS3,
	"S2":  word.JS2,
	"S1":  word.JS1,
	"U":   word.JU,
	"XU":  word.JXU,
}

// registerPrefix is the register name prefix for each kind of a field.
var registerPrefix = map[processor.RegisterKind]string{
	processor.REG_A:      "A",
	processor.REG_X:      "X",
	processor.REG_R:      "R",
	processor.REG_B:      "B",
	processor.REG_B_EXEC: "B",
}

// equate follows equates from a word to its value text.
func (asm *Assembler) equate(text string) string {
	for range 16 {
		value, ok := asm.Equate[text]
		if !ok {
			break
		}
		text = value
	}
	return text
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(text string) (value int64, err error) {
	text = asm.equate(text)
	if len(text) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	addr, ok := asm.Label[text]
	if ok {
		value = int64(addr)
		return
	}

	value, err = strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}

	return
}

// fieldValue fits a value into an unsigned field of bits. Negative
// values are stored in ones complement.
func fieldValue(value int64, bits uint) (field word.Word, err error) {
	limit := int64(1) << bits
	if value >= limit || -value >= limit {
		err = ErrFieldRange
		return
	}
	if value < 0 {
		field = ^word.Word(-value) & word.Word(limit-1)
		return
	}
	field = word.Word(value)
	return
}

// isSymbol is true for words that could name a label.
func isSymbol(text string) bool {
	if len(text) == 0 {
		return false
	}
	c := text[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// fieldOrLink returns the value of a field, or the label to link into it
// when the word names a label not yet defined.
func (asm *Assembler) fieldOrLink(text string, bits uint) (field word.Word, link string, err error) {
	text = asm.equate(text)
	_, known := asm.Label[text]
	if !known && isSymbol(text) {
		link = text
		return
	}

	value, err := asm.valueOf(text)
	if err != nil {
		return
	}
	field, err = fieldValue(value, bits)
	return
}

// register returns the a field value for a register of a kind.
func (asm *Assembler) register(kind processor.RegisterKind, text string) (a uint, err error) {
	text = strings.ToUpper(asm.equate(text))

	prefix := registerPrefix[kind]
	if len(prefix) != 0 && strings.HasPrefix(text, prefix) {
		text = text[len(prefix):]
	} else if len(text) != 0 && text[0] >= 'A' && text[0] <= 'Z' {
		err = ErrRegisterInvalid
		return
	}

	value, err := strconv.ParseUint(text, 10, 8)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	switch {
	case kind == processor.REG_B_EXEC && value >= 16 && value < 32:
		a = uint(value - 16)
	case kind != processor.REG_B_EXEC && value < 16:
		a = uint(value)
	default:
		err = ErrRegisterInvalid
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		var equValue int64
		equValue, err = asm.valueOf(key)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(equValue)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt64(int64(addr))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line into words, handling labels, equates,
// location directives and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.location
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var value int64
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if value < 0 || value > 0777777 {
			err = ErrFieldRange
			return
		}
		asm.location = uint32(value)
		words = nil
		return
	case ".basic":
		asm.basic = true
		words = nil
		return
	case ".extended":
		asm.basic = false
		words = nil
		return
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, macro.LineNo+n)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = map[string]uint32{}
	asm.Statement = asm.Statement[:0]
	asm.Macro = map[string](*Macro){}
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.basic = false
	asm.location = 0
	asm.expansions = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		stmt := &asm.Statement[n]

		if len(stmt.LinkLabel) == 0 {
			continue
		}
		label := stmt.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		var field word.Word
		field, err = fieldValue(int64(addr), stmt.LinkField.Width)
		if err != nil {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			return
		}
		stmt.Word = stmt.LinkField.Set(stmt.Word, field)
	}

	// The location counter may have been moved back over earlier words.
	seen := map[uint32]bool{}
	for _, stmt := range asm.Statement {
		if seen[stmt.Address] {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			err = ErrOrgOverlap
			return
		}
		seen[stmt.Address] = true
	}

	prog = &Program{
		Basic:      asm.basic,
		Statements: slices.Clone(asm.Statement),
		Labels:     maps.Clone(asm.Label),
	}

	return
}

// parseWords assembles the words of a statement.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	var stmt Statement
	if words[0] == "+" {
		stmt, err = asm.parseData(words[1:])
	} else {
		stmt, err = asm.parseInstruction(words)
	}
	if err != nil {
		return
	}

	stmt.LineNo = lineno
	stmt.Address = asm.location
	stmt.Words = words
	asm.Statement = append(asm.Statement, stmt)
	asm.location++

	return
}

// parseData assembles a + statement: one full word, or two half words.
func (asm *Assembler) parseData(words []string) (stmt Statement, err error) {
	if len(words) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	values := strings.Split(words[0], ",")
	var fields []word.Field
	switch len(values) {
	case 1:
		fields = []word.Field{word.W}
	case 2:
		fields = []word.Field{word.H1, word.H2}
	default:
		err = ErrOpcodeExtraArgs
		return
	}

	for n, value := range values {
		var field word.Word
		var link string
		field, link, err = asm.fieldOrLink(value, fields[n].Width)
		if err != nil {
			return
		}
		if len(link) != 0 {
			if len(stmt.LinkLabel) != 0 {
				err = ErrLabelMissing(link)
				return
			}
			stmt.LinkLabel = link
			stmt.LinkField = fields[n]
			continue
		}
		stmt.Word = fields[n].Set(stmt.Word, field)
	}

	return
}

// parseInstruction assembles an instruction statement.
func (asm *Assembler) parseInstruction(words []string) (stmt Statement, err error) {
	if len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	mnemonic, partial, hasPartial := strings.Cut(words[0], ",")
	enc, err := processor.LookupMnemonic(mnemonic, asm.basic)
	if err != nil {
		return
	}

	var operands []string
	if len(words) == 2 {
		operands = strings.Split(words[1], ",")
	}

	var j, a, x, h, i, u uint

	switch enc.Index {
	case processor.INDEX_FJ, processor.INDEX_FJA:
		if hasPartial {
			err = ErrPartialWordFixed
			return
		}
		j = enc.J
	default:
		if hasPartial {
			var ok bool
			j, ok = partialMap[strings.ToUpper(asm.equate(partial))]
			if !ok {
				err = ErrPartialWord
				return
			}
		}
	}

	switch {
	case enc.Index == processor.INDEX_FA || enc.Index == processor.INDEX_FJA:
		a = enc.A
	case enc.Op.Register() == processor.REG_NONE:
	case len(operands) == 0:
		err = ErrOpcodeValueMissing
		return
	case enc.Op.Register() == processor.REG_GRS:
		if hasPartial {
			err = ErrPartialWordFixed
			return
		}
		var value int64
		value, err = asm.valueOf(operands[0])
		if err != nil {
			return
		}
		if value < 0 || value > 0177 {
			err = ErrRegisterInvalid
			return
		}
		j = uint(value >> 4)
		a = uint(value & 017)
		operands = operands[1:]
	case enc.Op.Register() == processor.REG_VALUE:
		var value int64
		value, err = asm.valueOf(operands[0])
		if err != nil {
			return
		}
		if value < 0 || value > 017 {
			err = ErrFieldRange
			return
		}
		a = uint(value)
		operands = operands[1:]
	default:
		a, err = asm.register(enc.Op.Register(), operands[0])
		if err != nil {
			return
		}
		operands = operands[1:]
	}

	maxOperands := 3
	if asm.basic {
		maxOperands = 2
	}
	if len(operands) > maxOperands {
		err = ErrOpcodeExtraArgs
		return
	}
	operands = append(operands, make([]string, maxOperands-len(operands))...)

	uText, xText := operands[0], operands[1]
	var bText string
	if !asm.basic {
		bText = operands[2]
	}

	if asm.basic && strings.HasPrefix(uText, "*") {
		i = 1
		uText = uText[1:]
	}

	if len(xText) != 0 {
		if strings.HasPrefix(xText, "*") {
			h = 1
			xText = xText[1:]
		}
		x, err = asm.register(processor.REG_X, xText)
		if err != nil {
			return
		}
	}

	immediate := enc.Op.Flags()&processor.OPF_IMMEDIATE != 0 &&
		(j == word.JU || j == word.JXU) && x == 0 && h == 0 && i == 0

	var field word.Word
	switch {
	case immediate:
		if len(bText) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		if len(uText) == 0 {
			break
		}
		field, stmt.LinkLabel, err = asm.fieldOrLink(uText, 18)
		h = uint(field>>17) & 1
		i = uint(field>>16) & 1
		u = uint(field) & 0177777
		stmt.LinkField = word.Field{Shift: 0, Width: 18}
	case len(bText) != 0:
		var b uint
		b, err = asm.register(processor.REG_B, bText)
		if err != nil {
			return
		}
		if len(uText) != 0 {
			field, stmt.LinkLabel, err = asm.fieldOrLink(uText, 12)
		}
		u = b<<12 | uint(field)
		stmt.LinkField = word.Field{Shift: 0, Width: 12}
	default:
		if len(uText) != 0 {
			field, stmt.LinkLabel, err = asm.fieldOrLink(uText, 16)
		}
		u = uint(field)
		stmt.LinkField = word.Field{Shift: 0, Width: 16}
	}
	if err != nil {
		return
	}
	if len(stmt.LinkLabel) == 0 {
		stmt.LinkField = word.Field{}
	}

	stmt.Word = processor.MakeInstruction(enc.F, j, a, x, h, i, u).Word()

	return
}

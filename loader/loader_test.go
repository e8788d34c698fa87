package loader

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

var rwe = processor.AccessPermissions{Enter: true, Read: true, Write: true}

// largeWords fills the smallest large bank.
func largeWords() []word.Word {
	words := make([]word.Word, 0100)
	for n := range words {
		words[n] = word.Word(n + 1)
	}
	return words
}

func testModule() *Module {
	return &Module{
		Entry: processor.ProgramAddressRegister{Level: 0, BDI: 040, PC: 01001},
		Banks: []Bank{
			{
				Level:   0,
				BDI:     040,
				Type:    processor.BANK_EXTENDED,
				General: rwe,
				Special: rwe,
				Lower:   01000,
				Words:   []word.Word{0, 0100200300400, word.Mask},
			},
			{
				Level:   2,
				BDI:     01234,
				Type:    processor.BANK_BASIC,
				Lock:    processor.AccessLock{Ring: 2, Domain: 0123},
				General: processor.AccessPermissions{Read: true},
				Special: rwe,
				Large:   true,
				Words:   largeWords(),
			},
		},
	}
}

func TestModuleRoundTrip(t *testing.T) {
	assert := assert.New(t)

	mod := testModule()

	var buf bytes.Buffer
	assert.NoError(mod.Write(&buf))
	assert.Equal([]byte(MODULE_MAGIC), buf.Bytes()[:4])

	loaded, err := Read(&buf)
	assert.NoError(err)
	assert.Equal(mod, loaded)

	path := filepath.Join(t.TempDir(), "test.abs")
	assert.NoError(mod.WriteFile(path))
	loaded, err = ReadFile(path)
	assert.NoError(err)
	assert.Equal(mod, loaded)
}

func TestModuleRead(t *testing.T) {
	assert := assert.New(t)

	var good bytes.Buffer
	assert.NoError(testModule().Write(&good))

	table := [](struct {
		name   string
		mangle func(data []byte) []byte
		err    error
	}){
		{"magic", func(data []byte) []byte { data[0] = 'X'; return data }, ErrMagic},
		{"version", func(data []byte) []byte { data[7] = 2; return data }, ErrVersion},
		{"bank_count", func(data []byte) []byte { data[22] = 3; return data }, ErrBankCount},
	}

	for _, entry := range table {
		data := entry.mangle(bytes.Clone(good.Bytes()))
		mod, err := Read(bytes.NewReader(data))
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Nil(mod, entry.name)
	}

	_, err := Read(bytes.NewReader([]byte("A2")))
	assert.Error(err)
}

func TestModuleValidate(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		modify func(mod *Module)
		err    error
	}){
		{"valid", func(mod *Module) {}, nil},
		{"level", func(mod *Module) { mod.Banks[1].Level = 8 }, ErrBankLevel},
		{"type", func(mod *Module) { mod.Banks[1].Type = processor.BANK_QUEUE }, ErrBankType},
		{"empty", func(mod *Module) { mod.Banks[1].Words = nil }, ErrBankEmpty},
		{"duplicate", func(mod *Module) { mod.Banks[1].Level, mod.Banks[1].BDI = 0, 040 }, ErrBankDuplicate{Level: 0, BDI: 040}},
		{"lower_limit", func(mod *Module) { mod.Banks[0].Lower = 01001 }, ErrBankLimits},
		{"large_lower_limit", func(mod *Module) { mod.Banks[1].Lower = 01000 }, ErrBankLimits},
		{"large_upper_limit", func(mod *Module) { mod.Banks[1].Words = mod.Banks[1].Words[:077] }, ErrBankLimits},
		{"entry_bank", func(mod *Module) { mod.Entry.BDI = 041 }, ErrEntryBank},
		{"entry_below", func(mod *Module) { mod.Entry.PC = 0777 }, ErrEntryBank},
		{"entry_above", func(mod *Module) { mod.Entry.PC = 01003 }, ErrEntryBank},
	}

	for _, entry := range table {
		mod := testModule()
		entry.modify(mod)
		err := mod.Validate()
		if entry.err == nil {
			assert.NoError(err, entry.name)
		} else {
			assert.ErrorIs(err, entry.err, entry.name)
		}
	}
}

func TestModuleInstall(t *testing.T) {
	assert := assert.New(t)

	ms := storage.NewMainStorage("MSP0", 0, 0200)
	mod := testModule()

	placed, err := mod.Install(ms, storage.AbsoluteAddress{Offset: 010}, false)
	assert.NoError(err)
	assert.Equal(2, len(placed))

	assert.Equal(uint(040), placed[0].BDI)
	bd := placed[0].Descriptor
	assert.Equal(storage.AbsoluteAddress{Offset: 010}, bd.BaseAddress())
	assert.Equal(uint64(01000), bd.LowerLimitNormalized())
	assert.Equal(uint64(01002), bd.UpperLimitNormalized())
	assert.Equal(processor.BANK_EXTENDED, bd.Type())

	bd = placed[1].Descriptor
	assert.Equal(storage.AbsoluteAddress{Offset: 013}, bd.BaseAddress())
	assert.Equal(processor.BANK_BASIC, bd.Type())
	assert.True(bd.Large())
	assert.Equal(uint64(0), bd.LowerLimitNormalized())
	assert.Equal(uint64(077), bd.UpperLimitNormalized())
	assert.Equal(processor.AccessLock{Ring: 2, Domain: 0123}, bd.AccessLock())

	value, err := ms.Read(storage.AbsoluteAddress{Offset: 011})
	assert.NoError(err)
	assert.Equal(word.Word(0100200300400), value)
	value, err = ms.Read(storage.AbsoluteAddress{Offset: 016})
	assert.NoError(err)
	assert.Equal(word.Word(4), value)

	_, err = mod.Install(ms, storage.AbsoluteAddress{Offset: 0120}, false)
	assert.ErrorIs(err, ErrPlacement)

	_, err = mod.Install(ms, storage.AbsoluteAddress{Segment: 5}, false)
	assert.ErrorIs(err, storage.ErrSegmentInvalid)
}

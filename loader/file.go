package loader

import (
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/word"
)

// ModuleHeader is the uncompressed header of an absolute module file.
type ModuleHeader struct {
	Magic        string `struc:"[4]byte"`
	Version      uint32
	Flags        uint32
	EntryLevel   uint8
	EntryBDI     uint16
	EntryAddress uint32
	BankCount    uint32
}

// bankHeader precedes the words of each bank in the compressed body.
type bankHeader struct {
	Level   uint8
	BDI     uint16
	Type    uint8
	General uint8
	Special uint8
	Ring    uint8
	Domain  uint16
	Large   bool
	Lower   uint32
	Length  uint32 `struc:"sizeof=Words"`
	Words   []uint64
}

// Write encodes the module as an absolute module file.
func (mod *Module) Write(w io.Writer) (err error) {
	err = mod.Validate()
	if err != nil {
		return
	}

	header := &ModuleHeader{
		Magic:        MODULE_MAGIC,
		Version:      MODULE_VERSION,
		EntryLevel:   uint8(mod.Entry.Level),
		EntryBDI:     uint16(mod.Entry.BDI),
		EntryAddress: mod.Entry.PC,
		BankCount:    uint32(len(mod.Banks)),
	}
	if mod.Basic {
		header.Flags |= FLAG_BASIC_MODE
	}
	err = struc.Pack(w, header)
	if err != nil {
		err = errors.Wrap(err, "failed to pack module header")
		return
	}

	zw := snappy.NewBufferedWriter(w)
	for _, bank := range mod.Banks {
		bh := &bankHeader{
			Level:   uint8(bank.Level),
			BDI:     uint16(bank.BDI),
			Type:    uint8(bank.Type),
			General: uint8(bank.General.Bits()),
			Special: uint8(bank.Special.Bits()),
			Ring:    uint8(bank.Lock.Ring),
			Domain:  uint16(bank.Lock.Domain),
			Large:   bank.Large,
			Lower:   bank.Lower,
			Words:   make([]uint64, len(bank.Words)),
		}
		for n, value := range bank.Words {
			bh.Words[n] = uint64(value & word.Mask)
		}
		err = struc.Pack(zw, bh)
		if err != nil {
			err = errors.Wrapf(err, "failed to pack bank %o:%o", bank.Level, bank.BDI)
			return
		}
	}

	err = zw.Close()
	if err != nil {
		err = errors.Wrap(err, "failed to flush module body")
	}

	return
}

// Read decodes an absolute module file.
func Read(r io.Reader) (mod *Module, err error) {
	var header ModuleHeader
	err = struc.Unpack(r, &header)
	if err != nil {
		err = errors.Wrap(err, "failed to unpack module header")
		return
	}
	if header.Magic != MODULE_MAGIC {
		err = ErrMagic
		return
	}
	if header.Version != MODULE_VERSION {
		err = ErrVersion
		return
	}

	mod = &Module{
		Basic: header.Flags&FLAG_BASIC_MODE != 0,
		Entry: processor.ProgramAddressRegister{
			Level: uint(header.EntryLevel),
			BDI:   uint(header.EntryBDI),
			PC:    header.EntryAddress,
		},
	}

	zr := snappy.NewReader(r)
	for range header.BankCount {
		var bh bankHeader
		err = struc.Unpack(zr, &bh)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrBankCount
		}
		if err != nil {
			mod = nil
			return
		}
		bank := Bank{
			Level:   uint(bh.Level),
			BDI:     uint(bh.BDI),
			Type:    processor.BankType(bh.Type),
			Lock:    processor.AccessLock{Ring: uint(bh.Ring), Domain: uint(bh.Domain)},
			General: processor.AccessPermissionsFromBits(uint(bh.General)),
			Special: processor.AccessPermissionsFromBits(uint(bh.Special)),
			Large:   bh.Large,
			Lower:   bh.Lower,
			Words:   make([]word.Word, len(bh.Words)),
		}
		for n, value := range bh.Words {
			bank.Words[n] = word.Word(value) & word.Mask
		}
		mod.Banks = append(mod.Banks, bank)
	}

	err = mod.Validate()
	if err != nil {
		mod = nil
	}

	return
}

// ReadFile loads an absolute module from a file.
func ReadFile(path string) (mod *Module, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	mod, err = Read(inf)
	if err != nil {
		err = errors.Wrap(err, path)
	}
	return
}

// WriteFile saves an absolute module to a file.
func (mod *Module) WriteFile(path string) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = mod.Write(ouf)
	if err != nil {
		ouf.Close()
		err = errors.Wrap(err, path)
		return
	}

	err = ouf.Close()
	return
}

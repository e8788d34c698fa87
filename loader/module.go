package loader

import (
	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

const (
	MODULE_MAGIC   = "A22M" // Absolute module file magic.
	MODULE_VERSION = 1      // Absolute module file version.
)

// Module flags.
const (
	FLAG_BASIC_MODE = 1 << 0 // Enter the module in basic mode.
)

// Bank is a bank of an absolute module.
type Bank struct {
	Level   uint                        // Bank descriptor table level.
	BDI     uint                        // Bank descriptor index.
	Type    processor.BankType          // BANK_EXTENDED or BANK_BASIC.
	Lock    processor.AccessLock        // Access lock.
	General processor.AccessPermissions // General access permissions.
	Special processor.AccessPermissions // Special access permissions.
	Large   bool                        // Large bank granularity.
	Lower   uint32                      // Relative address of the first word.
	Words   []word.Word                 // Bank contents.
}

// Upper returns the relative address of the last word of the bank.
func (bank *Bank) Upper() uint32 {
	return bank.Lower + uint32(len(bank.Words)) - 1
}

// limitsEncodable is true when the limits survive the granularity of a
// bank descriptor.
func (bank *Bank) limitsEncodable() bool {
	if bank.Large {
		return bank.Lower&077777 == 0 && bank.Upper()&077 == 077
	}
	return bank.Lower&0777 == 0
}

// Descriptor returns the bank descriptor of the bank, placed at base.
func (bank *Bank) Descriptor(base storage.AbsoluteAddress) processor.BankDescriptor {
	return processor.NewBankDescriptor(bank.Type, bank.Lock, bank.General, bank.Special,
		bank.Large, bank.Lower, bank.Upper(), base)
}

// Module is an absolute module: a set of initialized banks and the
// address execution starts at.
type Module struct {
	Basic bool                             // Start in basic mode.
	Entry processor.ProgramAddressRegister // Entry point.
	Banks []Bank                           // Banks, in file order.
}

// Bank returns the bank with a name.
func (mod *Module) Bank(level, bdi uint) (bank *Bank, ok bool) {
	for n := range mod.Banks {
		bank = &mod.Banks[n]
		if bank.Level == level && bank.BDI == bdi {
			ok = true
			return
		}
	}
	bank = nil
	return
}

// Size returns the number of words of storage the banks need.
func (mod *Module) Size() (size uint32) {
	for _, bank := range mod.Banks {
		size += uint32(len(bank.Words))
	}
	return
}

// Validate checks the module can be loaded.
func (mod *Module) Validate() (err error) {
	seen := map[[2]uint]bool{}
	for _, bank := range mod.Banks {
		name := [2]uint{bank.Level, bank.BDI}
		switch {
		case bank.Level >= processor.BD_FIXED_LEVELS:
			err = ErrBankLevel
		case bank.Type != processor.BANK_EXTENDED && bank.Type != processor.BANK_BASIC:
			err = ErrBankType
		case len(bank.Words) == 0:
			err = ErrBankEmpty
		case !bank.limitsEncodable():
			err = ErrBankLimits
		case seen[name]:
			err = ErrBankDuplicate{Level: bank.Level, BDI: bank.BDI}
		}
		if err != nil {
			err = &ErrBank{Level: bank.Level, BDI: bank.BDI, Err: err}
			return
		}
		seen[name] = true
	}

	entry, ok := mod.Bank(mod.Entry.Level, mod.Entry.BDI)
	if !ok || mod.Entry.PC < entry.Lower || mod.Entry.PC > entry.Upper() {
		err = ErrEntryBank
		return
	}

	return
}

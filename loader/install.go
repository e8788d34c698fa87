package loader

import (
	"log"

	"github.com/pkg/errors"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/storage"
)

// Placement is where a bank of a module was installed.
type Placement struct {
	Level      uint                     // Bank descriptor table level.
	BDI        uint                     // Bank descriptor index.
	Descriptor processor.BankDescriptor // Descriptor of the installed bank.
}

// Install copies the banks of the module into storage, one after another
// starting at base, and returns their descriptors in bank order. Entering
// the descriptors in the bank descriptor tables is up to the caller.
func (mod *Module) Install(ms *storage.MainStorage, base storage.AbsoluteAddress, verbose bool) (placed []Placement, err error) {
	err = mod.Validate()
	if err != nil {
		return
	}

	seg, err := ms.Segment(base.Segment)
	if err != nil {
		return
	}
	if uint64(base.Offset)+uint64(mod.Size()) > uint64(seg.Size()) {
		err = ErrPlacement
		return
	}

	addr := base
	for _, bank := range mod.Banks {
		err = ms.WriteBlock(addr, bank.Words)
		if err != nil {
			err = errors.Wrapf(err, "bank %o:%o", bank.Level, bank.BDI)
			return
		}
		if verbose {
			log.Printf("loader: bank %o:%o at %v, %o..%o", bank.Level, bank.BDI, addr, bank.Lower, bank.Upper())
		}
		placed = append(placed, Placement{
			Level:      bank.Level,
			BDI:        bank.BDI,
			Descriptor: bank.Descriptor(addr),
		})
		addr = addr.AddOffset(len(bank.Words))
	}

	return
}

package processor

import (
	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

// INDIRECT_LIMIT is the deepest basic mode indirect chain followed before
// an addressing exception is raised.
const INDIRECT_LIMIT = 16

// Basic mode base register search orders, by DB31.
var basicBankOrder = [2][4]uint{
	{12, 14, 13, 15},
	{13, 15, 12, 14},
}

// reference is a resolved operand location.
type reference struct {
	grs      bool   // Reference to the GRS.
	index    uint   // GRS index, or base register index.
	relative uint32 // Relative address within the bank.
}

// index24 is true when 24-bit indexing is in effect.
func (p *Processor) index24() bool {
	return !p.DR.BasicMode() && p.DR.ProcessorPrivilege() < 2 && p.DR.Exec24BitIndexing()
}

// indexed adds the modifier of X(x) to base, and increments X(x) when h
// is set. The increment is committed at once.
func (p *Processor) indexed(x, h uint, base word.Word) word.Word {
	if x == 0 {
		return base
	}

	xi := p.xIndex(x)
	xr := IndexRegister(p.GRS.Get(xi))

	var value word.Word
	if p.index24() {
		value = word.AddField(base, xr.SignedXM24(), 24)
	} else {
		value = word.AddField(base, xr.SignedXM(), 18)
	}

	if h != 0 {
		if p.index24() {
			xr = xr.Increment24()
		} else {
			xr = xr.Increment18()
		}
		p.GRS.Set(xi, word.Word(xr))
	}

	return value
}

// basicBank finds the basic mode bank holding a relative address. An
// instruction fetch from a secondary bank flips DB31.
func (p *Processor) basicBank(relative uint32, fetch bool) (brIndex uint, err error) {
	selector := 0
	if p.DR.BasicModeBRSelect() {
		selector = 1
	}

	for n, candidate := range basicBankOrder[selector] {
		br := &p.BR[candidate]
		if !br.Contains(relative) {
			continue
		}
		if br.Large {
			err = NewReferenceViolation(RV_STORAGE_LIMITS, candidate, fetch)
			return
		}
		if fetch && n >= 2 {
			p.DR.SetBasicModeBRSelect(selector == 0)
		}
		brIndex = candidate
		return
	}

	err = NewReferenceViolation(RV_STORAGE_LIMITS, 0, fetch)
	return
}

// readIndirect reads a basic mode indirect word.
func (p *Processor) readIndirect(relative uint32) (value word.Word, err error) {
	brIndex, err := p.basicBank(relative, false)
	if err != nil {
		return
	}
	value, err = p.readRef(reference{index: brIndex, relative: relative}, 0)
	return
}

// baseIndex is the base register of an extended mode operand.
func (p *Processor) baseIndex(iw Instruction) uint {
	if p.DR.ProcessorPrivilege() < 2 {
		return iw.IB()
	}
	return iw.B()
}

// resolve forms the operand address of the current instruction.
//   - Applies indexing, committing any index increment.
//   - In basic mode, follows indirect words up to INDIRECT_LIMIT deep.
//   - When grsCheck is set, addresses below 0200 refer to the GRS in
//     basic mode, or with b of zero in extended mode.
func (p *Processor) resolve(grsCheck bool) (ref reference, err error) {
	iw := p.current

	if p.DR.BasicMode() {
		for depth := 0; ; depth++ {
			relative := uint32(p.indexed(iw.X(), iw.H(), word.Word(iw.U())))
			if grsCheck && relative < GRS_SIZE {
				ref = reference{grs: true, index: uint(relative)}
				return
			}

			if iw.I() == 0 {
				var brIndex uint
				brIndex, err = p.basicBank(relative, false)
				if err != nil {
					return
				}
				ref = reference{index: brIndex, relative: relative}
				return
			}

			if depth == INDIRECT_LIMIT {
				level, bdi := splitLBDI(p.PAR.LBDI())
				err = NewAddressingException(AE_INDIRECT_LIMIT, level, bdi)
				return
			}

			var indirect word.Word
			indirect, err = p.readIndirect(relative)
			if err != nil {
				return
			}
			iw = iw.WithXHIU(indirect)
		}
	}

	relative := uint32(p.indexed(iw.X(), iw.H(), word.Word(iw.D())))
	if grsCheck && relative < GRS_SIZE && iw.B() == 0 {
		ref = reference{grs: true, index: uint(relative)}
		return
	}

	brIndex := p.baseIndex(iw)
	br := &p.BR[brIndex]
	if !br.Contains(relative) {
		err = NewReferenceViolation(RV_STORAGE_LIMITS, brIndex, false)
		return
	}

	ref = reference{index: brIndex, relative: relative}
	return
}

// uValue forms the indexed u field of the current instruction, following
// basic mode indirection. Jumps, shifts and the system instructions use
// it as their operand.
func (p *Processor) uValue() (value uint32, err error) {
	iw := p.current

	for depth := 0; ; depth++ {
		value = uint32(p.indexed(iw.X(), iw.H(), word.Word(iw.U())))
		if !p.DR.BasicMode() || iw.I() == 0 {
			return
		}

		if depth == INDIRECT_LIMIT {
			level, bdi := splitLBDI(p.PAR.LBDI())
			err = NewAddressingException(AE_INDIRECT_LIMIT, level, bdi)
			return
		}

		var indirect word.Word
		indirect, err = p.readIndirect(value)
		if err != nil {
			return
		}
		iw = iw.WithXHIU(indirect)
	}
}

// translate checks a storage reference n words past ref against the
// limits and permissions of its bank.
func (p *Processor) translate(ref reference, n uint32, write bool) (addr storage.AbsoluteAddress, err error) {
	br := &p.BR[ref.index]
	relative := ref.relative + n
	if !br.Contains(relative) {
		err = NewReferenceViolation(RV_STORAGE_LIMITS, ref.index, false)
		return
	}

	perms := br.EffectivePermissions(p.IKR.AccessKey())
	switch {
	case write && !perms.Write:
		err = NewReferenceViolation(RV_WRITE_ACCESS, ref.index, false)
		return
	case !write && !perms.Read:
		err = NewReferenceViolation(RV_READ_ACCESS, ref.index, false)
		return
	}

	addr = br.Absolute(relative)
	return
}

// readRef reads the word n past a reference. Consecutive GRS references
// wrap from 0177 to 0.
func (p *Processor) readRef(ref reference, n uint32) (value word.Word, err error) {
	if ref.grs {
		index := (ref.index + uint(n)) % GRS_SIZE
		if !grsReadAllowed(index, p.DR.ProcessorPrivilege()) {
			err = NewReferenceViolation(RV_GRS, 0, false)
			return
		}
		value = p.GRS.Get(index)
		return
	}

	addr, err := p.translate(ref, n, false)
	if err != nil {
		return
	}
	value, err = p.readAbsolute(addr)
	return
}

// writeRef writes the word n past a reference.
func (p *Processor) writeRef(ref reference, n uint32, value word.Word) (err error) {
	if ref.grs {
		index := (ref.index + uint(n)) % GRS_SIZE
		if !grsWriteAllowed(index, p.DR.ProcessorPrivilege()) {
			err = NewReferenceViolation(RV_GRS, 0, false)
			return
		}
		p.GRS.Set(index, value)
		return
	}

	addr, err := p.translate(ref, n, true)
	if err != nil {
		return
	}
	err = p.writeAbsolute(addr, value)
	return
}

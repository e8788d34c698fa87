package inventory

import (
	"iter"
	"log"
	"maps"
	"slices"
	"sync"

	"github.com/ezrec/em2200/internal"
	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/storage"
)

const (
	MAX_MAIN_STORAGE_PROCESSORS = 16 // Storage processors per partition.
	MAX_INSTRUCTION_PROCESSORS  = 8  // Instruction processors per partition.
	FIRST_MAIN_STORAGE_UPI      = 0  // UPI of the first storage processor.
	FIRST_INSTRUCTION_UPI       = 24 // UPI of the first instruction processor.
)

// MAIN_STORAGE_PROCESSOR_SIZE is the default size in words of the fixed
// segment of a storage processor.
const MAIN_STORAGE_PROCESSOR_SIZE = 4 * 1024 * 1024

// Manager owns the nodes of a partition, keyed by UPI.
type Manager struct {
	Verbose bool // Set to enable verbose logging.

	mutex      sync.RWMutex
	closed     bool
	storages   map[uint16]*storage.MainStorage
	processors map[uint16]*processor.Processor
}

var _ processor.StorageLocator = (*Manager)(nil)

// New creates an empty inventory.
func New() (inv *Manager) {
	inv = &Manager{
		storages:   map[uint16]*storage.MainStorage{},
		processors: map[uint16]*processor.Processor{},
	}
	return
}

// Close stops every instruction processor and forgets every node.
func (inv *Manager) Close() (err error) {
	inv.mutex.Lock()
	defer inv.mutex.Unlock()

	for _, p := range inv.processors {
		p.Stop(processor.STOP_PANEL_HALT, 0)
	}
	clear(inv.processors)
	clear(inv.storages)
	inv.closed = true

	return
}

func (inv *Manager) nameUsed(name string) bool {
	for _, ms := range inv.storages {
		if ms.Name == name {
			return true
		}
	}
	for _, p := range inv.processors {
		if p.Name == name {
			return true
		}
	}
	return false
}

// freeUPI finds the lowest unused UPI in [first, first+count).
func freeUPI[T any](nodes map[uint16]T, first, count uint16) (upi uint16, err error) {
	for upi = first; upi < first+count; upi++ {
		_, used := nodes[upi]
		if !used {
			return
		}
	}
	err = ErrNodeLimit
	return
}

// CreateMainStorage adds a storage processor with a fixed segment of size
// words. A size of zero selects MAIN_STORAGE_PROCESSOR_SIZE.
func (inv *Manager) CreateMainStorage(name string, size uint32) (ms *storage.MainStorage, err error) {
	inv.mutex.Lock()
	defer inv.mutex.Unlock()

	if inv.closed {
		err = ErrClosed
		return
	}
	if inv.nameUsed(name) {
		err = ErrNodeDuplicate
		return
	}

	upi, err := freeUPI(inv.storages, FIRST_MAIN_STORAGE_UPI, MAX_MAIN_STORAGE_PROCESSORS)
	if err != nil {
		return
	}

	if size == 0 {
		size = MAIN_STORAGE_PROCESSOR_SIZE
	}

	ms = storage.NewMainStorage(name, upi, size)
	ms.Verbose = inv.Verbose
	inv.storages[upi] = ms

	if inv.Verbose {
		log.Printf("inventory: %v msp upi %d, %d words", name, upi, size)
	}

	return
}

// CreateProcessor adds an instruction processor that locates storage
// through the inventory.
func (inv *Manager) CreateProcessor(name string) (p *processor.Processor, err error) {
	inv.mutex.Lock()
	defer inv.mutex.Unlock()

	if inv.closed {
		err = ErrClosed
		return
	}
	if inv.nameUsed(name) {
		err = ErrNodeDuplicate
		return
	}

	upi, err := freeUPI(inv.processors, FIRST_INSTRUCTION_UPI, MAX_INSTRUCTION_PROCESSORS)
	if err != nil {
		return
	}

	p = processor.NewProcessor(name, upi, inv)
	p.Verbose = inv.Verbose
	inv.processors[upi] = p

	if inv.Verbose {
		log.Printf("inventory: %v ip upi %d", name, upi)
	}

	return
}

// Delete removes a node. An instruction processor is stopped first.
func (inv *Manager) Delete(upi uint16) (err error) {
	inv.mutex.Lock()
	defer inv.mutex.Unlock()

	if p, ok := inv.processors[upi]; ok {
		p.Stop(processor.STOP_PANEL_HALT, 0)
		delete(inv.processors, upi)
		return
	}
	if _, ok := inv.storages[upi]; ok {
		delete(inv.storages, upi)
		return
	}

	err = ErrNodeMissing(upi)
	return
}

// LocateStorage returns the storage processor with the UPI.
func (inv *Manager) LocateStorage(upi uint16) (ms *storage.MainStorage, err error) {
	inv.mutex.RLock()
	defer inv.mutex.RUnlock()

	ms, ok := inv.storages[upi]
	if !ok {
		err = ErrNodeMissing(upi)
	}
	return
}

// Processor returns the instruction processor with the UPI.
func (inv *Manager) Processor(upi uint16) (p *processor.Processor, err error) {
	inv.mutex.RLock()
	defer inv.mutex.RUnlock()

	p, ok := inv.processors[upi]
	if !ok {
		err = ErrNodeMissing(upi)
	}
	return
}

// Nodes iterates over the UPI and name of every node, storage processors
// first, each in UPI order.
func (inv *Manager) Nodes() iter.Seq2[uint16, string] {
	inv.mutex.RLock()
	msps := map[uint16]string{}
	for upi, ms := range inv.storages {
		msps[upi] = ms.Name
	}
	ips := map[uint16]string{}
	for upi, p := range inv.processors {
		ips[upi] = p.Name
	}
	inv.mutex.RUnlock()

	return internal.IterSeq2Concat(sorted(msps), sorted(ips))
}

func sorted(nodes map[uint16]string) iter.Seq2[uint16, string] {
	return func(yield func(uint16, string) bool) {
		for _, upi := range slices.Sorted(maps.Keys(nodes)) {
			if !yield(upi, nodes[upi]) {
				return
			}
		}
	}
}

package storage

import (
	"log"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ezrec/em2200/word"
)

const (
	SEGMENT_FIXED    = 0       // Segment created with the storage processor.
	SEGMENT_MAX_SIZE = 1 << 30 // Largest segment, in words.
)

// Segment is a contiguous array of atomic word cells.
type Segment struct {
	cells []atomic.Uint64
}

// Size returns the segment's length in words.
func (seg *Segment) Size() uint32 {
	return uint32(len(seg.cells))
}

// MainStorage is a main storage processor.
type MainStorage struct {
	Verbose bool   // Set to enable verbose logging.
	Name    string // Node name.
	UPI     uint16 // Unique processor identifier.

	mutex    sync.RWMutex
	segments map[uint32]*Segment
	next     uint32
}

// NewMainStorage creates a storage processor with a fixed segment of the given size.
func NewMainStorage(name string, upi uint16, size uint32) (ms *MainStorage) {
	ms = &MainStorage{
		Name:     name,
		UPI:      upi,
		segments: map[uint32]*Segment{},
		next:     SEGMENT_FIXED + 1,
	}
	ms.segments[SEGMENT_FIXED] = &Segment{cells: make([]atomic.Uint64, size)}
	return
}

// CreateSegment allocates a new, zeroed segment.
func (ms *MainStorage) CreateSegment(size uint32) (segment uint32, err error) {
	if size == 0 || size > SEGMENT_MAX_SIZE {
		err = ErrSegmentSize
		return
	}

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	segment = ms.next
	ms.next++
	ms.segments[segment] = &Segment{cells: make([]atomic.Uint64, size)}

	if ms.Verbose {
		log.Printf("storage: %v: segment %o created, %d words", ms.Name, segment, size)
	}

	return
}

// DeleteSegment releases a dynamically created segment.
func (ms *MainStorage) DeleteSegment(segment uint32) (err error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	_, ok := ms.segments[segment]
	if !ok || segment == SEGMENT_FIXED {
		err = ErrSegmentInvalid
		return
	}

	delete(ms.segments, segment)

	if ms.Verbose {
		log.Printf("storage: %v: segment %o deleted", ms.Name, segment)
	}

	return
}

// Segments returns the sorted list of allocated segments.
func (ms *MainStorage) Segments() []uint32 {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return slices.Sorted(maps.Keys(ms.segments))
}

// Segment returns the given segment.
func (ms *MainStorage) Segment(segment uint32) (seg *Segment, err error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	seg, ok := ms.segments[segment]
	if !ok {
		err = ErrSegmentInvalid
	}
	return
}

func (ms *MainStorage) cell(addr AbsoluteAddress) (cell *atomic.Uint64, err error) {
	if addr.UPI != ms.UPI {
		err = ErrUPIMismatch
		return
	}

	seg, err := ms.Segment(addr.Segment)
	if err != nil {
		return
	}

	if addr.Offset >= seg.Size() {
		err = ErrAddress(addr)
		return
	}

	cell = &seg.cells[addr.Offset]
	return
}

// Read returns the word at addr.
func (ms *MainStorage) Read(addr AbsoluteAddress) (value word.Word, err error) {
	cell, err := ms.cell(addr)
	if err != nil {
		return
	}

	value = word.Word(cell.Load())
	return
}

// Write stores value at addr.
func (ms *MainStorage) Write(addr AbsoluteAddress, value word.Word) (err error) {
	cell, err := ms.cell(addr)
	if err != nil {
		return
	}

	cell.Store(uint64(value.Canon()))
	return
}

// CompareAndSwap stores value at addr only if the word there still equals old.
func (ms *MainStorage) CompareAndSwap(addr AbsoluteAddress, old, value word.Word) (swapped bool, err error) {
	cell, err := ms.cell(addr)
	if err != nil {
		return
	}

	swapped = cell.CompareAndSwap(uint64(old.Canon()), uint64(value.Canon()))
	return
}

// ReadBlock reads len(values) consecutive words starting at addr.
func (ms *MainStorage) ReadBlock(addr AbsoluteAddress, values []word.Word) (err error) {
	for n := range values {
		values[n], err = ms.Read(addr.AddOffset(n))
		if err != nil {
			return
		}
	}
	return
}

// WriteBlock writes values to consecutive words starting at addr.
func (ms *MainStorage) WriteBlock(addr AbsoluteAddress, values []word.Word) (err error) {
	for n, value := range values {
		err = ms.Write(addr.AddOffset(n), value)
		if err != nil {
			return
		}
	}
	return
}

// Clear zeroes every word of every segment.
func (ms *MainStorage) Clear() {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	for _, seg := range ms.segments {
		for n := range seg.cells {
			seg.cells[n].Store(0)
		}
	}
}

package core

// mainmem.go implements §4.6's two main-memory timing models behind a common interface, backed
// by a flat byte slice standing in for the teacher's PhysicalMemory cell array
// (internal/vm/mem.go), generalised from 16-bit words to byte-addressable RV64 memory.

import "encoding/binary"

// MainMemory is the backing store for the RAM region: a byte-addressable array plus a per-access
// timing model.
type MainMemory interface {
	// Access returns the cycle cost of touching offset, per the controller's timing model.
	Access(offset uint64, isWrite bool) uint32

	ReadByte(offset uint64) uint8
	ReadHalf(offset uint64) uint16
	ReadWord(offset uint64) uint32
	ReadDouble(offset uint64) uint64

	WriteByte(offset uint64, v uint8)
	WriteHalf(offset uint64, v uint16)
	WriteWord(offset uint64, v uint32)
	WriteDouble(offset uint64, v uint64)

	// Bytes exposes the raw backing buffer for the RAM fast-path described in §9.
	Bytes() []byte
}

type ramCell struct {
	cells []byte
}

func newRAMCell(size uint64) ramCell {
	return ramCell{cells: make([]byte, size)}
}

func (r *ramCell) Bytes() []byte { return r.cells }

func (r *ramCell) ReadByte(off uint64) uint8     { return r.cells[off] }
func (r *ramCell) ReadHalf(off uint64) uint16    { return binary.LittleEndian.Uint16(r.cells[off:]) }
func (r *ramCell) ReadWord(off uint64) uint32    { return binary.LittleEndian.Uint32(r.cells[off:]) }
func (r *ramCell) ReadDouble(off uint64) uint64  { return binary.LittleEndian.Uint64(r.cells[off:]) }
func (r *ramCell) WriteByte(off uint64, v uint8) { r.cells[off] = v }
func (r *ramCell) WriteHalf(off uint64, v uint16) {
	binary.LittleEndian.PutUint16(r.cells[off:], v)
}
func (r *ramCell) WriteWord(off uint64, v uint32) {
	binary.LittleEndian.PutUint32(r.cells[off:], v)
}
func (r *ramCell) WriteDouble(off uint64, v uint64) {
	binary.LittleEndian.PutUint64(r.cells[off:], v)
}

// SimpleMemory charges a fixed bus_latency for every access, per §4.6.
type SimpleMemory struct {
	ramCell
	latency uint32
}

// NewSimpleMemory creates a fixed-latency main memory of the given size.
func NewSimpleMemory(size uint64, latency uint32) *SimpleMemory {
	return &SimpleMemory{ramCell: newRAMCell(size), latency: latency}
}

func (m *SimpleMemory) Access(uint64, bool) uint32 { return m.latency }

// DramMemory models one open row buffer for the whole device, per §4.6: an access to the open
// row costs t_cas; any other access costs t_pre+t_ras+t_cas and records a row miss.
type DramMemory struct {
	ramCell

	tCAS, tRAS, tPRE, rowMissLatency uint32
	columnBits                      uint8

	openRow    uint64
	rowIsValid bool
	rowMisses  uint64
}

// NewDramMemory creates a row-buffer-timed main memory of the given size.
func NewDramMemory(size uint64, tCAS, tRAS, tPRE, rowMissLatency uint32, columnBits uint8) *DramMemory {
	return &DramMemory{
		ramCell:        newRAMCell(size),
		tCAS:           tCAS,
		tRAS:           tRAS,
		tPRE:           tPRE,
		rowMissLatency: rowMissLatency,
		columnBits:     columnBits,
	}
}

func (m *DramMemory) row(offset uint64) uint64 { return offset >> m.columnBits }

func (m *DramMemory) Access(offset uint64, _ bool) uint32 {
	row := m.row(offset)

	if m.rowIsValid && row == m.openRow {
		return m.tCAS
	}

	m.openRow = row
	m.rowIsValid = true
	m.rowMisses++

	return m.tPRE + m.tRAS + m.tCAS
}

// RowMisses returns the count of row-buffer misses observed so far.
func (m *DramMemory) RowMisses() uint64 { return m.rowMisses }

// NewMainMemory constructs the configured main-memory model per §4.1's memory.controller
// option.
func NewMainMemory(cfg MemoryConfig, busLatency uint32, size uint64) MainMemory {
	if cfg.Controller == MemoryControllerDram {
		return NewDramMemory(size, cfg.TCAS, cfg.TRAS, cfg.TPRE, cfg.RowMissLatency, cfg.ColumnBits)
	}

	return NewSimpleMemory(size, busLatency)
}

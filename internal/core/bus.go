package core

// bus.go implements §6's device interface and §9's mediator design: the core holds the bus, the
// bus owns devices, and devices raise interrupts through tick() return values that the bus
// aggregates for the core to sample once per cycle. No device holds a reference back to the
// core, mirroring the teacher's Devices/MMIO split in internal/vm/devices.go but generalised
// from 16-bit register ports to byte-addressable ranges.

import "sort"

// Device is the interface consumed by the core for every memory-mapped peripheral named in §6.
// Device *models* are out of scope for this simulator; only this consumer-side interface is
// implemented here, to be satisfied by a future UART/VirtIO/CLINT/syscon implementation.
type Device interface {
	Name() string

	ReadU8(offset uint64) uint8
	ReadU16(offset uint64) uint16
	ReadU32(offset uint64) uint32
	ReadU64(offset uint64) uint64

	WriteU8(offset uint64, v uint8)
	WriteU16(offset uint64, v uint16)
	WriteU32(offset uint64, v uint32)
	WriteU64(offset uint64, v uint64)

	// Tick advances the device by one cycle and reports any interrupt lines it is asserting.
	Tick() (timerIRQ, extIRQM, extIRQS bool)
}

type busRegion struct {
	base, size uint64
	device     Device
}

// Bus dispatches address-range lookups to mapped devices and provides the RAM fast-path
// described in §9.
type Bus struct {
	regions []busRegion

	ramBase uint64
	ram     MainMemory
}

// NewBus creates a bus backed by the given RAM region.
func NewBus(ramBase uint64, ram MainMemory) *Bus {
	return &Bus{ramBase: ramBase, ram: ram}
}

// Map installs a device over [base, base+size). Overlapping ranges are rejected.
func (b *Bus) Map(base, size uint64, dev Device) error {
	for _, r := range b.regions {
		if base < r.base+r.size && r.base < base+size {
			return ErrUnknownDevice
		}
	}

	b.regions = append(b.regions, busRegion{base: base, size: size, device: dev})

	sort.Slice(b.regions, func(i, j int) bool { return b.regions[i].base < b.regions[j].base })

	return nil
}

func (b *Bus) find(addr uint64) (busRegion, bool) {
	for _, r := range b.regions {
		if addr >= r.base && addr < r.base+r.size {
			return r, true
		}
	}

	return busRegion{}, false
}

// InRAM reports whether addr lies in the RAM fast-path range.
func (b *Bus) InRAM(addr uint64) bool {
	return addr >= b.ramBase && addr-b.ramBase < uint64(len(b.ram.Bytes()))
}

// RAMOffset converts a physical address in the RAM range to an offset into the RAM buffer.
func (b *Bus) RAMOffset(addr uint64) uint64 { return addr - b.ramBase }

// RAM returns the backing main-memory model for the fast path.
func (b *Bus) RAM() MainMemory { return b.ram }

// ReadU8 reads one byte through the bus, dispatching to a mapped device or RAM.
func (b *Bus) ReadU8(addr uint64) uint8 {
	if b.InRAM(addr) {
		return b.ram.ReadByte(b.RAMOffset(addr))
	}

	if r, ok := b.find(addr); ok {
		return r.device.ReadU8(addr - r.base)
	}

	return 0
}

// ReadU16 reads two bytes through the bus.
func (b *Bus) ReadU16(addr uint64) uint16 {
	if b.InRAM(addr) {
		return b.ram.ReadHalf(b.RAMOffset(addr))
	}

	if r, ok := b.find(addr); ok {
		return r.device.ReadU16(addr - r.base)
	}

	return 0
}

// ReadU32 reads four bytes through the bus.
func (b *Bus) ReadU32(addr uint64) uint32 {
	if b.InRAM(addr) {
		return b.ram.ReadWord(b.RAMOffset(addr))
	}

	if r, ok := b.find(addr); ok {
		return r.device.ReadU32(addr - r.base)
	}

	return 0
}

// WriteU8 writes one byte through the bus.
func (b *Bus) WriteU8(addr uint64, v uint8) {
	if b.InRAM(addr) {
		b.ram.WriteByte(b.RAMOffset(addr), v)
		return
	}

	if r, ok := b.find(addr); ok {
		r.device.WriteU8(addr-r.base, v)
	}
}

// WriteU16 writes two bytes through the bus.
func (b *Bus) WriteU16(addr uint64, v uint16) {
	if b.InRAM(addr) {
		b.ram.WriteHalf(b.RAMOffset(addr), v)
		return
	}

	if r, ok := b.find(addr); ok {
		r.device.WriteU16(addr-r.base, v)
	}
}

// WriteU32 writes four bytes through the bus.
func (b *Bus) WriteU32(addr uint64, v uint32) {
	if b.InRAM(addr) {
		b.ram.WriteWord(b.RAMOffset(addr), v)
		return
	}

	if r, ok := b.find(addr); ok {
		r.device.WriteU32(addr-r.base, v)
	}
}

// ReadU64 reads eight bytes through the bus, used by the MMU to fetch PTEs per §4.7 step 5.
func (b *Bus) ReadU64(addr uint64) uint64 {
	if b.InRAM(addr) {
		return b.ram.ReadDouble(b.RAMOffset(addr))
	}

	if r, ok := b.find(addr); ok {
		return r.device.ReadU64(addr - r.base)
	}

	return 0
}

// WriteU64 writes eight bytes through the bus, used by the MMU to write back PTE A/D bits.
func (b *Bus) WriteU64(addr uint64, v uint64) {
	if b.InRAM(addr) {
		b.ram.WriteDouble(b.RAMOffset(addr), v)
		return
	}

	if r, ok := b.find(addr); ok {
		r.device.WriteU64(addr-r.base, v)
	}
}

// Tick advances every mapped device by one cycle and folds their interrupt indications together.
func (b *Bus) Tick() (timerIRQ, extIRQM, extIRQS bool) {
	for _, r := range b.regions {
		t, m, s := r.device.Tick()
		timerIRQ = timerIRQ || t
		extIRQM = extIRQM || m
		extIRQS = extIRQS || s
	}

	return timerIRQ, extIRQM, extIRQS
}

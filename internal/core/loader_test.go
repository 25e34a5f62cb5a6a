package core

import (
	"encoding/binary"
	"testing"
)

func newLoaderTestCPU() *CPU {
	cfg := Default()
	cfg.System.RAMBase = 0x8000_0000
	cfg.System.RAMSizeBytes = 64 << 10
	cfg.Memory.Controller = MemoryControllerSimple
	cfg.Cache = CacheTiers{}

	return New(cfg)
}

func TestLoadImage_FlatBinary(t *testing.T) {
	t.Parallel()

	c := newLoaderTestCPU()
	data := []byte{0x13, 0x05, 0x00, 0x00} // addi x10,x0,0 (not ELF magic)

	entry, err := c.LoadImage(data)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	if entry != Word(c.cfg.System.RAMBase) {
		t.Errorf("entry = %#x, want RAM base %#x", entry, c.cfg.System.RAMBase)
	}

	ram := c.Bus().RAM().Bytes()
	for i, b := range data {
		if ram[i] != b {
			t.Fatalf("ram[%d] = %#x, want %#x", i, ram[i], b)
		}
	}
}

func TestLoadImage_FlatBinaryTooLargeFails(t *testing.T) {
	t.Parallel()

	c := newLoaderTestCPU()
	oversized := make([]byte, c.cfg.System.RAMSizeBytes+1)

	if _, err := c.LoadImage(oversized); err != ErrLoaderFormat {
		t.Errorf("LoadImage() err = %v, want ErrLoaderFormat", err)
	}
}

// buildMinimalELF64 assembles a one-segment little-endian ELF64 image: a single PT_LOAD
// header covering payload, loaded at vaddr, with e_entry set to entry.
func buildMinimalELF64(vaddr, entry uint64, payload []byte) []byte {
	const ehdrSize = 64
	const phdrSize = 56

	buf := make([]byte, ehdrSize+phdrSize+len(payload))

	buf[0], buf[1], buf[2], buf[3] = 0x7f, 'E', 'L', 'F'
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // ELFDATA2LSB

	binary.LittleEndian.PutUint64(buf[24:32], entry)
	binary.LittleEndian.PutUint64(buf[32:40], ehdrSize) // phoff
	binary.LittleEndian.PutUint16(buf[54:56], phdrSize)
	binary.LittleEndian.PutUint16(buf[56:58], 1) // phnum

	ph := buf[ehdrSize : ehdrSize+phdrSize]
	binary.LittleEndian.PutUint32(ph[0:4], ptLoad)
	binary.LittleEndian.PutUint64(ph[8:16], ehdrSize+phdrSize) // file offset of payload
	binary.LittleEndian.PutUint64(ph[16:24], vaddr)
	binary.LittleEndian.PutUint64(ph[32:40], uint64(len(payload)))
	binary.LittleEndian.PutUint64(ph[40:48], uint64(len(payload)))

	copy(buf[ehdrSize+phdrSize:], payload)

	return buf
}

func TestLoadImage_ELF64(t *testing.T) {
	t.Parallel()

	c := newLoaderTestCPU()
	payload := []byte{0xef, 0xbe, 0xad, 0xde}
	vaddr := c.cfg.System.RAMBase + 0x100
	image := buildMinimalELF64(vaddr, vaddr, payload)

	entry, err := c.LoadImage(image)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	if entry != Word(vaddr) {
		t.Errorf("entry = %#x, want %#x", entry, vaddr)
	}

	ram := c.Bus().RAM().Bytes()
	off := vaddr - c.cfg.System.RAMBase
	for i, b := range payload {
		if ram[off+uint64(i)] != b {
			t.Fatalf("ram[%#x] = %#x, want %#x", off+uint64(i), ram[off+uint64(i)], b)
		}
	}
}

func TestLoadImage_ELF64BSSIsZeroed(t *testing.T) {
	t.Parallel()

	c := newLoaderTestCPU()
	payload := []byte{0x01, 0x02}
	vaddr := c.cfg.System.RAMBase + 0x200

	image := buildMinimalELF64(vaddr, vaddr, payload)
	// Grow memsz beyond filesz to simulate a .bss tail the loader must zero.
	ph := image[64 : 64+56]
	binary.LittleEndian.PutUint64(ph[40:48], uint64(len(payload))+4)

	// Poison the target bytes first so a zero-fill is actually observable.
	ram := c.Bus().RAM().Bytes()
	off := vaddr - c.cfg.System.RAMBase
	for i := off; i < off+8; i++ {
		ram[i] = 0xff
	}

	if _, err := c.LoadImage(image); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	for i := off + uint64(len(payload)); i < off+uint64(len(payload))+4; i++ {
		if ram[i] != 0 {
			t.Errorf("ram[%#x] = %#x, want 0 (bss tail should be zeroed)", i, ram[i])
		}
	}
}

func TestLoadImage_ELF64TruncatedHeaderFails(t *testing.T) {
	t.Parallel()

	c := newLoaderTestCPU()
	if _, err := c.LoadImage([]byte{0x7f, 'E', 'L', 'F'}); err != ErrLoaderFormat {
		t.Errorf("LoadImage() err = %v, want ErrLoaderFormat", err)
	}
}

func TestLoadImage_ELF64VaddrBelowRAMBaseFails(t *testing.T) {
	t.Parallel()

	c := newLoaderTestCPU()
	image := buildMinimalELF64(c.cfg.System.RAMBase-0x1000, c.cfg.System.RAMBase-0x1000, []byte{1, 2, 3, 4})

	if _, err := c.LoadImage(image); err != ErrLoaderFormat {
		t.Errorf("LoadImage() err = %v, want ErrLoaderFormat", err)
	}
}

package core

// loader.go implements §4.1's image loader: a flat binary copied verbatim to the configured
// RAM base, or a minimal ELF64 reader that honours the program headers and entry point.
// Grounded on the teacher's bufio.Scanner-based program loader in internal/cli/cmd/run.go,
// generalised from the LC-3's word-oriented .obj format to a byte-oriented binary/ELF64 loader.

import "encoding/binary"

const elfMagic = "\x7fELF"

// LoadImage copies data into RAM starting at the configured RAM base, sniffing the ELF64
// magic to decide between a flat binary and a program-header-driven ELF load. It returns the
// entry PC the caller should set before running.
func (c *CPU) LoadImage(data []byte) (Word, error) {
	if len(data) >= 4 && string(data[:4]) == elfMagic {
		return c.loadELF64(data)
	}

	return c.loadFlat(data)
}

func (c *CPU) loadFlat(data []byte) (Word, error) {
	base := c.cfg.System.RAMBase
	ram := c.bus.RAM()

	bytes := ram.Bytes()
	if uint64(len(data)) > uint64(len(bytes)) {
		return 0, ErrLoaderFormat
	}

	copy(bytes, data)

	return Word(base), nil
}

// elf64Header mirrors the fields of the ELF64 file header this loader reads.
type elf64Header struct {
	entry    uint64
	phoff    uint64
	phentsz  uint16
	phnum    uint16
}

type elf64ProgramHeader struct {
	kind   uint32
	offset uint64
	vaddr  uint64
	filesz uint64
	memsz  uint64
}

const ptLoad = 1

func (c *CPU) loadELF64(data []byte) (Word, error) {
	if len(data) < 64 {
		return 0, ErrLoaderFormat
	}

	if data[4] != 2 { // EI_CLASS == ELFCLASS64
		return 0, ErrLoaderFormat
	}

	little := data[5] == 1 // EI_DATA == ELFDATA2LSB

	order := func() binary.ByteOrder {
		if little {
			return binary.LittleEndian
		}

		return binary.BigEndian
	}()

	hdr := elf64Header{
		entry:   order.Uint64(data[24:32]),
		phoff:   order.Uint64(data[32:40]),
		phentsz: order.Uint16(data[54:56]),
		phnum:   order.Uint16(data[56:58]),
	}

	ram := c.bus.RAM()
	bytes := ram.Bytes()
	base := c.cfg.System.RAMBase

	for i := 0; i < int(hdr.phnum); i++ {
		off := hdr.phoff + uint64(i)*uint64(hdr.phentsz)
		if off+56 > uint64(len(data)) {
			return 0, ErrLoaderFormat
		}

		ph := elf64ProgramHeader{
			kind:   order.Uint32(data[off : off+4]),
			offset: order.Uint64(data[off+8 : off+16]),
			vaddr:  order.Uint64(data[off+16 : off+24]),
			filesz: order.Uint64(data[off+32 : off+40]),
			memsz:  order.Uint64(data[off+40 : off+48]),
		}

		if ph.kind != ptLoad {
			continue
		}

		if ph.vaddr < base {
			return 0, ErrLoaderFormat
		}

		ramOff := ph.vaddr - base
		if ramOff+ph.memsz > uint64(len(bytes)) {
			return 0, ErrLoaderFormat
		}

		if ph.offset+ph.filesz > uint64(len(data)) {
			return 0, ErrLoaderFormat
		}

		copy(bytes[ramOff:ramOff+ph.filesz], data[ph.offset:ph.offset+ph.filesz])

		for z := ph.filesz; z < ph.memsz; z++ {
			bytes[ramOff+z] = 0
		}
	}

	return Word(hdr.entry), nil
}

// memory.go implements the VM's byte-addressed data memory, read and
// written little-endian to match internal/vmhost/asm's data layout.
package vm

import (
	"encoding/binary"
	"fmt"
)

func (v *VM) loadU(addr uint64, bits int) (uint64, error) {
	n := bits / 8
	if addr+uint64(n) > uint64(len(v.mem)) {
		return 0, fmt.Errorf("load_u%d: address %d out of range (memory size %d)", bits, addr, len(v.mem))
	}
	switch bits {
	case 8:
		return uint64(v.mem[addr]), nil
	case 16:
		return uint64(binary.LittleEndian.Uint16(v.mem[addr:])), nil
	case 32:
		return uint64(binary.LittleEndian.Uint32(v.mem[addr:])), nil
	case 64:
		return binary.LittleEndian.Uint64(v.mem[addr:]), nil
	default:
		return 0, fmt.Errorf("load: unsupported width %d", bits)
	}
}

func (v *VM) storeU(addr uint64, bits int, val uint64) error {
	n := bits / 8
	if addr+uint64(n) > uint64(len(v.mem)) {
		return fmt.Errorf("store_u%d: address %d out of range (memory size %d)", bits, addr, len(v.mem))
	}
	switch bits {
	case 8:
		v.mem[addr] = byte(val)
	case 16:
		binary.LittleEndian.PutUint16(v.mem[addr:], uint16(val))
	case 32:
		binary.LittleEndian.PutUint32(v.mem[addr:], uint32(val))
	case 64:
		binary.LittleEndian.PutUint64(v.mem[addr:], val)
	default:
		return fmt.Errorf("store: unsupported width %d", bits)
	}
	return nil
}

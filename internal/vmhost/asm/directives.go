// directives.go lays out the `.data` section's directives (spec.md §6)
// into a flat byte buffer. Multi-byte values are written little-endian;
// the dialect never specifies a byte order, so the assembler and the
// interpreter (internal/vmhost/vm) simply need to agree, and
// little-endian is the natural choice for a stack machine with no
// target ISA of its own to match.
package asm

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// directiveSize reports how many bytes name's directive occupies,
// without needing the operand decoded, so pass one can advance the
// data cursor to compute label offsets.
func directiveSize(name, operand string) (int, error) {
	switch name {
	case ".align":
		return 0, nil
	case ".u8", ".i8":
		return 1, nil
	case ".u16", ".i16":
		return 2, nil
	case ".u32", ".i32":
		return 4, nil
	case ".u64", ".i64":
		return 8, nil
	case ".zero":
		n, err := strconv.Atoi(strings.TrimSpace(operand))
		if err != nil {
			return 0, fmt.Errorf(".zero: bad count %q: %w", operand, err)
		}
		return n, nil
	case ".stringz":
		s, err := unquoteStringz(operand)
		if err != nil {
			return 0, err
		}
		return len(s) + 1, nil
	default:
		return 0, fmt.Errorf("unknown directive %q", name)
	}
}

// alignTo rounds cursor up to the next multiple of n (n from .align).
func alignTo(cursor, n int) int {
	if n <= 0 {
		return cursor
	}
	rem := cursor % n
	if rem == 0 {
		return cursor
	}
	return cursor + (n - rem)
}

// appendDirective encodes one data directive's bytes onto data and
// returns the extended slice.
func appendDirective(data []byte, name, operand string) ([]byte, error) {
	switch name {
	case ".align":
		return data, nil // Handled by alignTo before this call.
	case ".u8", ".i8":
		v, err := strconv.ParseInt(strings.TrimSpace(operand), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return append(data, byte(v)), nil
	case ".u16", ".i16":
		v, err := strconv.ParseInt(strings.TrimSpace(operand), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(v))
		return append(data, buf...), nil
	case ".u32", ".i32":
		v, err := strconv.ParseInt(strings.TrimSpace(operand), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(v))
		return append(data, buf...), nil
	case ".u64", ".i64":
		v, err := strconv.ParseInt(strings.TrimSpace(operand), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(v))
		return append(data, buf...), nil
	case ".zero":
		n, err := strconv.Atoi(strings.TrimSpace(operand))
		if err != nil {
			return nil, fmt.Errorf(".zero: %w", err)
		}
		return append(data, make([]byte, n)...), nil
	case ".stringz":
		s, err := unquoteStringz(operand)
		if err != nil {
			return nil, err
		}
		data = append(data, []byte(s)...)
		return append(data, 0), nil
	default:
		return nil, fmt.Errorf("unknown directive %q", name)
	}
}

// unquoteStringz extracts and unescapes the quoted payload of a
// .stringz operand, reversing the Quote-based escaping ncc's own unit
// emitter applies (internal/codegen/unit.go's escapeString).
func unquoteStringz(operand string) (string, error) {
	operand = strings.TrimSpace(operand)
	first := strings.IndexByte(operand, '"')
	last := strings.LastIndexByte(operand, '"')
	if first < 0 || last <= first {
		return "", fmt.Errorf(".stringz: missing quoted operand %q", operand)
	}
	s, err := strconv.Unquote(operand[first : last+1])
	if err != nil {
		return "", fmt.Errorf(".stringz: %w", err)
	}
	return s, nil
}

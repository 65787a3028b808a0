// assembler.go implements Assemble, a two-pass assembler for the
// stack-VM dialect of spec.md §6. Pass one walks the source to build a
// symbol table (data labels resolve to byte offsets, code labels
// resolve to instruction indices); pass two re-walks the source,
// this time emitting data bytes and resolved instructions. Two passes
// are needed because forward jumps (e.g. a loop's exit label, defined
// after its jz) reference a code label before its definition is seen.
package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// section tracks which segment the assembler is currently emitting
// into as it walks source lines top to bottom.
type section int

const (
	sectionNone section = iota
	sectionData
	sectionCode
)

// symbol records where one label resolves to, tagged by which segment
// defined it so a reference site can be validated against its use.
type symbol struct {
	sect section
	addr int // byte offset if sect == sectionData, instruction index if sectionCode.
}

// Assemble parses src, the full text emitted by internal/codegen, and
// returns the resolved Program ready to run on internal/vmhost/vm.
func Assemble(src string) (*Program, error) {
	symbols, err := scanSymbols(src)
	if err != nil {
		return nil, err
	}
	return build(src, symbols)
}

// scanSymbols is assembly pass one: compute every label's address
// without needing any label already resolved.
func scanSymbols(src string) (map[string]symbol, error) {
	symbols := make(map[string]symbol)
	sect := sectionNone
	dataCursor := 0
	codeCursor := 0

	for lineNo, raw := range splitLines(src) {
		line := strings.TrimSpace(stripComment(raw))
		switch classify(line) {
		case LineEmpty:
			continue

		case LineSection:
			switch trimTerminator(line) {
			case ".data":
				sect = sectionData
			case ".code":
				sect = sectionCode
			}

		case LineLabel:
			name := strings.TrimSuffix(line, ":")
			if _, dup := symbols[name]; dup {
				return nil, fmt.Errorf("line %d: label %q defined twice", lineNo+1, name)
			}
			switch sect {
			case sectionData:
				symbols[name] = symbol{sect: sectionData, addr: dataCursor}
			case sectionCode:
				symbols[name] = symbol{sect: sectionCode, addr: codeCursor}
			default:
				return nil, fmt.Errorf("line %d: label %q outside any section", lineNo+1, name)
			}

		case LineDirective:
			name, operand := splitDirective(trimTerminator(line))
			if name == ".align" {
				n, err := strconv.Atoi(strings.TrimSpace(operand))
				if err != nil {
					return nil, fmt.Errorf("line %d: .align: %w", lineNo+1, err)
				}
				dataCursor = alignTo(dataCursor, n)
				continue
			}
			size, err := directiveSize(name, operand)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			dataCursor += size

		case LineInstruction:
			if sect != sectionCode {
				return nil, fmt.Errorf("line %d: instruction outside .code section", lineNo+1)
			}
			codeCursor++
		}
	}

	return symbols, nil
}

// build is assembly pass two: re-walk src, this time actually writing
// data bytes and resolving every label reference against symbols.
func build(src string, symbols map[string]symbol) (*Program, error) {
	prog := &Program{DataLabels: make(map[string]int)}

	for lineNo, raw := range splitLines(src) {
		line := strings.TrimSpace(stripComment(raw))
		switch classify(line) {
		case LineEmpty:
			continue

		case LineLabel:
			name := strings.TrimSuffix(line, ":")
			if sym, ok := symbols[name]; ok && sym.sect == sectionData {
				prog.DataLabels[name] = sym.addr
			}
			continue

		case LineSection:
			// Section placement was already checked by pass one.
			continue

		case LineDirective:
			name, operand := splitDirective(trimTerminator(line))
			if name == ".align" {
				n, err := strconv.Atoi(strings.TrimSpace(operand))
				if err != nil {
					return nil, fmt.Errorf("line %d: .align: %w", lineNo+1, err)
				}
				target := alignTo(len(prog.Data), n)
				prog.Data = append(prog.Data, make([]byte, target-len(prog.Data))...)
				continue
			}
			data, err := appendDirective(prog.Data, name, operand)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			prog.Data = data

		case LineInstruction:
			instr, err := resolveInstr(line, symbols)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			prog.Code = append(prog.Code, instr)
		}
	}

	return prog, nil
}

// splitDirective separates a directive's name from its raw operand
// text, e.g. ".u32 42" -> (".u32", "42"), ".stringz \"hi\"" -> (".stringz", "\"hi\"").
func splitDirective(line string) (name, operand string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

// splitLines splits src into lines without a trailing empty element.
func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

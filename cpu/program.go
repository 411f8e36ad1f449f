package cpu

import (
	"fmt"
	"iter"
)

// Entry is one assembled source line: its text, line number, and the
// instruction it produced.
type Entry struct {
	LineNo    int         // Source line number, 1-based.
	Text      string      // Source text with comments stripped.
	Instr     Instruction // Decoded instruction.
	LinkLabel string      // Unresolved label in the Addr slot, if any.
}

// Program is an assembled instruction listing. The instruction address
// of an entry is its index; one source line is one program slot.
type Program struct {
	Entries []Entry
}

// Instructions returns the flat instruction sequence for execution.
func (prog *Program) Instructions() (instrs []Instruction) {
	instrs = make([]Instruction, len(prog.Entries))
	for n, entry := range prog.Entries {
		instrs[n] = entry.Instr
	}

	return
}

// Debug returns the listing entry at an instruction address, or nil when
// the address is outside the program.
func (prog *Program) Debug(ip int) (entry *Entry) {
	if ip >= 0 && ip < len(prog.Entries) {
		entry = &prog.Entries[ip]
	}

	return
}

// Codes iterates over the program as (address, instruction) pairs.
func (prog *Program) Codes() iter.Seq2[int, Instruction] {
	return func(yield func(ip int, inst Instruction) bool) {
		for n, entry := range prog.Entries {
			if !yield(n, entry.Instr) {
				return
			}
		}
	}
}

// String returns the program listing, one row per instruction slot.
func (prog *Program) String() (text string) {
	for n, entry := range prog.Entries {
		text += fmt.Sprintf("%4d %4d  %-32s %v\n", n, entry.LineNo, entry.Text, entry.Instr)
	}

	return
}

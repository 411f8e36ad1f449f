// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator binds a processing unit to an assembled program and
// an instruction budget, and maps engine faults back to source lines.
package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"go.uber.org/zap"

	"github.com/ezrec/mdpu/cpu"
	"github.com/ezrec/mdpu/internal"
)

const (
	DEFAULT_BUDGET = 1000 // Default instruction budget per run.
)

// Emulator state. CPU + program + budget.
type Emulator struct {
	*cpu.Cpu
	Program *cpu.Program // Currently loaded program listing.
	Budget  uint         // Instruction budget per run.

	logger *zap.Logger
}

// EmulatorOpt mutates an Emulator under construction.
type EmulatorOpt func(*Emulator) *Emulator

// LoggerOpt attaches a structured logger to the emulator and its CPU.
func LoggerOpt(logger *zap.Logger) EmulatorOpt {
	return func(emu *Emulator) *Emulator {
		emu.logger = logger
		return emu
	}
}

// BudgetOpt overrides the default instruction budget.
func BudgetOpt(budget uint) EmulatorOpt {
	return func(emu *Emulator) *Emulator {
		emu.Budget = budget
		return emu
	}
}

// NewEmulator creates a new emulator around a machine with the given
// register bank and memory capacities.
func NewEmulator(registers, memory uint, opts ...EmulatorOpt) (emu *Emulator, err error) {
	emu = &Emulator{
		Program: &cpu.Program{},
		Budget:  DEFAULT_BUDGET,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		emu = opt(emu)
	}
	emu.logger = emu.logger.Named("emulator")

	emu.Cpu, err = cpu.NewCpu(registers, memory, cpu.LoggerOpt(emu.logger))
	if err != nil {
		emu = nil
		return
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"BUDGET": fmt.Sprintf("%v", emu.Budget),
	}

	return internal.IterSeq2Concat(maps.All(defines),
		emu.Cpu.Defines(),
	)
}

// Assemble parses assembly text into the emulator's program. The machine
// geometry defines are predefined as assembler equates.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Logger: emu.logger}
	for attr, val := range emu.Defines() {
		asm.Predefine(attr, val)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}
	emu.Program = prog

	return
}

// LineNo returns the source line number for the current instruction
// pointer, or 0 when the pointer is outside the program.
func (emu *Emulator) LineNo() (lineno int) {
	entry := emu.Program.Debug(emu.Cpu.Ip)
	if entry != nil {
		lineno = entry.LineNo
	}

	return
}

// Step performs a single fetch-execute cycle of the loaded program.
func (emu *Emulator) Step() (done bool, err error) {
	lineno := emu.LineNo()

	done, flt := emu.Cpu.Step(emu.Program.Instructions(), emu.Budget)
	if flt != nil {
		err = &ErrRuntime{LineNo: lineno, Err: flt}
	}

	return
}

// Run executes the loaded program from a reset machine until it halts or
// faults, and returns the final state snapshot.
func (emu *Emulator) Run() (state *cpu.State, err error) {
	emu.Cpu.Reset()

	instrs := emu.Program.Instructions()

	done := false
	for !done {
		lineno := emu.LineNo()

		var flt *cpu.Fault
		done, flt = emu.Cpu.Step(instrs, emu.Budget)
		if flt != nil {
			err = &ErrRuntime{LineNo: lineno, Err: flt}
			return
		}
	}

	state = emu.Cpu.Snapshot()

	return
}

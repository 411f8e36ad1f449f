package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Status is the execution state of the machine.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	RUNNING = Status(0) // running
	HALTED  = Status(1) // halted
	FAULTED = Status(2) // faulted
)

// Cpu is the simulation context for a single processing unit.
//
// Memory doubles as flat storage for LOAD/STORE and as the backing of a
// downward-growing stack whose live region is Memory[Sp+1:].
type Cpu struct {
	Register []int32 // Register bank.
	Memory   []int32 // Linear memory; the stack occupies the top.
	Sp       int     // Stack pointer; the next free stack slot.

	Ip       int    // Current instruction pointer.
	Executed uint   // Instructions executed since the last reset.
	Status   Status // Current execution state.

	logger *zap.Logger
}

// CpuOpt mutates a Cpu under construction.
type CpuOpt func(*Cpu) *Cpu

// LoggerOpt attaches a structured logger to the Cpu.
func LoggerOpt(logger *zap.Logger) CpuOpt {
	return func(cpu *Cpu) *Cpu {
		cpu.logger = logger
		return cpu
	}
}

// NewCpu creates a new processing unit with the given register bank and
// memory capacities. Both capacities are fixed for the life of the machine.
func NewCpu(registers, memory uint, opts ...CpuOpt) (cpu *Cpu, err error) {
	if registers == 0 {
		err = ErrRegisterCount
		return
	}
	if memory == 0 {
		err = ErrMemorySize
		return
	}

	cpu = &Cpu{
		Register: make([]int32, registers),
		Memory:   make([]int32, memory),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		cpu = opt(cpu)
	}
	cpu.logger = cpu.logger.Named("cpu")

	cpu.Reset()

	return
}

// Defines for the machine geometry.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"NUM_REGISTERS": fmt.Sprintf("%v", len(cpu.Register)),
		"MEMORY_SIZE":   fmt.Sprintf("%v", len(cpu.Memory)),
		"STACK_TOP":     fmt.Sprintf("%v", len(cpu.Memory)-1),
	}

	return maps.All(defines)
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Moves the stack pointer to the top of memory.
// - Zeros the instruction pointer and the executed count.
func (cpu *Cpu) Reset() {
	clear(cpu.Register)
	clear(cpu.Memory)
	cpu.Sp = len(cpu.Memory) - 1
	cpu.Ip = 0
	cpu.Executed = 0
	cpu.Status = RUNNING

	cpu.logger.Debug("reset",
		zap.Int("registers", len(cpu.Register)),
		zap.Int("memory", len(cpu.Memory)))
}

// checkRegister verifies a register index is within the bank.
func (cpu *Cpu) checkRegister(reg uint32) (flt *Fault) {
	if int(reg) >= len(cpu.Register) {
		flt = &Fault{Err: ErrOutOfBounds, Index: reg}
	}
	return
}

// Read returns the value of a register.
func (cpu *Cpu) Read(reg uint32) (value int32, flt *Fault) {
	flt = cpu.checkRegister(reg)
	if flt != nil {
		return
	}
	value = cpu.Register[reg]
	return
}

// Write sets the value of a register.
func (cpu *Cpu) Write(reg uint32, value int32) (flt *Fault) {
	flt = cpu.checkRegister(reg)
	if flt != nil {
		flt.Value = value
		return
	}
	cpu.Register[reg] = value
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("%8v: %v\n", "status", cpu.Status)
	text += fmt.Sprintf("%8v: %v\n", "ip", cpu.Ip)
	text += fmt.Sprintf("%8v: %v\n", "executed", cpu.Executed)
	text += fmt.Sprintf("%8v: %v\n", "sp", cpu.Sp)
	for n, value := range cpu.Register {
		reg := fmt.Sprintf("r%d", n)
		text += fmt.Sprintf("%8v: %11d 0x%08x\n", reg, value, uint32(value))
	}
	text += fmt.Sprintf("%8v: %v\n", "stack", cpu.Stack())

	return
}

// State is a snapshot of the visible machine state after a run.
type State struct {
	Registers []int32 // Register bank contents, in index order.
	Stack     []int32 // Live stack contents, most recent push first.
}

// Snapshot clones the register bank and the live stack.
func (cpu *Cpu) Snapshot() (state *State) {
	state = &State{
		Registers: slices.Clone(cpu.Register),
		Stack:     slices.Clone(cpu.Stack()),
	}

	return
}

package cpu

// The stack grows downward from the top of memory. Sp is the next free
// slot; the live region is Memory[Sp+1:].

// Push writes a value at the stack pointer and grows the stack.
// Memory[0] is never usable as a stack slot.
func (cpu *Cpu) Push(value int32) (flt *Fault) {
	if cpu.Sp == 0 {
		flt = &Fault{Err: ErrStackOverflow, Index: uint32(cpu.Sp), Value: value}
		return
	}
	cpu.Memory[cpu.Sp] = value
	cpu.Sp -= 1
	return
}

// Pop removes and returns the most recently pushed value.
func (cpu *Cpu) Pop() (value int32, flt *Fault) {
	if cpu.Sp == len(cpu.Memory)-1 {
		flt = &Fault{Err: ErrStackUnderflow, Index: uint32(cpu.Sp)}
		return
	}
	cpu.Sp += 1
	value = cpu.Memory[cpu.Sp]
	return
}

// Stack returns the live stack region, most recent push first.
// The returned slice aliases the machine memory.
func (cpu *Cpu) Stack() []int32 {
	return cpu.Memory[cpu.Sp+1:]
}

// StackDepth returns the number of live stack entries.
func (cpu *Cpu) StackDepth() int {
	return len(cpu.Memory) - 1 - cpu.Sp
}

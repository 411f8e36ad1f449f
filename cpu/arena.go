package cpu

// checkAddress verifies a memory address is within the arena.
func (cpu *Cpu) checkAddress(addr uint32) (flt *Fault) {
	if int(addr) >= len(cpu.Memory) {
		flt = &Fault{Err: ErrOutOfBounds, Index: addr}
	}
	return
}

// Load returns the value at a memory address.
func (cpu *Cpu) Load(addr uint32) (value int32, flt *Fault) {
	flt = cpu.checkAddress(addr)
	if flt != nil {
		return
	}
	value = cpu.Memory[addr]
	return
}

// Store sets the value at a memory address.
func (cpu *Cpu) Store(addr uint32, value int32) (flt *Fault) {
	flt = cpu.checkAddress(addr)
	if flt != nil {
		flt.Value = value
		return
	}
	cpu.Memory[addr] = value
	return
}

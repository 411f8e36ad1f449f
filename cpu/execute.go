package cpu

import (
	"go.uber.org/zap"
)

// binary reads Reg1 and Reg2, applies op, and writes the result to Reg3.
// The Reg3 bounds check runs before op, so an out-of-range destination
// faults ahead of any divisor check.
func (cpu *Cpu) binary(inst Instruction, op func(a, b int32) (int32, *Fault)) (flt *Fault) {
	var a, b int32
	a, flt = cpu.Read(inst.Reg1)
	if flt != nil {
		return
	}
	b, flt = cpu.Read(inst.Reg2)
	if flt != nil {
		return
	}
	flt = cpu.checkRegister(inst.Reg3)
	if flt != nil {
		return
	}
	var value int32
	value, flt = op(a, b)
	if flt != nil {
		return
	}
	cpu.Register[inst.Reg3] = value
	return
}

// unary reads Reg1, applies op, and writes the result to Reg2.
func (cpu *Cpu) unary(inst Instruction, op func(a int32) int32) (flt *Fault) {
	var a int32
	a, flt = cpu.Read(inst.Reg1)
	if flt != nil {
		return
	}
	flt = cpu.Write(inst.Reg2, op(a))
	return
}

// divide guards a DIV or MOD against a zero divisor.
func divide(inst Instruction, op func(a, b int32) int32) func(a, b int32) (int32, *Fault) {
	return func(a, b int32) (value int32, flt *Fault) {
		if b == 0 {
			flt = &Fault{Err: ErrDivisionByZero, Index: inst.Reg2}
			return
		}
		value = op(a, b)
		return
	}
}

// exact wraps a total two-operand function.
func exact(op func(a, b int32) int32) func(a, b int32) (int32, *Fault) {
	return func(a, b int32) (value int32, flt *Fault) {
		value = op(a, b)
		return
	}
}

// Execute executes a single decoded instruction against the machine state.
//
// The instruction pointer advances by one, unless the instruction is a
// taken branch (the pointer redirects to Addr) or HALT (the pointer does
// not move). Every executed instruction except HALT counts against the
// budget; a fault marks the machine FAULTED and leaves the pointer at the
// faulting instruction.
func (cpu *Cpu) Execute(inst Instruction) (flt *Fault) {
	defer func() {
		if flt != nil {
			flt.Ip = cpu.Ip
			flt.Instr = inst
			cpu.Status = FAULTED
		}
	}()

	cpu.logger.Debug("execute",
		zap.Int("ip", cpu.Ip),
		zap.Stringer("instr", inst))

	next_ip := cpu.Ip + 1

	switch inst.Code {
	case OP_NOP:
		// pass
	case OP_ADD:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a + b }))
	case OP_SUB, OP_CMP:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a - b }))
	case OP_MUL:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a * b }))
	case OP_DIV:
		flt = cpu.binary(inst, divide(inst, func(a, b int32) int32 { return a / b }))
	case OP_MOD:
		flt = cpu.binary(inst, divide(inst, func(a, b int32) int32 { return a % b }))
	case OP_NEG:
		flt = cpu.unary(inst, func(a int32) int32 { return -a })
	case OP_ABS:
		flt = cpu.unary(inst, func(a int32) int32 {
			if a < 0 {
				return -a
			}
			return a
		})
	case OP_INC:
		flt = cpu.inPlace(inst, 1)
	case OP_DEC:
		flt = cpu.inPlace(inst, -1)
	case OP_AND, OP_TEST:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a & b }))
	case OP_OR:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a | b }))
	case OP_XOR:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a ^ b }))
	case OP_SHL:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a << uint32(b) }))
	case OP_SHR:
		flt = cpu.binary(inst, exact(func(a, b int32) int32 { return a >> uint32(b) }))
	case OP_NOT:
		flt = cpu.unary(inst, func(a int32) int32 { return ^a })
	case OP_LOAD:
		flt = cpu.checkRegister(inst.Reg1)
		if flt != nil {
			break
		}
		var value int32
		value, flt = cpu.Load(inst.Addr)
		if flt != nil {
			break
		}
		cpu.Register[inst.Reg1] = value
	case OP_STORE:
		var value int32
		value, flt = cpu.Read(inst.Reg1)
		if flt != nil {
			break
		}
		flt = cpu.Store(inst.Addr, value)
	case OP_LI:
		flt = cpu.Write(inst.Reg1, inst.Immediate)
	case OP_MOV:
		// Reg1 is the destination, Reg2 the source.
		var value int32
		value, flt = cpu.Read(inst.Reg2)
		if flt != nil {
			break
		}
		flt = cpu.Write(inst.Reg1, value)
	case OP_PUSH:
		var value int32
		value, flt = cpu.Read(inst.Reg1)
		if flt != nil {
			break
		}
		flt = cpu.Push(value)
	case OP_POP:
		flt = cpu.checkRegister(inst.Reg1)
		if flt != nil {
			break
		}
		var value int32
		value, flt = cpu.Pop()
		if flt != nil {
			break
		}
		cpu.Register[inst.Reg1] = value
	case OP_JMP, OP_B:
		next_ip = int(inst.Addr)
	case OP_JZ, OP_BZ:
		var a int32
		a, flt = cpu.Read(inst.Reg1)
		if flt == nil && a == 0 {
			next_ip = int(inst.Addr)
		}
	case OP_JNZ, OP_BNZ:
		var a int32
		a, flt = cpu.Read(inst.Reg1)
		if flt == nil && a != 0 {
			next_ip = int(inst.Addr)
		}
	case OP_JE:
		var a, b int32
		a, b, flt = cpu.readPair(inst)
		if flt == nil && a == b {
			next_ip = int(inst.Addr)
		}
	case OP_JNE:
		var a, b int32
		a, b, flt = cpu.readPair(inst)
		if flt == nil && a != b {
			next_ip = int(inst.Addr)
		}
	case OP_HALT:
		cpu.Status = HALTED
		return
	default:
		flt = &Fault{Err: ErrOpcodeInvalid}
	}

	if flt != nil {
		return
	}

	cpu.Executed += 1
	cpu.Ip = next_ip

	return
}

// inPlace adds delta to Reg1.
func (cpu *Cpu) inPlace(inst Instruction, delta int32) (flt *Fault) {
	var a int32
	a, flt = cpu.Read(inst.Reg1)
	if flt != nil {
		return
	}
	cpu.Register[inst.Reg1] = a + delta
	return
}

// readPair reads Reg1 and Reg2 for the two-register branches.
func (cpu *Cpu) readPair(inst Instruction) (a, b int32, flt *Fault) {
	a, flt = cpu.Read(inst.Reg1)
	if flt != nil {
		return
	}
	b, flt = cpu.Read(inst.Reg2)
	return
}

// Step performs a single fetch-execute cycle against a program.
//
// The budget check precedes the end-of-program check: a machine whose
// executed count has reached the budget faults even if the pointer is
// already past the last instruction.
func (cpu *Cpu) Step(program []Instruction, budget uint) (done bool, flt *Fault) {
	if cpu.Status != RUNNING {
		done = true
		return
	}

	if cpu.Executed >= budget {
		cpu.Status = FAULTED
		flt = &Fault{Err: ErrBudgetExceeded, Ip: cpu.Ip}
		done = true
		return
	}

	if cpu.Ip >= len(program) {
		cpu.Status = HALTED
		done = true
		return
	}

	flt = cpu.Execute(program[cpu.Ip])
	if flt != nil {
		done = true
		return
	}

	done = cpu.Status != RUNNING

	return
}

// Run executes a program from the current state until the machine halts
// or faults, then returns a snapshot of the final state.
func (cpu *Cpu) Run(program []Instruction, budget uint) (state *State, flt *Fault) {
	done := false
	for !done {
		done, flt = cpu.Step(program, budget)
		if flt != nil {
			return
		}
	}

	cpu.logger.Debug("done",
		zap.Stringer("status", cpu.Status),
		zap.Uint("executed", cpu.Executed))

	state = cpu.Snapshot()

	return
}

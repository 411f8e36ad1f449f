package cpu

import (
	"fmt"
)

// Opcode selects the operation performed by an Instruction.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP   = Opcode(0)  // NOP
	OP_ADD   = Opcode(1)  // ADD
	OP_SUB   = Opcode(2)  // SUB
	OP_MUL   = Opcode(3)  // MUL
	OP_DIV   = Opcode(4)  // DIV
	OP_STORE = Opcode(5)  // STORE
	OP_LOAD  = Opcode(6)  // LOAD
	OP_LI    = Opcode(7)  // LI
	OP_PUSH  = Opcode(8)  // PUSH
	OP_POP   = Opcode(9)  // POP
	OP_JMP   = Opcode(10) // JMP
	OP_JZ    = Opcode(11) // JZ
	OP_JNZ   = Opcode(12) // JNZ
	OP_MOV   = Opcode(13) // MOV
	OP_JE    = Opcode(14) // JE
	OP_JNE   = Opcode(15) // JNE
	OP_AND   = Opcode(16) // AND
	OP_OR    = Opcode(17) // OR
	OP_XOR   = Opcode(18) // XOR
	OP_NOT   = Opcode(19) // NOT
	OP_SHL   = Opcode(20) // SHL
	OP_SHR   = Opcode(21) // SHR
	OP_CMP   = Opcode(22) // CMP
	OP_TEST  = Opcode(23) // TEST
	OP_B     = Opcode(24) // B
	OP_BZ    = Opcode(25) // BZ
	OP_BNZ   = Opcode(26) // BNZ
	OP_NEG   = Opcode(27) // NEG
	OP_ABS   = Opcode(28) // ABS
	OP_MOD   = Opcode(29) // MOD
	OP_INC   = Opcode(30) // INC
	OP_DEC   = Opcode(31) // DEC
	OP_HALT  = Opcode(32) // HALT
)

// mnemonicMap maps assembly mnemonics to opcodes.
var mnemonicMap = map[string]Opcode{
	"NOP":   OP_NOP,
	"ADD":   OP_ADD,
	"SUB":   OP_SUB,
	"MUL":   OP_MUL,
	"DIV":   OP_DIV,
	"STORE": OP_STORE,
	"LOAD":  OP_LOAD,
	"LI":    OP_LI,
	"PUSH":  OP_PUSH,
	"POP":   OP_POP,
	"JMP":   OP_JMP,
	"JZ":    OP_JZ,
	"JNZ":   OP_JNZ,
	"MOV":   OP_MOV,
	"JE":    OP_JE,
	"JNE":   OP_JNE,
	"AND":   OP_AND,
	"OR":    OP_OR,
	"XOR":   OP_XOR,
	"NOT":   OP_NOT,
	"SHL":   OP_SHL,
	"SHR":   OP_SHR,
	"CMP":   OP_CMP,
	"TEST":  OP_TEST,
	"B":     OP_B,
	"BZ":    OP_BZ,
	"BNZ":   OP_BNZ,
	"NEG":   OP_NEG,
	"ABS":   OP_ABS,
	"MOD":   OP_MOD,
	"INC":   OP_INC,
	"DEC":   OP_DEC,
	"HALT":  OP_HALT,
}

// Instruction is a single decoded instruction.
//
// Not every opcode uses every operand slot; unused slots are zero and
// ignored by that opcode's semantics.
type Instruction struct {
	Code      Opcode // Operation selector.
	Reg1      uint32 // First register operand.
	Reg2      uint32 // Second register operand.
	Reg3      uint32 // Third register operand (the result, for three-register forms).
	Addr      uint32 // Memory address or jump target.
	Immediate int32  // Signed literal for LI.
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() string {
	return fmt.Sprintf("%v %v %v %v %v %v",
		inst.Code, inst.Reg1, inst.Reg2, inst.Reg3, inst.Addr, inst.Immediate)
}

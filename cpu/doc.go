// Package cpu implements the processing unit and assembler for the mdpu
// register machine.
//
// The machine consists of a fixed bank of signed 32-bit registers, a fixed
// linear memory whose top holds a downward-growing stack, and an instruction
// pointer. Programs are fixed sequences of decoded instructions; execution is
// bounded by an instruction budget and ends in a halted or faulted state.
//
// The assembler provides a line-oriented assembly language for the
// instruction set, supporting labels, equates, and compile-time expression
// evaluation. Every source line assembles to exactly one instruction slot,
// so jump addresses line up with source lines.
package cpu

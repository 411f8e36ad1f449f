package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Entries))

	assert.Equal("0", asm.Equate["LINENO"])
}

func instEqual(t *testing.T, expected []Instruction, prog *Program) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(prog.Entries))
	if len(expected) == len(prog.Entries) {
		for n := range len(expected) {
			assert.Equal(expected[n], prog.Entries[n].Instr, "slot %d", n)
		}
	}
}

func TestAssembler_Positional(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"LI 0 0 0 0 42",
		"LI 1 0 0 0 -7",
		"ADD 0 1 2",
		"PUSH 2",
		"HALT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Instruction{
		{Code: OP_LI, Immediate: 42},
		{Code: OP_LI, Reg1: 1, Immediate: -7},
		{Code: OP_ADD, Reg1: 0, Reg2: 1, Reg3: 2},
		{Code: OP_PUSH, Reg1: 2},
		{Code: OP_HALT},
	}

	instEqual(t, expected, prog)

	for n, entry := range prog.Entries {
		assert.Equal(n+1, entry.LineNo)
	}
}

func TestAssembler_BlankAndComments(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"",
		"// a comment line",
		"; another comment",
		"LI 0 0 0 0 1 ; trailing comment",
		"NOP",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	// Every line, commented or blank, occupies one slot.
	expected := []Instruction{
		{Code: OP_NOP},
		{Code: OP_NOP},
		{Code: OP_NOP},
		{Code: OP_LI, Immediate: 1},
		{Code: OP_NOP},
	}

	instEqual(t, expected, prog)
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"LI 0 0 0 0 3",   // 0
		"loop: DEC 0",    // 1
		"JNZ 0 0 0 loop", // 2
		"JMP 0 0 0 done", // 3: forward reference
		"NOP",            // 4
		"done:",          // 5
		"HALT",           // 6
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(1, asm.Label["loop"])
	assert.Equal(5, asm.Label["done"])
	assert.Equal(uint32(1), prog.Entries[2].Instr.Addr)
	assert.Equal(uint32(5), prog.Entries[3].Instr.Addr)

	// A label-only line still assembles to NOP.
	assert.Equal(OP_NOP, prog.Entries[5].Instr.Code)
}

func TestAssembler_Equates(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".equ COUNTER 0",
		".equ START 42",
		"LI COUNTER 0 0 0 START",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(3, len(prog.Entries))
	assert.Equal(Instruction{Code: OP_LI, Immediate: 42}, prog.Entries[2].Instr)
}

func TestAssembler_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("MEMORY_SIZE", "16")

	program := []string{
		"LI 0 0 0 0 $(MEMORY_SIZE - 1)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(int32(15), prog.Entries[0].Instr.Immediate)
}

func TestAssembler_Expression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".equ BASE 0x10",
		"LI 0 0 0 0 $(BASE * 2 + 2)",
		"LOAD 1 0 0 $(BASE + LINENO)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(int32(34), prog.Entries[1].Instr.Immediate)
	assert.Equal(uint32(0x13), prog.Entries[2].Instr.Addr)
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		program  []string
		expected error
	}){
		{"unknown_mnemonic", []string{"FROB 1 2 3"}, ErrOpcodeInvalid},
		{"extra_args", []string{"ADD 1 2 3 4 5 6"}, ErrOpcodeExtraArgs},
		{"bad_number", []string{"ADD one 2 3"}, ErrParseNumber("one")},
		{"equ_syntax", []string{".equ ONLY"}, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, ErrEquateDuplicate},
		{"label_duplicate", []string{"here: NOP", "here: NOP"}, ErrLabelDuplicate},
		{"label_missing", []string{"JMP 0 0 0 nowhere"}, ErrLabelMissing("nowhere")},
		{"bad_expression", []string{"LI 0 0 0 0 $(nonsense)"}, nil},
	}

	for _, entry := range table {
		asm := &Assembler{}

		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.Error(err, entry.name)

		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, entry.name) {
			assert.NotZero(syntax.LineNo, entry.name)
		}
		if entry.expected != nil {
			assert.ErrorIs(err, entry.expected, entry.name)
		}
	}
}

func TestAssembler_ErrorLineNo(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"NOP",
		"NOP",
		"FROB",
	}

	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.Error(err)

	var syntax *ErrSyntax
	if assert.ErrorAs(err, &syntax) {
		assert.Equal(3, syntax.LineNo)
		assert.Equal("FROB", syntax.Line)
	}
}

func TestAssembler_Reuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader("here: JMP 0 0 0 here"))
	assert.NoError(err)
	assert.Equal(1, len(prog.Entries))

	// A second parse starts from clean label and equate state.
	prog, err = asm.Parse(strings.NewReader("here: NOP"))
	assert.NoError(err)
	assert.Equal(1, len(prog.Entries))
	assert.Equal(0, asm.Label["here"])
}

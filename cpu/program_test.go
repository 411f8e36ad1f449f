package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram(t *testing.T) *Program {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"LI 0 0 0 0 1",
		"INC 0",
		"HALT",
	}, "\n")))
	assert.NoError(t, err)

	return prog
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	entry := prog.Debug(0)
	if assert.NotNil(entry) {
		assert.Equal(1, entry.LineNo)
		assert.Equal(OP_LI, entry.Instr.Code)
	}

	entry = prog.Debug(2)
	if assert.NotNil(entry) {
		assert.Equal(3, entry.LineNo)
		assert.Equal(OP_HALT, entry.Instr.Code)
	}
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	assert.Nil(prog.Debug(10))
	assert.Nil(prog.Debug(-1))
}

func TestProgram_Instructions(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	instrs := prog.Instructions()
	assert.Equal([]Instruction{
		{Code: OP_LI, Immediate: 1},
		{Code: OP_INC},
		{Code: OP_HALT},
	}, instrs)
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	var ips []int
	var codes []Opcode
	for ip, inst := range prog.Codes() {
		ips = append(ips, ip)
		codes = append(codes, inst.Code)
	}

	assert.Equal([]int{0, 1, 2}, ips)
	assert.Equal([]Opcode{OP_LI, OP_INC, OP_HALT}, codes)
}

func TestProgram_String(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	text := prog.String()
	assert.Equal(3, len(strings.Split(strings.TrimSuffix(text, "\n"), "\n")))
	assert.True(strings.Contains(text, "LI"))
	assert.True(strings.Contains(text, "HALT"))
}

func TestInstruction_String(t *testing.T) {
	assert := assert.New(t)

	inst := Instruction{Code: OP_ADD, Reg1: 1, Reg2: 2, Reg3: 3}
	assert.Equal("ADD 1 2 3 0 0", inst.String())

	inst = Instruction{Code: OP_LI, Reg1: 1, Immediate: -5}
	assert.Equal("LI 1 0 0 0 -5", inst.String())
}

package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(4, 8)
	assert.NoError(err)

	assert.Equal(7, cpu.Sp)
	assert.Equal(0, cpu.StackDepth())

	flt := cpu.Push(0x1234)
	assert.Nil(flt)
	assert.Equal(6, cpu.Sp)
	assert.Equal(1, cpu.StackDepth())
	assert.Equal(int32(0x1234), cpu.Memory[7])
}

func TestStack_PushPop_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(4, 8)
	assert.NoError(err)

	sp := cpu.Sp
	flt := cpu.Push(-42)
	assert.Nil(flt)

	value, flt := cpu.Pop()
	assert.Nil(flt)
	assert.Equal(int32(-42), value)
	assert.Equal(sp, cpu.Sp)
}

func TestStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(4, 8)
	assert.NoError(err)

	// Slot 0 is never usable, so exactly memory-1 pushes succeed.
	for n := range 7 {
		flt := cpu.Push(int32(n))
		assert.Nil(flt, "push %d", n)
	}
	assert.Equal(0, cpu.Sp)

	flt := cpu.Push(99)
	if assert.NotNil(flt) {
		assert.True(errors.Is(flt, ErrStackOverflow))
	}
	// No partial write: memory[0] untouched, pointer unchanged.
	assert.Equal(int32(0), cpu.Memory[0])
	assert.Equal(0, cpu.Sp)
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(4, 8)
	assert.NoError(err)

	_, flt := cpu.Pop()
	if assert.NotNil(flt) {
		assert.True(errors.Is(flt, ErrStackUnderflow))
	}
	assert.Equal(7, cpu.Sp)
}

func TestStack_LiveRegion(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(4, 8)
	assert.NoError(err)

	for _, value := range []int32{10, 20, 30} {
		flt := cpu.Push(value)
		assert.Nil(flt)
	}

	// Most recent push sits at the lowest live address, so it is first.
	assert.Equal([]int32{30, 20, 10}, cpu.Stack())
	assert.Equal(3, cpu.StackDepth())
}

func TestStack_ResetEmpties(t *testing.T) {
	assert := assert.New(t)

	cpu, err := NewCpu(4, 8)
	assert.NoError(err)

	flt := cpu.Push(1)
	assert.Nil(flt)

	cpu.Reset()
	assert.Equal(7, cpu.Sp)
	assert.Equal(0, cpu.StackDepth())
	assert.Equal(int32(0), cpu.Memory[7])
}

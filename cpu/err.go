package cpu

import (
	"errors"

	"github.com/ezrec/mdpu/translate"
)

var f = translate.From

var (
	// Machine construction errors
	ErrRegisterCount = errors.New(f("register count must be positive"))
	ErrMemorySize    = errors.New(f("memory size must be positive"))

	// Execution faults
	ErrOutOfBounds    = errors.New(f("index out of bounds"))
	ErrDivisionByZero = errors.New(f("division by zero"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrBudgetExceeded = errors.New(f("instruction budget exceeded"))

	// Assembler errors
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
)

// Fault is an execution fault with the machine context at the point of
// failure. The engine marks the machine FAULTED and stops executing as
// soon as one is raised.
type Fault struct {
	Err   error       // Fault classification, one of the Err* sentinels.
	Ip    int         // Instruction pointer at the fault.
	Instr Instruction // Faulting instruction, if any.
	Index uint32      // Offending register index or memory address.
	Value int32       // Offending value, if any.
}

func (flt *Fault) Error() (text string) {
	text = f("%v at ip %d", flt.Err, flt.Ip)
	if flt.Instr != (Instruction{}) {
		text += f(" (%v)", flt.Instr)
	}
	return
}

func (flt *Fault) Unwrap() error {
	return flt.Err
}

func (flt *Fault) Is(err error) (ok bool) {
	_, ok = err.(*Fault)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

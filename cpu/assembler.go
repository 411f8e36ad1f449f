// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the mdpu assembly language.
//
// The instruction format is positional:
//
//	MNEMONIC reg1 reg2 reg3 addr immediate
//
// Missing trailing operands default to zero. Blank lines, comment lines,
// and directive or label-only lines assemble to NOP, so every source line
// occupies exactly one program slot and absolute jump targets stay
// aligned with line numbers.
type Assembler struct {
	Logger *zap.Logger // Optional structured logger.

	Entries []Entry // Assembled listing entries.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to instruction addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the signed value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := asm.valueOf(str)
		if _err != nil {
			// Ignore non-integer equates. They may be labels
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine reduces a source line to its operand words. Equates are
// recorded and substituted, labels are recorded against the current
// address, and $() expressions are evaluated.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = len(asm.Entries)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseWords decodes the words of a source line into an instruction.
// An empty word list decodes to NOP so the line still occupies a slot.
func (asm *Assembler) parseWords(words []string) (inst Instruction, label string, err error) {
	if len(words) == 0 {
		return
	}

	code, ok := mnemonicMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}
	inst.Code = code

	args := words[1:]
	if len(args) > 5 {
		err = ErrOpcodeExtraArgs
		return
	}

	regs := [3](*uint32){&inst.Reg1, &inst.Reg2, &inst.Reg3}
	for n, out := range regs {
		if n >= len(args) {
			return
		}
		var v64 int64
		v64, err = asm.valueOf(args[n])
		if err != nil {
			return
		}
		*out = uint32(v64)
	}

	if len(args) >= 4 {
		word := args[3]
		v64, _err := asm.valueOf(word)
		if _err != nil {
			// Not a number: a label reference, linked after the
			// whole source has been scanned.
			label = word
		} else {
			inst.Addr = uint32(v64)
		}
	}

	if len(args) >= 5 {
		var v64 int64
		v64, err = asm.valueOf(args[4])
		if err != nil {
			return
		}
		inst.Immediate = int32(v64)
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	logger := asm.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("asm")

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Entries = asm.Entries[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		logger.Debug("scan",
			zap.Int("lineno", lineno),
			zap.String("text", text))

		line = text
		for _, lead := range []string{";", "//"} {
			line, _, _ = strings.Cut(line, lead)
		}
		line = strings.TrimSpace(line)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		var inst Instruction
		var label string
		inst, label, err = asm.parseWords(words)
		if err != nil {
			return
		}

		asm.Entries = append(asm.Entries, Entry{
			LineNo:    lineno,
			Text:      line,
			Instr:     inst,
			LinkLabel: label,
		})
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Entries {
		entry := &asm.Entries[n]

		if len(entry.LinkLabel) == 0 {
			continue
		}
		ip, ok := asm.Label[entry.LinkLabel]
		if !ok {
			lineno = entry.LineNo
			line = entry.Text
			err = ErrLabelMissing(entry.LinkLabel)
			return
		}
		entry.Instr.Addr = uint32(ip)
	}

	prog = &Program{
		Entries: slices.Clone(asm.Entries),
	}

	return
}

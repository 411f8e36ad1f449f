// Package profile holds the machine geometry for a processing unit:
// register bank size, memory size, and instruction budget.
//
// Geometry comes either from "NxM" dimension strings on the command line
// or from an mdpu.toml machine file.
package profile

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/mdpu/translate"
)

var f = translate.From

var (
	ErrMachineRegisters = errors.New(f("machine registers must be positive"))
	ErrMachineMemory    = errors.New(f("machine memory must be positive"))
)

// ErrDimension reports a malformed dimension string.
type ErrDimension string

func (err ErrDimension) Error() string {
	return f("'%v' is not a dimension", string(err))
}

// Dimensions parses an "NxM[xK...]" dimension string into a total count.
// Each dimension must be a positive integer; the result is their product.
func Dimensions(dims string) (total uint, err error) {
	total = 1
	for _, dim := range strings.Split(dims, "x") {
		v64, _err := strconv.ParseUint(dim, 10, 32)
		if _err != nil || v64 == 0 {
			total = 0
			err = ErrDimension(dims)
			return
		}
		total *= uint(v64)
	}

	return
}

// Profile represents an mdpu.toml machine file.
type Profile struct {
	Machine Machine `toml:"machine"`
}

// Machine describes the processing unit geometry.
type Machine struct {
	Registers string `toml:"registers"` // Register bank dimensions, "NxM" form.
	Memory    string `toml:"memory"`    // Memory dimensions, "NxM" form.
	Budget    uint   `toml:"budget"`    // Instruction budget; 0 keeps the default.
}

// Load parses a machine file.
func Load(path string) (prof *Profile, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	prof = &Profile{}
	err = toml.Unmarshal(data, prof)
	if err != nil {
		prof = nil
		return
	}

	return
}

// Geometry resolves the machine dimensions into total capacities.
func (prof *Profile) Geometry() (registers, memory uint, err error) {
	if len(prof.Machine.Registers) == 0 {
		err = ErrMachineRegisters
		return
	}
	registers, err = Dimensions(prof.Machine.Registers)
	if err != nil {
		return
	}

	if len(prof.Machine.Memory) == 0 {
		err = ErrMachineMemory
		return
	}
	memory, err = Dimensions(prof.Machine.Memory)

	return
}

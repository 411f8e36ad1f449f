package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/mdpu/cpu"
	"github.com/ezrec/mdpu/emulator"
	"github.com/ezrec/mdpu/profile"
)

// formatValues renders a value sequence as "[a, b, c]".
func formatValues(values []int32) string {
	strs := make([]string, len(values))
	for n, value := range values {
		strs[n] = fmt.Sprintf("%d", value)
	}

	return "[" + strings.Join(strs, ", ") + "]"
}

// newEmulator builds an emulator from either a machine file or a pair of
// dimension arguments, and assembles the named program into it.
func newEmulator(machineFile string, budget uint, args []string) (emu *emulator.Emulator, err error) {
	var registers, memory uint

	var program string
	switch {
	case len(machineFile) != 0 && len(args) == 1:
		var prof *profile.Profile
		prof, err = profile.Load(machineFile)
		if err != nil {
			return
		}
		registers, memory, err = prof.Geometry()
		if err != nil {
			return
		}
		if prof.Machine.Budget != 0 {
			budget = prof.Machine.Budget
		}
		program = args[0]
	case len(machineFile) == 0 && len(args) == 3:
		registers, err = profile.Dimensions(args[0])
		if err != nil {
			return
		}
		memory, err = profile.Dimensions(args[1])
		if err != nil {
			return
		}
		program = args[2]
	default:
		err = fmt.Errorf("expected <registers> <memory> <program>, or --machine with <program>")
		return
	}

	emu, err = emulator.NewEmulator(registers, memory,
		emulator.LoggerOpt(logger()),
		emulator.BudgetOpt(budget))
	if err != nil {
		return
	}

	input, err := os.Open(program)
	if err != nil {
		emu = nil
		return
	}
	defer input.Close()

	err = emu.Assemble(input)
	if err != nil {
		emu = nil
		return
	}

	return
}

func runCommand() *cobra.Command {
	var machineFile string
	var budget uint

	cmd := &cobra.Command{
		Use:   "run [<registers> <memory>] <program>",
		Short: "Assemble and execute a program, printing the final state",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			emu, err := newEmulator(machineFile, budget, args)
			if err != nil {
				return err
			}

			state, err := emu.Run()
			if err != nil {
				return err
			}

			fmt.Printf("Registers: %v\n", formatValues(state.Registers))
			fmt.Printf("Stack: %v\n", formatValues(state.Stack))

			return nil
		},
	}

	cmd.Flags().StringVarP(&machineFile, "machine", "m", "", "mdpu.toml machine file")
	cmd.Flags().UintVarP(&budget, "budget", "b", emulator.DEFAULT_BUDGET, "instruction budget")

	return cmd
}

func checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <program>",
		Short: "Assemble a program and print its listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer input.Close()

			asm := &cpu.Assembler{Logger: logger()}
			prog, err := asm.Parse(input)
			if err != nil {
				return err
			}

			fmt.Print(prog)

			return nil
		},
	}

	return cmd
}

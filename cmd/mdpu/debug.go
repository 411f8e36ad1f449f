package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ezrec/mdpu/emulator"
)

const debugHelp = `commands:
  step [N]     execute N instructions (default 1)
  run          execute until halt, fault, or breakpoint
  regs         print machine state
  stack        print the live stack
  mem ADDR [N] print N memory words at ADDR (default 1)
  list         print the program listing
  break ADDR   toggle a breakpoint at an instruction address
  reset        reset the machine
  quit         leave the monitor
`

// monitor is the interactive debug session state.
type monitor struct {
	emu *emulator.Emulator
	brk map[int]bool
}

// location renders the current instruction pointer and source line.
func (mon *monitor) location() string {
	entry := mon.emu.Program.Debug(mon.emu.Cpu.Ip)
	if entry == nil {
		return fmt.Sprintf("ip %v: (end of program)", mon.emu.Cpu.Ip)
	}

	return fmt.Sprintf("ip %v: %v", mon.emu.Cpu.Ip, entry.Text)
}

// step executes up to count instructions, honoring breakpoints.
func (mon *monitor) step(count int) {
	for range count {
		done, err := mon.emu.Step()
		if err != nil {
			fmt.Printf("fault: %v\n", err)
			return
		}
		if done {
			fmt.Printf("%v\n", mon.emu.Cpu.Status)
			return
		}
		if mon.brk[mon.emu.Cpu.Ip] {
			fmt.Printf("break at %v\n", mon.location())
			return
		}
	}
	fmt.Printf("%v\n", mon.location())
}

// command dispatches a single monitor command line.
func (mon *monitor) command(words []string) (quit bool) {
	arg := func(n, fallback int) int {
		if n >= len(words) {
			return fallback
		}
		value, err := strconv.Atoi(words[n])
		if err != nil {
			return fallback
		}
		return value
	}

	switch words[0] {
	case "step", "s":
		mon.step(arg(1, 1))
	case "run", "r":
		mon.step(int(mon.emu.Budget))
	case "regs":
		fmt.Print(mon.emu.Cpu)
	case "stack":
		fmt.Printf("%v\n", formatValues(mon.emu.Cpu.Stack()))
	case "mem":
		if len(words) < 2 {
			fmt.Print(debugHelp)
			break
		}
		addr := arg(1, 0)
		for n := range arg(2, 1) {
			value, flt := mon.emu.Cpu.Load(uint32(addr + n))
			if flt != nil {
				fmt.Printf("%v\n", flt)
				break
			}
			fmt.Printf("%6d: %11d 0x%08x\n", addr+n, value, uint32(value))
		}
	case "list", "l":
		for n, entry := range mon.emu.Program.Entries {
			marker := " "
			if n == mon.emu.Cpu.Ip {
				marker = ">"
			}
			if mon.brk[n] {
				marker = "*"
			}
			fmt.Printf("%v %4d  %v\n", marker, n, entry.Text)
		}
	case "break", "b":
		if len(words) < 2 {
			fmt.Print(debugHelp)
			break
		}
		addr := arg(1, -1)
		if addr < 0 || addr >= len(mon.emu.Program.Entries) {
			fmt.Printf("no instruction at %v\n", words[1])
			break
		}
		mon.brk[addr] = !mon.brk[addr]
	case "reset":
		mon.emu.Cpu.Reset()
	case "quit", "q", "exit":
		quit = true
	case "help", "?":
		fmt.Print(debugHelp)
	default:
		fmt.Print(debugHelp)
	}

	return
}

func debugCommand() *cobra.Command {
	var machineFile string
	var budget uint

	cmd := &cobra.Command{
		Use:   "debug [<registers> <memory>] <program>",
		Short: "Interactively step a program in a monitor shell",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			emu, err := newEmulator(machineFile, budget, args)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "mdpu> ",
				HistoryFile: "/tmp/mdpu_debug_history.txt",
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			mon := &monitor{
				emu: emu,
				brk: map[int]bool{},
			}

			fmt.Printf("%v registers, %v memory words, budget %v\n",
				len(emu.Cpu.Register), len(emu.Cpu.Memory), emu.Budget)
			fmt.Printf("%v\n", mon.location())

			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) {
						continue
					}
					return nil // EOF leaves the monitor
				}

				words := strings.Fields(line)
				if len(words) == 0 {
					continue
				}

				if mon.command(words) {
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&machineFile, "machine", "m", "", "mdpu.toml machine file")
	cmd.Flags().UintVarP(&budget, "budget", "b", emulator.DEFAULT_BUDGET, "instruction budget")

	return cmd
}

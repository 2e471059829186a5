package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qusimlab/qusim/internal/models/sim"
	"github.com/qusimlab/qusim/internal/qsim"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
	"github.com/qusimlab/qusim/internal/qsim/trace"
	"github.com/qusimlab/qusim/internal/qsim/viz"
)

// runCircuitFile is the CLI handler for "qusim run". It loads a circuit
// description, compiles it, and executes it on a fresh register.
func runCircuitFile(cmd *cobra.Command, args []string) {
	file, err := qsim.LoadCircuitFile(args[0])
	if err != nil {
		slog.Error("failed to load circuit", "path", args[0], "error", err)
		os.Exit(1)
	}

	circuit, err := qsim.CompileCircuit(file)
	if err != nil {
		slog.Error("failed to compile circuit", "path", args[0], "error", err)
		os.Exit(1)
	}

	if runQASM {
		fmt.Print(circuit.QASM())
		return
	}

	register := quantum.NewRegister(file.Qubits)
	if src := runSeedSource(cmd, file.Seed); src != nil {
		register.SetRandomSource(src)
	}

	if file.Name != "" {
		fmt.Printf("--- %s ---\n", file.Name)
	}

	outcomes := circuit.RunOn(register)

	if len(outcomes) > 0 {
		fmt.Println("Measurements:")
		measured := measuredQubits(file.Ops)
		for i, outcome := range outcomes {
			fmt.Printf("  qubit %d -> %d\n", measured[i], outcome)
		}
		fmt.Println()
	}

	fmt.Println("Final state:")
	viz.WriteState(os.Stdout, register)

	if debugLogging {
		fmt.Println("\nCompiled operations:")
		fmt.Print(trace.Dump(circuit.Operations()))
	}

	if runOut != "" {
		if err := viz.SaveState(runOut, register); err != nil {
			slog.Error("failed to write state file", "path", runOut, "error", err)
			os.Exit(1)
		}
		slog.Info("state written", "path", runOut)
	}
}

// runSeedSource picks the random source for a run, flag first, file second.
func runSeedSource(cmd *cobra.Command, fileSeed *int64) quantum.Source {
	if cmd.Flags().Changed("seed") {
		return quantum.NewSeededSource(rootSeed)
	}
	if fileSeed != nil {
		return quantum.NewSeededSource(*fileSeed)
	}
	return nil
}

// measuredQubits lists the qubit operand of each measurement op in order.
func measuredQubits(ops []sim.CircuitOp) []int {
	var measured []int
	for _, op := range ops {
		if op.Gate == quantum.GateMeasure {
			measured = append(measured, op.Qubits[0])
		}
	}
	return measured
}

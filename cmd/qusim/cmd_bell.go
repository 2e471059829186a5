package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qusimlab/qusim/internal/qsim/quantum"
	"github.com/qusimlab/qusim/internal/qsim/viz"
)

// runBell is the CLI handler for "qusim bell". It prepares the Bell
// state |Φ+⟩ one gate at a time and then collapses both qubits.
func runBell(cmd *cobra.Command, args []string) {
	register := quantum.NewRegister(2)
	if cmd.Flags().Changed("seed") {
		register.SetRandomSource(quantum.NewSeededSource(rootSeed))
	}

	fmt.Println("--- Bell pair walkthrough ---")
	fmt.Println("Initial state:")
	viz.WriteState(os.Stdout, register)

	register.ApplyHadamard(0)
	fmt.Println("\nAfter Hadamard on qubit 0:")
	viz.WriteState(os.Stdout, register)

	register.ApplyCNOT(0, 1)
	fmt.Println("\nAfter CNOT(0, 1):")
	viz.WriteState(os.Stdout, register)

	fmt.Printf("\nEntanglement(0, 1) = %.4f\n", register.Entanglement(0, 1))

	outcome0, p0 := register.Measure(0)
	fmt.Printf("\nMeasured qubit 0 -> %d (probability %.4f)\n", outcome0, p0)

	outcome1, p1 := register.Measure(1)
	fmt.Printf("Measured qubit 1 -> %d (probability %.4f)\n", outcome1, p1)

	fmt.Println("\nFinal state:")
	viz.WriteState(os.Stdout, register)
}

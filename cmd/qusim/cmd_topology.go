package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/qusimlab/qusim/internal/qsim/entangle"
	"github.com/qusimlab/qusim/internal/qsim/network"
	"github.com/qusimlab/qusim/internal/qsim/quantum"
)

// runTopology is the CLI handler for "qusim topology". It builds the
// network described by the file and reports its layout.
func runTopology(cmd *cobra.Command, args []string) {
	nw, err := network.LoadTopology(args[0])
	if err != nil {
		slog.Error("failed to load topology", "path", args[0], "error", err)
		os.Exit(1)
	}

	if cmd.Flags().Changed("seed") {
		nw.SetRandomSource(quantum.NewSeededSource(rootSeed))
	}

	if cmd.Flags().Changed("optimize") {
		pruned, reconnected := nw.OptimizeTopology(topoOptimize)
		fmt.Printf("Optimized: pruned %d weak links, reconnected %d isolated nodes\n\n", pruned, reconnected)
	}

	printTopology(nw.Topology())

	if topoFidelity {
		printFidelityReport(nw)
	}
}

// printTopology renders the node and link layout.
func printTopology(top network.Topology) {
	fmt.Println("--- Network topology ---")
	fmt.Printf("Capacity: %d qubits\n", top.Capacity)
	fmt.Printf("Channel:  %s\n\n", top.Channel)

	fmt.Printf("Nodes (%d):\n", len(top.Nodes))
	for _, node := range top.Nodes {
		fmt.Printf("  q%d  %-12s %s\n", node.Qubit, node.Name, node.Status)
	}

	fmt.Printf("\nLinks (%d):\n", len(top.Links))
	for _, link := range top.Links {
		fmt.Printf("  q%d -- q%d  strength=%.3f  tier=%s\n",
			link.A, link.B, link.Strength, entangle.TierLabel(link.Strength))
	}
}

// printFidelityReport estimates transmission fidelity over each link.
func printFidelityReport(nw *network.Network) {
	top := nw.Topology()

	byQubit := make(map[int]uuid.UUID, len(top.Nodes))
	for _, node := range top.Nodes {
		byQubit[node.Qubit] = node.ID
	}

	fmt.Printf("\nFidelity (%d trials per pair):\n", topoTrials)
	for _, link := range top.Links {
		fidelity, err := nw.EstimateFidelity(byQubit[link.A], byQubit[link.B], topoTrials)
		if err != nil {
			slog.Warn("fidelity estimate failed", "a", link.A, "b", link.B, "error", err)
			continue
		}
		fmt.Printf("  q%d -- q%d  %.3f\n", link.A, link.B, fidelity)
	}
}

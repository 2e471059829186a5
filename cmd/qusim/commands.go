package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	rootSeed     int64
	debugLogging bool
	runQASM      bool
	runOut       string
	topoOptimize float64
	topoFidelity bool
	topoTrials   int

	rootCmd = &cobra.Command{
		Use:   "qusim",
		Short: "A CLI for the QuSim quantum register simulator",
		Long: `qusim drives the simulator from the terminal: prepare states,
run circuit files, and inspect simulated quantum networks.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debugLogging {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			})))
		},
	}

	bellCmd = &cobra.Command{
		Use:   "bell",
		Short: "Prepare a Bell pair and walk through its collapse",
		Run:   runBell, // Defined in cmd_bell.go
	}

	runCmd = &cobra.Command{
		Use:   "run [circuit file]",
		Short: "Compile and run a circuit file (YAML or JSON)",
		Args:  cobra.ExactArgs(1),
		Run:   runCircuitFile, // Defined in cmd_run.go
	}

	topologyCmd = &cobra.Command{
		Use:   "topology [topology file]",
		Short: "Build a quantum network from a topology file and report on it",
		Args:  cobra.ExactArgs(1),
		Run:   runTopology, // Defined in cmd_topology.go
	}
)

func init() {
	rootCmd.PersistentFlags().Int64Var(&rootSeed, "seed", 0, "Seed for deterministic runs, overrides file seeds")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging and state dumps")

	rootCmd.AddCommand(bellCmd)

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runQASM, "qasm", false, "Print the circuit as OpenQASM 2.0 instead of running it")
	runCmd.Flags().StringVar(&runOut, "out", "", "Write the final state render to a file")

	rootCmd.AddCommand(topologyCmd)
	topologyCmd.Flags().Float64Var(&topoOptimize, "optimize", 0, "Prune links weaker than this and reconnect isolated nodes")
	topologyCmd.Flags().BoolVar(&topoFidelity, "fidelity", false, "Estimate transmission fidelity for each connected pair")
	topologyCmd.Flags().IntVar(&topoTrials, "trials", 200, "Trials per pair for the fidelity estimate")
}

// Package main provides the entry point for the RISC-16 simulator.
// It models a classic 5-stage pipeline running RISC-16 assembly programs.
//
// For the full CLI, use: go run ./cmd/risc16sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("RISC-16 Pipeline Simulator")
	fmt.Println("")
	fmt.Println("Usage: risc16sim [options] <program.s>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing        Enable timing simulation mode")
	fmt.Println("  -trace         Print the pipeline contents after every cycle")
	fmt.Println("  -interactive   Step the timing pipeline from the keyboard")
	fmt.Println("  -config        Path to simulator configuration YAML file")
	fmt.Println("  -write-config  Write the effective configuration and exit")
	fmt.Println("  -mem           Number of data memory bytes to display")
	fmt.Println("  -v             Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/risc16sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/risc16sim' instead.")
	}
}

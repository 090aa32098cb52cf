// Command benchmark runs the RISC-16 timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results as JSON
//	-no-dcache  Disable data cache simulation
//	-flush-wb   Flush the writeback stage on taken control transfers
//	-v          Print final registers for each benchmark
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/risc16sim/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	noDCache := flag.Bool("no-dcache", false, "Disable data cache simulation")
	flushWB := flag.Bool("flush-wb", false, "Flush the writeback stage on taken control transfers")
	verbose := flag.Bool("v", false, "Print final registers for each benchmark")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.EnableDCache = !*noDCache
	config.FlushWriteback = *flushWB
	config.Verbose = *verbose
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(benchmarks.Programs())

	humanReadable := !*csvOutput && !*jsonOutput
	if humanReadable {
		fmt.Println("RISC-16 Timing Benchmark Harness")
		fmt.Println("================================")
		fmt.Printf("D-Cache: %v\n", config.EnableDCache)
		fmt.Printf("Writeback flush: %v\n", config.FlushWriteback)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	failed := 0
	for _, r := range results {
		b, ok := benchmarks.ByName(r.Name)
		if !ok {
			continue
		}
		if err := benchmarks.Verify(b, r); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

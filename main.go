// Package main provides the entry point for cachesim.
// cachesim simulates the placement behavior of a memory cache over a trace
// script.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - Memory Cache Simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim [options] <tracefile>")
	fmt.Println("")
	fmt.Println("Tools:")
	fmt.Println("  ./cmd/cachesim   Run a trace script")
	fmt.Println("  ./cmd/gentrace   Generate fused and unfused loop traces")
	fmt.Println("  ./cmd/benchmark  Sweep the loop traces over loop sizes")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim --help' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}

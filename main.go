// Package main provides the entry point for I960Sim.
// I960Sim is a functional Intel 80960 (i960) emulator.
//
// For the full CLI, use: go run ./cmd/i960sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("I960Sim - Intel 80960 Emulator")
	fmt.Println("")
	fmt.Println("Usage: i960sim [options] <image.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -base      Image placement address")
	fmt.Println("  -entry     Initial instruction pointer")
	fmt.Println("  -trace     Disassemble each instruction to stderr")
	fmt.Println("  -max       Stop after this many instructions")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/i960sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/i960sim' instead.")
	}
}

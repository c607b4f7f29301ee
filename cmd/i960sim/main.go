// Package main provides the entry point for I960Sim.
// I960Sim is a functional Intel 80960 emulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/i960sim/emu"
	"github.com/sarchlab/i960sim/loader"
)

var (
	base    = flag.Uint64("base", 0, "Image placement address")
	entry   = flag.Uint64("entry", 0, "Initial instruction pointer (defaults to base)")
	trace   = flag.Bool("trace", false, "Disassemble each instruction to stderr")
	maxInst = flag.Uint64("max", 0, "Stop after this many instructions (0 = no limit)")
	verbose = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: i960sim [options] <image.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	imagePath := flag.Arg(0)

	start := uint32(*entry)
	if start == 0 {
		start = uint32(*base)
	}

	img, err := loader.Load(imagePath, uint32(*base), start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := []emu.EmulatorOption{
		emu.WithLogger(logger),
		emu.WithMaxInstructions(*maxInst),
	}
	if *trace {
		opts = append(opts, emu.WithTrace(os.Stderr))
	}

	emulator := emu.NewEmulator(opts...)
	emulator.LoadProgram(img.Base, img.Data)
	emulator.RegFile().IP = img.Entry

	if *verbose {
		logger.WithFields(logrus.Fields{
			"image": imagePath,
			"base":  fmt.Sprintf("0x%x", img.Base),
			"entry": fmt.Sprintf("0x%x", img.Entry),
			"size":  len(img.Data),
		}).Info("image loaded")
	}

	err = emulator.Run()

	if *verbose {
		logger.WithField("instructions", emulator.InstructionCount()).
			Info("run finished")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}

// This file is part of Spindle.
//
// Spindle is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Spindle is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Spindle.  If not, see <https://www.gnu.org/licenses/>.

// Spindle simulates a register-controlled PWM peripheral behind an SPI-like
// serial bus, one system-clock tick at a time. The peripheral core lives in
// the hardware package; this program wraps it in a scriptable bench.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mothlab/spindle/bench"
	"github.com/mothlab/spindle/bench/script"
	"github.com/mothlab/spindle/hardware"
	"github.com/mothlab/spindle/logger"
	"github.com/mothlab/spindle/statsview"
	"github.com/mothlab/spindle/trace"
	"github.com/mothlab/spindle/version"
	"github.com/mothlab/spindle/viz"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error

	switch strings.ToUpper(os.Args[1]) {
	case "RUN":
		err = run(os.Args[2:])
	case "MEASURE":
		err = measure(os.Args[2:])
	case "VIZ":
		err = stateGraph(os.Args[2:])
	case "HELP":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "* unknown mode %s\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(1)
	}
}

func usage(output *os.File) {
	vrs, rev := version.Version()
	fmt.Fprintf(output, "%s (%s, %s)\n", version.ApplicationName, vrs, rev)
	fmt.Fprintln(output, "usage: spindle <mode> [flags] [args]")
	fmt.Fprintln(output, "modes: RUN MEASURE VIZ HELP")
	fmt.Fprintln(output, "  RUN <script.lua>   run a Lua bench script against the peripheral")
	fmt.Fprintln(output, "  MEASURE <wav>      measure period/frequency/duty of a recorded waveform")
	fmt.Fprintln(output, "  VIZ                dump the peripheral state graph in dot format")
}

func run(args []string) error {
	flgs := flag.NewFlagSet("run", flag.ExitOnError)
	echo := flgs.Bool("log", false, "echo log entries to stderr as they happen")
	stats := flgs.Bool("statsview", false, "run stats server (requires statsview build tag)")
	wavFile := flgs.String("wav", "", "record the PWM pin to the named WAV file")
	flgs.Parse(args)

	if flgs.NArg() != 1 {
		return fmt.Errorf("run: one bench script required")
	}

	if *echo {
		logger.SetEcho(os.Stderr)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stderr)
		} else {
			fmt.Fprintln(os.Stderr, "statsview not available in this build")
		}
	}

	drv := bench.NewDriver(hardware.NewPeripheral(), bench.DefaultHalfPeriod)

	var rec *trace.WavWriter
	if *wavFile != "" {
		rec = trace.NewWavWriter(*wavFile)
		drv.SetSampler(rec.Sample)
	}

	if err := script.RunWithDriver(flgs.Arg(0), drv, os.Stdout); err != nil {
		// the log usually explains a failed script. dump it unless it was
		// echoed as it happened
		if !*echo {
			logger.Write(os.Stderr)
		}
		return err
	}

	if rec != nil {
		if err := rec.End(); err != nil {
			return err
		}
	}

	return nil
}

func measure(args []string) error {
	flgs := flag.NewFlagSet("measure", flag.ExitOnError)
	flgs.Parse(args)

	if flgs.NArg() != 1 {
		return fmt.Errorf("measure: one WAV file required")
	}

	m, err := trace.Measure(flgs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Println(m)
	return nil
}

func stateGraph(args []string) error {
	flgs := flag.NewFlagSet("viz", flag.ExitOnError)
	flgs.Parse(args)

	per := hardware.NewPeripheral()
	per.Reset()
	return viz.Write(os.Stdout, per)
}

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

// Package trace captures and analyses pin waveforms. A waveform is recorded
// one sample per system-clock tick and written to disk as a WAV file, which
// any audio editor or signal tool can open. The Measure function reads such
// a file back and reports the period, frequency and duty cycle of the
// recorded square wave.
//
// Note that sample data is buffered in memory in its entirety and written to
// disk at the end of the recording. It is therefore only suitable for bench
// runs of bounded length.
package trace

import (
	"fmt"
	"os"

	"github.com/mothlab/spindle/hardware/clocks"
	"github.com/mothlab/spindle/logger"
	"github.com/youpy/go-wav"
)

// sample levels for the two logic states. full scale for an 8-bit WAV
const (
	levelLow  = 0x00
	levelHigh = 0xff
)

// WavWriter records a single-bit pin trace and writes it to disk as an
// 8-bit mono WAV file with one sample per system-clock tick.
type WavWriter struct {
	filename string
	buffer   []wav.Sample
}

// NewWavWriter is the preferred method of initialisation for the WavWriter
// type. Nothing is written to disk until End().
func NewWavWriter(filename string) *WavWriter {
	return &WavWriter{
		filename: filename,
		buffer:   make([]wav.Sample, 0),
	}
}

// Sample appends one tick's pin level to the recording. The function
// signature matches the bench package's Sampler type so a WavWriter can be
// attached to a bench driver directly.
func (wr *WavWriter) Sample(high bool) {
	s := wav.Sample{}
	if high {
		s.Values[0] = levelHigh
		s.Values[1] = levelHigh
	} else {
		s.Values[0] = levelLow
		s.Values[1] = levelLow
	}
	wr.buffer = append(wr.buffer, s)
}

// End writes the buffered recording to disk. The WAV sample rate is the
// system clock frequency, so time in the file reads directly as simulation
// time.
func (wr *WavWriter) End() (rerr error) {
	f, err := os.Create(wr.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(wr.buffer)), 1, uint32(clocks.SystemClockHz), 8)
	if enc == nil {
		return fmt.Errorf("wavwriter: bad parameters for wav encoding")
	}

	logger.Logf("wavwriter", "writing %d samples to %s", len(wr.buffer), wr.filename)
	if err := enc.WriteSamples(wr.buffer); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}

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

package trace

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// logic threshold for 8-bit unsigned samples
const threshold = 0x80

// Measurement is the result of analysing a recorded square wave.
type Measurement struct {
	SampleRate  int
	PeriodTicks int
	HighTicks   int
	Frequency   float64
	Duty        float64
}

func (m Measurement) String() string {
	return fmt.Sprintf("period=%d ticks frequency=%.2fHz duty=%.2f%%",
		m.PeriodTicks, m.Frequency, m.Duty*100)
}

// Measure reads a WAV file recorded by WavWriter and measures the last full
// period of the square wave it contains: the span between the last two
// rising edges, with the duty cycle taken from the falling edge in between.
// The last period is used rather than the first because a bench recording
// begins with the configuration transactions and the waveform the duty
// change cuts into is not representative.
//
// An error is returned if the file holds no settled period, which is what
// happens for a disabled or saturated PWM recording.
func Measure(filename string) (Measurement, error) {
	m := Measurement{}

	f, err := os.Open(filename)
	if err != nil {
		return m, fmt.Errorf("measure: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if dec == nil || !dec.IsValidFile() {
		return m, fmt.Errorf("measure: %s is not a valid wav file", filename)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return m, fmt.Errorf("measure: %w", err)
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return m, fmt.Errorf("measure: %s contains no samples", filename)
	}
	m.SampleRate = buf.Format.SampleRate

	high := func(i int) bool {
		return buf.Data[i] >= threshold
	}

	var rising []int
	for i := 1; i < len(buf.Data); i++ {
		if !high(i-1) && high(i) {
			rising = append(rising, i)
		}
	}

	// three rising edges guarantee the measured period does not border the
	// startup transient
	if len(rising) < 3 {
		return m, fmt.Errorf("measure: no settled period in %s", filename)
	}
	start := rising[len(rising)-2]
	end := rising[len(rising)-1]

	falling := -1
	for i := start + 1; i < end; i++ {
		if high(i-1) && !high(i) {
			falling = i
			break
		}
	}
	if falling == -1 {
		return m, fmt.Errorf("measure: no falling edge in %s", filename)
	}

	m.PeriodTicks = end - start
	m.HighTicks = falling - start
	m.Frequency = float64(m.SampleRate) / float64(m.PeriodTicks)
	m.Duty = float64(m.HighTicks) / float64(m.PeriodTicks)

	return m, nil
}

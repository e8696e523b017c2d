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

// Package test contains the helper functions used by Spindle's unit tests.
package test

import (
	"math"
	"testing"
)

// ExpectEquality is used to test equality between one value and another.
func ExpectEquality[T comparable](t *testing.T, value T, expected T) {
	t.Helper()
	if value != expected {
		t.Errorf("equality test of type %T failed: %v does not equal %v", value, value, expected)
	}
}

// ExpectInequality is used to test that one value is not equal to another.
func ExpectInequality[T comparable](t *testing.T, value T, expected T) {
	t.Helper()
	if value == expected {
		t.Errorf("inequality test of type %T failed: %v does equal %v", value, value, expected)
	}
}

// ExpectApproximate is used to test that a value is within a tolerance of an
// expected value. The tolerance is absolute.
func ExpectApproximate(t *testing.T, value float64, expected float64, tolerance float64) {
	t.Helper()
	if math.Abs(value-expected) > tolerance {
		t.Errorf("approximation test failed: %v is not within %v of %v", value, tolerance, expected)
	}
}

// ExpectSuccess tests that an error value is nil.
func ExpectSuccess(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("success test failed: %v", err)
	}
}

// ExpectFailure tests that an error value is not nil.
func ExpectFailure(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Errorf("failure test failed: error is nil")
	}
}

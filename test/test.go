// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package test collects small assertion helpers shared by this module's
// test files, in place of ad-hoc "if got != want { t.Fatalf(...) }" blocks.
package test

import (
	"fmt"
	"testing"
)

// failed reports whether v represents a failure: a non-nil error or a false
// bool. A value of any other type never counts as a failure.
func failed(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return !x
	case error:
		return x != nil
	default:
		return false
	}
}

// ExpectSuccess fails the test if v represents a failure (a non-nil error or
// a false bool).
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if failed(v) {
		t.Errorf("unexpected failure: %v", v)
	}
}

// ExpectFailure fails the test if v does NOT represent a failure.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if !failed(v) {
		t.Errorf("expected failure, got: %v", v)
	}
}

// ExpectEquality fails the test if got and want are not equal, as reported
// by fmt's Go-syntax formatting (%#v), which is sufficient for the
// comparable and struct values used throughout this module's tests.
func ExpectEquality(t *testing.T, got, want interface{}) {
	t.Helper()
	if fmt.Sprintf("%#v", got) != fmt.Sprintf("%#v", want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// ExpectInequality fails the test if got and want are equal.
func ExpectInequality(t *testing.T, got, want interface{}) {
	t.Helper()
	if fmt.Sprintf("%#v", got) == fmt.Sprintf("%#v", want) {
		t.Errorf("got %v, did not want %v", got, want)
	}
}

// ExpectApproximate fails the test if got is not within tolerance of want,
// expressed as a fraction of want (e.g. tolerance 0.1 allows up to 10%
// relative error).
func ExpectApproximate(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	bound := want * tolerance
	if bound < 0 {
		bound = -bound
	}
	if diff > bound {
		t.Errorf("got %v, want %v (+/- %v%%)", got, want, tolerance*100)
	}
}

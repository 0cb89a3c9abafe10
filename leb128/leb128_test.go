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

package leb128_test

import (
	"testing"

	"github.com/xobs/tasru/leb128"
	"github.com/xobs/tasru/test"
)

func TestDecodeULEB128(t *testing.T) {
	// examples from the DWARF4 standard, figure 22
	cases := []struct {
		encoded []uint8
		want    uint64
		wantN   int
	}{
		{[]uint8{0x02}, 2, 1},
		{[]uint8{0x7f}, 127, 1},
		{[]uint8{0x80, 0x01}, 128, 2},
		{[]uint8{0x81, 0x01}, 129, 2},
		{[]uint8{0x82, 0x01}, 130, 2},
		{[]uint8{0xb9, 0x64}, 12857, 2},
	}
	for _, c := range cases {
		v, n := leb128.DecodeULEB128(c.encoded)
		test.ExpectEquality(t, v, c.want)
		test.ExpectEquality(t, n, c.wantN)
	}
}

func TestDecodeSLEB128(t *testing.T) {
	// examples from the DWARF4 standard, figure 23
	cases := []struct {
		encoded []uint8
		want    int64
		wantN   int
	}{
		{[]uint8{0x02}, 2, 1},
		{[]uint8{0x7e}, -2, 1},
		{[]uint8{0xff, 0x00}, 127, 2},
		{[]uint8{0x81, 0x7f}, -127, 2},
		{[]uint8{0x80, 0x01}, 128, 2},
		{[]uint8{0x80, 0x7f}, -128, 2},
	}
	for _, c := range cases {
		v, n := leb128.DecodeSLEB128(c.encoded)
		test.ExpectEquality(t, v, c.want)
		test.ExpectEquality(t, n, c.wantN)
	}
}

func TestDecodeConsumesOnlyOneValue(t *testing.T) {
	// trailing bytes belong to the next operand and are left untouched
	v, n := leb128.DecodeULEB128([]uint8{0x08, 0xff, 0xff})
	test.ExpectEquality(t, v, uint64(8))
	test.ExpectEquality(t, n, 1)
}

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

package tasru

import (
	"testing"

	"github.com/xobs/tasru/test"
)

func TestWideReadComposition(t *testing.T) {
	mem := memImage{base: 0x100, bytes: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}}

	v16, err := readU16(mem, 0x100)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v16, uint16(0x0201))

	v32, err := readU32(mem, 0x100)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v32, uint32(0x04030201))

	v64, err := readU64(mem, 0x100)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v64, uint64(0x0807060504030201))
}

func TestReadSized(t *testing.T) {
	mem := memImage{base: 0x100, bytes: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}}

	v, err := readSized(mem, 0x100, 1)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint64(0x01))

	v, err = readSized(mem, 0x100, 4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint64(0x04030201))

	_, err = readSized(mem, 0x100, 3)
	test.ExpectFailure(t, err)
	if _, ok := err.(*ErrSize); !ok {
		t.Errorf("expected *ErrSize, got %T", err)
	}
}

// countingWideReader overrides ReadU32 and records that the override was
// preferred over the byte-by-byte composition.
type countingWideReader struct {
	memImage
	wideCalls int
}

func (r *countingWideReader) ReadU32(address MemoryLocation) (uint32, error) {
	r.wideCalls++
	return readU32(r.memImage, address)
}

func TestWideOverridePreferred(t *testing.T) {
	r := &countingWideReader{memImage: memImage{base: 0x100, bytes: []byte{0x01, 0x02, 0x03, 0x04}}}

	v, err := readU32(r, 0x100)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0x04030201))
	test.ExpectEquality(t, r.wideCalls, 1)
}

// batchingReader records Begin/Finish hints around a bulk read.
type batchingReader struct {
	memImage
	begun    int
	finished int
}

func (r *batchingReader) Begin() error { r.begun++; return nil }
func (r *batchingReader) Finish()      { r.finished++ }

func TestReadRawBatchHints(t *testing.T) {
	d := newFixtureInfo()
	s, err := d.structureAt(itemStruct, 0x2000)
	test.ExpectSuccess(t, err)

	r := &batchingReader{memImage: memImage{base: 0x2000, bytes: make([]byte, 8)}}
	_, err = s.ReadRaw(r)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.begun, 1)
	test.ExpectEquality(t, r.finished, 1)
}

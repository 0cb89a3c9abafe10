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
	"strings"
	"testing"

	"github.com/xobs/tasru/test"
)

func TestDumpWalksVariableShape(t *testing.T) {
	d := newFixtureInfo()

	var b strings.Builder
	d.Dump(&b)
	out := b.String()

	test.ExpectSuccess(t, strings.Contains(out, "app::origin @ 0x002000"))
	test.ExpectSuccess(t, strings.Contains(out, "struct Point (8 bytes)"))
	test.ExpectSuccess(t, strings.Contains(out, ".x @ +0"))
	test.ExpectSuccess(t, strings.Contains(out, ".y @ +4"))
	test.ExpectSuccess(t, strings.Contains(out, "u32 (4 bytes)"))
}

func TestDumpRecursiveTypeTerminates(t *testing.T) {
	u := newUnitInfo(4)
	itemNode := DebugItem(0x400)
	itemNext := DebugItem(0x404)
	u.structures = []Structure{{
		Item:      itemNode,
		Name:      "Node",
		SizeBytes: 4,
		Members:   []StructureMember{{Name: "next", Kind: itemNext, Offset: 0}},
	}}
	u.structureByItem[itemNode] = 0
	u.pointers = []Pointer{{Item: itemNext, Name: "*Node", Pointee: itemNode}}
	u.pointerByItem[itemNext] = 0

	v := Variable{QualifiedName: "head", Kind: itemNode, Location: 0x1000}
	u.variables = append(u.variables, v)

	d := &DebugInfo{
		itemLocation:            make(map[DebugItem]location),
		variableByQualifiedName: map[string]location{"head": {unit: 0, idx: 0}},
	}
	d.units = append(d.units, u)
	for _, item := range u.allDebugItems() {
		d.itemLocation[item] = location{unit: 0}
	}

	var b strings.Builder
	d.Dump(&b)
	test.ExpectSuccess(t, strings.Contains(b.String(), "<recursive reference>"))
}

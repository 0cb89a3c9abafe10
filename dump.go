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
	"fmt"
	"io"
	"sort"
)

// Dump writes a plain-text tree of every variable this registry resolved,
// each followed by its static type shape, to w. It is a diagnostic aid, not
// a stable machine-readable format.
func (d *DebugInfo) Dump(w io.Writer) {
	names := make([]string, 0, len(d.variableByQualifiedName))
	for name := range d.variableByQualifiedName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		loc := d.variableByQualifiedName[name]
		v := d.units[loc.unit].variables[loc.idx]
		fmt.Fprintf(w, "%s @ %#06x\n", v.QualifiedName, uint64(v.Location))
		if v.LinkageName != "" {
			fmt.Fprintf(w, "  linkage: %s\n", v.LinkageName)
		}
		d.dumpKind(w, v.Kind, "  ", make(map[DebugItem]bool))
	}
}

// dumpKind recursively describes a kind's shape. seen guards against
// self-referential structures (a pointer back to its own owning type)
// recursing forever.
func (d *DebugInfo) dumpKind(w io.Writer, item DebugItem, indent string, seen map[DebugItem]bool) {
	if item == zeroItem {
		fmt.Fprintf(w, "%s<unresolved>\n", indent)
		return
	}
	if seen[item] {
		fmt.Fprintf(w, "%s<recursive reference>\n", indent)
		return
	}
	seen[item] = true

	if u, idx, ok := d.lookupBaseType(item); ok {
		bt := u.baseTypes[idx]
		fmt.Fprintf(w, "%s%s (%d bytes)\n", indent, bt.Name, bt.SizeBytes)
		return
	}
	if u, idx, ok := d.lookupPointer(item); ok {
		p := u.pointers[idx]
		fmt.Fprintf(w, "%s*%s\n", indent, p.Name)
		d.dumpKind(w, p.Pointee, indent+"  ", seen)
		return
	}
	if u, idx, ok := d.lookupArray(item); ok {
		a := u.arrays[idx]
		fmt.Fprintf(w, "%s[%d]\n", indent, a.Count)
		d.dumpKind(w, a.Element, indent+"  ", seen)
		return
	}
	if u, idx, ok := d.lookupStructure(item); ok {
		s := u.structures[idx]
		fmt.Fprintf(w, "%sstruct %s (%d bytes)\n", indent, s.Name, s.SizeBytes)
		for _, m := range s.Members {
			fmt.Fprintf(w, "%s  .%s @ +%d\n", indent, m.Name, int64(m.Offset))
			d.dumpKind(w, m.Kind, indent+"    ", seen)
		}
		return
	}
	if u, idx, ok := d.lookupUnion(item); ok {
		un := u.unions[idx]
		fmt.Fprintf(w, "%sunion %s (%d bytes)\n", indent, un.Name, un.SizeBytes)
		for _, m := range un.Members {
			fmt.Fprintf(w, "%s  .%s\n", indent, m.Name)
			d.dumpKind(w, m.Kind, indent+"    ", seen)
		}
		return
	}
	if u, idx, ok := d.lookupEnumeration(item); ok {
		e := u.enumerations[idx]
		fmt.Fprintf(w, "%senum %s (%d bytes)\n", indent, e.Name, e.SizeBytes)
		for _, v := range e.Variants {
			if v.Discriminant != nil {
				fmt.Fprintf(w, "%s  variant %s = %d\n", indent, v.Name, *v.Discriminant)
			} else {
				fmt.Fprintf(w, "%s  variant %s (niche)\n", indent, v.Name)
			}
			d.dumpKind(w, v.Kind, indent+"    ", seen)
		}
		return
	}

	fmt.Fprintf(w, "%s<unknown kind %#x>\n", indent, uint64(item))
}

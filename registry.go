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
	"debug/dwarf"
	"debug/elf"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xobs/tasru/logger"
)

// location identifies where a DebugItem lives: which unit, and that unit's
// local vector index.
type location struct {
	unit int
	idx  int
}

// DebugInfo is the cross-unit registry produced by Open: every DebugItem a
// binary's compilation units registered, mapped back to the unit that owns
// it. It is immutable after construction and safe for concurrent read-only
// use by any number of goroutines.
type DebugInfo struct {
	units []*unitInfo

	itemLocation map[DebugItem]location

	variableByLinkageName   map[string]location
	variableByDemangled     map[string]location
	variableByQualifiedName map[string]location

	log *logger.Logger
}

// Open reads the ELF file at path, extracts its DWARF debug information, and
// walks every compilation unit to build the type-and-variable graph. The
// returned DebugInfo owns no further reference to the file; elf.File is
// closed before Open returns.
func Open(path string) (*DebugInfo, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dwrf, err := f.DWARF()
	if err != nil {
		return nil, fmt.Errorf("reading DWARF from %s: %w", path, err)
	}

	return build(dwrf, logger.Default)
}

// build walks every compilation unit in dwrf and assembles the cross-unit
// registry. It is split out from Open so tests can exercise it against a
// *dwarf.Data built directly from a synthetic section, without needing a
// real ELF file on disk.
func build(dwrf *dwarf.Data, log *logger.Logger) (*DebugInfo, error) {
	if log == nil {
		log = logger.Default
	}

	info := &DebugInfo{
		itemLocation:            make(map[DebugItem]location),
		variableByLinkageName:   make(map[string]location),
		variableByDemangled:     make(map[string]location),
		variableByQualifiedName: make(map[string]location),
		log:                     log,
	}

	r := dwrf.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}
		if entry.Tag != dwarf.TagCompileUnit {
			continue
		}

		unit, err := buildUnit(dwrf, r, entry, log)
		if err != nil {
			return nil, fmt.Errorf("building compilation unit %q: %w", cuName(entry), err)
		}

		unitIdx := len(info.units)
		info.units = append(info.units, unit)

		for _, item := range unit.allDebugItems() {
			if _, exists := info.itemLocation[item]; exists {
				panic(fmt.Sprintf("DebugItem %#x registered by more than one compilation unit", uint64(item)))
			}
			info.itemLocation[item] = location{unit: unitIdx, idx: 0}
		}

		for name, idx := range unit.variableByQualifiedName {
			info.variableByQualifiedName[name] = location{unit: unitIdx, idx: idx}
		}
		for name, idx := range unit.variableByLinkageName {
			info.variableByLinkageName[name] = location{unit: unitIdx, idx: idx}
		}
		for name, idx := range unit.variableByDemangled {
			if _, exists := info.variableByDemangled[name]; !exists {
				info.variableByDemangled[name] = location{unit: unitIdx, idx: idx}
			}
		}
	}

	return info, nil
}

func cuName(entry *dwarf.Entry) string {
	if name, ok := attrString(entry, dwarf.AttrName); ok {
		return name
	}
	return "<unknown>"
}

// splitQualifiedName implements the name-splitting lookup rule: a query
// may name a variable either by its fully qualified path ("foo::bar::baz")
// or by its final segment alone ("baz"), the latter matching provided it
// is unambiguous across every unit.
func splitQualifiedName(name string) []string {
	return strings.Split(name, "::")
}

func lastSegment(name string) string {
	parts := splitQualifiedName(name)
	return parts[len(parts)-1]
}

// VariableFromName resolves name to a variable, first as an exact qualified
// path, falling back to a final-segment match. A final-segment match that is
// ambiguous across the registry fails with ErrMultipleMatches.
func (d *DebugInfo) VariableFromName(name string) (DebugVariable, error) {
	if loc, ok := d.variableByQualifiedName[name]; ok {
		return d.variableAt(loc), nil
	}

	segment := lastSegment(name)
	var match *location
	for qualified, loc := range d.variableByQualifiedName {
		if lastSegment(qualified) != segment {
			continue
		}
		if match != nil {
			return DebugVariable{}, &ErrMultipleMatches{Name: name}
		}
		l := loc
		match = &l
	}
	if match == nil {
		return DebugVariable{}, &ErrVariableNotFound{Path: name}
	}
	return d.variableAt(*match), nil
}

// VariableFromDemangledName resolves name against the demangled form of
// every variable's linkage name.
func (d *DebugInfo) VariableFromDemangledName(name string) (DebugVariable, error) {
	loc, ok := d.variableByDemangled[name]
	if !ok {
		return DebugVariable{}, &ErrVariableNotFound{Path: name}
	}
	return d.variableAt(loc), nil
}

func (d *DebugInfo) variableAt(loc location) DebugVariable {
	v := d.units[loc.unit].variables[loc.idx]
	return DebugVariable{info: d, variable: v}
}

// structureAt resolves a DebugItem believed to name a structure, paired
// with the address its instance occupies. It is the descent step every
// structure-typed cursor operation bottoms out in.
func (d *DebugInfo) structureAt(item DebugItem, address MemoryLocation) (DebugStructure, error) {
	unit, idx, ok := d.lookupStructure(item)
	if !ok {
		return DebugStructure{}, &ErrStructureNotFound{Owner: fmt.Sprintf("%#x", uint64(item))}
	}
	s := unit.structures[idx]
	return DebugStructure{info: d, structure: s, address: address, hasAddress: true}, nil
}

// enumerationAt is structureAt for enumerations.
func (d *DebugInfo) enumerationAt(item DebugItem, address MemoryLocation) (DebugEnumeration, error) {
	unit, idx, ok := d.lookupEnumeration(item)
	if !ok {
		return DebugEnumeration{}, &ErrEnumerationNotFound{Owner: fmt.Sprintf("%#x", uint64(item))}
	}
	e := unit.enumerations[idx]
	return DebugEnumeration{info: d, enumeration: e, address: address, hasAddress: true}, nil
}

// unionAt is structureAt for unions.
func (d *DebugInfo) unionAt(item DebugItem, address MemoryLocation) (DebugUnion, error) {
	unit, idx, ok := d.lookupUnion(item)
	if !ok {
		return DebugUnion{}, &ErrUnionNotFound{Owner: fmt.Sprintf("%#x", uint64(item))}
	}
	u := unit.unions[idx]
	return DebugUnion{info: d, union: u, address: address, hasAddress: true}, nil
}

// splitNamespaceAndName implements the name-splitting rule used by the
// qualified-name type lookups below:
//  1. a leading character that isn't alphabetic or '_' forces "no namespace";
//  2. a "dyn " prefix forces "no namespace";
//  3. otherwise the name is split at the last "::" found before the first
//     '<', so generic arguments never contribute a split point.
// If no split point is found, namespace is "" and local is the whole name.
func splitNamespaceAndName(name string) (namespace, local string) {
	if name == "" {
		return "", name
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) && first != '_' {
		return "", name
	}
	if strings.HasPrefix(name, "dyn ") {
		return "", name
	}
	head := name
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		head = name[:idx]
	}
	idx := strings.LastIndex(head, "::")
	if idx < 0 {
		return "", name
	}
	return head[:idx], name[idx+2:]
}

// StructureFromTypeAtAddress resolves name via the name-splitting lookup
// rule (splitNamespaceAndName), scanning every registered structure for a
// namespace+local match, and binds the result to address.
func (d *DebugInfo) StructureFromTypeAtAddress(name string, address MemoryLocation) (DebugStructure, error) {
	wantNS, wantLocal := splitNamespaceAndName(name)
	for _, u := range d.units {
		for _, s := range u.structures {
			ns, local := splitNamespaceAndName(s.Name)
			if ns == wantNS && local == wantLocal {
				return DebugStructure{info: d, structure: s, address: address, hasAddress: true}, nil
			}
		}
	}
	return DebugStructure{}, &ErrStructureNotFound{Owner: name}
}

// EnumerationFromTypeAtAddress is StructureFromTypeAtAddress for enumerations.
func (d *DebugInfo) EnumerationFromTypeAtAddress(name string, address MemoryLocation) (DebugEnumeration, error) {
	wantNS, wantLocal := splitNamespaceAndName(name)
	for _, u := range d.units {
		for _, e := range u.enumerations {
			ns, local := splitNamespaceAndName(e.Name)
			if ns == wantNS && local == wantLocal {
				return DebugEnumeration{info: d, enumeration: e, address: address, hasAddress: true}, nil
			}
		}
	}
	return DebugEnumeration{}, &ErrEnumerationNotFound{Owner: name}
}

// UnionFromTypeAtAddress is StructureFromTypeAtAddress for unions.
func (d *DebugInfo) UnionFromTypeAtAddress(name string, address MemoryLocation) (DebugUnion, error) {
	wantNS, wantLocal := splitNamespaceAndName(name)
	for _, u := range d.units {
		for _, un := range u.unions {
			ns, local := splitNamespaceAndName(un.Name)
			if ns == wantNS && local == wantLocal {
				return DebugUnion{info: d, union: un, address: address, hasAddress: true}, nil
			}
		}
	}
	return DebugUnion{}, &ErrUnionNotFound{Owner: name}
}

// StructureFromItem is the O(1) per-kind lookup dispatching item to its
// owning unit, with no address bound: the returned cursor's
// address-dependent operations fail with ErrLocationMissing until the
// caller binds a location (for instance via a variable or member descent).
func (d *DebugInfo) StructureFromItem(item DebugItem) (DebugStructure, error) {
	u, idx, ok := d.lookupStructure(item)
	if !ok {
		return DebugStructure{}, &ErrStructureNotFound{Owner: fmt.Sprintf("%#x", uint64(item))}
	}
	return DebugStructure{info: d, structure: u.structures[idx]}, nil
}

// EnumerationFromItem is StructureFromItem for enumerations.
func (d *DebugInfo) EnumerationFromItem(item DebugItem) (DebugEnumeration, error) {
	u, idx, ok := d.lookupEnumeration(item)
	if !ok {
		return DebugEnumeration{}, &ErrEnumerationNotFound{Owner: fmt.Sprintf("%#x", uint64(item))}
	}
	return DebugEnumeration{info: d, enumeration: u.enumerations[idx]}, nil
}

// UnionFromItem is StructureFromItem for unions.
func (d *DebugInfo) UnionFromItem(item DebugItem) (DebugUnion, error) {
	u, idx, ok := d.lookupUnion(item)
	if !ok {
		return DebugUnion{}, &ErrUnionNotFound{Owner: fmt.Sprintf("%#x", uint64(item))}
	}
	return DebugUnion{info: d, union: u.unions[idx]}, nil
}

// ArrayFromItem is StructureFromItem for arrays.
func (d *DebugInfo) ArrayFromItem(item DebugItem) (DebugArray, error) {
	u, idx, ok := d.lookupArray(item)
	if !ok {
		return DebugArray{}, &ErrArrayNotFound{Owner: fmt.Sprintf("%#x", uint64(item))}
	}
	return DebugArray{info: d, array: u.arrays[idx], owner: fmt.Sprintf("%#x", uint64(item))}, nil
}

// PointerFromItem is StructureFromItem for pointers.
func (d *DebugInfo) PointerFromItem(item DebugItem) (DebugPointer, error) {
	owner := fmt.Sprintf("%#x", uint64(item))
	u, idx, ok := d.lookupPointer(item)
	if !ok {
		return DebugPointer{}, &ErrKindIncorrect{Owner: owner, Attempted: "pointer", Actual: d.kindName(item)}
	}
	return DebugPointer{info: d, pointer: u.pointers[idx], owner: owner}, nil
}

// BaseTypeFromItem is StructureFromItem for base types.
func (d *DebugInfo) BaseTypeFromItem(item DebugItem) (DebugBaseType, error) {
	owner := fmt.Sprintf("%#x", uint64(item))
	u, idx, ok := d.lookupBaseType(item)
	if !ok {
		return DebugBaseType{}, &ErrKindIncorrect{Owner: owner, Attempted: "base type", Actual: d.kindName(item)}
	}
	return DebugBaseType{info: d, baseType: u.baseTypes[idx], owner: owner}, nil
}

// VariableFromItem resolves item to the variable DIE that registered it,
// already bound to that variable's own declared location.
func (d *DebugInfo) VariableFromItem(item DebugItem) (DebugVariable, error) {
	loc, ok := d.itemLocation[item]
	if !ok {
		return DebugVariable{}, &ErrVariableNotFound{Path: fmt.Sprintf("%#x", uint64(item))}
	}
	u := d.units[loc.unit]
	idx, ok := u.variableByItem[item]
	if !ok {
		return DebugVariable{}, &ErrVariableNotFound{Path: fmt.Sprintf("%#x", uint64(item))}
	}
	return DebugVariable{info: d, variable: u.variables[idx]}, nil
}

func (d *DebugInfo) lookupStructure(item DebugItem) (*unitInfo, int, bool) {
	loc, ok := d.itemLocation[item]
	if !ok {
		return nil, 0, false
	}
	u := d.units[loc.unit]
	idx, ok := u.structureByItem[item]
	return u, idx, ok
}

func (d *DebugInfo) lookupEnumeration(item DebugItem) (*unitInfo, int, bool) {
	loc, ok := d.itemLocation[item]
	if !ok {
		return nil, 0, false
	}
	u := d.units[loc.unit]
	idx, ok := u.enumerationByItem[item]
	return u, idx, ok
}

func (d *DebugInfo) lookupUnion(item DebugItem) (*unitInfo, int, bool) {
	loc, ok := d.itemLocation[item]
	if !ok {
		return nil, 0, false
	}
	u := d.units[loc.unit]
	idx, ok := u.unionByItem[item]
	return u, idx, ok
}

func (d *DebugInfo) lookupArray(item DebugItem) (*unitInfo, int, bool) {
	loc, ok := d.itemLocation[item]
	if !ok {
		return nil, 0, false
	}
	u := d.units[loc.unit]
	idx, ok := u.arrayByItem[item]
	return u, idx, ok
}

func (d *DebugInfo) lookupPointer(item DebugItem) (*unitInfo, int, bool) {
	loc, ok := d.itemLocation[item]
	if !ok {
		return nil, 0, false
	}
	u := d.units[loc.unit]
	idx, ok := u.pointerByItem[item]
	return u, idx, ok
}

func (d *DebugInfo) lookupBaseType(item DebugItem) (*unitInfo, int, bool) {
	loc, ok := d.itemLocation[item]
	if !ok {
		return nil, 0, false
	}
	u := d.units[loc.unit]
	idx, ok := u.baseTypeByItem[item]
	return u, idx, ok
}

// kindName reports the human-readable kind name for a DebugItem, used to
// build ErrKindIncorrect messages.
func (d *DebugInfo) kindName(item DebugItem) string {
	if item == zeroItem {
		return "<none>"
	}
	if _, _, ok := d.lookupStructure(item); ok {
		return "structure"
	}
	if _, _, ok := d.lookupEnumeration(item); ok {
		return "enumeration"
	}
	if _, _, ok := d.lookupUnion(item); ok {
		return "union"
	}
	if _, _, ok := d.lookupArray(item); ok {
		return "array"
	}
	if _, _, ok := d.lookupPointer(item); ok {
		return "pointer"
	}
	if _, _, ok := d.lookupBaseType(item); ok {
		return "base type"
	}
	return "<unresolvable>"
}

// SizeFromItem returns the stored size_bytes for a structure, enumeration,
// union, or base type. Size is deferred/unknown at this layer for arrays
// and pointers, so both report (0, false).
func (d *DebugInfo) SizeFromItem(item DebugItem) (int64, bool) {
	if u, idx, ok := d.lookupStructure(item); ok {
		return u.structures[idx].SizeBytes, true
	}
	if u, idx, ok := d.lookupEnumeration(item); ok {
		return u.enumerations[idx].SizeBytes, true
	}
	if u, idx, ok := d.lookupUnion(item); ok {
		return u.unions[idx].SizeBytes, true
	}
	if u, idx, ok := d.lookupBaseType(item); ok {
		return u.baseTypes[idx].SizeBytes, true
	}
	return 0, false
}

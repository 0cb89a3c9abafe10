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

// Variable is a named, located entity with a resolvable kind. Variables
// with an unresolvable name, kind, or location are dropped during the
// build and never appear here. Item is the variable DIE's own identity,
// distinct from Kind (the DebugItem of its type).
type Variable struct {
	Item          DebugItem
	QualifiedName string
	LinkageName   string
	DemangledName string
	Kind          DebugItem
	Location      MemoryLocation
	DeclFile      string
	DeclLine      int64
	hasDeclLine   bool
}

// HasDeclLine reports whether a decl_line attribute was present.
func (v Variable) HasDeclLine() bool { return v.hasDeclLine }

// BaseType is a leaf of the type graph: a scalar with a name and size.
type BaseType struct {
	Item      DebugItem
	Name      string
	SizeBytes int64
}

// Pointer references another entity by kind. Its own size is the target's
// pointer width, which this implementation treats as always 32 bits.
type Pointer struct {
	Item    DebugItem
	Name    string
	Pointee DebugItem
}

// Array is a fixed-count sequence of a single element kind.
type Array struct {
	Item       DebugItem
	Element    DebugItem
	LowerBound int64
	Count      int64
}

// StructureMember is one field of a Structure or Union.
type StructureMember struct {
	Name   string
	Kind   DebugItem
	Offset StructOffset
}

// Structure is an ordered product type. ContainingType captures the DWARF
// containing_type back-link some compilers emit for the body-struct of an
// enum (used only diagnostically here; promotion is driven by variant_part
// presence, not by this field).
type Structure struct {
	Item           DebugItem
	Name           string
	SizeBytes      int64
	Members        []StructureMember
	ContainingType DebugItem
}

// Union is a product type whose members conventionally all sit at offset 0.
type Union struct {
	Item      DebugItem
	Name      string
	SizeBytes int64
	Members   []StructureMember
}

// EnumerationVariant is one arm of a tagged sum. Discriminant is nil for
// the niche/default variant, selected when a read tag matches no
// enumerated value.
type EnumerationVariant struct {
	Name         string
	Discriminant *uint64
	Kind         DebugItem
	Offset       StructOffset
}

// Enumeration is a tagged sum type, recognized by a variant_part child of a
// structure_type DIE and promoted from a Structure during the build.
type Enumeration struct {
	Item                DebugItem
	Name                string
	SizeBytes           int64
	DiscriminantKind    DebugItem
	DiscriminantOffset  StructOffset
	Variants            []EnumerationVariant
}

// discriminantResolved reports whether the discriminant member DIE was
// actually visited, as opposed to still carrying the build-time sentinel.
func (e Enumeration) discriminantResolved() bool {
	return e.DiscriminantKind != zeroItem
}

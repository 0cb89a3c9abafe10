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

import "fmt"

// This file implements the navigation facade: a family of small,
// id-carrying cursor values returned by DebugInfo and by one another as
// callers descend through the type graph. None of them read memory on
// construction; a Reader is only consulted by the operations that take one
// (Read, ReadRaw, Follow and its variants, Pointee, Variant, AsSlice).

// DebugVariable is a cursor onto a named, located variable.
type DebugVariable struct {
	info     *DebugInfo
	variable Variable
}

func (v DebugVariable) Name() string          { return v.variable.QualifiedName }
func (v DebugVariable) LinkageName() string   { return v.variable.LinkageName }
func (v DebugVariable) DemangledName() string { return v.variable.DemangledName }
func (v DebugVariable) DeclFile() string      { return v.variable.DeclFile }
func (v DebugVariable) DeclLine() (int64, bool) {
	return v.variable.DeclLine, v.variable.HasDeclLine()
}
func (v DebugVariable) Kind() DebugItem           { return v.variable.Kind }
func (v DebugVariable) Location() MemoryLocation  { return v.variable.Location }

// AsStructure descends into the variable's kind as a structure, anchored at
// the variable's own address.
func (v DebugVariable) AsStructure() (DebugStructure, error) {
	return v.info.structureAt(v.variable.Kind, v.variable.Location)
}

// AsEnumeration descends into the variable's kind as an enumeration.
func (v DebugVariable) AsEnumeration() (DebugEnumeration, error) {
	return v.info.enumerationAt(v.variable.Kind, v.variable.Location)
}

// AsUnion descends into the variable's kind as a union.
func (v DebugVariable) AsUnion() (DebugUnion, error) {
	return v.info.unionAt(v.variable.Kind, v.variable.Location)
}

// AsArray descends into the variable's kind as an array.
func (v DebugVariable) AsArray() (DebugArray, error) {
	return arrayAt(v.info, v.variable.Kind, v.variable.Location, v.variable.QualifiedName)
}

// AsPointer descends into the variable's kind as a pointer.
func (v DebugVariable) AsPointer() (DebugPointer, error) {
	return pointerAt(v.info, v.variable.Kind, v.variable.Location, v.variable.QualifiedName)
}

// AsBaseType descends into the variable's kind as a scalar.
func (v DebugVariable) AsBaseType() (DebugBaseType, error) {
	return baseTypeAt(v.info, v.variable.Kind, v.variable.Location, v.variable.QualifiedName)
}

// Read reads the variable's value through reader, using its resolved
// base-type width.
func (v DebugVariable) Read(reader Reader) (uint64, error) {
	bt, err := v.AsBaseType()
	if err != nil {
		return 0, err
	}
	return bt.Read(reader)
}

// DebugStructure is a cursor onto a structure instance. hasAddress is false
// for a cursor obtained from StructureFromItem, which names the type but
// binds no instance location.
type DebugStructure struct {
	info       *DebugInfo
	structure  Structure
	address    MemoryLocation
	hasAddress bool
}

func (s DebugStructure) Name() string          { return s.structure.Name }
func (s DebugStructure) Address() MemoryLocation { return s.address }
func (s DebugStructure) Size() int64           { return s.structure.SizeBytes }

// Member resolves a field by name to a cursor anchored at the struct's
// address plus the field's offset.
func (s DebugStructure) Member(name string) (DebugStructureMember, error) {
	if !s.hasAddress {
		return DebugStructureMember{}, &ErrLocationMissing{Owner: s.structure.Name}
	}
	for _, m := range s.structure.Members {
		if m.Name == name {
			return DebugStructureMember{
				info:    s.info,
				owner:   s.structure.Name,
				member:  m,
				address: s.address.Add(m.Offset),
			}, nil
		}
	}
	return DebugStructureMember{}, &ErrMemberNotFound{Owner: s.structure.Name, Member: name}
}

// Members lists every field cursor in declaration order. Returns nil if the
// structure has no bound address.
func (s DebugStructure) Members() []DebugStructureMember {
	if !s.hasAddress {
		return nil
	}
	out := make([]DebugStructureMember, 0, len(s.structure.Members))
	for _, m := range s.structure.Members {
		out = append(out, DebugStructureMember{
			info:    s.info,
			owner:   s.structure.Name,
			member:  m,
			address: s.address.Add(m.Offset),
		})
	}
	return out
}

// AsSlice interprets this structure as the conventional two-field Rust
// slice layout (a data pointer member and a base-type length member, in
// either declaration order), the shape `&[T]` and `Vec<T>` both lower to.
// The length is read and the data pointer followed immediately, so the
// returned DebugSlice is anchored at the first element. Any other member
// shape fails with ErrNotRustSlice.
func (s DebugStructure) AsSlice(reader Reader) (DebugSlice, error) {
	if !s.hasAddress {
		return DebugSlice{}, &ErrLocationMissing{Owner: s.structure.Name}
	}
	if len(s.structure.Members) != 2 {
		return DebugSlice{}, &ErrNotRustSlice{Owner: s.structure.Name}
	}

	var ptrMember, lenMember *StructureMember
	for i := range s.structure.Members {
		m := &s.structure.Members[i]
		if _, _, ok := s.info.lookupPointer(m.Kind); ok {
			ptrMember = m
		} else if _, _, ok := s.info.lookupBaseType(m.Kind); ok {
			lenMember = m
		}
	}
	if ptrMember == nil || lenMember == nil {
		return DebugSlice{}, &ErrNotRustSlice{Owner: s.structure.Name}
	}

	lenBase, err := baseTypeAt(s.info, lenMember.Kind, s.address.Add(lenMember.Offset), s.structure.Name+"."+lenMember.Name)
	if err != nil {
		return DebugSlice{}, &ErrNotRustSlice{Owner: s.structure.Name}
	}
	length, err := lenBase.Read(reader)
	if err != nil {
		return DebugSlice{}, err
	}

	ptr, err := pointerAt(s.info, ptrMember.Kind, s.address.Add(ptrMember.Offset), s.structure.Name+"."+ptrMember.Name)
	if err != nil {
		return DebugSlice{}, &ErrNotRustSlice{Owner: s.structure.Name}
	}
	data, err := ptr.Follow(reader)
	if err != nil {
		return DebugSlice{}, err
	}

	return DebugSlice{
		info:    s.info,
		element: ptr.pointer.Pointee,
		address: data,
		length:  length,
		owner:   s.structure.Name,
	}, nil
}

// ReadRaw reads the structure's entire SizeBytes in one bulk request,
// preferring reader's own Read override when available.
func (s DebugStructure) ReadRaw(reader Reader) ([]byte, error) {
	if !s.hasAddress {
		return nil, &ErrLocationMissing{Owner: s.structure.Name}
	}
	if err := beginRead(reader); err != nil {
		return nil, &ErrRead{Address: s.address, Err: err}
	}
	defer finishRead(reader)
	buf := make([]byte, s.structure.SizeBytes)
	if err := readBulk(reader, buf, s.address); err != nil {
		return nil, &ErrRead{Address: s.address, Err: err}
	}
	return buf, nil
}

// DebugStructureMember is a cursor onto one field of a structure or union.
type DebugStructureMember struct {
	info    *DebugInfo
	owner   string
	member  StructureMember
	address MemoryLocation
}

func (m DebugStructureMember) Name() string            { return m.member.Name }
func (m DebugStructureMember) Kind() DebugItem          { return m.member.Kind }
func (m DebugStructureMember) Address() MemoryLocation  { return m.address }

func (m DebugStructureMember) AsStructure() (DebugStructure, error) {
	return m.info.structureAt(m.member.Kind, m.address)
}

func (m DebugStructureMember) AsEnumeration() (DebugEnumeration, error) {
	return m.info.enumerationAt(m.member.Kind, m.address)
}

func (m DebugStructureMember) AsUnion() (DebugUnion, error) {
	return m.info.unionAt(m.member.Kind, m.address)
}

func (m DebugStructureMember) AsArray() (DebugArray, error) {
	return arrayAt(m.info, m.member.Kind, m.address, m.owner+"."+m.member.Name)
}

func (m DebugStructureMember) AsPointer() (DebugPointer, error) {
	return pointerAt(m.info, m.member.Kind, m.address, m.owner+"."+m.member.Name)
}

func (m DebugStructureMember) AsBaseType() (DebugBaseType, error) {
	return baseTypeAt(m.info, m.member.Kind, m.address, m.owner+"."+m.member.Name)
}

func (m DebugStructureMember) Read(reader Reader) (uint64, error) {
	bt, err := m.AsBaseType()
	if err != nil {
		return 0, err
	}
	return bt.Read(reader)
}

// DebugUnion is a cursor onto a union instance, whose members conventionally
// all share the structure's base address. hasAddress is false for a cursor
// obtained from UnionFromItem.
type DebugUnion struct {
	info       *DebugInfo
	union      Union
	address    MemoryLocation
	hasAddress bool
}

func (u DebugUnion) Name() string           { return u.union.Name }
func (u DebugUnion) Address() MemoryLocation { return u.address }
func (u DebugUnion) Size() int64            { return u.union.SizeBytes }

func (u DebugUnion) Member(name string) (DebugStructureMember, error) {
	if !u.hasAddress {
		return DebugStructureMember{}, &ErrLocationMissing{Owner: u.union.Name}
	}
	for _, m := range u.union.Members {
		if m.Name == name {
			return DebugStructureMember{
				info:    u.info,
				owner:   u.union.Name,
				member:  m,
				address: u.address.Add(m.Offset),
			}, nil
		}
	}
	return DebugStructureMember{}, &ErrMemberNotFound{Owner: u.union.Name, Member: name}
}

func (u DebugUnion) Members() []DebugStructureMember {
	if !u.hasAddress {
		return nil
	}
	out := make([]DebugStructureMember, 0, len(u.union.Members))
	for _, m := range u.union.Members {
		out = append(out, DebugStructureMember{
			info:    u.info,
			owner:   u.union.Name,
			member:  m,
			address: u.address.Add(m.Offset),
		})
	}
	return out
}

// ReadRaw reads the union's entire SizeBytes in one bulk request,
// preferring reader's own Read override when available.
func (u DebugUnion) ReadRaw(reader Reader) ([]byte, error) {
	if !u.hasAddress {
		return nil, &ErrLocationMissing{Owner: u.union.Name}
	}
	if err := beginRead(reader); err != nil {
		return nil, &ErrRead{Address: u.address, Err: err}
	}
	defer finishRead(reader)
	buf := make([]byte, u.union.SizeBytes)
	if err := readBulk(reader, buf, u.address); err != nil {
		return nil, &ErrRead{Address: u.address, Err: err}
	}
	return buf, nil
}

// DebugEnumeration is a cursor onto a tagged-sum instance. Resolving which
// variant is active requires reading the discriminant, hence Variant takes a
// Reader rather than being available at construction time. hasAddress is
// false for a cursor obtained from EnumerationFromItem.
type DebugEnumeration struct {
	info        *DebugInfo
	enumeration Enumeration
	address     MemoryLocation
	hasAddress  bool
}

func (e DebugEnumeration) Name() string           { return e.enumeration.Name }
func (e DebugEnumeration) Address() MemoryLocation { return e.address }
func (e DebugEnumeration) Size() int64            { return e.enumeration.SizeBytes }

// Variant reads the discriminant and resolves the active variant: an exact
// discriminant match wins; failing that, the single variant with a nil
// Discriminant (the niche/default arm) is used. No match at all, including
// no niche variant, fails with ErrVariantNotFound.
func (e DebugEnumeration) Variant(reader Reader) (DebugEnumerationVariant, error) {
	if !e.hasAddress {
		return DebugEnumerationVariant{}, &ErrLocationMissing{Owner: e.enumeration.Name}
	}
	if !e.enumeration.discriminantResolved() {
		return DebugEnumerationVariant{}, &ErrKindNotFound{Owner: e.enumeration.Name}
	}

	size, ok := e.info.SizeFromItem(e.enumeration.DiscriminantKind)
	if !ok {
		return DebugEnumerationVariant{}, &ErrKindNotFound{Owner: e.enumeration.Name, Member: "<discriminant>"}
	}

	discAddr := e.address.Add(e.enumeration.DiscriminantOffset)
	tag, err := readSized(reader, discAddr, size)
	if err != nil {
		return DebugEnumerationVariant{}, &ErrRead{Address: discAddr, Err: err}
	}

	return e.VariantWithDiscriminant(tag)
}

// VariantWithDiscriminant resolves a variant by tag value without reading
// memory: an exact match wins, otherwise the niche/default arm. It is usable
// on an unbound cursor, though the returned variant's own descent operations
// still require an address.
func (e DebugEnumeration) VariantWithDiscriminant(tag uint64) (DebugEnumerationVariant, error) {
	var niche *EnumerationVariant
	for i := range e.enumeration.Variants {
		v := &e.enumeration.Variants[i]
		if v.Discriminant == nil {
			niche = v
			continue
		}
		if *v.Discriminant == tag {
			return e.variantCursor(*v), nil
		}
	}
	if niche != nil {
		return e.variantCursor(*niche), nil
	}
	return DebugEnumerationVariant{}, &ErrVariantNotFound{Owner: e.enumeration.Name, Variant: fmt.Sprintf("%d", tag)}
}

// VariantNamed resolves a variant by its declared name.
func (e DebugEnumeration) VariantNamed(name string) (DebugEnumerationVariant, error) {
	for _, v := range e.enumeration.Variants {
		if v.Name == name {
			return e.variantCursor(v), nil
		}
	}
	return DebugEnumerationVariant{}, &ErrVariantNotFound{Owner: e.enumeration.Name, Variant: fmt.Sprintf("%q", name)}
}

func (e DebugEnumeration) variantCursor(v EnumerationVariant) DebugEnumerationVariant {
	return DebugEnumerationVariant{
		info:       e.info,
		owner:      e.enumeration.Name,
		variant:    v,
		address:    e.address.Add(v.Offset),
		hasAddress: e.hasAddress,
	}
}

// Variants lists every declared variant without resolving which is active.
// Returns nil if the enumeration has no bound address.
func (e DebugEnumeration) Variants() []DebugEnumerationVariant {
	if !e.hasAddress {
		return nil
	}
	out := make([]DebugEnumerationVariant, 0, len(e.enumeration.Variants))
	for _, v := range e.enumeration.Variants {
		out = append(out, e.variantCursor(v))
	}
	return out
}

// DebugEnumerationVariant is a cursor onto one arm of a resolved or
// enumerated tagged sum. hasAddress is false when the variant was reached
// through an unbound enumeration cursor.
type DebugEnumerationVariant struct {
	info       *DebugInfo
	owner      string
	variant    EnumerationVariant
	address    MemoryLocation
	hasAddress bool
}

func (v DebugEnumerationVariant) Name() string            { return v.variant.Name }
func (v DebugEnumerationVariant) Address() MemoryLocation { return v.address }
func (v DebugEnumerationVariant) Kind() DebugItem         { return v.variant.Kind }

// Discriminant returns the variant's declared tag value. ok is false for the
// niche/default arm, which has no tag of its own.
func (v DebugEnumerationVariant) Discriminant() (uint64, bool) {
	if v.variant.Discriminant == nil {
		return 0, false
	}
	return *v.variant.Discriminant, true
}

// AsStructure descends into the variant's payload as a structure, anchored
// at the enum body plus the variant's payload offset.
func (v DebugEnumerationVariant) AsStructure() (DebugStructure, error) {
	if !v.hasAddress {
		return DebugStructure{}, &ErrLocationMissing{Owner: v.owner + "::" + v.variant.Name}
	}
	return v.info.structureAt(v.variant.Kind, v.address)
}

func (v DebugEnumerationVariant) AsEnumeration() (DebugEnumeration, error) {
	if !v.hasAddress {
		return DebugEnumeration{}, &ErrLocationMissing{Owner: v.owner + "::" + v.variant.Name}
	}
	return v.info.enumerationAt(v.variant.Kind, v.address)
}

func (v DebugEnumerationVariant) AsUnion() (DebugUnion, error) {
	if !v.hasAddress {
		return DebugUnion{}, &ErrLocationMissing{Owner: v.owner + "::" + v.variant.Name}
	}
	return v.info.unionAt(v.variant.Kind, v.address)
}

func (v DebugEnumerationVariant) AsBaseType() (DebugBaseType, error) {
	if !v.hasAddress {
		return DebugBaseType{}, &ErrLocationMissing{Owner: v.owner + "::" + v.variant.Name}
	}
	return baseTypeAt(v.info, v.variant.Kind, v.address, v.owner+"::"+v.variant.Name)
}

// DebugArray is a cursor onto a fixed-count sequence. hasAddress is false
// for a cursor obtained from ArrayFromItem.
type DebugArray struct {
	info       *DebugInfo
	array      Array
	address    MemoryLocation
	hasAddress bool
	owner      string
}

func arrayAt(info *DebugInfo, item DebugItem, address MemoryLocation, owner string) (DebugArray, error) {
	u, idx, ok := info.lookupArray(item)
	if !ok {
		return DebugArray{}, &ErrArrayNotFound{Owner: owner}
	}
	return DebugArray{info: info, array: u.arrays[idx], address: address, hasAddress: true, owner: owner}, nil
}

func (a DebugArray) Len() int64 { return a.array.Count }

// Item resolves the i'th element's cursor address. i is not bounds-checked
// against Len: a reader backed by a live target may still be able to
// service an out-of-declared-range read, and this library does not police
// that.
func (a DebugArray) Item(i int64) (DebugArrayItem, error) {
	if !a.hasAddress {
		return DebugArrayItem{}, &ErrLocationMissing{Owner: a.owner}
	}
	elemSize, ok := a.info.SizeFromItem(a.array.Element)
	if !ok {
		return DebugArrayItem{}, &ErrSize{Size: 0}
	}
	addr := a.address.Add(StructOffset(i * elemSize))
	return DebugArrayItem{info: a.info, kind: a.array.Element, address: addr, owner: a.owner}, nil
}

// Items yields a cursor for every element in order, each at base + i*stride.
// The element kind must have a resolvable size.
func (a DebugArray) Items() ([]DebugArrayItem, error) {
	if !a.hasAddress {
		return nil, &ErrLocationMissing{Owner: a.owner}
	}
	elemSize, ok := a.info.SizeFromItem(a.array.Element)
	if !ok {
		return nil, &ErrSize{Size: 0}
	}
	out := make([]DebugArrayItem, 0, a.array.Count)
	for i := int64(0); i < a.array.Count; i++ {
		out = append(out, DebugArrayItem{
			info:    a.info,
			kind:    a.array.Element,
			address: a.address.Add(StructOffset(i * elemSize)),
			owner:   a.owner,
		})
	}
	return out, nil
}

// DebugArrayItem is a cursor onto one element of an array.
type DebugArrayItem struct {
	info    *DebugInfo
	kind    DebugItem
	address MemoryLocation
	owner   string
}

func (i DebugArrayItem) Address() MemoryLocation { return i.address }
func (i DebugArrayItem) Kind() DebugItem         { return i.kind }

func (i DebugArrayItem) AsStructure() (DebugStructure, error) {
	return i.info.structureAt(i.kind, i.address)
}

func (i DebugArrayItem) AsEnumeration() (DebugEnumeration, error) {
	return i.info.enumerationAt(i.kind, i.address)
}

func (i DebugArrayItem) AsUnion() (DebugUnion, error) {
	return i.info.unionAt(i.kind, i.address)
}

func (i DebugArrayItem) AsBaseType() (DebugBaseType, error) {
	return baseTypeAt(i.info, i.kind, i.address, i.owner+"[]")
}

func (i DebugArrayItem) Read(reader Reader) (uint64, error) {
	bt, err := i.AsBaseType()
	if err != nil {
		return 0, err
	}
	return bt.Read(reader)
}

// DebugPointer is a cursor onto a pointer-typed location: address is where
// the pointer value itself is stored, not where it points. hasAddress is
// false for a cursor obtained from PointerFromItem.
type DebugPointer struct {
	info       *DebugInfo
	pointer    Pointer
	address    MemoryLocation
	hasAddress bool
	owner      string
}

func pointerAt(info *DebugInfo, item DebugItem, address MemoryLocation, owner string) (DebugPointer, error) {
	u, idx, ok := info.lookupPointer(item)
	if !ok {
		return DebugPointer{}, &ErrKindIncorrect{Owner: owner, Attempted: "pointer", Actual: info.kindName(item)}
	}
	return DebugPointer{info: info, pointer: u.pointers[idx], address: address, hasAddress: true, owner: owner}, nil
}

func (p DebugPointer) Address() MemoryLocation { return p.address }

// Follow reads the pointer's stored value (4 bytes, this library's
// hard-coded pointer width) and returns the address it points to.
func (p DebugPointer) Follow(reader Reader) (MemoryLocation, error) {
	if !p.hasAddress {
		return 0, &ErrLocationMissing{Owner: p.owner}
	}
	v, err := readU32(reader, p.address)
	if err != nil {
		return 0, &ErrRead{Address: p.address, Err: err}
	}
	return MemoryLocation(v), nil
}

// FollowUnlessNull is Follow, except a stored value of 0 is a failure: a
// null pointer is reported as an ErrRead at the pointer's own address.
func (p DebugPointer) FollowUnlessNull(reader Reader) (MemoryLocation, error) {
	addr, err := p.Follow(reader)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, &ErrRead{Address: p.address, Err: errNullPointer}
	}
	return addr, nil
}

// TryFollow is Follow, with a null pointer and any read error both folded
// into ok == false rather than propagated, for callers that only want a
// best-effort dereference.
func (p DebugPointer) TryFollow(reader Reader) (MemoryLocation, bool) {
	addr, err := p.Follow(reader)
	if err != nil || addr == 0 {
		return 0, false
	}
	return addr, true
}

// Pointee resolves this pointer's target kind, at the address Follow reports.
func (p DebugPointer) Pointee(reader Reader) (DebugItem, MemoryLocation, error) {
	addr, err := p.Follow(reader)
	if err != nil {
		return zeroItem, 0, err
	}
	return p.pointer.Pointee, addr, nil
}

// DebugBaseType is a cursor onto a scalar instance. hasAddress is false for
// a cursor obtained from BaseTypeFromItem.
type DebugBaseType struct {
	info       *DebugInfo
	baseType   BaseType
	address    MemoryLocation
	hasAddress bool
	owner      string
}

func baseTypeAt(info *DebugInfo, item DebugItem, address MemoryLocation, owner string) (DebugBaseType, error) {
	u, idx, ok := info.lookupBaseType(item)
	if !ok {
		return DebugBaseType{}, &ErrKindIncorrect{Owner: owner, Attempted: "base type", Actual: info.kindName(item)}
	}
	return DebugBaseType{info: info, baseType: u.baseTypes[idx], address: address, hasAddress: true, owner: owner}, nil
}

func (b DebugBaseType) Name() string           { return b.baseType.Name }
func (b DebugBaseType) Address() MemoryLocation { return b.address }
func (b DebugBaseType) Size() int64            { return b.baseType.SizeBytes }

// Read reads the scalar's value through reader, widened to uint64 regardless
// of its declared width.
func (b DebugBaseType) Read(reader Reader) (uint64, error) {
	if !b.hasAddress {
		return 0, &ErrLocationMissing{Owner: b.owner}
	}
	v, err := readSized(reader, b.address, b.baseType.SizeBytes)
	if err != nil {
		return 0, &ErrRead{Address: b.address, Err: err}
	}
	return v, nil
}

// DebugSlice is the resolved form of a Rust `&[T]`/`Vec<T>` structure: the
// data pointer has already been followed and the length already read through
// the reader passed to AsSlice, leaving a bounded view over length elements
// of a uniform kind starting at address.
type DebugSlice struct {
	info    *DebugInfo
	element DebugItem
	address MemoryLocation
	length  uint64
	owner   string
}

func (s DebugSlice) Len() uint64              { return s.length }
func (s DebugSlice) Address() MemoryLocation  { return s.address }
func (s DebugSlice) Element() DebugItem       { return s.element }

// Item resolves the i'th element's cursor, at address + i*stride. The
// element kind must have a resolvable size.
func (s DebugSlice) Item(i uint64) (DebugArrayItem, error) {
	elemSize, ok := s.info.SizeFromItem(s.element)
	if !ok {
		return DebugArrayItem{}, &ErrSize{Size: 0}
	}
	addr := s.address.Add(StructOffset(int64(i) * elemSize))
	return DebugArrayItem{info: s.info, kind: s.element, address: addr, owner: s.owner}, nil
}

// Items yields a cursor for every element in order.
func (s DebugSlice) Items() ([]DebugArrayItem, error) {
	elemSize, ok := s.info.SizeFromItem(s.element)
	if !ok {
		return nil, &ErrSize{Size: 0}
	}
	out := make([]DebugArrayItem, 0, s.length)
	for i := uint64(0); i < s.length; i++ {
		out = append(out, DebugArrayItem{
			info:    s.info,
			kind:    s.element,
			address: s.address.Add(StructOffset(int64(i) * elemSize)),
			owner:   s.owner,
		})
	}
	return out, nil
}

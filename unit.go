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
	"fmt"
	"path"
	"strings"

	"github.com/xobs/tasru/demangle"
	"github.com/xobs/tasru/leb128"
	"github.com/xobs/tasru/logger"
)

// unitInfo is the per-compilation-unit symbol cache built by the DFS walk
// (buildUnit). Every vector is paired with one or more index maps; indices
// into the vectors are stable handles used by the navigation facade.
type unitInfo struct {
	addressSize int

	variables    []Variable
	structures   []Structure
	enumerations []Enumeration
	unions       []Union
	arrays       []Array
	pointers     []Pointer
	baseTypes    []BaseType

	variableByLinkageName   map[string]int
	variableByDemangled     map[string]int
	variableByQualifiedName map[string]int
	variableByItem          map[DebugItem]int

	structureByItem   map[DebugItem]int
	enumerationByItem map[DebugItem]int
	unionByItem       map[DebugItem]int
	arrayByItem       map[DebugItem]int
	pointerByItem     map[DebugItem]int
	baseTypeByItem    map[DebugItem]int
}

func newUnitInfo(addressSize int) *unitInfo {
	return &unitInfo{
		addressSize:             addressSize,
		variableByLinkageName:   make(map[string]int),
		variableByDemangled:     make(map[string]int),
		variableByQualifiedName: make(map[string]int),
		variableByItem:          make(map[DebugItem]int),
		structureByItem:         make(map[DebugItem]int),
		enumerationByItem:       make(map[DebugItem]int),
		unionByItem:             make(map[DebugItem]int),
		arrayByItem:             make(map[DebugItem]int),
		pointerByItem:           make(map[DebugItem]int),
		baseTypeByItem:          make(map[DebugItem]int),
	}
}

// allDebugItems returns every DebugItem this unit has registered, used by
// the registry to build the cross-unit mapping and to detect a DebugItem
// registered more than once across units.
func (u *unitInfo) allDebugItems() []DebugItem {
	items := make([]DebugItem, 0, len(u.variableByItem)+len(u.structureByItem)+len(u.enumerationByItem)+len(u.unionByItem)+len(u.arrayByItem)+len(u.pointerByItem)+len(u.baseTypeByItem))
	for k := range u.variableByItem {
		items = append(items, k)
	}
	for k := range u.structureByItem {
		items = append(items, k)
	}
	for k := range u.enumerationByItem {
		items = append(items, k)
	}
	for k := range u.unionByItem {
		items = append(items, k)
	}
	for k := range u.arrayByItem {
		items = append(items, k)
	}
	for k := range u.pointerByItem {
		items = append(items, k)
	}
	for k := range u.baseTypeByItem {
		items = append(items, k)
	}
	return items
}

// arrayInProgress records an array_type DIE's element kind, awaiting its
// first subrange_type child to supply the bound and complete the Array.
type arrayInProgress struct {
	element DebugItem
	valid   bool
}

// builder holds the transient DFS state for a single compilation unit.
type builder struct {
	dwrf *dwarf.Data
	log  *logger.Logger

	unit *unitInfo

	lineFiles []string
	compDir   string

	tagParentList   []dwarf.Tag
	parentNamespace []string

	arrayProgress   arrayInProgress
	lastStructureID DebugItem
	haveLastStruct  bool
}

// buildUnit runs the DFS reconstruction algorithm over one compilation
// unit, rooted at cu (a DW_TAG_compile_unit entry), and returns its
// populated symbol cache.
func buildUnit(dwrf *dwarf.Data, r *dwarf.Reader, cu *dwarf.Entry, log *logger.Logger) (*unitInfo, error) {
	if log == nil {
		log = logger.Default
	}

	b := &builder{
		dwrf: dwrf,
		log:  log,
		unit: newUnitInfo(addressSizeOf(cu)),
	}
	b.compDir, _ = attrString(cu, dwarf.AttrCompDir)

	if lr, err := dwrf.LineReader(cu); err == nil && lr != nil {
		for _, f := range lr.Files() {
			if f == nil {
				b.lineFiles = append(b.lineFiles, "")
				continue
			}
			b.lineFiles = append(b.lineFiles, f.Name)
		}
	}

	// a unit with no children has no DIEs to walk and, crucially, no
	// terminator entry; reading on would consume the next unit's entries.
	if !cu.Children {
		return b.unit, nil
	}

	// cu was already consumed by the caller, which is how debug/dwarf.Reader
	// positions itself at cu's first child. Seed the parent stack with it so
	// parentTag resolves correctly for cu's direct children, and so popping
	// this frame's eventual terminator tells us this unit is done.
	b.tagParentList = append(b.tagParentList, dwarf.TagCompileUnit)

	for {
		entry, err := r.Next()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}

		// a null (terminator) entry closes the most recently opened
		// children list; Offset 0 is how debug/dwarf surfaces it.
		if entry.Offset == 0 && entry.Tag == 0 {
			closed := b.tagParentList[len(b.tagParentList)-1]
			b.tagParentList = b.tagParentList[:len(b.tagParentList)-1]
			if closed == dwarf.TagNamespace && len(b.parentNamespace) > 0 {
				b.parentNamespace = b.parentNamespace[:len(b.parentNamespace)-1]
			}
			if len(b.tagParentList) == 0 {
				break
			}
			continue
		}

		parentTag := b.tagParentList[len(b.tagParentList)-1]

		if err := b.dispatch(entry, parentTag); err != nil {
			return nil, err
		}

		if entry.Children {
			b.tagParentList = append(b.tagParentList, entry.Tag)
		}
	}

	return b.unit, nil
}

func (b *builder) dispatch(entry *dwarf.Entry, parentTag dwarf.Tag) error {
	switch entry.Tag {
	case dwarf.TagVariable:
		b.parseVariable(entry)
	case dwarf.TagVariantPart:
		if parentTag == dwarf.TagStructType {
			return b.promoteToEnumeration(entry)
		}
	case dwarf.TagMember:
		switch parentTag {
		case dwarf.TagVariantPart:
			b.parseDiscriminantMember(entry)
		case dwarf.TagVariant:
			b.fillVariantMember(entry)
		case dwarf.TagStructType:
			b.appendStructureMember(entry)
		case dwarf.TagUnionType:
			b.appendUnionMember(entry)
		}
	case dwarf.TagVariant:
		if parentTag == dwarf.TagVariantPart {
			b.appendVariant(entry)
		}
	case dwarf.TagStructType:
		b.parseStructure(entry)
	case dwarf.TagUnionType:
		b.parseUnion(entry)
	case dwarf.TagArrayType:
		b.parseArrayType(entry)
	case dwarf.TagSubrangeType:
		if parentTag == dwarf.TagArrayType {
			return b.parseSubrange(entry)
		}
	case dwarf.TagPointerType:
		b.parsePointer(entry)
	case dwarf.TagBaseType:
		b.parseBaseType(entry)
	case dwarf.TagNamespace:
		// a childless namespace DIE has no terminator to pop it again
		if entry.Children {
			name, _ := attrString(entry, dwarf.AttrName)
			b.parentNamespace = append(b.parentNamespace, name)
		}
	}
	return nil
}

// namespacePrefix joins the current namespace stack with "::", e.g. "foo::bar".
func (b *builder) namespacePrefix() string {
	if len(b.parentNamespace) == 0 {
		return ""
	}
	return strings.Join(b.parentNamespace, "::")
}

func (b *builder) qualify(local string) string {
	ns := b.namespacePrefix()
	if ns == "" {
		return local
	}
	return ns + "::" + local
}

// --- variable -----------------------------------------------------------

func (b *builder) parseVariable(entry *dwarf.Entry) {
	name, ok := attrString(entry, dwarf.AttrName)
	if !ok || name == "" {
		b.log.Log(logger.Allow, "dwarf", "dropping variable with unresolvable name")
		return
	}

	kind, ok := attrTypeRef(entry)
	if !ok {
		b.log.Logf(logger.Allow, "dwarf", "dropping variable %q with unresolvable kind", name)
		return
	}

	loc, ok := b.parseLocationAttr(entry, dwarf.AttrLocation)
	if !ok {
		b.log.Logf(logger.Allow, "dwarf", "dropping variable %q with unresolvable location", name)
		return
	}

	v := Variable{
		Item:          itemOf(entry.Offset),
		QualifiedName: b.qualify(name),
		Kind:          kind,
		Location:      loc,
	}
	v.LinkageName, _ = attrString(entry, dwarf.AttrLinkageName)
	v.DemangledName = demangledOf(v.LinkageName)
	v.DeclFile = b.resolveDeclFile(entry)
	if line, ok := attrInt64(entry, dwarf.AttrDeclLine); ok {
		v.DeclLine = line
		v.hasDeclLine = true
	}

	idx := len(b.unit.variables)
	b.unit.variables = append(b.unit.variables, v)

	b.registerItem(b.unit.variableByItem, v.Item, idx)
	b.registerUnique(b.unit.variableByQualifiedName, v.QualifiedName, idx)
	if v.LinkageName != "" {
		b.registerUnique(b.unit.variableByLinkageName, v.LinkageName, idx)
	}
	if v.DemangledName != "" {
		// duplicate demangled forms collapse onto the same index rather
		// than raising a build error.
		if _, exists := b.unit.variableByDemangled[v.DemangledName]; !exists {
			b.unit.variableByDemangled[v.DemangledName] = idx
		}
	}
}

func (b *builder) registerUnique(m map[string]int, key string, idx int) {
	if key == "" {
		return
	}
	if existing, ok := m[key]; ok && existing != idx {
		panic(fmt.Sprintf("duplicate registration for %q: debug information is internally inconsistent", key))
	}
	m[key] = idx
}

// --- enum promotion -------------------------------------------------------

func (b *builder) promoteToEnumeration(entry *dwarf.Entry) error {
	if !b.haveLastStruct {
		return fmt.Errorf("variant_part encountered with no enclosing structure")
	}
	id := b.lastStructureID
	idx, ok := b.unit.structureByItem[id]
	if !ok {
		return fmt.Errorf("variant_part's enclosing structure %v was not registered", id)
	}
	s := b.unit.structures[idx]

	// remove from the structures vector/index: swap the last element into
	// idx's slot to keep the vector dense, fixing up whichever item moved.
	last := len(b.unit.structures) - 1
	if idx != last {
		moved := b.unit.structures[last]
		b.unit.structures[idx] = moved
		b.unit.structureByItem[moved.Item] = idx
	}
	b.unit.structures = b.unit.structures[:last]
	delete(b.unit.structureByItem, id)

	enumIdx := len(b.unit.enumerations)
	b.unit.enumerations = append(b.unit.enumerations, Enumeration{
		Item:             id,
		Name:             s.Name,
		SizeBytes:        s.SizeBytes,
		DiscriminantKind: zeroItem,
	})
	b.unit.enumerationByItem[id] = enumIdx
	return nil
}

func (b *builder) lastEnumeration() (*Enumeration, bool) {
	if len(b.unit.enumerations) == 0 {
		return nil, false
	}
	return &b.unit.enumerations[len(b.unit.enumerations)-1], true
}

func (b *builder) parseDiscriminantMember(entry *dwarf.Entry) {
	e, ok := b.lastEnumeration()
	if !ok {
		return
	}
	if kind, ok := attrTypeRef(entry); ok {
		e.DiscriminantKind = kind
	}
	if off, ok := b.parseOffsetAttr(entry, dwarf.AttrDataMemberLoc); ok {
		e.DiscriminantOffset = off
	}
}

func (b *builder) appendVariant(entry *dwarf.Entry) {
	e, ok := b.lastEnumeration()
	if !ok {
		return
	}
	v := EnumerationVariant{}
	if d, ok := attrInt64(entry, dwarf.AttrDiscrValue); ok {
		u := uint64(d)
		v.Discriminant = &u
	}
	e.Variants = append(e.Variants, v)
}

func (b *builder) fillVariantMember(entry *dwarf.Entry) {
	e, ok := b.lastEnumeration()
	if !ok || len(e.Variants) == 0 {
		return
	}
	v := &e.Variants[len(e.Variants)-1]
	v.Name, _ = attrString(entry, dwarf.AttrName)
	if kind, ok := attrTypeRef(entry); ok {
		v.Kind = kind
	}
	if off, ok := b.parseOffsetAttr(entry, dwarf.AttrDataMemberLoc); ok {
		v.Offset = off
	}
}

// --- structures / unions --------------------------------------------------

func (b *builder) parseStructure(entry *dwarf.Entry) {
	name, _ := attrString(entry, dwarf.AttrName)
	size, sizeOK := attrInt64(entry, dwarf.AttrByteSize)
	if name == "" || !sizeOK {
		b.log.Log(logger.Allow, "dwarf", "dropping structure with unresolvable name or size")
		b.haveLastStruct = false
		return
	}

	item := itemOf(entry.Offset)
	s := Structure{Item: item, Name: name, SizeBytes: size}
	if ct, ok := attrTypeRefAttr(entry, dwarf.AttrContainingType); ok {
		s.ContainingType = ct
	}

	idx := len(b.unit.structures)
	b.unit.structures = append(b.unit.structures, s)
	b.registerItem(b.unit.structureByItem, item, idx)

	b.lastStructureID = item
	b.haveLastStruct = true
}

func (b *builder) lastStructure() (*Structure, bool) {
	if !b.haveLastStruct {
		return nil, false
	}
	idx, ok := b.unit.structureByItem[b.lastStructureID]
	if !ok {
		return nil, false
	}
	return &b.unit.structures[idx], true
}

func (b *builder) appendStructureMember(entry *dwarf.Entry) {
	s, ok := b.lastStructure()
	if !ok {
		return
	}
	m, ok := b.parseMember(entry)
	if !ok {
		return
	}
	s.Members = append(s.Members, m)
}

func (b *builder) parseUnion(entry *dwarf.Entry) {
	name, _ := attrString(entry, dwarf.AttrName)
	size, sizeOK := attrInt64(entry, dwarf.AttrByteSize)
	if name == "" || !sizeOK {
		b.log.Log(logger.Allow, "dwarf", "dropping union with unresolvable name or size")
		return
	}

	item := itemOf(entry.Offset)
	idx := len(b.unit.unions)
	b.unit.unions = append(b.unit.unions, Union{Item: item, Name: name, SizeBytes: size})
	b.registerItem(b.unit.unionByItem, item, idx)
}

func (b *builder) lastUnion() (*Union, bool) {
	if len(b.unit.unions) == 0 {
		return nil, false
	}
	return &b.unit.unions[len(b.unit.unions)-1], true
}

func (b *builder) appendUnionMember(entry *dwarf.Entry) {
	u, ok := b.lastUnion()
	if !ok {
		return
	}
	m, ok := b.parseMember(entry)
	if !ok {
		return
	}
	u.Members = append(u.Members, m)
}

func (b *builder) parseMember(entry *dwarf.Entry) (StructureMember, bool) {
	kind, ok := attrTypeRef(entry)
	if !ok {
		return StructureMember{}, false
	}
	name, _ := attrString(entry, dwarf.AttrName)
	off, _ := b.parseOffsetAttr(entry, dwarf.AttrDataMemberLoc)
	return StructureMember{Name: name, Kind: kind, Offset: off}, true
}

// --- arrays -----------------------------------------------------------

func (b *builder) parseArrayType(entry *dwarf.Entry) {
	kind, ok := attrTypeRef(entry)
	if !ok {
		b.arrayProgress = arrayInProgress{}
		return
	}
	b.arrayProgress = arrayInProgress{element: kind, valid: true}
}

func (b *builder) parseSubrange(entry *dwarf.Entry) error {
	if !b.arrayProgress.valid {
		return fmt.Errorf("subrange_type encountered with no array_type in progress")
	}
	progress := b.arrayProgress
	b.arrayProgress = arrayInProgress{}

	lower, _ := attrInt64(entry, dwarf.AttrLowerBound)

	var count int64
	if c, ok := attrInt64(entry, dwarf.AttrCount); ok {
		count = c
	} else if ub, ok := attrInt64(entry, dwarf.AttrUpperBound); ok {
		count = ub + 1
	}

	item := itemOf(entry.Offset)
	idx := len(b.unit.arrays)
	b.unit.arrays = append(b.unit.arrays, Array{
		Item:       item,
		Element:    progress.element,
		LowerBound: lower,
		Count:      count,
	})
	b.registerItem(b.unit.arrayByItem, item, idx)
	return nil
}

// --- pointers / base types ------------------------------------------------

func (b *builder) parsePointer(entry *dwarf.Entry) {
	item := itemOf(entry.Offset)
	p := Pointer{Item: item}
	p.Name, _ = attrString(entry, dwarf.AttrName)
	if pointee, ok := attrTypeRef(entry); ok {
		p.Pointee = pointee
	}

	idx := len(b.unit.pointers)
	b.unit.pointers = append(b.unit.pointers, p)
	b.registerItem(b.unit.pointerByItem, item, idx)
}

func (b *builder) parseBaseType(entry *dwarf.Entry) {
	name, nameOK := attrString(entry, dwarf.AttrName)
	size, sizeOK := attrInt64(entry, dwarf.AttrByteSize)
	if !nameOK || !sizeOK {
		b.log.Log(logger.Allow, "dwarf", "dropping base_type with unresolvable name or size")
		return
	}

	item := itemOf(entry.Offset)
	idx := len(b.unit.baseTypes)
	b.unit.baseTypes = append(b.unit.baseTypes, BaseType{Item: item, Name: name, SizeBytes: size})
	b.registerItem(b.unit.baseTypeByItem, item, idx)
}

func (b *builder) registerItem(m map[DebugItem]int, item DebugItem, idx int) {
	if _, exists := m[item]; exists {
		panic(fmt.Sprintf("duplicate DebugItem registration for offset %#x: debug information is internally inconsistent", uint64(item)))
	}
	m[item] = idx
}

// --- attribute helpers -----------------------------------------------------

func attrString(entry *dwarf.Entry, attr dwarf.Attr) (string, bool) {
	v := entry.Val(attr)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func attrInt64(entry *dwarf.Entry, attr dwarf.Attr) (int64, bool) {
	v := entry.Val(attr)
	switch x := v.(type) {
	case int64:
		return x, true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

// attrTypeRef resolves the DW_AT_type reference of entry to a DebugItem.
func attrTypeRef(entry *dwarf.Entry) (DebugItem, bool) {
	return attrTypeRefAttr(entry, dwarf.AttrType)
}

func attrTypeRefAttr(entry *dwarf.Entry, attr dwarf.Attr) (DebugItem, bool) {
	v := entry.Val(attr)
	off, ok := v.(dwarf.Offset)
	if !ok {
		return 0, false
	}
	return itemOf(off), true
}

// parseOffsetAttr implements the offset parsing rule: unsigned-data is a
// literal byte offset; an exprloc is evaluated (and must
// reduce to a single DW_OP_plus_uconst operand, the common compiler output
// for a member offset); a location-list reference is dropped (no
// program-counter context is available in this model).
func (b *builder) parseOffsetAttr(entry *dwarf.Entry, attr dwarf.Attr) (StructOffset, bool) {
	field := entry.AttrField(attr)
	if field == nil {
		return 0, false
	}

	switch field.Class {
	case dwarf.ClassConstant:
		if n, ok := field.Val.(int64); ok {
			return StructOffset(n), true
		}
	case dwarf.ClassExprLoc, dwarf.ClassBlock:
		expr, ok := field.Val.([]byte)
		if !ok {
			return 0, false
		}
		if n, ok := plusUconstOperand(expr); ok {
			return StructOffset(n), true
		}
		return 0, false
	case dwarf.ClassLocListPtr, dwarf.ClassLocList:
		return 0, false
	}
	return 0, false
}

// plusUconstOperand recognizes the single-operation form
// "DW_OP_plus_uconst <uleb>", which is how most compilers express a fixed
// structure member offset as an exprloc.
func plusUconstOperand(expr []byte) (uint64, bool) {
	if len(expr) < 2 || expr[0] != dwOpPlusUconst {
		return 0, false
	}
	v, n := leb128.DecodeULEB128(expr[1:])
	if n == 0 || 1+n != len(expr) {
		return 0, false
	}
	return v, true
}

// parseLocationAttr implements the DW_AT_location parsing rule for
// variables: only an exprloc that reduces (via the expression evaluator) to
// a single absolute address is accepted; anything else (location lists,
// register/frame-relative expressions, optimized-out values) causes the
// variable to be dropped.
func (b *builder) parseLocationAttr(entry *dwarf.Entry, attr dwarf.Attr) (MemoryLocation, bool) {
	field := entry.AttrField(attr)
	if field == nil {
		return 0, false
	}
	if field.Class != dwarf.ClassExprLoc && field.Class != dwarf.ClassBlock {
		return 0, false
	}
	expr, ok := field.Val.([]byte)
	if !ok {
		return 0, false
	}
	result := evaluateExpression(expr, b.unit.addressSize)
	if result.isValue || !result.location.valid() {
		return 0, false
	}
	return result.location.address, true
}

func (b *builder) resolveDeclFile(entry *dwarf.Entry) string {
	idx, ok := attrInt64(entry, dwarf.AttrDeclFile)
	if !ok || idx < 0 || int(idx) >= len(b.lineFiles) {
		return ""
	}
	name := b.lineFiles[idx]
	if name == "" {
		return ""
	}
	if path.IsAbs(name) {
		return name
	}
	if b.compDir == "" {
		return name
	}
	return path.Join(b.compDir, name)
}

// addressSizeOf always returns 4: this library treats every target as
// 32-bit. debug/dwarf does expose a per-unit address size via
// Reader.AddressSize, but nothing here needs to vary by it.
func addressSizeOf(cu *dwarf.Entry) int {
	return 4
}

func demangledOf(linkageName string) string {
	if linkageName == "" {
		return ""
	}
	return demangle.Demangle(linkageName)
}

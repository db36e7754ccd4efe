// Package walker implements the DIE Walker: a recursive descent over a
// compilation unit's tree that classifies each entry by tag and builds the
// declaration model, unifying subprogram declarations with their
// out-of-line definitions and reconciling constructors that never carry a
// DW_AT_specification of their own.
package walker

import (
	"debug/dwarf"
	"log/slog"
	"regexp"

	"github.com/adikso/dwarfdecl/internal/filetable"
	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/adikso/dwarfdecl/internal/resolver"
)

// constructorName extracts a class name out of an Itanium-mangled
// constructor symbol lacking any other way to name itself: a compiler
// emits the constructor's code under a linkage name but no DW_AT_name or
// DW_AT_specification when the declaration site was never separately
// recorded.
var constructorName = regexp.MustCompile(`^_ZN[0-9]+([a-zA-Z]+)C[0-9]`)

// Walker accumulates state across every compilation unit of a single
// binary: in-flight method bodies awaiting their definition DIE, and the
// name-indexed set used to backfill constructor addresses afterward.
type Walker struct {
	data   *dwarf.Data
	logger *slog.Logger

	methods         map[dwarf.Offset]*model.Method
	methodsByName   map[string][]*model.Method
	incompleteCtors map[*model.Method]bool
}

// New creates a Walker bound to an already-opened DWARF section set. logger
// receives a Debug/Warn record for every DIE, subtree or compile unit the
// walker drops instead of aborting the whole extraction.
func New(data *dwarf.Data, logger *slog.Logger) *Walker {
	return &Walker{
		data:            data,
		logger:          logger,
		methods:         make(map[dwarf.Offset]*model.Method),
		methodsByName:   make(map[string][]*model.Method),
		incompleteCtors: make(map[*model.Method]bool),
	}
}

// Result is everything recovered from one binary: the per-file-id tables
// and the forest of top-level declarations, every compilation unit's
// declarations appended to one slice in iteration order.
type Result struct {
	Files    map[model.CUOffset]filetable.Table
	Elements []model.Declaration
	BaseDir  []byte
}

// Walk iterates every compilation unit, recovers its declarations, then
// runs the constructor low_pc backfill pass once all units have been seen
// (a constructor's definition can live in a different CU than its use).
func (w *Walker) Walk() (*Result, error) {
	result := &Result{Files: make(map[model.CUOffset]filetable.Table)}

	reader := w.data.Reader()
	var firstTop *dwarf.Entry

	for {
		top, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if top == nil {
			break
		}
		if top.Tag != dwarf.TagCompileUnit {
			reader.SkipChildren()
			continue
		}

		if firstTop == nil {
			firstTop = top
		}

		files, ferr := filetable.Build(w.data, top)
		if ferr == nil {
			result.Files[top.Offset] = files
		} else {
			w.logger.Debug("file table unavailable for compile unit", "cu", top.Offset, "error", ferr)
		}

		idx, ierr := resolver.BuildIndex(w.data, top)
		if ierr != nil || idx == nil {
			w.logger.Warn("skipping compile unit: index build failed", "cu", top.Offset, "error", ierr)
			reader.SkipChildren()
			continue
		}

		cu := &resolver.CU{Offset: top.Offset, Index: idx, Files: files}
		elements := w.parseChildren(cu, top)
		result.Elements = append(result.Elements, elements...)

		reader.SkipChildren()
	}

	w.fixConstructors()

	if firstTop != nil {
		result.BaseDir = filetable.BaseDirectory(firstTop)
	}

	return result, nil
}

func (w *Walker) fixConstructors() {
	for ctor := range w.incompleteCtors {
		for _, other := range w.methodsByName[string(ctor.Name)] {
			if other.LowPC != nil {
				ctor.LowPC = other.LowPC
				break
			}
		}
	}
}

// parseChildren recurses over die's direct children, dispatching each one
// by tag. A child that panics while being parsed is dropped rather than
// aborting its siblings.
func (w *Walker) parseChildren(cu *resolver.CU, die *dwarf.Entry) []model.Declaration {
	var elements []model.Declaration

	for _, child := range cu.Index.ChildrenOf(die.Offset) {
		decl := w.parseOne(cu, child)
		if decl != nil {
			elements = append(elements, decl)
		}
	}

	return elements
}

func (w *Walker) parseOne(cu *resolver.CU, child *dwarf.Entry) (decl model.Declaration) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Warn("dropped entry: panic while parsing", "offset", child.Offset, "tag", child.Tag, "recovered", r)
		}
	}()

	switch child.Tag {
	case dwarf.TagClassType:
		return w.parseClassType(cu, child)
	case dwarf.TagUnionType:
		return w.parseUnionType(cu, child)
	case dwarf.TagStructType:
		if name(child) == "" {
			w.logger.Debug("skipping anonymous struct", "offset", child.Offset)
			return nil
		}
		return w.parseStructType(cu, child)
	case dwarf.TagSubprogram:
		w.parseSubprogram(cu, child)
		return nil
	case dwarf.TagNamespace:
		return w.parseNamespace(cu, child)
	case dwarf.TagTypedef:
		return w.parseTypedef(cu, child)
	case dwarf.TagEnumerationType:
		if e := w.parseEnum(cu, child); e != nil {
			return e
		}
	}

	return nil
}

func (w *Walker) parseNamespace(cu *resolver.CU, die *dwarf.Entry) *model.Namespace {
	return &model.Namespace{
		Name:     []byte(name(die)),
		Elements: w.parseChildren(cu, die),
		DeclFile: declFile(cu, die),
	}
}

func (w *Walker) parseTypedef(cu *resolver.CU, die *dwarf.Entry) *model.TypeDef {
	return &model.TypeDef{
		Name:     []byte(name(die)),
		Type:     resolver.ResolveType(cu, die),
		DeclFile: declFile(cu, die),
	}
}

func (w *Walker) parseClassType(cu *resolver.CU, die *dwarf.Entry) *model.Class {
	class := &model.Class{
		Name:     []byte(name(die)),
		DeclFile: declFile(cu, die),
	}

	for _, child := range cu.Index.ChildrenOf(die.Offset) {
		if child.Tag == dwarf.TagInheritance {
			class.Inheritance = &model.Inheritance{
				Class:         resolver.ResolveType(cu, child),
				Accessibility: accessibility(child),
			}
			continue
		}

		if member := w.parseMember(cu, child); member != nil {
			class.Members = append(class.Members, member)
		}
	}

	return class
}

func (w *Walker) parseStructType(cu *resolver.CU, die *dwarf.Entry) *model.Struct {
	s := &model.Struct{
		Name:     []byte(name(die)),
		DeclFile: declFile(cu, die),
	}

	for _, child := range cu.Index.ChildrenOf(die.Offset) {
		if member := w.parseMember(cu, child); member != nil {
			s.Members = append(s.Members, member)
		}
	}

	return s
}

func (w *Walker) parseUnionType(cu *resolver.CU, die *dwarf.Entry) *model.Union {
	u := &model.Union{
		Name:          []byte(name(die)),
		Accessibility: accessibility(die),
		DeclFile:      declFile(cu, die),
	}

	for _, child := range cu.Index.ChildrenOf(die.Offset) {
		if member := w.parseMember(cu, child); member != nil {
			u.Fields = append(u.Fields, member)
		}
	}

	return u
}

// parseMember classifies a DW_TAG_member/DW_TAG_subprogram/anonymous-union
// child into a Member, mirroring the original extractor's single dispatch
// point shared between class/struct/union bodies.
func (w *Walker) parseMember(cu *resolver.CU, child *dwarf.Entry) model.Member {
	acc := accessibility(child)
	classType := resolver.ResolveType(cu, child)

	switch child.Tag {
	case dwarf.TagSubprogram:
		return w.parseMethodMember(cu, child, classType, acc)

	case dwarf.TagMember:
		if classType != nil {
			return parseFieldMember(cu, child, classType, acc)
		}

		typeEntry := typeEntryOf(cu, child)
		if typeEntry != nil && typeEntry.Tag == dwarf.TagUnionType {
			return w.parseAnonymousUnion(cu, child, typeEntry, acc)
		}

	case dwarf.TagEnumerationType:
		if e := w.parseEnum(cu, child); e != nil {
			return e
		}
	}

	return nil
}

func (w *Walker) parseMethodMember(cu *resolver.CU, die *dwarf.Entry, returnType *model.Type, acc model.Accessibility) model.Member {
	method := &model.Method{
		Name:          []byte(name(die)),
		ReturnType:    returnType,
		Accessibility: acc,
		Static:        die.Val(dwarf.AttrObjectPointer) == nil,
		Virtual:       virtuality(die) == 1,
		Offset:        die.Offset,
		DeclFile:      declFile(cu, die),
		FullyDefined:  false,
		LinkageName:   []byte(linkageName(die)),
	}

	for _, sub := range cu.Index.ChildrenOf(die.Offset) {
		if sub.Tag != dwarf.TagFormalParameter {
			continue
		}
		method.DirectParameters = append(method.DirectParameters, model.Parameter{
			Name:   []byte(name(sub)),
			Type:   resolver.ResolveType(cu, sub),
			Offset: sub.Offset,
		})
	}

	w.methods[die.Offset] = method
	if len(method.Name) > 0 {
		w.methodsByName[string(method.Name)] = append(w.methodsByName[string(method.Name)], method)
	}
	w.incompleteCtors[method] = true

	return method
}

func parseFieldMember(cu *resolver.CU, die *dwarf.Entry, fieldType *model.Type, acc model.Accessibility) *model.Field {
	field := &model.Field{
		Name:          []byte(name(die)),
		Type:          fieldType,
		Accessibility: acc,
		Static:        die.Val(dwarf.AttrExternal) != nil,
		DeclFile:      declFile(cu, die),
	}
	if len(field.Name) == 0 {
		field.Name = []byte("ERROR_UNKNOWN")
	}

	if cv := die.Val(dwarf.AttrConstValue); cv != nil {
		field.ConstValue = cv
		if raw, ok := cv.([]byte); ok && fieldType.Array && fieldType.ByteSize != nil && *fieldType.ByteSize > 0 {
			chunks := chunk(raw, int(*fieldType.ByteSize))
			field.ConstValue = chunks
			n := len(chunks)
			field.ArraySize = &n
		}
	}

	if loc, ok := die.Val(dwarf.AttrDataMemberLoc).(int64); ok {
		l := uint64(loc)
		field.DataMemberLocation = &l
	}

	return field
}

// parseAnonymousUnion recovers an anonymous nested union: its type points
// at a DW_TAG_union_type sibling whose own children are the real members.
func (w *Walker) parseAnonymousUnion(cu *resolver.CU, memberDie, unionDie *dwarf.Entry, acc model.Accessibility) *model.Union {
	u := &model.Union{Accessibility: acc}

	for _, child := range cu.Index.ChildrenOf(unionDie.Offset) {
		member := w.parseMember(cu, child)
		if member == nil {
			continue
		}
		if field, ok := member.(*model.Field); ok {
			field.Static = child.Val(dwarf.AttrExternal) != nil
		}
		u.Fields = append(u.Fields, member)
	}

	return u
}

func (w *Walker) parseEnum(cu *resolver.CU, die *dwarf.Entry) *model.EnumerationType {
	if name(die) == "" {
		w.logger.Debug("skipping anonymous enumeration", "offset", die.Offset)
		return nil
	}

	e := &model.EnumerationType{
		Name:          []byte(name(die)),
		Type:          resolver.ResolveType(cu, die),
		Accessibility: accessibility(die),
		DeclFile:      declFile(cu, die),
	}

	for _, child := range cu.Index.ChildrenOf(die.Offset) {
		value, _ := child.Val(dwarf.AttrConstValue).(int64)
		e.Enumerators = append(e.Enumerators, model.Enumerator{
			Name:  []byte(name(child)),
			Value: value,
		})
	}

	return e
}

// parseSubprogram unifies a DW_TAG_subprogram DIE with whatever method it
// specifies, or registers it as a fresh method when it's a standalone
// constructor recoverable only through its mangled linkage name.
func (w *Walker) parseSubprogram(cu *resolver.CU, die *dwarf.Entry) {
	var specOffset dwarf.Offset

	if spec, ok := die.Val(dwarf.AttrSpecification).(dwarf.Offset); ok {
		specOffset = spec
		if _, known := w.methods[specOffset]; !known {
			if specDie, ok := cu.Index.EntryAt(specOffset); ok {
				w.parseMember(cu, specDie)
			}
		}
	} else {
		if name(die) != "" || linkageName(die) == "" {
			return
		}

		member := w.parseMember(cu, die)
		method, ok := member.(*model.Method)
		if !ok {
			return
		}

		match := constructorName.FindStringSubmatch(linkageName(die))
		if match == nil {
			return
		}

		method.Name = []byte(match[1])
		w.methodsByName[string(method.Name)] = append(w.methodsByName[string(method.Name)], method)

		specOffset = die.Offset
	}

	existing, ok := w.methods[specOffset]
	if !ok {
		return
	}

	for _, child := range cu.Index.ChildrenOf(die.Offset) {
		if child.Tag != dwarf.TagFormalParameter {
			continue
		}
		n := name(child)
		if n == "" {
			n = "arg"
		}
		existing.Parameters = append(existing.Parameters, model.Parameter{
			Name: []byte(n),
			Type: resolver.ResolveType(cu, child),
		})
	}

	if lowPC, ok := die.Val(dwarf.AttrLowpc).(uint64); ok {
		existing.LowPC = &lowPC
	}

	if existing.LowPC != nil {
		existing.FullyDefined = true
		delete(w.incompleteCtors, existing)
	}
}

func name(die *dwarf.Entry) string {
	n, _ := die.Val(dwarf.AttrName).(string)
	return n
}

func linkageName(die *dwarf.Entry) string {
	n, _ := die.Val(dwarf.AttrLinkageName).(string)
	return n
}

func virtuality(die *dwarf.Entry) int64 {
	v, _ := die.Val(dwarf.AttrVirtuality).(int64)
	return v
}

func accessibility(die *dwarf.Entry) model.Accessibility {
	v, ok := die.Val(dwarf.AttrAccessibility).(int64)
	if !ok {
		return model.Private
	}
	return model.Accessibility(v)
}

func declFile(cu *resolver.CU, die *dwarf.Entry) *model.DeclFile {
	declFileID, ok := die.Val(dwarf.AttrDeclFile).(int64)
	if !ok || cu.Files == nil {
		return nil
	}
	f, ok := cu.Files[uint32(declFileID)]
	if !ok {
		return nil
	}
	return &model.DeclFile{CU: cu.Offset, File: f}
}

func typeEntryOf(cu *resolver.CU, die *dwarf.Entry) *dwarf.Entry {
	off, ok := die.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return nil
	}
	entry, _ := cu.Index.EntryAt(off)
	return entry
}

// chunk splits raw into consecutive slices of size, dropping a final
// short remainder the same way a Python slice step would.
func chunk(raw []byte, size int) [][]byte {
	if size <= 0 {
		return nil
	}

	var chunks [][]byte
	for i := 0; i+size <= len(raw); i += size {
		chunks = append(chunks, raw[i:i+size])
	}
	return chunks
}

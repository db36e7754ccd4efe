package resolver

import (
	"debug/dwarf"
	"testing"

	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/stretchr/testify/assert"
)

// entry is a small builder for hand-constructed dwarf.Entry values, since
// debug/dwarf has no public constructor and the resolver only ever needs a
// handful of attributes off each one.
func entry(offset dwarf.Offset, tag dwarf.Tag, fields ...dwarf.Field) *dwarf.Entry {
	return &dwarf.Entry{Offset: offset, Tag: tag, Field: fields}
}

func field(attr dwarf.Attr, val interface{}) dwarf.Field {
	return dwarf.Field{Attr: attr, Val: val}
}

func attrType(offset dwarf.Offset) dwarf.Field {
	return field(dwarf.AttrType, offset)
}

func newIndex(entries ...*dwarf.Entry) *Index {
	idx := &Index{
		Entries:  make(map[dwarf.Offset]*dwarf.Entry),
		Parent:   make(map[dwarf.Offset]dwarf.Offset),
		Children: make(map[dwarf.Offset][]dwarf.Offset),
	}
	for _, e := range entries {
		idx.Entries[e.Offset] = e
	}
	return idx
}

func TestResolveType_PlainNamedType(t *testing.T) {
	base := entry(1, dwarf.TagBaseType, field(dwarf.AttrName, "int"), field(dwarf.AttrByteSize, int64(4)))
	die := entry(2, dwarf.TagFormalParameter, attrType(1))

	idx := newIndex(base, die)
	cu := &CU{Index: idx}

	typ := ResolveType(cu, die)
	if assert.NotNil(t, typ) {
		assert.Equal(t, "int", string(typ.Name))
		assert.True(t, typ.Base)
		assert.Empty(t, typ.Modifiers)
	}
}

func TestResolveType_PointerToConstStruct(t *testing.T) {
	// die -> pointer -> const -> struct("Widget")
	structType := entry(1, dwarf.TagStructType, field(dwarf.AttrName, "Widget"))
	constType := entry(2, dwarf.TagConstType, attrType(1))
	pointerType := entry(3, dwarf.TagPointerType, attrType(2))
	die := entry(4, dwarf.TagFormalParameter, attrType(3))

	idx := newIndex(structType, constType, pointerType, die)
	cu := &CU{Index: idx}

	typ := ResolveType(cu, die)
	if assert.NotNil(t, typ) {
		assert.Equal(t, "Widget", string(typ.Name))
		// The chain is walked from the reference site inward (pointer,
		// then const, then the named struct); each modifier is prepended
		// as it's found, so the outer-to-inner walk order ends up
		// reversed into print order: const before pointer, reading as
		// "Widget const *".
		assert.Equal(t, []model.Modifier{model.Constant, model.Pointer}, typ.Modifiers)
	}
}

func TestResolveType_NoTypeAttribute(t *testing.T) {
	die := entry(1, dwarf.TagFormalParameter)
	idx := newIndex(die)
	cu := &CU{Index: idx}

	assert.Nil(t, ResolveType(cu, die))
}

func TestResolveType_DanglingReferenceIsTolerated(t *testing.T) {
	die := entry(1, dwarf.TagFormalParameter, attrType(999))
	idx := newIndex(die)
	cu := &CU{Index: idx}

	assert.Nil(t, ResolveType(cu, die))
}

func TestResolveType_CycleIsTolerated(t *testing.T) {
	// a -> b -> a, neither ever carries a name: must not infinite-loop.
	a := entry(1, dwarf.TagConstType, attrType(2))
	b := entry(2, dwarf.TagVolatileType, attrType(1))

	idx := newIndex(a, b)
	cu := &CU{Index: idx}

	assert.Nil(t, ResolveType(cu, a))
}

func TestResolveType_TerminalWithoutNameFallsBackToLinkageName(t *testing.T) {
	anon := entry(1, dwarf.TagSubprogram, field(dwarf.AttrLinkageName, "_ZN6WidgetC1Ev"))
	die := entry(2, dwarf.TagFormalParameter, attrType(1))

	idx := newIndex(anon, die)
	cu := &CU{Index: idx}

	typ := ResolveType(cu, die)
	if assert.NotNil(t, typ) {
		assert.Equal(t, "_ZN6WidgetC1Ev", string(typ.Name))
	}
}

func TestNamespacesOf(t *testing.T) {
	root := entry(1, dwarf.TagCompileUnit)
	outer := entry(2, dwarf.TagNamespace, field(dwarf.AttrName, "outer"))
	inner := entry(3, dwarf.TagNamespace, field(dwarf.AttrName, "inner"))
	class := entry(4, dwarf.TagClassType, field(dwarf.AttrName, "Widget"))

	idx := newIndex(root, outer, inner, class)
	idx.Parent[outer.Offset] = root.Offset
	idx.Parent[inner.Offset] = outer.Offset
	idx.Parent[class.Offset] = inner.Offset

	namespaces := namespacesOf(idx, class)
	assert.Equal(t, [][]byte{[]byte("outer"), []byte("inner")}, namespaces)
}

func TestArraySize_PrefersCountOverUpperBound(t *testing.T) {
	arrayType := entry(1, dwarf.TagArrayType)
	subrangeWithCount := entry(2, dwarf.TagSubrangeType, field(dwarf.AttrCount, int64(8)))

	idx := newIndex(arrayType, subrangeWithCount)
	idx.Parent[subrangeWithCount.Offset] = arrayType.Offset
	idx.Children[arrayType.Offset] = []dwarf.Offset{subrangeWithCount.Offset}

	size := arraySize(idx, arrayType)
	if assert.NotNil(t, size) {
		assert.Equal(t, uint64(8), *size)
	}
}

func TestArraySize_FallsBackToUpperBoundPlusOne(t *testing.T) {
	arrayType := entry(1, dwarf.TagArrayType)
	subrangeWithUpper := entry(2, dwarf.TagSubrangeType, field(dwarf.AttrUpperBound, int64(3)))

	idx := newIndex(arrayType, subrangeWithUpper)
	idx.Children[arrayType.Offset] = []dwarf.Offset{subrangeWithUpper.Offset}

	size := arraySize(idx, arrayType)
	if assert.NotNil(t, size) {
		assert.Equal(t, uint64(4), *size)
	}
}

package walker

import (
	"bytes"
	"debug/dwarf"
	"log/slog"
	"testing"

	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/adikso/dwarfdecl/internal/resolver"
	"github.com/stretchr/testify/assert"
)

// entry and field mirror the resolver package's own test helpers: debug/dwarf
// has no public constructor, so hand-building the handful of attributes each
// test needs is the only way to exercise the walker without a real binary.
func entry(offset dwarf.Offset, tag dwarf.Tag, fields ...dwarf.Field) *dwarf.Entry {
	return &dwarf.Entry{Offset: offset, Tag: tag, Field: fields}
}

func field(attr dwarf.Attr, val interface{}) dwarf.Field {
	return dwarf.Field{Attr: attr, Val: val}
}

func newCU(entries ...*dwarf.Entry) *resolver.CU {
	idx := &resolver.Index{
		Entries:  make(map[dwarf.Offset]*dwarf.Entry),
		Parent:   make(map[dwarf.Offset]dwarf.Offset),
		Children: make(map[dwarf.Offset][]dwarf.Offset),
	}
	for _, e := range entries {
		idx.Entries[e.Offset] = e
	}
	return &resolver.CU{Index: idx}
}

func newTestWalker(buf *bytes.Buffer) *Walker {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(nil, slog.New(handler))
}

func TestFixConstructors_BackfillsFromNamesake(t *testing.T) {
	w := newTestWalker(&bytes.Buffer{})

	lowPC := uint64(0x401020)
	defined := &model.Method{Name: []byte("Widget"), LowPC: &lowPC}
	incomplete := &model.Method{Name: []byte("Widget")}

	w.methodsByName["Widget"] = []*model.Method{defined, incomplete}
	w.incompleteCtors[incomplete] = true

	w.fixConstructors()

	if assert.NotNil(t, incomplete.LowPC) {
		assert.Equal(t, lowPC, *incomplete.LowPC)
	}
}

func TestFixConstructors_LeavesUnmatchedCtorAlone(t *testing.T) {
	w := newTestWalker(&bytes.Buffer{})

	incomplete := &model.Method{Name: []byte("Lonely")}
	w.incompleteCtors[incomplete] = true

	w.fixConstructors()

	assert.Nil(t, incomplete.LowPC)
}

func TestParseOne_RecoversFromPanicAndLogsIt(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWalker(&buf)

	// A class_type DIE parsed with a nil CU panics inside parseClassType's
	// first call to cu.Index.ChildrenOf; parseOne must swallow it and log
	// instead of taking the whole walk down with it.
	child := entry(1, dwarf.TagClassType, field(dwarf.AttrName, "Widget"))

	var decl model.Declaration
	assert.NotPanics(t, func() {
		decl = w.parseOne(nil, child)
	})

	assert.Nil(t, decl)
	assert.Contains(t, buf.String(), "dropped entry")
}

func TestParseOne_SkipsAnonymousStruct(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWalker(&buf)
	cu := newCU()

	child := entry(1, dwarf.TagStructType)

	decl := w.parseOne(cu, child)

	assert.Nil(t, decl)
	assert.Contains(t, buf.String(), "skipping anonymous struct")
}

func TestParseOne_NamedStructIsParsed(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWalker(&buf)
	cu := newCU()

	child := entry(1, dwarf.TagStructType, field(dwarf.AttrName, "Widget"))

	decl := w.parseOne(cu, child)

	if assert.NotNil(t, decl) {
		s, ok := decl.(*model.Struct)
		assert.True(t, ok)
		assert.Equal(t, "Widget", string(s.Name))
	}
}

func TestParseEnum_SkipsAnonymousEnum(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWalker(&buf)
	cu := newCU()

	die := entry(1, dwarf.TagEnumerationType)

	decl := w.parseEnum(cu, die)

	assert.Nil(t, decl)
	assert.Contains(t, buf.String(), "skipping anonymous enumeration")
}

func TestAccessibility_DefaultsToPrivate(t *testing.T) {
	die := entry(1, dwarf.TagMember)
	assert.Equal(t, model.Private, accessibility(die))
}

func TestAccessibility_ReadsDeclaredValue(t *testing.T) {
	die := entry(1, dwarf.TagMember, field(dwarf.AttrAccessibility, int64(model.Public)))
	assert.Equal(t, model.Public, accessibility(die))
}

func TestParseMethodMember_StaticWhenNoObjectPointer(t *testing.T) {
	w := newTestWalker(&bytes.Buffer{})
	cu := newCU()

	die := entry(1, dwarf.TagSubprogram, field(dwarf.AttrName, "helper"))

	member := w.parseMethodMember(cu, die, nil, model.Public)
	method, ok := member.(*model.Method)
	if assert.True(t, ok) {
		assert.True(t, method.Static)
		assert.False(t, method.Virtual)
	}
}

func TestParseMethodMember_NonStaticAndVirtual(t *testing.T) {
	w := newTestWalker(&bytes.Buffer{})
	cu := newCU()

	die := entry(1, dwarf.TagSubprogram,
		field(dwarf.AttrName, "f"),
		field(dwarf.AttrObjectPointer, dwarf.Offset(99)),
		field(dwarf.AttrVirtuality, int64(1)),
	)

	member := w.parseMethodMember(cu, die, nil, model.Protected)
	method, ok := member.(*model.Method)
	if assert.True(t, ok) {
		assert.False(t, method.Static)
		assert.True(t, method.Virtual)
		assert.Equal(t, model.Protected, method.Accessibility)
	}
}

func TestConstructorName_ExtractsClassFromMangledName(t *testing.T) {
	match := constructorName.FindStringSubmatch("_ZN6WidgetC1Ev")
	if assert.NotNil(t, match) {
		assert.Equal(t, "Widget", match[1])
	}
}

func TestConstructorName_RejectsNonConstructor(t *testing.T) {
	assert.Nil(t, constructorName.FindStringSubmatch("_ZN6Widget3fooEv"))
}

func TestChunk_DropsShortRemainder(t *testing.T) {
	chunks := chunk([]byte{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]byte{{1, 2}, {3, 4}}, chunks)
}

func TestChunk_ZeroSizeYieldsNil(t *testing.T) {
	assert.Nil(t, chunk([]byte{1, 2}, 0))
}

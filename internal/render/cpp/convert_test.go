package cpp

import (
	"testing"

	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/adikso/dwarfdecl/internal/walker"
	"github.com/stretchr/testify/assert"
)

func declFileIn(dir, name string) *model.DeclFile {
	return &model.DeclFile{File: &model.File{Directory: []byte(dir), Name: []byte(name)}}
}

func TestConvert_DropsOutOfProjectDeclarations(t *testing.T) {
	inProject := &model.Struct{Name: []byte("Widget"), DeclFile: declFileIn("/proj", "widget.h")}
	systemHeader := &model.Struct{Name: []byte("size_t"), DeclFile: declFileIn("/usr/include", "stddef.h")}

	result := &walker.Result{
		Elements: []model.Declaration{inProject, systemHeader},
		BaseDir:  []byte("/proj"),
	}

	forest, _ := Convert(result)

	assert.Len(t, forest, 1)
	entries, ok := forest["/proj/widget.h"]
	if assert.True(t, ok) {
		assert.Len(t, entries, 1)
		assert.Equal(t, "Struct Widget", entries[0].ID())
	}
}

func TestConvert_DedupesRepeatedDeclarationKeepingRichestCopy(t *testing.T) {
	declFile := declFileIn("/proj", "widget.h")
	thin := &model.Struct{Name: []byte("Widget"), DeclFile: declFile}
	rich := &model.Struct{
		Name:     []byte("Widget"),
		DeclFile: declFile,
		Members:  []model.Member{&model.Field{Name: []byte("x"), Type: &model.Type{Name: []byte("int")}}},
	}

	result := &walker.Result{
		Elements: []model.Declaration{thin, rich},
		BaseDir:  []byte("/proj"),
	}

	forest, _ := Convert(result)

	entries := forest["/proj/widget.h"]
	if assert.Len(t, entries, 1) {
		s, ok := entries[0].(*CPPStruct)
		if assert.True(t, ok) {
			assert.Len(t, s.Block.Children, 1)
		}
	}
}

func TestConvert_NamespaceKeepsOnlyInProjectNestedElements(t *testing.T) {
	inner := &model.Struct{Name: []byte("Widget"), DeclFile: declFileIn("/proj", "widget.h")}
	outside := &model.Struct{Name: []byte("size_t"), DeclFile: declFileIn("/usr/include", "stddef.h")}
	ns := &model.Namespace{
		Name:     []byte("app"),
		DeclFile: declFileIn("/proj", "widget.h"),
		Elements: []model.Declaration{inner, outside},
	}

	result := &walker.Result{Elements: []model.Declaration{ns}, BaseDir: []byte("/proj")}

	forest, _ := Convert(result)

	entries := forest["/proj/widget.h"]
	if assert.Len(t, entries, 1) {
		n, ok := entries[0].(*CPPNamespace)
		if assert.True(t, ok) {
			assert.Len(t, n.Block.Children, 1)
		}
	}
}

func TestConvert_RecoversFromPanicInOneElement(t *testing.T) {
	// A Field with a nil Type panics inside convertMember's vtable-pointer
	// check; convertElement's recover must drop only this declaration and
	// leave its sibling intact.
	broken := &model.Struct{
		Name:     []byte("Broken"),
		DeclFile: declFileIn("/proj", "broken.h"),
		Members:  []model.Member{&model.Field{Name: []byte("x"), Type: nil}},
	}
	fine := &model.Struct{Name: []byte("Widget"), DeclFile: declFileIn("/proj", "widget.h")}

	result := &walker.Result{
		Elements: []model.Declaration{broken, fine},
		BaseDir:  []byte("/proj"),
	}

	var forest Forest
	assert.NotPanics(t, func() {
		forest, _ = Convert(result)
	})

	assert.Len(t, forest, 1)
	_, ok := forest["/proj/widget.h"]
	assert.True(t, ok)
}

package cpp

import (
	"fmt"
	"testing"

	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/stretchr/testify/assert"
)

type stringerLine struct{ text string }

func (s stringerLine) String() string { return s.text }

func line(text string) fmt.Stringer { return stringerLine{text} }

func TestCPPBlock_String_FirstPrivateMemberSuppressesLabel(t *testing.T) {
	b := &CPPBlock{
		Children:      []fmt.Stringer{line("int x;"), line("void f();")},
		Accessibility: []model.Accessibility{model.Private, model.Public},
	}

	expected := "{\n    int x;\npublic:\n    void f();\n};"
	assert.Equal(t, expected, b.String())
}

func TestCPPBlock_String_FirstPublicMemberGetsLabel(t *testing.T) {
	b := &CPPBlock{
		Children:      []fmt.Stringer{line("void f();")},
		Accessibility: []model.Accessibility{model.Public},
	}

	expected := "{\npublic:\n    void f();\n};"
	assert.Equal(t, expected, b.String())
}

func TestCPPBlock_String_LabelOnlyOnChange(t *testing.T) {
	b := &CPPBlock{
		Children: []fmt.Stringer{line("void a();"), line("void b();"), line("int c;")},
		Accessibility: []model.Accessibility{
			model.Public, model.Public, model.Private,
		},
	}

	expected := "{\npublic:\n    void a();\n    void b();\nprivate:\n    int c;\n};"
	assert.Equal(t, expected, b.String())
}

func TestCPPBlock_String_LabelsDisabled(t *testing.T) {
	b := &CPPBlock{
		Children:       []fmt.Stringer{line("A = 0,"), line("B = 1,")},
		Accessibility:  []model.Accessibility{model.Public, model.Public},
		LabelsDisabled: true,
	}

	expected := "{\n    A = 0,\n    B = 1,\n};"
	assert.Equal(t, expected, b.String())
}

func TestCPPBlock_String_NilAccessibilitySkipsLabels(t *testing.T) {
	b := &CPPBlock{Children: []fmt.Stringer{line("int x;")}}
	assert.Equal(t, "{\n    int x;\n};", b.String())
}

func TestCPPInheritance_String(t *testing.T) {
	tests := []struct {
		name     string
		inherit  *CPPInheritance
		expected string
	}{
		{
			name:     "public base",
			inherit:  &CPPInheritance{Class: &model.Type{Name: []byte("Base")}, Accessibility: model.Public},
			expected: "public Base",
		},
		{
			name:     "private base omits the keyword",
			inherit:  &CPPInheritance{Class: &model.Type{Name: []byte("Base")}, Accessibility: model.Private},
			expected: "Base",
		},
		{
			name:     "invalid utf8 class name",
			inherit:  &CPPInheritance{Class: &model.Type{Name: []byte{0xff, 0xfe}}, Accessibility: model.Public},
			expected: "public <<invalid>>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inherit.String())
		})
	}
}

func TestCPPTypeDef_FillValue(t *testing.T) {
	assert.Equal(t, 1, (&CPPTypeDef{Type: &model.Type{Name: []byte("int")}}).FillValue())
	assert.Equal(t, 0, (&CPPTypeDef{Type: &model.Type{}}).FillValue())
	assert.Equal(t, 0, (&CPPTypeDef{}).FillValue())
}

func TestCPPMethod_String_DestructorHasNoParameters(t *testing.T) {
	m := &CPPMethod{
		Name:       "~Widget",
		Parameters: []*CPPParameter{{Name: "unused", Type: &model.Type{Name: []byte("int")}}},
	}
	assert.Equal(t, "~Widget();", m.String())
}

func TestCPPMethod_String_StaticVirtualReturnType(t *testing.T) {
	m := &CPPMethod{
		Name: "get",
		Type: &model.Type{Name: []byte("int")},
	}
	assert.Equal(t, "int get();", m.String())

	m.Static = true
	assert.Equal(t, "static int get();", m.String())

	m.Virtual = true
	assert.Equal(t, "virtual static int get();", m.String())
}

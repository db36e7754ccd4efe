package includes

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "known external name", input: "std::string", expected: "string"},
		{name: "unknown name passes through", input: "MyWidget", expected: "MyWidget"},
		{name: "empty name passes through", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rename(tt.input))
		})
	}
}

func TestSet_AddAndFor(t *testing.T) {
	s := NewSet()
	s.Add("widget.h", "base.h")
	s.Add("widget.h", "types.h")
	s.Add("widget.h", "base.h") // duplicate, should not appear twice

	got := s.For("widget.h")
	sort.Strings(got)
	assert.Equal(t, []string{"base.h", "types.h"}, got)
}

func TestSet_Add_DropsSelfAndEmptyReferences(t *testing.T) {
	s := NewSet()
	s.Add("widget.h", "widget.h")
	s.Add("", "base.h")
	s.Add("widget.h", "")

	assert.Nil(t, s.For("widget.h"))
	assert.Nil(t, s.For(""))
}

func TestSet_For_UnknownFileReturnsNil(t *testing.T) {
	s := NewSet()
	assert.Nil(t, s.For("nope.h"))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessibility_String(t *testing.T) {
	tests := []struct {
		name     string
		input    Accessibility
		expected string
	}{
		{name: "private", input: Private, expected: "private"},
		{name: "public", input: Public, expected: "public"},
		{name: "protected", input: Protected, expected: "protected"},
		{name: "unrecognized value degrades to public", input: Accessibility(42), expected: "public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.String())
		})
	}
}

func TestAccessibility_Render(t *testing.T) {
	assert.Equal(t, Public, Accessibility(99).Render())
	assert.Equal(t, Protected, Protected.Render())
	assert.Equal(t, Private, Private.Render())
}

func TestFile_FullPath(t *testing.T) {
	f := &File{Directory: []byte("/project/src"), Name: []byte("widget.cpp")}
	assert.Equal(t, "/project/src/widget.cpp", string(f.FullPath()))
}

func TestFile_FullPath_NilReceiver(t *testing.T) {
	var f *File
	assert.Nil(t, f.FullPath())
}

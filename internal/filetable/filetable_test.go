package filetable

import (
	"debug/dwarf"
	"testing"

	"github.com/stretchr/testify/assert"
)

func entry(fields ...dwarf.Field) *dwarf.Entry {
	return &dwarf.Entry{Field: fields}
}

func field(attr dwarf.Attr, val interface{}) dwarf.Field {
	return dwarf.Field{Attr: attr, Val: val}
}

func TestBaseDirectory(t *testing.T) {
	tests := []struct {
		name     string
		compDir  string
		cuName   string
		expected string
	}{
		{
			name:     "absolute cu name narrows to common prefix",
			compDir:  "/home/dev/project/build",
			cuName:   "/home/dev/project/src/widget.cpp",
			expected: "/home/dev/project",
		},
		{
			name:     "relative cu name keeps comp_dir as-is",
			compDir:  "/home/dev/project",
			cuName:   "widget.cpp",
			expected: "/home/dev/project",
		},
		{
			name:     "no comp_dir at all",
			compDir:  "",
			cuName:   "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields []dwarf.Field
			if tt.compDir != "" {
				fields = append(fields, field(dwarf.AttrCompDir, tt.compDir))
			}
			if tt.cuName != "" {
				fields = append(fields, field(dwarf.AttrName, tt.cuName))
			}
			top := entry(fields...)

			assert.Equal(t, tt.expected, string(BaseDirectory(top)))
		})
	}
}

func TestInProject(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		fullPath string
		expected bool
	}{
		{name: "under base", base: "/home/dev/project", fullPath: "/home/dev/project/src/widget.cpp", expected: true},
		{name: "outside base", base: "/home/dev/project", fullPath: "/usr/include/stdio.h", expected: false},
		{name: "compiler built-in is never in project", base: "/home/dev/project", fullPath: "/home/dev/project/<built-in>", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InProject([]byte(tt.base), []byte(tt.fullPath)))
		})
	}
}

// Package cpp implements the Declaration Renderer: it converts the
// reconstructed model into per-file C++-like textual declarations, with
// accessibility groupings, include guards, and cross-file #include
// inference.
package cpp

import (
	"fmt"

	"github.com/adikso/dwarfdecl/internal/model"
)

// entry is implemented by every top-level CPP* wrapper type (the ones that
// can be sent to a store.Storage for per-file deduplication): CPPClass,
// CPPStruct, CPPUnion, CPPNamespace, CPPTypeDef, CPPEnumerationType.
type entry interface {
	fmt.Stringer
	ID() string
	FillValue() int
}

// CPPParameter is a single rendered formal parameter.
type CPPParameter struct {
	Name   string
	Type   *model.Type
	Offset uint64
}

func (p *CPPParameter) String() string {
	typeStr := fmt.Sprintf("void * /*<<ERROR_UNKNOWN - %#x>>*/ ", p.Offset)
	if p.Type != nil {
		typeStr = typeString(p.Type)
	}
	return typeStr + p.Name
}

// CPPMethod is a rendered member function.
type CPPMethod struct {
	Name       string
	Type       *model.Type
	Static     bool
	Virtual    bool
	Parameters []*CPPParameter
	LowPC      *uint64
}

func (m *CPPMethod) String() string {
	params := ""
	if len(m.Name) == 0 || m.Name[0] != '~' {
		params = joinStrings(m.Parameters, ", ")
	}

	output := fmt.Sprintf("%s(%s);", m.Name, params)
	if m.Type != nil {
		output = typeString(m.Type) + output
	}
	if m.Static {
		output = "static " + output
	}
	if m.Virtual {
		output = "virtual " + output
	}
	return output
}

func joinStrings[T fmt.Stringer](items []T, sep string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += sep
		}
		out += item.String()
	}
	return out
}

// CPPField is a rendered data member.
type CPPField struct {
	Name       string
	Type       *model.Type
	Static     bool
	ConstValue any
}

func (f *CPPField) String() string {
	output := typeString(f.Type) + f.Name

	switch {
	case f.ConstValue != nil:
		output += renderConstValue(f.Type, f.ConstValue)
	case f.Type != nil && f.Type.Array:
		output += fmt.Sprintf("[%s]", arraySizeToken(f.Type))
	}

	if f.Static {
		output = "static " + output
	}
	return output + ";"
}

// CPPBlock renders a brace-delimited, semicolon-terminated body with
// accessibility-label grouping, used by classes, structs, unions and
// enumerations alike.
type CPPBlock struct {
	Children []fmt.Stringer

	// Accessibility is parallel to Children; nil means "no labels apply"
	// at all (unions, enumerations).
	Accessibility  []model.Accessibility
	LabelsDisabled bool
}

func (b *CPPBlock) String() string {
	var lines []string
	var lastAccessibility *model.Accessibility

	for i, child := range b.Children {
		if !b.LabelsDisabled && b.Accessibility != nil {
			acc := b.Accessibility[i].Render()
			startsPrivate := lastAccessibility == nil && acc == model.Private

			if (lastAccessibility == nil || *lastAccessibility != acc) && !startsPrivate {
				lines = append(lines, acc.String()+":")
				a := acc
				lastAccessibility = &a
			}
		}

		for _, line := range splitLines(child.String()) {
			lines = append(lines, "    "+line)
		}
	}

	return "{\n" + joinLines(lines) + "\n};"
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// CPPUnion is a rendered union, named or anonymous.
type CPPUnion struct {
	Name  string
	Block *CPPBlock
}

func (u *CPPUnion) ID() string        { return "Union " + u.Name }
func (u *CPPUnion) FillValue() int    { return len(u.Block.Children) }
func (u *CPPUnion) String() string {
	output := "union "
	if u.Name != "" {
		output += u.Name + " "
	}
	block := *u.Block
	block.LabelsDisabled = true
	return output + block.String()
}

// CPPInheritance is a rendered base-class clause.
type CPPInheritance struct {
	Class         *model.Type
	Accessibility model.Accessibility
}

func (i *CPPInheritance) String() string {
	output := "<<invalid>>"
	if i.Class != nil && validUTF8(i.Class.Name) {
		output = typeString(i.Class)
		output = trimTrailingSpace(output)
	}

	if i.Accessibility.Render() != model.Private {
		output = i.Accessibility.String() + " " + output
	}
	return output
}

func trimTrailingSpace(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

// CPPClass is a rendered class declaration.
type CPPClass struct {
	Name        string
	Inheritance *CPPInheritance
	Block       *CPPBlock
}

func (c *CPPClass) ID() string     { return "Class " + c.Name }
func (c *CPPClass) FillValue() int { return len(c.Block.Children) }
func (c *CPPClass) String() string {
	output := "class " + c.Name
	if c.Inheritance != nil {
		output += " : " + c.Inheritance.String()
	}
	return output + " " + c.Block.String()
}

// CPPStruct is a rendered struct declaration.
type CPPStruct struct {
	Name  string
	Block *CPPBlock
}

func (s *CPPStruct) ID() string     { return "Struct " + s.Name }
func (s *CPPStruct) FillValue() int { return len(s.Block.Children) }
func (s *CPPStruct) String() string {
	return "struct " + s.Name + " " + s.Block.String()
}

// CPPNamespace is a rendered namespace block; its members are never
// accessibility-labeled.
type CPPNamespace struct {
	Name  string
	Block *CPPBlock
}

func (n *CPPNamespace) ID() string     { return "Namespace " + n.Name }
func (n *CPPNamespace) FillValue() int { return len(n.Block.Children) }
func (n *CPPNamespace) String() string {
	return "namespace " + n.Name + " " + n.Block.String()
}

// CPPTypeDef is a rendered typedef declaration.
type CPPTypeDef struct {
	Name string
	Type *model.Type
}

func (t *CPPTypeDef) ID() string { return "TypeDef " + t.Name }
func (t *CPPTypeDef) FillValue() int {
	if t.Type != nil && len(t.Type.Name) > 0 {
		return 1
	}
	return 0
}
func (t *CPPTypeDef) String() string {
	return "typedef " + typeString(t.Type) + t.Name + ";"
}

// CPPEnumerator is a single rendered `name = value,` pair.
type CPPEnumerator struct {
	Name  string
	Value int64
}

func (e *CPPEnumerator) ID() string     { return "Enumerator " + e.Name }
func (e *CPPEnumerator) FillValue() int { return 0 }
func (e *CPPEnumerator) String() string {
	return fmt.Sprintf("%s = %d,", e.Name, e.Value)
}

// CPPEnumerationType is a rendered enum declaration; its enumerators are
// never accessibility-labeled.
type CPPEnumerationType struct {
	Name        string
	Enumerators []*CPPEnumerator
	Block       *CPPBlock
}

func (e *CPPEnumerationType) ID() string     { return "EnumerationType " + e.Name }
func (e *CPPEnumerationType) FillValue() int { return len(e.Enumerators) }
func (e *CPPEnumerationType) String() string {
	return "enum " + e.Name + " " + e.Block.String()
}

func validUTF8(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, r := range string(b) {
		if r == '�' {
			return false
		}
	}
	return true
}

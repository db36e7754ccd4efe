package cpp

import (
	"fmt"

	"github.com/adikso/dwarfdecl/internal/model"
)

// convertMembers converts a class/struct/union's member list into a
// CPPBlock, skipping the internal vtable-pointer field and any method
// whose definition was never recovered, and recording cross-file include
// requirements as it encounters member/parameter types declared elsewhere.
func (c *converter) convertMembers(declaringFile string, members []model.Member, parentName string) *CPPBlock {
	block := &CPPBlock{}

	for _, member := range members {
		rendered, acc := c.convertMember(declaringFile, member, parentName)
		if rendered == nil {
			continue
		}
		block.Children = append(block.Children, rendered)
		block.Accessibility = append(block.Accessibility, acc)
	}

	return block
}

func (c *converter) convertMember(declaringFile string, member model.Member, parentName string) (fmt.Stringer, model.Accessibility) {
	switch m := member.(type) {
	case *model.Field:
		if string(m.Type.Name) == "__vtbl_ptr_type" {
			return nil, 0
		}

		c.recordTypeInclude(declaringFile, m.Type, m.DeclFile)

		return &CPPField{
			Name:       string(m.Name),
			Type:       m.Type,
			Static:     m.Static,
			ConstValue: m.ConstValue,
		}, m.Accessibility

	case *model.Union:
		return &CPPUnion{
			Name:  string(m.Name),
			Block: c.convertMembers(declaringFile, m.Fields, parentName),
		}, m.Accessibility

	case *model.EnumerationType:
		return convertEnum(m), m.Accessibility

	case *model.Method:
		if !m.FullyDefined {
			return nil, 0
		}
		return c.convertMethod(declaringFile, m, parentName), m.Accessibility
	}

	return nil, 0
}

func (c *converter) convertMethod(declaringFile string, m *model.Method, parentName string) *CPPMethod {
	paramSource := m.Parameters
	if len(paramSource) == 0 {
		paramSource = m.DirectParameters
	}

	var params []*CPPParameter
	for i, p := range paramSource {
		if !m.Static && i == 0 {
			continue
		}

		name := string(p.Name)
		if name == "" {
			name = fmt.Sprintf("arg%d", len(params))
		}

		params = append(params, &CPPParameter{Name: name, Type: p.Type, Offset: uint64(p.Offset)})
		c.recordTypeInclude(declaringFile, p.Type, m.DeclFile)
	}

	returnType := m.ReturnType
	if returnType == nil && string(m.Name) != parentName && string(m.Name) != "~"+parentName {
		returnType = &model.Type{Name: []byte("void")}
	}

	return &CPPMethod{
		Name:       string(m.Name),
		Type:       returnType,
		Static:     m.Static,
		Virtual:    m.Virtual,
		Parameters: params,
		LowPC:      m.LowPC,
	}
}

// recordTypeInclude adds an include-graph edge when typ was declared in a
// different in-project file than the member referencing it.
func (c *converter) recordTypeInclude(declaringFile string, typ *model.Type, memberDeclFile *model.DeclFile) {
	if typ == nil || typ.DeclFile == nil || typ.DeclFile.File == nil {
		return
	}
	if memberDeclFile == nil || memberDeclFile.File == nil {
		return
	}

	typeFile := string(typ.DeclFile.File.FullPath())
	if typeFile == declaringFile {
		return
	}

	c.includes.Add(declaringFile, typeFile)
}

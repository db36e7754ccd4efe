// Package yamlexport dumps the reconstructed declaration forest as YAML,
// for scripting against the recovered model without re-running extraction.
// It mirrors the model's own shape rather than the rendered C++ text, so a
// consumer can, say, grep for every virtual method without parsing headers.
package yamlexport

import (
	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/adikso/dwarfdecl/internal/walker"
	"gopkg.in/yaml.v3"
)

// Marshal renders result's element forest as a YAML document keyed by
// declaring file path, each value a list of declaration nodes.
func Marshal(result *walker.Result) ([]byte, error) {
	byFile := make(map[string][]any)

	for _, decl := range result.Elements {
		path := declPath(decl)
		byFile[path] = append(byFile[path], declarationNode(decl))
	}

	return yaml.Marshal(byFile)
}

func declPath(decl model.Declaration) string {
	df := declFileOf(decl)
	if df == nil || df.File == nil {
		return "<unknown>"
	}
	return string(df.File.FullPath())
}

func declFileOf(decl model.Declaration) *model.DeclFile {
	switch v := decl.(type) {
	case *model.Class:
		return v.DeclFile
	case *model.Struct:
		return v.DeclFile
	case *model.Union:
		return v.DeclFile
	case *model.Namespace:
		return v.DeclFile
	case *model.TypeDef:
		return v.DeclFile
	case *model.EnumerationType:
		return v.DeclFile
	default:
		return nil
	}
}

func declarationNode(decl model.Declaration) map[string]any {
	switch v := decl.(type) {
	case *model.Class:
		node := map[string]any{"kind": "class", "name": string(v.Name), "members": membersNode(v.Members)}
		if v.Inheritance != nil {
			node["inherits"] = typeNode(v.Inheritance.Class)
		}
		return node
	case *model.Struct:
		return map[string]any{"kind": "struct", "name": string(v.Name), "members": membersNode(v.Members)}
	case *model.Union:
		return map[string]any{"kind": "union", "name": string(v.Name), "members": membersNode(v.Fields)}
	case *model.Namespace:
		children := make([]any, 0, len(v.Elements))
		for _, e := range v.Elements {
			children = append(children, declarationNode(e))
		}
		return map[string]any{"kind": "namespace", "name": string(v.Name), "children": children}
	case *model.TypeDef:
		return map[string]any{"kind": "typedef", "name": string(v.Name), "type": typeNode(v.Type)}
	case *model.EnumerationType:
		return map[string]any{"kind": "enum", "name": string(v.Name), "enumerators": enumeratorsNode(v.Enumerators)}
	default:
		return map[string]any{"kind": "unknown"}
	}
}

func membersNode(members []model.Member) []any {
	nodes := make([]any, 0, len(members))
	for _, m := range members {
		nodes = append(nodes, memberNode(m))
	}
	return nodes
}

func memberNode(m model.Member) map[string]any {
	switch v := m.(type) {
	case *model.Field:
		return map[string]any{
			"kind":          "field",
			"name":          string(v.Name),
			"type":          typeNode(v.Type),
			"accessibility": v.Accessibility.Render().String(),
			"static":        v.Static,
		}
	case *model.Method:
		return map[string]any{
			"kind":          "method",
			"name":          string(v.Name),
			"return_type":   typeNode(v.ReturnType),
			"accessibility": v.Accessibility.Render().String(),
			"static":        v.Static,
			"virtual":       v.Virtual,
			"defined":       v.FullyDefined,
		}
	case *model.Union:
		return map[string]any{"kind": "union", "name": string(v.Name), "members": membersNode(v.Fields)}
	case *model.EnumerationType:
		return map[string]any{"kind": "enum", "name": string(v.Name), "enumerators": enumeratorsNode(v.Enumerators)}
	default:
		return map[string]any{"kind": "unknown"}
	}
}

func enumeratorsNode(enumerators []model.Enumerator) []any {
	nodes := make([]any, 0, len(enumerators))
	for _, e := range enumerators {
		nodes = append(nodes, map[string]any{"name": string(e.Name), "value": e.Value})
	}
	return nodes
}

func typeNode(t *model.Type) map[string]any {
	if t == nil {
		return nil
	}
	return map[string]any{"name": string(t.Name), "array": t.Array}
}

// Package tui implements the interactive tree browser behind `dwarfdecl
// inspect`: a tview.TreeView over the reconstructed per-file declaration
// forest, with a side panel showing the selected entity's rendered text.
package tui

import (
	"fmt"
	"sort"

	"github.com/adikso/dwarfdecl/internal/render/cpp"
	"github.com/adikso/dwarfdecl/internal/utils"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// colors mirror the teacher debugger's palette: files in white,
// declarations in cyan, members in green.
var (
	fileColor      = tcell.ColorWhite
	containerColor = tcell.ColorAqua
	leafColor      = tcell.ColorGreen
)

// BuildTree turns forest into a root TreeNode whose first level is the
// project files, second level the declarations in each file, and third
// level each declaration's direct block children (for classes, structs,
// unions, namespaces and enums). Declaration and member nodes carry the
// fmt.Stringer backing them as their reference, so the caller can render
// the selected node's text without re-walking the tree; the root and file
// nodes carry none.
func BuildTree(forest cpp.Forest) *tview.TreeNode {
	root := tview.NewTreeNode("binary").SetColor(fileColor)

	paths := utils.Keys(forest)
	sort.Strings(paths)

	for _, path := range paths {
		fileNode := tview.NewTreeNode(path).SetColor(fileColor).SetSelectable(true)
		for _, e := range forest[path] {
			fileNode.AddChild(declarationNode(e))
		}
		root.AddChild(fileNode)
	}

	return root
}

func declarationNode(e fmt.Stringer) *tview.TreeNode {
	label, block := describe(e)

	node := tview.NewTreeNode(label).
		SetColor(containerColor).
		SetReference(e).
		SetSelectable(true)

	if block != nil {
		for _, child := range block.Children {
			node.AddChild(memberNode(child))
		}
	}

	return node
}

func memberNode(child fmt.Stringer) *tview.TreeNode {
	label := firstLine(child.String())
	return tview.NewTreeNode(label).
		SetColor(leafColor).
		SetReference(child).
		SetSelectable(true)
}

// describe returns a short tree label for a top-level declaration and, for
// the kinds that carry a body, the CPPBlock its members hang off.
func describe(e fmt.Stringer) (string, *cpp.CPPBlock) {
	switch v := e.(type) {
	case *cpp.CPPClass:
		return "class " + v.Name, v.Block
	case *cpp.CPPStruct:
		return "struct " + v.Name, v.Block
	case *cpp.CPPUnion:
		return "union " + v.Name, v.Block
	case *cpp.CPPNamespace:
		return "namespace " + v.Name, v.Block
	case *cpp.CPPTypeDef:
		return "typedef " + v.Name, nil
	case *cpp.CPPEnumerationType:
		return "enum " + v.Name, v.Block
	default:
		return firstLine(e.String()), nil
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

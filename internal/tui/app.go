package tui

import (
	"fmt"

	"github.com/adikso/dwarfdecl/internal/render/cpp"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Run opens the tree browser over forest and blocks until the user quits
// (q or Esc). It never mutates forest or re-runs extraction; selecting a
// node only changes what the side panel shows.
func Run(forest cpp.Forest) error {
	app := tview.NewApplication()

	detail := tview.NewTextView().
		SetDynamicColors(false).
		SetWrap(true)
	detail.SetBorder(true).SetTitle(" declaration ")

	root := BuildTree(forest)
	root.SetExpanded(true)

	tree := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)
	tree.SetBorder(true).SetTitle(" files ")

	tree.SetChangedFunc(func(node *tview.TreeNode) {
		ref := node.GetReference()
		s, ok := ref.(fmt.Stringer)
		if !ok {
			detail.SetText("")
			return
		}
		detail.SetText(s.String())
	})

	tree.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})

	layout := tview.NewFlex().
		AddItem(tree, 0, 1, true).
		AddItem(detail, 0, 2, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(layout, true).SetFocus(tree).Run()
}

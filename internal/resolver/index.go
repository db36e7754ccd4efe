// Package resolver implements the Type Resolver: it walks a DIE's
// DW_AT_type reference chain, accumulating pointer/const/volatile/reference
// modifiers and the enclosing namespace path of whatever named type the
// chain eventually bottoms out at.
//
// debug/dwarf's Entry has no parent pointer, and offset-based references can
// point anywhere in the compilation unit, including subtrees the main walk
// hasn't reached yet. Index is a one-time, per-CU pass that records every
// entry, its parent, and its children by offset so both the resolver and the
// DIE walker (for on-demand declaration lookups) can do random-access
// traversal instead of re-reading the section.
package resolver

import "debug/dwarf"

// Index is a random-access view of one compilation unit's DIE tree.
type Index struct {
	Entries  map[dwarf.Offset]*dwarf.Entry
	Parent   map[dwarf.Offset]dwarf.Offset
	Children map[dwarf.Offset][]dwarf.Offset
}

// BuildIndex performs a single pass over the CU rooted at topDIE, recording
// every descendant entry. data.Reader() is repositioned to topDIE.Offset and
// left in an unspecified position afterwards — callers needing to continue a
// separate top-down walk should use their own Reader.
func BuildIndex(data *dwarf.Data, topDIE *dwarf.Entry) (*Index, error) {
	idx := &Index{
		Entries:  make(map[dwarf.Offset]*dwarf.Entry),
		Parent:   make(map[dwarf.Offset]dwarf.Offset),
		Children: make(map[dwarf.Offset][]dwarf.Offset),
	}

	reader := data.Reader()
	reader.Seek(topDIE.Offset)

	var stack []dwarf.Offset
	for {
		entry, err := reader.Next()
		if err != nil {
			return idx, err
		}
		if entry == nil {
			break
		}

		if entry.Tag == 0 {
			// End-of-children marker: pop one level.
			if len(stack) == 0 {
				break
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			continue
		}

		idx.Entries[entry.Offset] = entry
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			idx.Parent[entry.Offset] = parent
			idx.Children[parent] = append(idx.Children[parent], entry.Offset)
		} else if entry.Offset == topDIE.Offset && !entry.Children {
			// The top DIE has no children at all: nothing else belongs to
			// this CU's subtree.
			break
		}

		if entry.Children {
			stack = append(stack, entry.Offset)
		}
	}

	return idx, nil
}

// EntryAt looks up a previously indexed entry. Offsets from a different CU,
// or a CU this Index wasn't built from, are never present.
func (idx *Index) EntryAt(off dwarf.Offset) (*dwarf.Entry, bool) {
	e, ok := idx.Entries[off]
	return e, ok
}

// ChildrenOf returns the direct children of an entry, in DIE order.
func (idx *Index) ChildrenOf(off dwarf.Offset) []*dwarf.Entry {
	offs := idx.Children[off]
	children := make([]*dwarf.Entry, 0, len(offs))
	for _, o := range offs {
		if e, ok := idx.Entries[o]; ok {
			children = append(children, e)
		}
	}
	return children
}

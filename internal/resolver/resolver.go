package resolver

import (
	"debug/dwarf"

	"github.com/adikso/dwarfdecl/internal/filetable"
	"github.com/adikso/dwarfdecl/internal/model"
)

// CU bundles the per-compilation-unit context a resolution needs: the
// DIE index built by BuildIndex, the CU's identity for DeclFile pairs, and
// its file table (nil if the CU had no line program).
type CU struct {
	Offset model.CUOffset
	Index  *Index
	Files  filetable.Table
}

// ResolveType walks die's DW_AT_type reference chain to a named terminal,
// accumulating modifiers, array-ness and byte size along the way. It never
// panics: any malformed or cyclic sub-graph yields nil rather than
// aborting the caller, matching the extractor's "one bad type never kills
// the containing member" tolerance policy.
func ResolveType(cu *CU, die *dwarf.Entry) (result *model.Type) {
	defer func() {
		if recover() != nil {
			result = nil
		}
	}()

	typeOffsetAttr := die.Val(dwarf.AttrType)
	if typeOffsetAttr == nil {
		return nil
	}
	typeOffset, ok := typeOffsetAttr.(dwarf.Offset)
	if !ok {
		return nil
	}

	t := &model.Type{}
	visited := make(map[dwarf.Offset]bool)

	entry, ok := cu.Index.EntryAt(typeOffset)
	if !ok {
		return nil
	}

	for entry.Val(dwarf.AttrName) == nil {
		if visited[entry.Offset] {
			// Reference cycle through malformed type chain: bail out.
			return nil
		}
		visited[entry.Offset] = true

		applyModifier(t, entry)

		if bs, ok := entry.Val(dwarf.AttrByteSize).(int64); ok {
			size := uint64(bs)
			t.ByteSize = &size
		}
		if entry.Tag == dwarf.TagBaseType {
			t.Base = true
		}
		if entry.Tag == dwarf.TagArrayType {
			t.ArraySize = arraySize(cu.Index, entry)
		}

		next := entry.Val(dwarf.AttrType)
		if next == nil {
			if linkage, ok := entry.Val(dwarf.AttrLinkageName).(string); ok {
				t.Name = []byte(linkage)
				return t
			}
			return nil
		}

		nextOffset, ok := next.(dwarf.Offset)
		if !ok {
			return nil
		}
		entry, ok = cu.Index.EntryAt(nextOffset)
		if !ok {
			return nil
		}

		if bs, ok := entry.Val(dwarf.AttrByteSize).(int64); ok {
			size := uint64(bs)
			t.ByteSize = &size
		}
		if entry.Tag == dwarf.TagBaseType {
			t.Base = true
		}
	}

	name, _ := entry.Val(dwarf.AttrName).(string)
	t.Name = []byte(name)

	if declFile, ok := entry.Val(dwarf.AttrDeclFile).(int64); ok {
		t.DeclFile = lookupDeclFile(cu, declFile)
	}

	t.Namespaces = namespacesOf(cu.Index, entry)

	return t
}

// applyModifier prepends the modifier token for entry's tag to t.Modifiers,
// and marks t.Array when entry is an array type. The chain is walked from
// the reference site inward and each modifier is prepended, so the final
// slice is in print order (a pointer to const reads Constant, Pointer).
func applyModifier(t *model.Type, entry *dwarf.Entry) {
	var mod model.Modifier
	switch entry.Tag {
	case dwarf.TagPointerType:
		mod = model.Pointer
	case dwarf.TagConstType:
		mod = model.Constant
	case dwarf.TagVolatileType:
		mod = model.Volatile
	case dwarf.TagReferenceType:
		mod = model.Reference
	case dwarf.TagArrayType:
		t.Array = true
		return
	default:
		return
	}

	t.Modifiers = append([]model.Modifier{mod}, t.Modifiers...)
}

// arraySize reads the declared element count off an array type's subrange
// child, preferring an explicit DW_AT_count over DW_AT_upper_bound+1.
func arraySize(idx *Index, arrayEntry *dwarf.Entry) *uint64 {
	for _, child := range idx.ChildrenOf(arrayEntry.Offset) {
		if child.Tag != dwarf.TagSubrangeType {
			continue
		}
		if count, ok := child.Val(dwarf.AttrCount).(int64); ok {
			n := uint64(count)
			return &n
		}
		if upper, ok := child.Val(dwarf.AttrUpperBound).(int64); ok {
			n := uint64(upper + 1)
			return &n
		}
	}
	return nil
}

// namespacesOf walks entry's ancestor chain (via the per-CU parent index,
// since debug/dwarf entries carry no parent pointer) collecting the names of
// every enclosing DW_TAG_namespace, outermost first. This is only needed for
// printing a Type; a Namespace's own nesting in the declaration tree comes
// from the DIE Walker's recursion instead.
func namespacesOf(idx *Index, entry *dwarf.Entry) [][]byte {
	var namespaces [][]byte

	offset, hasParent := idx.Parent[entry.Offset]
	for hasParent {
		parent, ok := idx.EntryAt(offset)
		if !ok {
			break
		}
		if parent.Tag == dwarf.TagNamespace {
			if name, ok := parent.Val(dwarf.AttrName).(string); ok {
				namespaces = append([][]byte{[]byte(name)}, namespaces...)
			}
		}
		offset, hasParent = idx.Parent[parent.Offset]
	}

	return namespaces
}

func lookupDeclFile(cu *CU, fileID int64) *model.DeclFile {
	if cu.Files == nil {
		return nil
	}
	file, ok := cu.Files[uint32(fileID)]
	if !ok {
		return nil
	}
	return &model.DeclFile{CU: cu.Offset, File: file}
}

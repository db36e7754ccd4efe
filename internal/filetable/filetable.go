// Package filetable builds the per-compilation-unit file-id -> File mapping
// DIEs reference through DW_AT_decl_file, and detects the project's base
// directory so unrelated system/library declarations can be excluded from
// rendering.
package filetable

import (
	"bytes"
	"debug/dwarf"
	"io"
	"path/filepath"

	"github.com/adikso/dwarfdecl/internal/model"
)

// Table maps a compilation unit's 1-based file ids to the resolved File they
// name. Index 0 is populated only when the line table defines it (DWARF 5);
// for earlier versions debug/dwarf reports it as "no file" and it is skipped.
type Table map[uint32]*model.File

// Build parses the line-program header for cu's statement-list and returns
// its file table. A CU with no DW_AT_stmt_list (and therefore no line
// program) yields a nil Table and a nil error: DIEs under that CU lack
// resolvable file identity but the caller should still render them, just
// without include-inference grounding — this is deliberate, per the project's
// tolerance policy, not an error case.
func Build(data *dwarf.Data, topDIE *dwarf.Entry) (Table, error) {
	if _, ok := topDIE.Val(dwarf.AttrStmtList).(int64); !ok {
		return nil, nil
	}

	reader, err := data.LineReader(topDIE)
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, nil
	}

	// Force the reader to materialize the full file list before consulting
	// Files(): the header-declared entries are already there, but entries
	// added later via DW_LNE_define_file only show up once the program has
	// advanced past them.
	var entry dwarf.LineEntry
	for {
		if err := reader.Next(&entry); err != nil {
			if err == io.EOF {
				break
			}
			break
		}
	}

	files := reader.Files()
	table := make(Table, len(files))
	for i, f := range files {
		if f == nil {
			continue
		}
		dir, name := filepath.Split(f.Name)
		table[uint32(i)] = &model.File{
			ID:        uint32(i),
			Directory: []byte(filepath.Clean(dir)),
			Name:      []byte(name),
		}
	}

	return table, nil
}

// BaseDirectory detects the project root the same way the extractor's first
// compilation unit does: start from its DW_AT_comp_dir, then narrow to the
// common prefix with the CU's primary source path when that path is
// absolute. This is the "most recent variant" of the heuristic the original
// source carries several subtly different copies of (see SPEC_FULL.md §9).
func BaseDirectory(topDIE *dwarf.Entry) []byte {
	compDir, _ := topDIE.Val(dwarf.AttrCompDir).(string)
	base := []byte(compDir)

	name, _ := topDIE.Val(dwarf.AttrName).(string)
	if name != "" && filepath.IsAbs(name) {
		base = []byte(commonPath(compDir, name))
	}

	return base
}

// commonPath returns the longest common directory prefix of two absolute
// paths, split on path separators so "/foo/bar" and "/foo/barely" don't
// collapse to the bogus prefix "/foo/bar".
func commonPath(a, b string) string {
	aParts := bytes.Split([]byte(filepath.Clean(a)), []byte{filepath.Separator})
	bParts := bytes.Split([]byte(filepath.Clean(b)), []byte{filepath.Separator})

	n := len(aParts)
	if len(bParts) < n {
		n = len(bParts)
	}

	common := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if !bytes.Equal(aParts[i], bParts[i]) {
			break
		}
		common = append(common, aParts[i])
	}

	if len(common) == 0 || (len(common) == 1 && len(common[0]) == 0) {
		return string(filepath.Separator)
	}

	return string(bytes.Join(common, []byte{filepath.Separator}))
}

// InProject reports whether a full path belongs under base and isn't a
// compiler-synthesized built-in declaration.
func InProject(base []byte, fullPath []byte) bool {
	if bytes.Contains(fullPath, []byte("<built-in>")) {
		return false
	}
	return bytes.HasPrefix(fullPath, base)
}

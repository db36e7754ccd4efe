package cpp

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adikso/dwarfdecl/internal/includes"
	"github.com/adikso/dwarfdecl/internal/utils"
	"github.com/adikso/dwarfdecl/internal/walker"
)

// EntryRenderer lets a downstream converter (the pointers renderer) amend
// a top-level entity's rendered text before it's placed in its file, e.g.
// to append a trampoline namespace after a class.
type EntryRenderer func(e fmt.Stringer) string

// Render converts result into one text blob per in-project file, keyed by
// the file's path relative to the project base directory, so a CLI layer
// can both print the text and write it under output/<relative-path>.
func Render(result *walker.Result, opts Options, onEntry EntryRenderer) (map[string]string, error) {
	forest, includeGraph := Convert(result)

	if onEntry == nil {
		onEntry = func(e fmt.Stringer) string { return e.String() }
	}

	output := make(map[string]string, len(forest))

	baseDir := string(result.BaseDir)

	paths := utils.Keys(forest)
	sort.Strings(paths)

	for _, path := range paths {
		entries := forest[path]
		relPath := relativePath(baseDir, path)
		stem := strings.ToUpper(strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath)))

		var b strings.Builder
		fmt.Fprintf(&b, "// Source file: %s\n", relPath)
		fmt.Fprintf(&b, "#ifndef %s_H\n#define %s_H\n\n", stem, stem)

		if opts.IncludeInference {
			writeIncludes(&b, baseDir, path, includeGraph)
		}

		for _, e := range entries {
			b.WriteString(onEntry(e))
			b.WriteString("\n\n")
		}

		b.WriteString("#endif\n\n")
		output[relPath] = b.String()
	}

	return output, nil
}

func writeIncludes(b *strings.Builder, baseDir string, declaringFile string, graph *includes.Set) {
	deps := graph.For(declaringFile)
	if len(deps) == 0 {
		return
	}
	sort.Strings(deps)

	for _, dep := range deps {
		if strings.HasPrefix(dep, baseDir) {
			fmt.Fprintf(b, "#include \"%s\"\n", relativePath(declaringFile, dep))
		} else {
			fmt.Fprintf(b, "#include <%s>\n", filepath.Base(dep))
		}
	}
	b.WriteString("\n")
}

// relativePath mirrors the original converter's relative_path: a
// filepath.Rel with any leading "./" stripped.
func relativePath(base string, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return strings.TrimPrefix(rel, "./")
}

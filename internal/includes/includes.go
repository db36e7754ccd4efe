// Package includes infers which other rendered files a declaration needs
// #include-d, and maps well-known mangled type names to the standard
// library header name a human would actually write.
package includes

// ExternalNames maps a recovered type name to the name it should render as
// when it names a standard library type DWARF only ever records under its
// implementation-defined mangled spelling.
var ExternalNames = map[string]string{
	"std::string": "string",
}

// Rename returns the external spelling for name if one is known, otherwise
// name unchanged.
func Rename(name string) string {
	if renamed, ok := ExternalNames[name]; ok {
		return renamed
	}
	return name
}

// Set collects the set of file paths one output file depends on, keyed by
// the depending file's own full path. Insertion order is not preserved:
// rendering sorts the set before emitting #include directives.
type Set struct {
	byFile map[string]map[string]bool
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{byFile: make(map[string]map[string]bool)}
}

// Add records that declaringFile depends on typeFile. A file never depends
// on itself; self-references are silently dropped since the member's own
// enclosing header always defines its own type.
func (s *Set) Add(declaringFile, typeFile string) {
	if declaringFile == "" || typeFile == "" || declaringFile == typeFile {
		return
	}

	files, ok := s.byFile[declaringFile]
	if !ok {
		files = make(map[string]bool)
		s.byFile[declaringFile] = files
	}
	files[typeFile] = true
}

// For returns the dependency set of declaringFile, as an unsorted slice.
func (s *Set) For(declaringFile string) []string {
	files := s.byFile[declaringFile]
	if len(files) == 0 {
		return nil
	}

	out := make([]string, 0, len(files))
	for f := range files {
		out = append(out, f)
	}
	return out
}

package cpp

import (
	"fmt"

	"github.com/adikso/dwarfdecl/internal/filetable"
	"github.com/adikso/dwarfdecl/internal/includes"
	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/adikso/dwarfdecl/internal/store"
	"github.com/adikso/dwarfdecl/internal/walker"
)

// Options configures conversion. IncludeInference, when false, suppresses
// #include emission entirely while still rendering every declaration.
type Options struct {
	IncludeInference bool
}

// converter holds the per-binary state threaded through recursive
// conversion: the project base directory (for in-project filtering and
// include-path resolution) and the accumulated include graph.
type converter struct {
	result   *walker.Result
	includes *includes.Set
}

// Forest groups the converted, deduplicated entries by the in-project file
// they were declared in.
type Forest map[string][]entry

// Convert walks result's declaration forest, keeping only in-project
// entities, deduplicating per file via Entries Storage, and recording the
// cross-file include graph as it goes.
func Convert(result *walker.Result) (Forest, *includes.Set) {
	c := &converter{result: result, includes: includes.NewSet()}

	byFile := make(map[string]*store.Storage[entry])
	c.convertElements(result.Elements, byFile)

	forest := make(Forest, len(byFile))
	for path, s := range byFile {
		forest[path] = s.Entries()
	}

	return forest, c.includes
}

func (c *converter) inProjectFile(declFile *model.DeclFile) (string, bool) {
	if declFile == nil || declFile.File == nil {
		return "", false
	}

	full := string(declFile.File.FullPath())
	if !filetable.InProject(c.result.BaseDir, []byte(full)) {
		return "", false
	}

	return full, true
}

func (c *converter) convertElements(elements []model.Declaration, byFile map[string]*store.Storage[entry]) {
	for _, element := range elements {
		c.convertElement(element, byFile)
	}
}

func (c *converter) convertElement(element model.Declaration, byFile map[string]*store.Storage[entry]) {
	defer func() { recover() }()

	var declFile *model.DeclFile
	switch e := element.(type) {
	case *model.Namespace:
		declFile = e.DeclFile
	case *model.Struct:
		declFile = e.DeclFile
	case *model.Union:
		declFile = e.DeclFile
	case *model.Class:
		declFile = e.DeclFile
	case *model.TypeDef:
		declFile = e.DeclFile
	case *model.EnumerationType:
		declFile = e.DeclFile
	}

	path, ok := c.inProjectFile(declFile)
	if !ok {
		return
	}

	storage, exists := byFile[path]
	if !exists {
		storage = store.New[entry]()
		byFile[path] = storage
		// Runs before the recover above: a file first seen through an
		// element that failed to convert is not left behind empty.
		defer func() {
			if storage.Len() == 0 {
				delete(byFile, path)
			}
		}()
	}

	switch e := element.(type) {
	case *model.Namespace:
		nestedByFile := make(map[string]*store.Storage[entry])
		c.convertElements(e.Elements, nestedByFile)

		var nested []fmt.Stringer
		if s, ok := nestedByFile[path]; ok {
			for _, child := range s.Entries() {
				nested = append(nested, child)
			}
		}

		storage.Send(&CPPNamespace{
			Name:  string(e.Name),
			Block: &CPPBlock{Children: nested, LabelsDisabled: true},
		})

	case *model.Struct:
		storage.Send(&CPPStruct{
			Name:  string(e.Name),
			Block: c.convertMembers(path, e.Members, string(e.Name)),
		})

	case *model.Union:
		storage.Send(&CPPUnion{
			Name:  string(e.Name),
			Block: c.convertMembers(path, e.Fields, string(e.Name)),
		})

	case *model.Class:
		var inheritance *CPPInheritance
		if e.Inheritance != nil {
			inheritance = &CPPInheritance{
				Class:         e.Inheritance.Class,
				Accessibility: e.Inheritance.Accessibility,
			}
		}
		storage.Send(&CPPClass{
			Name:        string(e.Name),
			Inheritance: inheritance,
			Block:       c.convertMembers(path, e.Members, string(e.Name)),
		})

	case *model.TypeDef:
		storage.Send(&CPPTypeDef{Name: string(e.Name), Type: e.Type})

	case *model.EnumerationType:
		storage.Send(convertEnum(e))
	}
}

func convertEnum(e *model.EnumerationType) *CPPEnumerationType {
	cppEnum := &CPPEnumerationType{Name: string(e.Name)}

	var children []fmt.Stringer
	for _, en := range e.Enumerators {
		enumerator := &CPPEnumerator{Name: string(en.Name), Value: en.Value}
		cppEnum.Enumerators = append(cppEnum.Enumerators, enumerator)
		children = append(children, enumerator)
	}
	cppEnum.Block = &CPPBlock{Children: children, LabelsDisabled: true}

	return cppEnum
}

// Package pipeline implements extractor-selection and renderer-selection
// dispatch: given an input stream it picks the first registered extractor
// that recognizes the file, and given a format name it picks the matching
// registered renderer.
package pipeline

import (
	"debug/elf"
	"fmt"
	"io"
	"log/slog"

	"github.com/adikso/dwarfdecl/internal/logging"
	"github.com/adikso/dwarfdecl/internal/render/cpp"
	"github.com/adikso/dwarfdecl/internal/render/pointers"
	"github.com/adikso/dwarfdecl/internal/walker"
)

// Result bundles an extraction's recovered forest with its source name,
// mirroring the original extractor's ExtractorResult.
type Result struct {
	SourceFile string
	*walker.Result
}

// Extractor recognizes and processes one input format. Only one ships
// today (DWARF-over-ELF) but the registration pattern leaves room for a
// Mach-O or PE counterpart without touching call sites.
type Extractor interface {
	Test(r io.ReaderAt) bool
	Extract(name string, r io.ReaderAt, logger *slog.Logger) (*Result, error)
}

// Renderer turns a Result into per-file text. cpp and pointers both
// implement it.
type Renderer interface {
	Name() string
	Render(result *Result, opts cpp.Options) (map[string]string, error)
}

var (
	extractors []Extractor
	renderers  []Renderer
)

// RegisterExtractor adds e to the dispatch list, in priority order: the
// first extractor whose Test succeeds wins.
func RegisterExtractor(e Extractor) {
	extractors = append(extractors, e)
}

// RegisterRenderer adds r to the set selectable by name.
func RegisterRenderer(r Renderer) {
	renderers = append(renderers, r)
}

func init() {
	RegisterExtractor(dwarfExtractor{})
	RegisterRenderer(cppRenderer{})
	RegisterRenderer(pointersRenderer{})
}

// FindExtractor returns the first registered extractor that recognizes r,
// or nil if none does.
func FindExtractor(r io.ReaderAt) Extractor {
	for _, e := range extractors {
		if e.Test(r) {
			return e
		}
	}
	return nil
}

// FindRenderer returns the renderer registered under name, or nil.
func FindRenderer(name string) Renderer {
	for _, r := range renderers {
		if r.Name() == name {
			return r
		}
	}
	return nil
}

// Process runs the full pipeline: pick an extractor, extract, pick a
// renderer by name, render. logger receives the extractor's per-DIE
// skip/drop diagnostics.
func Process(name string, r io.ReaderAt, format string, opts cpp.Options, logger *slog.Logger) (map[string]string, error) {
	extractor := FindExtractor(r)
	if extractor == nil {
		return nil, fmt.Errorf("dwarfdecl: no extractor recognizes %q", name)
	}

	result, err := extractor.Extract(name, r, logger)
	if err != nil {
		return nil, fmt.Errorf("dwarfdecl: extracting %q: %w", name, err)
	}

	renderer := FindRenderer(format)
	if renderer == nil {
		return nil, fmt.Errorf("dwarfdecl: no renderer registered for format %q", format)
	}

	return renderer.Render(result, opts)
}

type dwarfExtractor struct{}

func (dwarfExtractor) Test(r io.ReaderAt) bool {
	f, err := elf.NewFile(r)
	if err != nil {
		return false
	}
	defer f.Close()

	data, err := f.DWARF()
	return err == nil && data != nil
}

func (dwarfExtractor) Extract(name string, r io.ReaderAt, logger *slog.Logger) (*Result, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := f.DWARF()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.Discard()
	}

	w := walker.New(data, logger)
	wr, err := w.Walk()
	if err != nil {
		return nil, err
	}

	return &Result{SourceFile: name, Result: wr}, nil
}

type cppRenderer struct{}

func (cppRenderer) Name() string { return "cpp" }
func (cppRenderer) Render(result *Result, opts cpp.Options) (map[string]string, error) {
	return cpp.Render(result.Result, opts, nil)
}

type pointersRenderer struct{}

func (pointersRenderer) Name() string { return "pointers_cpp" }
func (pointersRenderer) Render(result *Result, opts cpp.Options) (map[string]string, error) {
	return pointers.Render(result.Result, opts)
}

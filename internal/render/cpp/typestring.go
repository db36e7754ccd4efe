package cpp

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/adikso/dwarfdecl/internal/includes"
	"github.com/adikso/dwarfdecl/internal/model"
)

// TypeString renders a Type the same way a CPPField/CPPMethod/CPPParameter
// would, for callers outside this package (the pointers renderer needs it
// to spell out trampoline function-pointer signatures).
func TypeString(t *model.Type) string {
	return typeString(t)
}

// typeString renders a Type as `ns1::ns2::name<modifier-string>`, matching
// the original converter's type_string helper.
func typeString(t *model.Type) string {
	if t == nil {
		return "void * /*<<ERROR_UNKNOWN - 0x0>>*/ "
	}

	var parts []string
	for _, ns := range t.Namespaces {
		parts = append(parts, string(ns))
	}

	if len(t.Name) > 0 && utf8.Valid(t.Name) {
		name := DemangleType(includes.Rename(string(t.Name)))
		parts = append(parts, name+modifiersString(t.Modifiers))
	}

	return strings.Join(parts, "::")
}

// DemangleType is the call site for a regex-based std::/__gnu_cxx:: namespace
// and basic_string<...> template collapsing pass. The regexes themselves are
// disabled upstream of this tool too, so this stays the identity function;
// it exists so a future demangling pass has a single place to land without
// threading a new parameter through every typeString call site.
func DemangleType(name string) string {
	return name
}

// modifiersString renders the ordered modifier list with a single leading
// and trailing space, tokens separated by a single space: "*" for pointer,
// "&" for reference, "const"/"volatile" spelled out.
func modifiersString(modifiers []model.Modifier) string {
	var b strings.Builder

	for i, m := range modifiers {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch m {
		case model.Pointer:
			b.WriteByte('*')
		case model.Reference:
			b.WriteByte('&')
		case model.Constant:
			b.WriteString("const")
		case model.Volatile:
			b.WriteString("volatile")
		}
	}

	if len(modifiers) == 0 {
		return " "
	}
	return " " + b.String() + " "
}

func arraySizeToken(t *model.Type) string {
	if t == nil || t.ArraySize == nil {
		return ""
	}
	return fmt.Sprintf("%d", *t.ArraySize)
}

// renderConstValue renders a Field.ConstValue, dispatching on whether it's
// a scalar, a byte-string, or a chunked array payload.
func renderConstValue(t *model.Type, value any) string {
	switch v := value.(type) {
	case [][]byte:
		return renderArrayConstValue(t, v)
	case string:
		return fmt.Sprintf(" = %q", v)
	case int64:
		return fmt.Sprintf(" = %d", v)
	default:
		return fmt.Sprintf(" /* = %v */", v)
	}
}

// renderArrayConstValue mirrors the original converter's quirky branching:
// a float array never gets a "[size]" suffix (only the decoded values),
// while any other array type always does, with decoded integer values
// appended only for base integer types.
func renderArrayConstValue(t *model.Type, chunks [][]byte) string {
	if t != nil && string(t.Name) == "float" {
		values := make([]string, len(chunks))
		for i, c := range chunks {
			values[i] = formatFloatChunk(c)
		}
		return fmt.Sprintf(" = %sf", strings.Join(values, " "))
	}

	if t != nil && t.Array {
		size := fmt.Sprintf("%d", len(chunks))
		if len(chunks) == 0 {
			size = arraySizeToken(t)
		}
		output := fmt.Sprintf("[%s]", size)

		if t.Base && strings.Contains(string(t.Name), "int") {
			values := make([]string, len(chunks))
			for i, c := range chunks {
				values[i] = fmt.Sprintf("%d", decodeLittleEndian(c))
			}
			output += fmt.Sprintf(" = { %s }", strings.Join(values, ", "))
		}

		return output
	}

	return fmt.Sprintf(" /* = %v */", chunks)
}

func formatFloatChunk(b []byte) string {
	if len(b) < 4 {
		return "0"
	}
	bits := binary.LittleEndian.Uint32(b)
	return fmt.Sprintf("%v", math.Float32frombits(bits))
}

func decodeLittleEndian(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

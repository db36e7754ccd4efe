// Package pointers implements the Trampoline Renderer: it augments a
// class's rendered declaration with inline function-pointer trampolines
// that dispatch into the original binary at its recovered addresses, plus
// a synthesized constructor wrapper. It builds on render/cpp rather than
// duplicating its block/type rendering.
package pointers

import (
	"fmt"
	"strings"

	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/adikso/dwarfdecl/internal/render/cpp"
	"github.com/adikso/dwarfdecl/internal/walker"
)

// BaseAddressSymbol is the extern declared once per rendered file so the
// trampolines below it have something to offset low_pc against at runtime.
const BaseAddressSymbol = "BASE_ADDRESS"

// Render produces the same per-file text render/cpp.Render would, with
// every class that has at least one non-destructor method carrying a
// recovered program-counter address augmented with its trampoline
// namespace and inline method bodies. For a class whose constructor address
// was recovered, a `construct` factory method is appended to the class body
// itself before it is (re-)rendered, so the declaration and its out-of-class
// inline definition agree with each other the same way any other member
// method's declaration/definition pair would.
func Render(result *walker.Result, opts cpp.Options) (map[string]string, error) {
	return cpp.Render(result, opts, func(e fmt.Stringer) string {
		class, ok := e.(*cpp.CPPClass)
		if !ok {
			return e.String()
		}

		methods := methodsWithAddress(class)
		if len(methods) == 0 {
			return e.String()
		}

		if ctor := constructorWithAddress(class.Name, methods); ctor != nil {
			addConstructMethod(class, ctor)
		}

		var b strings.Builder
		b.WriteString(e.String())

		b.WriteString("\n\n")
		b.WriteString(trampolineNamespace(class.Name, methods))

		for _, m := range methods {
			if isConstructorOrDestructor(class.Name, m) {
				continue
			}
			b.WriteString("\n\n")
			b.WriteString(inlineDefinition(class.Name, m))
		}

		for _, m := range methods {
			if isConstructor(class.Name, m) {
				b.WriteString("\n\n")
				b.WriteString(constructDefinition(class.Name, m))
			}
		}

		return b.String()
	})
}

// Extern returns the single `extern unsigned long long BASE_ADDRESS;`
// declaration a caller should prepend once to any output that used
// Render, since the trampolines below it reference that symbol.
func Extern() string {
	return fmt.Sprintf("extern unsigned long long %s;\n", BaseAddressSymbol)
}

func methodsWithAddress(class *cpp.CPPClass) []*cpp.CPPMethod {
	var methods []*cpp.CPPMethod
	for _, child := range class.Block.Children {
		m, ok := child.(*cpp.CPPMethod)
		if !ok || m.LowPC == nil || isDestructor(m.Name) {
			continue
		}
		methods = append(methods, m)
	}
	return methods
}

func isDestructor(name string) bool {
	return strings.HasPrefix(name, "~")
}

func isConstructor(className string, m *cpp.CPPMethod) bool {
	return m.Name == className
}

func isConstructorOrDestructor(className string, m *cpp.CPPMethod) bool {
	return isDestructor(m.Name) || isConstructor(className, m)
}

func constructorWithAddress(className string, methods []*cpp.CPPMethod) *cpp.CPPMethod {
	for _, m := range methods {
		if isConstructor(className, m) {
			return m
		}
	}
	return nil
}

// addConstructMethod appends the synthesized `construct` factory to class's
// body as a real member, so it renders inside the class (with its own
// accessibility label) instead of floating after it as an unqualified free
// function that two classes in the same file could collide over.
func addConstructMethod(class *cpp.CPPClass, ctor *cpp.CPPMethod) {
	method := &cpp.CPPMethod{
		Name:       "construct",
		Type:       &model.Type{Name: []byte(class.Name), Modifiers: []model.Modifier{model.Pointer}},
		Static:     true,
		Parameters: ctor.Parameters,
	}
	class.Block.Children = append(class.Block.Children, method)
	class.Block.Accessibility = append(class.Block.Accessibility, model.Public)
}

func trampolineNamespace(className string, methods []*cpp.CPPMethod) string {
	var fields []string
	for _, m := range methods {
		if isDestructor(m.Name) {
			continue
		}
		fields = append(fields, fmt.Sprintf(
			"    unsigned long long %s = %s;",
			m.Name, addressLiteral(m.LowPC),
		))
	}

	return fmt.Sprintf("namespace PTR_%s {\n%s\n};", className, strings.Join(fields, "\n"))
}

func addressLiteral(lowPC *uint64) string {
	if lowPC == nil {
		return "0"
	}
	return fmt.Sprintf("%#x", *lowPC)
}

// inlineDefinition emits the out-of-class body: <ret> Class::method(params)
// { [return] ((fnptr)(BASE_ADDRESS+addr))(this, args...); }
func inlineDefinition(className string, m *cpp.CPPMethod) string {
	returnType := "void"
	if m.Type != nil {
		returnType = strings.TrimSpace(cpp.TypeString(m.Type))
	}

	paramDecls := make([]string, 0, len(m.Parameters)+1)
	callArgs := make([]string, 0, len(m.Parameters)+1)
	fnParamTypes := make([]string, 0, len(m.Parameters)+1)

	if !m.Static {
		fnParamTypes = append(fnParamTypes, className+" *")
		callArgs = append(callArgs, "this")
	}
	for _, p := range m.Parameters {
		paramDecls = append(paramDecls, p.String())
		fnParamTypes = append(fnParamTypes, cpp.TypeString(p.Type))
		callArgs = append(callArgs, p.Name)
	}

	fnPtrType := fmt.Sprintf("%s (*)(%s)", returnType, strings.Join(fnParamTypes, ", "))
	call := fmt.Sprintf("((%s)(%s + %s))(%s);", fnPtrType, BaseAddressSymbol, addressLiteral(m.LowPC), strings.Join(callArgs, ", "))
	if returnType != "void" {
		call = "return " + call
	}

	signature := fmt.Sprintf("%s %s::%s(%s)", returnType, className, m.Name, strings.Join(paramDecls, ", "))
	return fmt.Sprintf("%s {\n    %s\n}", signature, call)
}

// constructDefinition emits the out-of-class inline body for the
// `construct` member addConstructMethod declared on the class: a static
// factory that allocates sizeof(Class) bytes, casts the storage to Class*,
// invokes the constructor trampoline against it, and returns the pointer —
// matching what a `new Class(...)` would do had the compiler's real
// constructor been linkable.
func constructDefinition(className string, ctor *cpp.CPPMethod) string {
	paramDecls := make([]string, 0, len(ctor.Parameters))
	callArgs := []string{"self"}
	fnParamTypes := []string{className + " *"}

	for _, p := range ctor.Parameters {
		paramDecls = append(paramDecls, p.String())
		fnParamTypes = append(fnParamTypes, cpp.TypeString(p.Type))
		callArgs = append(callArgs, p.Name)
	}

	fnPtrType := fmt.Sprintf("void (*)(%s)", strings.Join(fnParamTypes, ", "))
	call := fmt.Sprintf(
		"((%s)(%s + %s))(%s);",
		fnPtrType, BaseAddressSymbol, addressLiteral(ctor.LowPC), strings.Join(callArgs, ", "),
	)

	signature := fmt.Sprintf("static %s * %s::construct(%s)", className, className, strings.Join(paramDecls, ", "))

	body := strings.Join([]string{
		signature + " {",
		fmt.Sprintf("    static unsigned char storage[sizeof(%s)];", className),
		fmt.Sprintf("    %s * self = (%s *) storage;", className, className),
		"    " + call,
		"    return self;",
		"}",
	}, "\n")

	return body
}

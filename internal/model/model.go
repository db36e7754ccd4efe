// Package model defines the language-agnostic declaration model reconstructed
// from DWARF debug information: classes, structs, unions, namespaces, typedefs,
// enumerations, and the fields/methods/parameters that hang off them.
//
// Types here are plain data. Nothing in this package touches debug/dwarf beyond
// borrowing its Offset type to identify a compilation unit; walking DIEs and
// filling these structures out is the job of the resolver and walker packages.
package model

import "debug/dwarf"

// CUOffset identifies a compilation unit. Two File values from different CUs
// may point at the same on-disk file; callers that need that identity compare
// FullPath, not CUOffset.
type CUOffset = dwarf.Offset

// Accessibility mirrors DW_AT_accessibility. Its zero value is Private, which
// matches DWARF's own default when the attribute is absent.
type Accessibility uint8

const (
	Private Accessibility = iota
	Public
	Protected
)

// Render returns the accessibility a renderer should use: any value the
// producer didn't recognize (>= Protected+1) degrades to Public rather than
// being treated as private.
func (a Accessibility) Render() Accessibility {
	if a > Protected {
		return Public
	}
	return a
}

func (a Accessibility) String() string {
	switch a.Render() {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// Modifier is a single type qualifier accumulated while walking a type's
// reference chain, stored outermost first.
type Modifier uint8

const (
	Pointer Modifier = iota
	Constant
	Volatile
	Reference
)

// File is a single entry of a compilation unit's line-program file table.
type File struct {
	ID        uint32
	Directory []byte
	Name      []byte
}

// DeclFile locates a declaration: the CU it was found in, plus the resolved
// File entry from that CU's file table.
type DeclFile struct {
	CU   CUOffset
	File *File
}

// Type is a value type: two fields pointing at "the same" type each carry
// their own copy, they are never shared by reference.
type Type struct {
	// Name is the unresolved name of the terminal non-qualifier DIE, or a
	// mangled linkage name when the reference chain bottoms out at one
	// without a DW_AT_name.
	Name []byte

	// Namespaces holds enclosing namespace names, outermost first.
	Namespaces [][]byte

	// Modifiers holds pointer/const/volatile/reference qualifiers,
	// outermost first — the order that prints left-to-right after Name.
	Modifiers []Modifier

	DeclFile *DeclFile

	Array     bool
	ArraySize *uint64
	ByteSize  *uint64

	// Base is set when the reference chain passed through a DW_TAG_base_type.
	Base bool
}

// Parameter is a single formal parameter of a method, from either the
// declaration DIE (usually unnamed) or the definition DIE (usually named).
type Parameter struct {
	Name   []byte
	Type   *Type
	Offset dwarf.Offset
}

// Member is implemented by the entity kinds that can appear inside a
// class/struct/union body: Field, Method, Union (anonymous), EnumerationType.
type Member interface {
	isMember()
}

// Declaration is implemented by the top-level reconstructed entities: Class,
// Struct, Union, Namespace, TypeDef, EnumerationType.
type Declaration interface {
	isDeclaration()
}

// Field is a data member.
type Field struct {
	Name          []byte
	Type          *Type
	Accessibility Accessibility
	Static        bool

	// ConstValue holds the DW_AT_const_value payload: nil, the attribute's
	// raw value (an int64, a string or a []byte), or a [][]byte when the
	// field's type is an array chunked by byte size (see ArraySize).
	ConstValue any

	// ArraySize is the number of chunks ConstValue was split into — set only
	// when ConstValue is a [][]byte. A declared-but-uninitialized array field
	// falls back to Type.ArraySize for its bracket size.
	ArraySize *int

	DataMemberLocation *uint64
	DeclFile           *DeclFile
}

func (*Field) isMember() {}

// Method is a member function. DirectParameters comes from the
// declaration-site DIE (usually unnamed); Parameters comes from the
// out-of-line definition DIE (usually named). Renderers prefer Parameters,
// falling back to DirectParameters when it is empty.
type Method struct {
	Name             []byte
	ReturnType       *Type
	Accessibility    Accessibility
	Static           bool
	Virtual          bool
	Parameters       []Parameter
	DirectParameters []Parameter
	LowPC            *uint64
	Offset           dwarf.Offset
	DeclFile         *DeclFile

	// FullyDefined is true iff a definition DIE contributed a low_pc.
	FullyDefined bool
	LinkageName  []byte
}

func (*Method) isMember() {}

// Enumerator is a single `name = value` pair of an enumeration.
type Enumerator struct {
	Name  []byte
	Value int64
}

// EnumerationType is both a Member (nested enum) and a Declaration (top-level
// enum), matching the original's dual use.
type EnumerationType struct {
	Name          []byte
	Type          *Type
	Enumerators   []Enumerator
	Accessibility Accessibility
	DeclFile      *DeclFile
}

func (*EnumerationType) isMember()      {}
func (*EnumerationType) isDeclaration() {}

// Union is both a Member (anonymous nested union) and a Declaration
// (top-level named union).
type Union struct {
	Name          []byte
	Fields        []Member
	Accessibility Accessibility
	DeclFile      *DeclFile
}

func (*Union) isMember()      {}
func (*Union) isDeclaration() {}

// Inheritance records a class's single base, resolved from its
// DW_TAG_inheritance child.
type Inheritance struct {
	Class         *Type
	Accessibility Accessibility
}

// Class is a DW_TAG_class_type declaration.
type Class struct {
	Name        []byte
	Members     []Member
	Inheritance *Inheritance
	DeclFile    *DeclFile
}

func (*Class) isDeclaration() {}

// Struct is a DW_TAG_structure_type declaration.
type Struct struct {
	Name     []byte
	Members  []Member
	DeclFile *DeclFile
}

func (*Struct) isDeclaration() {}

// Namespace holds nested entities produced by recursing over its children.
type Namespace struct {
	Name     []byte
	Elements []Declaration
	DeclFile *DeclFile
}

func (*Namespace) isDeclaration() {}

// TypeDef is a DW_TAG_typedef declaration.
type TypeDef struct {
	Name     []byte
	Type     *Type
	DeclFile *DeclFile
}

func (*TypeDef) isDeclaration() {}

package model

import (
	"strings"
)

// TypeRef is implemented by every entity usable where a type is expected
type TypeRef interface {
	// FullName returns namespace qualified name, nested types joined with "/"
	FullName() string
	// Scope returns resolution scope, nil for generic parameters
	Scope() MetadataScope
	String() string
	isTypeRef()
}

// TypeAttributes mirrors type definition flags
type TypeAttributes uint32

const (
	TypeVisibilityMask    TypeAttributes = 0x00000007
	TypeNotPublic         TypeAttributes = 0x00000000
	TypePublic            TypeAttributes = 0x00000001
	TypeNestedPublic      TypeAttributes = 0x00000002
	TypeNestedPrivate     TypeAttributes = 0x00000003
	TypeNestedFamily      TypeAttributes = 0x00000004
	TypeNestedAssembly    TypeAttributes = 0x00000005
	TypeSequentialLayout  TypeAttributes = 0x00000008
	TypeExplicitLayout    TypeAttributes = 0x00000010
	TypeInterface         TypeAttributes = 0x00000020
	TypeAbstract          TypeAttributes = 0x00000080
	TypeSealed            TypeAttributes = 0x00000100
	TypeSpecialName       TypeAttributes = 0x00000400
	TypeBeforeFieldInit   TypeAttributes = 0x00100000
	TypeForwarder         TypeAttributes = 0x00200000
	TypeVisibilityNonMask                = ^TypeVisibilityMask
)

// LayoutInfo holds explicit class layout
type LayoutInfo struct {
	ClassSize   int
	PackingSize int
}

// TypeDefinition represents a type defined in a module
type TypeDefinition struct {
	Namespace            string
	Name                 string
	Attributes           TypeAttributes
	BaseType             TypeRef
	DeclaringType        *TypeDefinition
	Module               *Module
	NestedTypes          []*TypeDefinition
	Fields               []*FieldDefinition
	Methods              []*MethodDefinition
	Events               []*EventDefinition
	Properties           []*PropertyDefinition
	Interfaces           []TypeRef
	GenericParameters    []*GenericParameter
	CustomAttributes     []*CustomAttribute
	SecurityDeclarations []*SecurityDeclaration
	Layout               *LayoutInfo

	fieldMap  map[string]int   // field name to index
	methodMap map[string][]int // method name to overload indexes

	indexedMethods int
}

// NewTypeDefinition creates a detached type definition
func NewTypeDefinition(namespace, name string, attributes TypeAttributes) *TypeDefinition {
	return &TypeDefinition{Namespace: namespace, Name: name, Attributes: attributes}
}

func (t *TypeDefinition) isTypeRef() {}

// FullName returns namespace qualified name
func (t *TypeDefinition) FullName() string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + t.Name
	}
	return qualify(t.Namespace, t.Name)
}

// Scope returns owning module
func (t *TypeDefinition) Scope() MetadataScope {
	if t.Module == nil {
		return nil
	}
	return t.Module
}

func (t *TypeDefinition) String() string {
	return t.FullName()
}

// IsNested returns true for types declared within another type
func (t *TypeDefinition) IsNested() bool {
	return t.DeclaringType != nil
}

// IsPublic returns true when visibility is top level public
func (t *TypeDefinition) IsPublic() bool {
	return t.Attributes&TypeVisibilityMask == TypePublic
}

// SetPublic switches top level visibility
func (t *TypeDefinition) SetPublic(public bool) {
	visibility := TypeNotPublic
	if public {
		visibility = TypePublic
	}
	t.Attributes = t.Attributes&TypeVisibilityNonMask | visibility
}

// Rename changes the type name keeping module index current
func (t *TypeDefinition) Rename(name string) {
	if t.Module != nil {
		t.Module.unindex(t)
	}
	t.Name = name
	if t.Module != nil {
		t.Module.index(t)
	}
}

// GenericParameterAt returns type generic parameter at position
func (t *TypeDefinition) GenericParameterAt(kind GenericParameterKind, position int) (*GenericParameter, bool) {
	if kind != GenericParameterType {
		return nil, false
	}
	if position >= 0 && position < len(t.GenericParameters) {
		return t.GenericParameters[position], true
	}
	return nil, false
}

// AddGenericParameter appends a generic parameter owned by the type
func (t *TypeDefinition) AddGenericParameter(param *GenericParameter) {
	param.Kind = GenericParameterType
	param.Position = len(t.GenericParameters)
	param.Owner = t
	t.GenericParameters = append(t.GenericParameters, param)
}

// AddNestedType adds a nested type
func (t *TypeDefinition) AddNestedType(nested *TypeDefinition) {
	nested.DeclaringType = t
	nested.Module = t.Module
	t.NestedTypes = append(t.NestedTypes, nested)
	if t.Module != nil {
		t.Module.index(nested)
	}
}

// AddField adds a field to the type
func (t *TypeDefinition) AddField(field *FieldDefinition) {
	if t.fieldMap == nil {
		t.fieldMap = make(map[string]int)
	}
	field.DeclaringType = t
	t.Fields = append(t.Fields, field)
	t.fieldMap[field.Name] = len(t.Fields) - 1
}

// GetField retrieves a field by name
func (t *TypeDefinition) GetField(name string) *FieldDefinition {
	if len(t.Fields) == 0 {
		return nil
	}
	if t.fieldMap == nil || len(t.fieldMap) != len(t.Fields) {
		t.fieldMap = make(map[string]int, len(t.Fields))
		for i, field := range t.Fields {
			t.fieldMap[field.Name] = i
		}
	}
	if idx, ok := t.fieldMap[name]; ok && idx < len(t.Fields) && t.Fields[idx].Name == name {
		return t.Fields[idx]
	}
	return nil
}

// AddMethod adds a method to the type
func (t *TypeDefinition) AddMethod(method *MethodDefinition) {
	t.ensureMethodMap()
	method.DeclaringType = t
	t.Methods = append(t.Methods, method)
	t.methodMap[method.Name] = append(t.methodMap[method.Name], len(t.Methods)-1)
	t.indexedMethods++
}

// MethodsNamed returns all overloads with the given name
func (t *TypeDefinition) MethodsNamed(name string) []*MethodDefinition {
	t.ensureMethodMap()
	var result []*MethodDefinition
	for _, idx := range t.methodMap[name] {
		if idx < len(t.Methods) && t.Methods[idx].Name == name {
			result = append(result, t.Methods[idx])
		}
	}
	return result
}

func (t *TypeDefinition) ensureMethodMap() {
	if t.methodMap != nil && t.indexedMethods == len(t.Methods) {
		return
	}
	t.methodMap = make(map[string][]int, len(t.Methods))
	for i, method := range t.Methods {
		t.methodMap[method.Name] = append(t.methodMap[method.Name], i)
	}
	t.indexedMethods = len(t.Methods)
}

// AddEvent adds an event to the type
func (t *TypeDefinition) AddEvent(event *EventDefinition) {
	event.DeclaringType = t
	t.Events = append(t.Events, event)
}

// GetEvent retrieves an event by name
func (t *TypeDefinition) GetEvent(name string) *EventDefinition {
	for _, event := range t.Events {
		if event.Name == name {
			return event
		}
	}
	return nil
}

// AddProperty adds a property to the type
func (t *TypeDefinition) AddProperty(property *PropertyDefinition) {
	property.DeclaringType = t
	t.Properties = append(t.Properties, property)
}

// PropertiesNamed returns properties sharing the name, indexers may repeat
func (t *TypeDefinition) PropertiesNamed(name string) []*PropertyDefinition {
	var result []*PropertyDefinition
	for _, property := range t.Properties {
		if property.Name == name {
			result = append(result, property)
		}
	}
	return result
}

// TypeReference points at a type defined elsewhere
type TypeReference struct {
	Namespace     string
	Name          string
	Module        *Module // module owning the reference
	DeclaringType *TypeReference
	IsValueType   bool
	scope         MetadataScope
}

// NewTypeReference creates a type reference
func NewTypeReference(namespace, name string, module *Module, scope MetadataScope) *TypeReference {
	return &TypeReference{Namespace: namespace, Name: name, Module: module, scope: scope}
}

func (r *TypeReference) isTypeRef() {}

// FullName returns namespace qualified name
func (r *TypeReference) FullName() string {
	if r.DeclaringType != nil {
		return r.DeclaringType.FullName() + "/" + r.Name
	}
	return qualify(r.Namespace, r.Name)
}

// Scope returns resolution scope, nested references resolve through declaring type
func (r *TypeReference) Scope() MetadataScope {
	if r.DeclaringType != nil {
		return r.DeclaringType.Scope()
	}
	return r.scope
}

// SetScope replaces resolution scope
func (r *TypeReference) SetScope(scope MetadataScope) {
	r.scope = scope
}

func (r *TypeReference) String() string {
	return r.FullName()
}

// GenericParameterKind distinguishes type and method generic parameters
type GenericParameterKind int

const (
	GenericParameterType GenericParameterKind = iota
	GenericParameterMethod
)

// GenericContext resolves generic parameters by position
type GenericContext interface {
	GenericParameterAt(kind GenericParameterKind, position int) (*GenericParameter, bool)
}

// GenericParameter is a type or method generic parameter
type GenericParameter struct {
	Name             string
	Position         int
	Kind             GenericParameterKind
	Attributes       uint16
	Owner            GenericContext // nil for signature placeholders
	Constraints      []TypeRef
	CustomAttributes []*CustomAttribute
}

func (p *GenericParameter) isTypeRef() {}

// FullName returns parameter name
func (p *GenericParameter) FullName() string {
	return p.Name
}

// Scope returns nil, generic parameters resolve through their owner
func (p *GenericParameter) Scope() MetadataScope {
	return nil
}

func (p *GenericParameter) String() string {
	return p.Name
}

// GenericInstanceType is a generic type closed over arguments
type GenericInstanceType struct {
	ElementType      TypeRef
	GenericArguments []TypeRef
}

func (g *GenericInstanceType) isTypeRef() {}

// FullName returns e.g. System.Collections.Generic.List`1<System.Int32>
func (g *GenericInstanceType) FullName() string {
	builder := &strings.Builder{}
	builder.WriteString(g.ElementType.FullName())
	builder.WriteString("<")
	for i, arg := range g.GenericArguments {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString(arg.FullName())
	}
	builder.WriteString(">")
	return builder.String()
}

// Scope returns element type scope
func (g *GenericInstanceType) Scope() MetadataScope {
	return g.ElementType.Scope()
}

func (g *GenericInstanceType) String() string {
	return g.FullName()
}

// TypeSpecKind enumerates composite type kinds
type TypeSpecKind int

const (
	ArrayType TypeSpecKind = iota
	ByReferenceType
	PointerType
)

// TypeSpec is an array, by reference or pointer type built over an element type
type TypeSpec struct {
	Kind        TypeSpecKind
	ElementType TypeRef
	Rank        int
}

func (s *TypeSpec) isTypeRef() {}

// FullName returns element name with kind suffix
func (s *TypeSpec) FullName() string {
	switch s.Kind {
	case ByReferenceType:
		return s.ElementType.FullName() + "&"
	case PointerType:
		return s.ElementType.FullName() + "*"
	}
	if s.Rank > 1 {
		return s.ElementType.FullName() + "[" + strings.Repeat(",", s.Rank-1) + "]"
	}
	return s.ElementType.FullName() + "[]"
}

// Scope returns element type scope
func (s *TypeSpec) Scope() MetadataScope {
	return s.ElementType.Scope()
}

func (s *TypeSpec) String() string {
	return s.FullName()
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

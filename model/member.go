package model

import (
	"strings"
)

// FieldRef is implemented by field definitions and field references
type FieldRef interface {
	FullName() string
	MemberName() string
	DeclaringTypeRef() TypeRef
	FieldTypeRef() TypeRef
	String() string
	isFieldRef()
}

// MethodRef is implemented by method definitions and method references
type MethodRef interface {
	FullName() string
	MemberName() string
	DeclaringTypeRef() TypeRef
	ReturnTypeRef() TypeRef
	ParameterTypes() []TypeRef
	// GenericArgumentRefs returns arguments of a generic instance method
	GenericArgumentRefs() []TypeRef
	String() string
	isMethodRef()
}

// MethodAttributes mirrors method definition flags
type MethodAttributes uint16

const (
	MethodPrivate     MethodAttributes = 0x0001
	MethodAssembly    MethodAttributes = 0x0003
	MethodPublic      MethodAttributes = 0x0006
	MethodStatic      MethodAttributes = 0x0010
	MethodFinal       MethodAttributes = 0x0020
	MethodVirtual     MethodAttributes = 0x0040
	MethodHideBySig   MethodAttributes = 0x0080
	MethodAbstract    MethodAttributes = 0x0400
	MethodSpecialName MethodAttributes = 0x0800
	MethodPInvokeImpl MethodAttributes = 0x2000
)

// MethodSemantics marks accessor roles
type MethodSemantics uint16

const (
	SemanticsSetter   MethodSemantics = 0x0001
	SemanticsGetter   MethodSemantics = 0x0002
	SemanticsOther    MethodSemantics = 0x0004
	SemanticsAddOn    MethodSemantics = 0x0008
	SemanticsRemoveOn MethodSemantics = 0x0010
	SemanticsFire     MethodSemantics = 0x0020
)

// MethodCallingConvention is a method signature calling convention
type MethodCallingConvention byte

const (
	CallingConventionDefault  MethodCallingConvention = 0x0
	CallingConventionC        MethodCallingConvention = 0x1
	CallingConventionStdCall  MethodCallingConvention = 0x2
	CallingConventionThisCall MethodCallingConvention = 0x3
	CallingConventionFastCall MethodCallingConvention = 0x4
	CallingConventionVarArg   MethodCallingConvention = 0x5
	CallingConventionGeneric  MethodCallingConvention = 0x10
)

// MarshalInfo describes native marshaling
type MarshalInfo struct {
	NativeType uint32
}

// CustomAttributeArgument is a typed attribute constructor argument
type CustomAttributeArgument struct {
	Type  TypeRef
	Value interface{}
}

// CustomAttribute is a custom attribute instance
type CustomAttribute struct {
	Constructor MethodRef
	Arguments   []CustomAttributeArgument
	Blob        []byte
}

// SecurityDeclaration is a declarative security entry
type SecurityDeclaration struct {
	Action uint16
	Blob   []byte
}

// PInvokeInfo describes a platform invoke target
type PInvokeInfo struct {
	Attributes uint16
	EntryPoint string
	Module     *ModuleReference
}

// FieldDefinition represents a field defined on a type
type FieldDefinition struct {
	Name             string
	Attributes       uint16
	FieldType        TypeRef
	DeclaringType    *TypeDefinition
	Constant         interface{}
	HasConstant      bool
	MarshalInfo      *MarshalInfo
	InitialValue     []byte
	Offset           int
	HasLayoutInfo    bool
	CustomAttributes []*CustomAttribute
}

func (f *FieldDefinition) isFieldRef() {}

// MemberName returns field name
func (f *FieldDefinition) MemberName() string { return f.Name }

// DeclaringTypeRef returns declaring type
func (f *FieldDefinition) DeclaringTypeRef() TypeRef {
	if f.DeclaringType == nil {
		return nil
	}
	return f.DeclaringType
}

// FieldTypeRef returns field type
func (f *FieldDefinition) FieldTypeRef() TypeRef { return f.FieldType }

// FullName returns e.g. "System.Int32 NS.Foo::count"
func (f *FieldDefinition) FullName() string {
	return fieldFullName(f.FieldType, f.DeclaringTypeRef(), f.Name)
}

func (f *FieldDefinition) String() string { return f.FullName() }

// FieldReference references a field defined elsewhere
type FieldReference struct {
	Name          string
	DeclaringType TypeRef
	FieldType     TypeRef
}

func (f *FieldReference) isFieldRef() {}

// MemberName returns field name
func (f *FieldReference) MemberName() string { return f.Name }

// DeclaringTypeRef returns declaring type
func (f *FieldReference) DeclaringTypeRef() TypeRef { return f.DeclaringType }

// FieldTypeRef returns field type
func (f *FieldReference) FieldTypeRef() TypeRef { return f.FieldType }

// FullName returns e.g. "System.Int32 NS.Foo::count"
func (f *FieldReference) FullName() string {
	return fieldFullName(f.FieldType, f.DeclaringType, f.Name)
}

func (f *FieldReference) String() string { return f.FullName() }

// ParameterDefinition is a method or call site parameter
type ParameterDefinition struct {
	Name             string
	Attributes       uint16
	ParameterType    TypeRef
	Constant         interface{}
	HasConstant      bool
	MarshalInfo      *MarshalInfo
	CustomAttributes []*CustomAttribute
}

func (p *ParameterDefinition) String() string {
	return p.Name
}

// MethodReturnType holds return type and its metadata
type MethodReturnType struct {
	ReturnType       TypeRef
	Attributes       uint16
	Constant         interface{}
	HasConstant      bool
	MarshalInfo      *MarshalInfo
	CustomAttributes []*CustomAttribute
}

// MethodDefinition represents a method defined on a type
type MethodDefinition struct {
	Name                 string
	Attributes           MethodAttributes
	ImplAttributes       uint16
	SemanticsAttributes  MethodSemantics
	CallingConvention    MethodCallingConvention
	DeclaringType        *TypeDefinition
	MethodReturnType     MethodReturnType
	Parameters           []*ParameterDefinition
	GenericParameters    []*GenericParameter
	Overrides            []MethodRef
	PInvokeInfo          *PInvokeInfo
	SecurityDeclarations []*SecurityDeclaration
	CustomAttributes     []*CustomAttribute
	Body                 *MethodBody
}

// NewMethodDefinition creates a detached method
func NewMethodDefinition(name string, attributes MethodAttributes, returnType TypeRef) *MethodDefinition {
	return &MethodDefinition{Name: name, Attributes: attributes, MethodReturnType: MethodReturnType{ReturnType: returnType}}
}

func (m *MethodDefinition) isMethodRef() {}

// MemberName returns method name
func (m *MethodDefinition) MemberName() string { return m.Name }

// DeclaringTypeRef returns declaring type
func (m *MethodDefinition) DeclaringTypeRef() TypeRef {
	if m.DeclaringType == nil {
		return nil
	}
	return m.DeclaringType
}

// ReturnTypeRef returns the return type
func (m *MethodDefinition) ReturnTypeRef() TypeRef { return m.MethodReturnType.ReturnType }

// ParameterTypes returns parameter types in declaration order
func (m *MethodDefinition) ParameterTypes() []TypeRef {
	result := make([]TypeRef, len(m.Parameters))
	for i, param := range m.Parameters {
		result[i] = param.ParameterType
	}
	return result
}

// GenericArgumentRefs returns nil, definitions are never instances
func (m *MethodDefinition) GenericArgumentRefs() []TypeRef { return nil }

// FullName returns e.g. "System.Void NS.Foo::Bar(System.Int32,System.String)"
func (m *MethodDefinition) FullName() string {
	return methodFullName(m.ReturnTypeRef(), m.DeclaringTypeRef(), m.Name, nil, m.ParameterTypes())
}

func (m *MethodDefinition) String() string { return m.FullName() }

// IsStatic returns true for static methods
func (m *MethodDefinition) IsStatic() bool {
	return m.Attributes&MethodStatic != 0
}

// HasPInvokeInfo returns true for platform invoke methods
func (m *MethodDefinition) HasPInvokeInfo() bool {
	return m.Attributes&MethodPInvokeImpl != 0
}

// GenericParameterAt resolves method generic parameters locally and type ones on the declaring type
func (m *MethodDefinition) GenericParameterAt(kind GenericParameterKind, position int) (*GenericParameter, bool) {
	if kind == GenericParameterMethod {
		if position >= 0 && position < len(m.GenericParameters) {
			return m.GenericParameters[position], true
		}
		return nil, false
	}
	if m.DeclaringType == nil {
		return nil, false
	}
	return m.DeclaringType.GenericParameterAt(kind, position)
}

// AddGenericParameter appends a generic parameter owned by the method
func (m *MethodDefinition) AddGenericParameter(param *GenericParameter) {
	param.Kind = GenericParameterMethod
	param.Position = len(m.GenericParameters)
	param.Owner = m
	m.GenericParameters = append(m.GenericParameters, param)
}

// MethodReference references a method defined elsewhere
type MethodReference struct {
	Name                  string
	DeclaringType         TypeRef
	ReturnType            TypeRef
	Parameters            []TypeRef
	HasThis               bool
	ExplicitThis          bool
	CallingConvention     MethodCallingConvention
	GenericParameterCount int
	GenericArguments      []TypeRef
}

func (m *MethodReference) isMethodRef() {}

// MemberName returns method name
func (m *MethodReference) MemberName() string { return m.Name }

// DeclaringTypeRef returns declaring type
func (m *MethodReference) DeclaringTypeRef() TypeRef { return m.DeclaringType }

// ReturnTypeRef returns the return type
func (m *MethodReference) ReturnTypeRef() TypeRef { return m.ReturnType }

// ParameterTypes returns parameter types
func (m *MethodReference) ParameterTypes() []TypeRef { return m.Parameters }

// GenericArgumentRefs returns generic instance arguments
func (m *MethodReference) GenericArgumentRefs() []TypeRef { return m.GenericArguments }

// FullName returns e.g. "System.Void NS.Foo::Bar<System.Int32>(System.String)"
func (m *MethodReference) FullName() string {
	return methodFullName(m.ReturnType, m.DeclaringType, m.Name, m.GenericArguments, m.Parameters)
}

func (m *MethodReference) String() string { return m.FullName() }

// EventDefinition represents an event with its accessors
type EventDefinition struct {
	Name             string
	Attributes       uint16
	EventType        TypeRef
	DeclaringType    *TypeDefinition
	AddMethod        *MethodDefinition
	RemoveMethod     *MethodDefinition
	InvokeMethod     *MethodDefinition
	OtherMethods     []*MethodDefinition
	CustomAttributes []*CustomAttribute
}

func (e *EventDefinition) String() string {
	return fieldFullName(e.EventType, declaringRef(e.DeclaringType), e.Name)
}

// PropertyDefinition represents a property with its accessors
type PropertyDefinition struct {
	Name             string
	Attributes       uint16
	PropertyType     TypeRef
	DeclaringType    *TypeDefinition
	GetMethod        *MethodDefinition
	SetMethod        *MethodDefinition
	OtherMethods     []*MethodDefinition
	CustomAttributes []*CustomAttribute
}

func (p *PropertyDefinition) String() string {
	return fieldFullName(p.PropertyType, declaringRef(p.DeclaringType), p.Name)
}

func declaringRef(t *TypeDefinition) TypeRef {
	if t == nil {
		return nil
	}
	return t
}

func typeName(ref TypeRef) string {
	if ref == nil {
		return ""
	}
	return ref.FullName()
}

func fieldFullName(fieldType, declaringType TypeRef, name string) string {
	builder := &strings.Builder{}
	builder.WriteString(typeName(fieldType))
	builder.WriteString(" ")
	if declaringType != nil {
		builder.WriteString(declaringType.FullName())
		builder.WriteString("::")
	}
	builder.WriteString(name)
	return builder.String()
}

func methodFullName(returnType, declaringType TypeRef, name string, genericArgs, params []TypeRef) string {
	builder := &strings.Builder{}
	builder.WriteString(typeName(returnType))
	builder.WriteString(" ")
	if declaringType != nil {
		builder.WriteString(declaringType.FullName())
		builder.WriteString("::")
	}
	builder.WriteString(name)
	if len(genericArgs) > 0 {
		builder.WriteString("<")
		for i, arg := range genericArgs {
			if i > 0 {
				builder.WriteString(",")
			}
			builder.WriteString(typeName(arg))
		}
		builder.WriteString(">")
	}
	builder.WriteString("(")
	for i, param := range params {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString(typeName(param))
	}
	builder.WriteString(")")
	return builder.String()
}

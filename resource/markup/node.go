package markup

// RecordType identifies a serialized node
type RecordType byte

const (
	DocumentStartRecord RecordType = 0x01
	DocumentEndRecord   RecordType = 0x02
	StartElementRecord  RecordType = 0x03
	EndElementRecord    RecordType = 0x04
	PropertyRecord      RecordType = 0x05
	TextRecord          RecordType = 0x06
)

func (r RecordType) String() string {
	switch r {
	case DocumentStartRecord:
		return "DocumentStart"
	case DocumentEndRecord:
		return "DocumentEnd"
	case StartElementRecord:
		return "StartElement"
	case EndElementRecord:
		return "EndElement"
	case PropertyRecord:
		return "Property"
	case TextRecord:
		return "Text"
	}
	return "Unknown"
}

// Node is a single record of a compiled markup tree
type Node interface {
	RecordType() RecordType
	encode(w *writer)
}

// DocumentStart opens a document
type DocumentStart struct{}

// RecordType returns DocumentStartRecord
func (*DocumentStart) RecordType() RecordType { return DocumentStartRecord }

func (*DocumentStart) encode(w *writer) { w.record(DocumentStartRecord) }

// DocumentEnd closes a document
type DocumentEnd struct{}

// RecordType returns DocumentEndRecord
func (*DocumentEnd) RecordType() RecordType { return DocumentEndRecord }

func (*DocumentEnd) encode(w *writer) { w.record(DocumentEndRecord) }

// StartElement opens an element instantiating a type defined in an assembly
type StartElement struct {
	assemblyName string
	typeFullName string
}

// NewStartElement creates an element of type typeFullName from assemblyName
func NewStartElement(assemblyName, typeFullName string) *StartElement {
	return &StartElement{assemblyName: assemblyName, typeFullName: typeFullName}
}

// RecordType returns StartElementRecord
func (*StartElement) RecordType() RecordType { return StartElementRecord }

// TypeFullName returns element type name
func (e *StartElement) TypeFullName() string { return e.typeFullName }

func (e *StartElement) encode(w *writer) {
	w.record(StartElementRecord)
	w.string(e.assemblyName)
	w.string(e.typeFullName)
}

// EndElement closes the innermost element
type EndElement struct{}

// RecordType returns EndElementRecord
func (*EndElement) RecordType() RecordType { return EndElementRecord }

func (*EndElement) encode(w *writer) { w.record(EndElementRecord) }

// Property sets an element property
type Property struct {
	name  string
	value string
}

// NewProperty creates a property
func NewProperty(name, value string) *Property {
	return &Property{name: name, value: value}
}

// RecordType returns PropertyRecord
func (*Property) RecordType() RecordType { return PropertyRecord }

// Name returns property name
func (p *Property) Name() string { return p.name }

// Value returns property value
func (p *Property) Value() string { return p.value }

func (p *Property) encode(w *writer) {
	w.record(PropertyRecord)
	w.string(p.name)
	w.string(p.value)
}

// Text is element content
type Text struct {
	value string
}

// NewText creates text content
func NewText(value string) *Text {
	return &Text{value: value}
}

// RecordType returns TextRecord
func (*Text) RecordType() RecordType { return TextRecord }

// Value returns text
func (t *Text) Value() string { return t.value }

func (t *Text) encode(w *writer) {
	w.record(TextRecord)
	w.string(t.value)
}

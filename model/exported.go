package model

// ExportedType is a type forwarder or an entry exported from another module of the assembly
type ExportedType struct {
	Namespace     string
	Name          string
	Module        *Module
	Scope         MetadataScope
	Attributes    TypeAttributes
	Identifier    int
	DeclaringType *ExportedType
}

// FullName returns namespace qualified name
func (e *ExportedType) FullName() string {
	if e.DeclaringType != nil {
		return e.DeclaringType.FullName() + "/" + e.Name
	}
	return qualify(e.Namespace, e.Name)
}

func (e *ExportedType) String() string {
	return e.FullName()
}

package resource

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/repack/resource/markup"
)

// assemblyNameField is the unexported markup node field holding the originating assembly
const assemblyNameField = "assemblyName"

// AssemblyNameAccessor reads and writes the originating assembly name of a markup node
type AssemblyNameAccessor interface {
	// ReadAssemblyName returns false for nodes without an assembly name
	ReadAssemblyName(node markup.Node) (string, bool)
	WriteAssemblyName(node markup.Node, name string) error
}

// reflectAccessor reaches into unexported node fields, markup nodes expose no mutation surface.
// It depends on the field layout of the markup package and breaks silently if the field is renamed.
type reflectAccessor struct{}

// NewReflectAccessor returns accessor backed by reflection
func NewReflectAccessor() AssemblyNameAccessor {
	return reflectAccessor{}
}

func (reflectAccessor) ReadAssemblyName(node markup.Node) (string, bool) {
	field, ok := assemblyName(node)
	if !ok {
		return "", false
	}
	return field.String(), true
}

func (reflectAccessor) WriteAssemblyName(node markup.Node, name string) error {
	field, ok := assemblyName(node)
	if !ok {
		return fmt.Errorf("node %v has no assembly name", node.RecordType())
	}
	reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem().SetString(name)
	return nil
}

func assemblyName(node markup.Node) (reflect.Value, bool) {
	value := reflect.ValueOf(node)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return reflect.Value{}, false
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	field := value.FieldByName(assemblyNameField)
	if !field.IsValid() || field.Kind() != reflect.String {
		return reflect.Value{}, false
	}
	return field, true
}

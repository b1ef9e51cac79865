package repack

import (
	"github.com/viant/repack/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var corlib = &model.AssemblyNameReference{Name: "mscorlib", Version: "4.0.0.0", PublicKeyToken: "b77a5c561934e089"}

func newAssembly(name string) *model.AssemblyDefinition {
	return model.NewAssemblyDefinition(&model.AssemblyNameReference{Name: name, Version: "1.0.0.0"}, name+".dll")
}

func systemType(module *model.Module, name string) *model.TypeReference {
	return model.NewTypeReference("System", name, module, corlib)
}

func newType(module *model.Module, namespace, name string, attributes model.TypeAttributes) *model.TypeDefinition {
	ret := model.NewTypeDefinition(namespace, name, attributes)
	ret.BaseType = systemType(module, "Object")
	module.AddType(ret)
	return ret
}

func newMethod(owner *model.TypeDefinition, name string, attributes model.MethodAttributes, params ...model.TypeRef) *model.MethodDefinition {
	ret := model.NewMethodDefinition(name, attributes, systemType(owner.Module, "Void"))
	for i, param := range params {
		ret.Parameters = append(ret.Parameters, &model.ParameterDefinition{Name: string(rune('a' + i)), ParameterType: param})
	}
	owner.AddMethod(ret)
	return ret
}

func newField(owner *model.TypeDefinition, name string, fieldType model.TypeRef) *model.FieldDefinition {
	ret := &model.FieldDefinition{Name: name, FieldType: fieldType}
	owner.AddField(ret)
	return ret
}

// newObservedImporter returns importer merging assemblies into a fresh target with logs recorded
func newObservedImporter(options *Options, assemblies []*model.AssemblyDefinition, opts ...Option) (*Importer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	target := newAssembly("Merged").MainModule()
	ctx := NewContext(target, assemblies)
	opts = append([]Option{WithLogger(zap.New(core))}, opts...)
	return NewImporter(ctx, options, opts...), logs
}

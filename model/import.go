package model

import (
	"fmt"
)

// TypeMapper resolves references to types already cloned into the target module
type TypeMapper interface {
	MergedType(ref TypeRef) *TypeDefinition
	// IsMergedAssembly returns true for assemblies whose types end up in the target module
	IsMergedAssembly(name string) bool
}

// MetadataImporter rebases references from foreign modules into a module.
// Type references found in member signatures keep their generic parameters positional,
// while standalone types resolve generic parameters against the supplied context.
type MetadataImporter struct {
	module *Module
	mapper TypeMapper
}

// NewMetadataImporter creates an importer targeting module, mapper is optional
func NewMetadataImporter(module *Module, mapper TypeMapper) *MetadataImporter {
	return &MetadataImporter{module: module, mapper: mapper}
}

// Module returns target module
func (i *MetadataImporter) Module() *Module {
	return i.module
}

// ImportType imports a type, ctx may be nil when no generic parameter can be involved
func (i *MetadataImporter) ImportType(ref TypeRef, ctx GenericContext) (TypeRef, error) {
	return i.importType(ref, ctx, false)
}

// ImportField imports a field reference
func (i *MetadataImporter) ImportField(ref FieldRef, ctx GenericContext) (FieldRef, error) {
	if def, ok := ref.(*FieldDefinition); ok && def.DeclaringType != nil && def.DeclaringType.Module == i.module {
		return def, nil
	}
	declaringType, err := i.importType(ref.DeclaringTypeRef(), ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to import declaring type of %v: %w", ref.FullName(), err)
	}
	if local, ok := declaringType.(*TypeDefinition); ok && local.Module == i.module {
		if field := local.GetField(ref.MemberName()); field != nil {
			return field, nil
		}
	}
	fieldType, err := i.importType(ref.FieldTypeRef(), ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to import type of %v: %w", ref.FullName(), err)
	}
	return &FieldReference{Name: ref.MemberName(), DeclaringType: declaringType, FieldType: fieldType}, nil
}

// ImportMethod imports a method reference, resolving it to a local definition when one matches
func (i *MetadataImporter) ImportMethod(ref MethodRef, ctx GenericContext) (MethodRef, error) {
	if def, ok := ref.(*MethodDefinition); ok && def.DeclaringType != nil && def.DeclaringType.Module == i.module {
		return def, nil
	}
	declaringType, err := i.importType(ref.DeclaringTypeRef(), ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to import declaring type of %v: %w", ref.FullName(), err)
	}
	result := &MethodReference{Name: ref.MemberName(), DeclaringType: declaringType}
	switch actual := ref.(type) {
	case *MethodReference:
		result.HasThis = actual.HasThis
		result.ExplicitThis = actual.ExplicitThis
		result.CallingConvention = actual.CallingConvention
		result.GenericParameterCount = actual.GenericParameterCount
	case *MethodDefinition:
		result.HasThis = !actual.IsStatic()
		result.CallingConvention = actual.CallingConvention
		result.GenericParameterCount = len(actual.GenericParameters)
	}
	if result.ReturnType, err = i.importType(ref.ReturnTypeRef(), ctx, true); err != nil {
		return nil, fmt.Errorf("failed to import return type of %v: %w", ref.FullName(), err)
	}
	for _, param := range ref.ParameterTypes() {
		imported, err := i.importType(param, ctx, true)
		if err != nil {
			return nil, fmt.Errorf("failed to import parameter of %v: %w", ref.FullName(), err)
		}
		result.Parameters = append(result.Parameters, imported)
	}
	for _, arg := range ref.GenericArgumentRefs() {
		imported, err := i.importType(arg, ctx, false)
		if err != nil {
			return nil, fmt.Errorf("failed to import generic argument of %v: %w", ref.FullName(), err)
		}
		result.GenericArguments = append(result.GenericArguments, imported)
	}
	if local, ok := declaringType.(*TypeDefinition); ok && local.Module == i.module && len(result.GenericArguments) == 0 {
		fullName := result.FullName()
		for _, candidate := range local.MethodsNamed(result.Name) {
			if candidate.FullName() == fullName {
				return candidate, nil
			}
		}
	}
	return result, nil
}

func (i *MetadataImporter) importType(ref TypeRef, ctx GenericContext, signature bool) (TypeRef, error) {
	if ref == nil {
		return nil, nil
	}
	if i.mapper != nil {
		if def := i.mapper.MergedType(ref); def != nil {
			return def, nil
		}
	}
	switch actual := ref.(type) {
	case *TypeDefinition:
		if actual.Module == i.module {
			return actual, nil
		}
		return i.importDefinition(actual, ctx)
	case *TypeReference:
		return i.importReference(actual, ctx)
	case *GenericParameter:
		return i.importGenericParameter(actual, ctx, signature)
	case *GenericInstanceType:
		element, err := i.importType(actual.ElementType, ctx, signature)
		if err != nil {
			return nil, err
		}
		result := &GenericInstanceType{ElementType: element}
		for _, arg := range actual.GenericArguments {
			imported, err := i.importType(arg, ctx, signature)
			if err != nil {
				return nil, err
			}
			result.GenericArguments = append(result.GenericArguments, imported)
		}
		return result, nil
	case *TypeSpec:
		element, err := i.importType(actual.ElementType, ctx, signature)
		if err != nil {
			return nil, err
		}
		return &TypeSpec{Kind: actual.Kind, ElementType: element, Rank: actual.Rank}, nil
	}
	return nil, fmt.Errorf("unsupported type reference %T: %v", ref, ref)
}

func (i *MetadataImporter) importDefinition(def *TypeDefinition, ctx GenericContext) (TypeRef, error) {
	result := &TypeReference{Namespace: def.Namespace, Name: def.Name, Module: i.module, IsValueType: isValueType(def)}
	if def.DeclaringType != nil {
		declaring, err := i.importType(def.DeclaringType, ctx, false)
		if err != nil {
			return nil, err
		}
		return i.nested(declaring, result)
	}
	if def.Module == nil {
		return nil, fmt.Errorf("type %v is not attached to a module", def.FullName())
	}
	if i.isMergedModule(def.Module) {
		if local := i.module.GetType(def.FullName()); local != nil {
			return local, nil
		}
		// not cloned yet: a name reference scoped to the target module, callers needing the
		// definition resolve it through Module.GetType once the clone exists
		result.scope = i.module
		return result, nil
	}
	result.scope = i.scopeOf(def.Module)
	return result, nil
}

func (i *MetadataImporter) importReference(ref *TypeReference, ctx GenericContext) (TypeRef, error) {
	result := &TypeReference{Namespace: ref.Namespace, Name: ref.Name, Module: i.module, IsValueType: ref.IsValueType}
	if ref.DeclaringType != nil {
		declaring, err := i.importType(ref.DeclaringType, ctx, false)
		if err != nil {
			return nil, err
		}
		return i.nested(declaring, result)
	}
	switch scope := ref.Scope().(type) {
	case *AssemblyNameReference:
		if i.isLocalAssembly(scope.Name) || i.isMergedAssembly(scope.Name) {
			if local := i.module.GetType(ref.FullName()); local != nil {
				return local, nil
			}
			// not cloned yet: a name reference scoped to the target module, callers needing the
			// definition resolve it through Module.GetType once the clone exists
			result.scope = i.module
			return result, nil
		}
		result.scope = i.module.AssemblyReference(scope)
	case *ModuleReference:
		if scope.Name == i.module.Name {
			if local := i.module.GetType(ref.FullName()); local != nil {
				return local, nil
			}
			result.scope = i.module
			return result, nil
		}
		result.scope = i.module.ModuleReference(scope.Name)
	case *Module:
		if scope == i.module || i.isMergedModule(scope) {
			if local := i.module.GetType(ref.FullName()); local != nil {
				return local, nil
			}
			// not cloned yet, see the assembly scope case above
			result.scope = i.module
			return result, nil
		}
		result.scope = i.scopeOf(scope)
	default:
		return nil, fmt.Errorf("type reference %v has no resolution scope", ref.FullName())
	}
	return result, nil
}

func (i *MetadataImporter) importGenericParameter(param *GenericParameter, ctx GenericContext, signature bool) (TypeRef, error) {
	if i.ownsGenericParameter(param) {
		return param, nil
	}
	if signature {
		return &GenericParameter{Name: param.Name, Position: param.Position, Kind: param.Kind}, nil
	}
	if ctx == nil {
		return nil, fmt.Errorf("generic parameter %v imported without a generic context", param.Name)
	}
	if resolved, ok := ctx.GenericParameterAt(param.Kind, param.Position); ok {
		return resolved, nil
	}
	return nil, fmt.Errorf("generic parameter %v at position %d not found in context", param.Name, param.Position)
}

func (i *MetadataImporter) ownsGenericParameter(param *GenericParameter) bool {
	switch owner := param.Owner.(type) {
	case *TypeDefinition:
		return owner.Module == i.module
	case *MethodDefinition:
		return owner.DeclaringType != nil && owner.DeclaringType.Module == i.module
	}
	return false
}

// nested attaches a nested reference to its imported declaring type
func (i *MetadataImporter) nested(declaring TypeRef, result *TypeReference) (TypeRef, error) {
	switch actual := declaring.(type) {
	case *TypeDefinition:
		if local := i.module.GetType(actual.FullName() + "/" + result.Name); local != nil {
			return local, nil
		}
		result.DeclaringType = i.localReference(actual)
	case *TypeReference:
		result.DeclaringType = actual
	default:
		return nil, fmt.Errorf("unsupported declaring type %T of %v", declaring, result.Name)
	}
	return result, nil
}

func (i *MetadataImporter) localReference(def *TypeDefinition) *TypeReference {
	ret := &TypeReference{Namespace: def.Namespace, Name: def.Name, Module: i.module, IsValueType: isValueType(def)}
	if def.DeclaringType != nil {
		ret.DeclaringType = i.localReference(def.DeclaringType)
		return ret
	}
	ret.scope = i.module
	return ret
}

func (i *MetadataImporter) isLocalAssembly(name string) bool {
	return i.module.Assembly != nil && i.module.Assembly.Name != nil && i.module.Assembly.Name.Name == name
}

func (i *MetadataImporter) isMergedAssembly(name string) bool {
	return i.mapper != nil && i.mapper.IsMergedAssembly(name)
}

func (i *MetadataImporter) isMergedModule(module *Module) bool {
	return module.Assembly != nil && module.Assembly.Name != nil && i.isMergedAssembly(module.Assembly.Name.Name)
}

func (i *MetadataImporter) scopeOf(module *Module) MetadataScope {
	if module.Assembly == nil || module.Assembly.Name == nil {
		return i.module.ModuleReference(module.Name)
	}
	if i.isLocalAssembly(module.Assembly.Name.Name) {
		return i.module.ModuleReference(module.Name)
	}
	return i.module.AssemblyReference(module.Assembly.Name)
}

func isValueType(def *TypeDefinition) bool {
	if def.BaseType == nil {
		return false
	}
	switch def.BaseType.FullName() {
	case "System.ValueType", "System.Enum":
		return true
	}
	return false
}

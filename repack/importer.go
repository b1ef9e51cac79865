package repack

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/viant/repack/model"
	"go.uber.org/zap"
)

// Importer finds or creates the output counterpart of source types, members and references
type Importer struct {
	ctx            *Context
	policy         *DuplicatePolicy
	logger         Logger
	base           *zap.Logger
	copier         Copier
	fixer          PlatformFixer
	indexer        LineIndexer
	literalOffsets map[*model.AssemblyDefinition]int
	metadata       *model.MetadataImporter
}

// NewImporter creates an importer for one merge run
func NewImporter(ctx *Context, options *Options, opts ...Option) *Importer {
	if options == nil {
		options = DefaultOptions()
	}
	ret := &Importer{
		ctx:     ctx,
		policy:  NewDuplicatePolicy(options),
		logger:  NewLogger(nil),
		fixer:   NewPlatformFixer(options.TargetPlatformVersion),
		indexer: nopLineIndexer{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.copier == nil {
		ret.copier = NewCopier(ret)
	}
	ret.metadata = model.NewMetadataImporter(ctx.Target, ctx)
	return ret
}

// ImportType returns the clone of a merged type or imports the reference, nil ctx denotes an assembly level reference
func (i *Importer) ImportType(ref model.TypeRef, ctx model.GenericContext) (model.TypeRef, error) {
	if ref == nil {
		return nil, nil
	}
	if clone := i.ctx.MergedType(ref); clone != nil {
		return clone, nil
	}
	ref = i.fixer.FixType(ref)
	imported, err := i.metadata.ImportType(ref, ctx)
	if err != nil {
		i.logger.Error("problem adding reference", zap.String("reference", ref.FullName()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v: %w", ErrReferenceImport, ref.FullName(), err)
	}
	return imported, nil
}

// ImportField imports a field reference
func (i *Importer) ImportField(ref model.FieldRef, ctx model.GenericContext) (model.FieldRef, error) {
	ref = i.fixer.FixField(ref)
	imported, err := i.metadata.ImportField(ref, ctx)
	if err != nil {
		i.logger.Error("problem adding field reference", zap.String("reference", ref.FullName()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v: %w", ErrReferenceImport, ref.FullName(), err)
	}
	return imported, nil
}

// ImportMethod imports a method reference, definitions of merged types are corrected to their clones when present
func (i *Importer) ImportMethod(ref model.MethodRef, ctx model.GenericContext) (model.MethodRef, error) {
	ref = i.fixer.FixMethod(ref)
	imported, err := i.metadata.ImportMethod(ref, ctx)
	if err != nil {
		i.logger.Error("problem adding method reference", zap.String("reference", ref.FullName()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v: %w", ErrReferenceImport, ref.FullName(), err)
	}
	return imported, nil
}

// ImportTypeDefinition clones source type into parent (nil for top level types) applying the duplicate policy,
// then nested types, fields, methods, events and properties in that order.
// A source type is cloned once, later calls return that clone.
func (i *Importer) ImportTypeDefinition(source *model.TypeDefinition, parent *model.TypeDefinition, internalize bool) (*model.TypeDefinition, error) {
	if clone := i.ctx.RemappedType(source); clone != nil {
		return clone, nil
	}
	i.logger.Verbose("importing type", zap.String("type", source.FullName()), zap.String("module", moduleName(source)))
	existing := i.ctx.Target.GetType(source.FullName())
	var clone *model.TypeDefinition
	justCreated := false
	var err error
	switch resolution := i.policy.Resolve(source, existing, internalize); resolution {
	case CloneFresh:
		if clone, err = i.createType(source, parent, internalize); err != nil {
			return nil, err
		}
		justCreated = true
	case Merge:
		i.logger.Info("merging type", zap.String("type", source.FullName()), zap.String("module", moduleName(source)))
		clone = existing
	case RenameAndReclone:
		// the previous clone keeps its identity, references to it stay valid
		other := "<" + uuid.New().String() + ">" + existing.Name
		i.logger.Info("renaming type", zap.String("type", existing.FullName()), zap.String("name", other))
		existing.Rename(other)
		if clone, err = i.createType(source, parent, internalize); err != nil {
			return nil, err
		}
		justCreated = true
	default:
		conflict := &ConflictError{TypeName: source.FullName(), Module: moduleName(source), OtherModule: i.ctx.OriginModule(existing)}
		i.logger.Error("duplicate type", zap.String("type", source.FullName()), zap.String("module", conflict.Module), zap.String("other", conflict.OtherModule))
		return nil, conflict
	}
	i.ctx.StoreRemappedType(source, clone)

	// nested types are never internalized
	for _, nested := range source.NestedTypes {
		if _, err = i.ImportTypeDefinition(nested, clone, false); err != nil {
			return nil, err
		}
	}
	for _, field := range source.Fields {
		if err = i.cloneField(field, clone); err != nil {
			return nil, err
		}
	}
	// methods precede events and properties, accessors link to cloned methods
	for _, method := range source.Methods {
		if err = i.cloneMethod(method, clone, justCreated); err != nil {
			return nil, err
		}
	}
	for _, event := range source.Events {
		if err = i.cloneEvent(event, clone); err != nil {
			return nil, err
		}
	}
	for _, property := range source.Properties {
		if err = i.cloneProperty(property, clone); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

func (i *Importer) createType(source *model.TypeDefinition, parent *model.TypeDefinition, internalize bool) (*model.TypeDefinition, error) {
	clone := model.NewTypeDefinition(source.Namespace, source.Name, source.Attributes)
	if parent == nil {
		i.ctx.Target.AddType(clone)
	} else {
		parent.AddNestedType(clone)
	}
	// only top level types are internalized
	if internalize && !clone.IsNested() && clone.IsPublic() {
		clone.SetPublic(false)
	}
	if err := i.copier.CopyGenericParameters(source.GenericParameters, clone); err != nil {
		return nil, fmt.Errorf("failed to copy generic parameters of %v: %w", source.FullName(), err)
	}
	if source.BaseType != nil {
		baseType, err := i.ImportType(source.BaseType, clone)
		if err != nil {
			return nil, err
		}
		clone.BaseType = baseType
	}
	if source.Layout != nil {
		clone.Layout = &model.LayoutInfo{ClassSize: source.Layout.ClassSize, PackingSize: source.Layout.PackingSize}
	}
	clone.SecurityDeclarations = i.copier.CopySecurityDeclarations(source.SecurityDeclarations)
	interfaces, err := i.copier.CopyTypeReferences(source.Interfaces, clone)
	if err != nil {
		return nil, err
	}
	clone.Interfaces = interfaces
	if clone.CustomAttributes, err = i.copier.CopyCustomAttributes(source.CustomAttributes, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func (i *Importer) cloneField(field *model.FieldDefinition, clone *model.TypeDefinition) error {
	if clone.GetField(field.Name) != nil {
		i.logger.DuplicateIgnored("field", field)
		return nil
	}
	fieldType, err := i.ImportType(field.FieldType, clone)
	if err != nil {
		return err
	}
	target := &model.FieldDefinition{Name: field.Name, Attributes: field.Attributes, FieldType: fieldType}
	clone.AddField(target)
	if field.HasConstant {
		target.Constant = field.Constant
		target.HasConstant = true
	}
	if field.MarshalInfo != nil {
		target.MarshalInfo = field.MarshalInfo
	}
	if len(field.InitialValue) > 0 {
		target.InitialValue = field.InitialValue
	}
	if field.HasLayoutInfo {
		target.Offset = field.Offset
		target.HasLayoutInfo = true
	}
	target.CustomAttributes, err = i.copier.CopyCustomAttributes(field.CustomAttributes, clone)
	return err
}

func (i *Importer) cloneParameter(param *model.ParameterDefinition, ctx *model.MethodDefinition) (*model.ParameterDefinition, error) {
	paramType, err := i.ImportType(param.ParameterType, ctx)
	if err != nil {
		return nil, err
	}
	ret := &model.ParameterDefinition{Name: param.Name, Attributes: param.Attributes, ParameterType: paramType}
	if param.HasConstant {
		ret.Constant = param.Constant
		ret.HasConstant = true
	}
	if param.MarshalInfo != nil {
		ret.MarshalInfo = param.MarshalInfo
	}
	if len(param.CustomAttributes) > 0 {
		if ret.CustomAttributes, err = i.copier.CopyCustomAttributes(param.CustomAttributes, ctx); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (i *Importer) cloneEvent(event *model.EventDefinition, clone *model.TypeDefinition) error {
	if clone.GetEvent(event.Name) != nil {
		i.logger.DuplicateIgnored("event", event)
		return nil
	}
	eventType, err := i.ImportType(event.EventType, clone)
	if err != nil {
		return err
	}
	target := &model.EventDefinition{Name: event.Name, Attributes: event.Attributes, EventType: eventType}
	clone.AddEvent(target)
	if event.AddMethod != nil {
		target.AddMethod = i.findMethodInNewType(clone, event.AddMethod)
	}
	if event.RemoveMethod != nil {
		target.RemoveMethod = i.findMethodInNewType(clone, event.RemoveMethod)
	}
	if event.InvokeMethod != nil {
		target.InvokeMethod = i.findMethodInNewType(clone, event.InvokeMethod)
	}
	for _, method := range event.OtherMethods {
		if other := i.findMethodInNewType(clone, method); other != nil {
			target.OtherMethods = append(target.OtherMethods, other)
		}
	}
	target.CustomAttributes, err = i.copier.CopyCustomAttributes(event.CustomAttributes, clone)
	return err
}

func (i *Importer) cloneProperty(property *model.PropertyDefinition, clone *model.TypeDefinition) error {
	if others := clone.PropertiesNamed(property.Name); len(others) > 0 {
		skip := true
		// indexers may be overloaded by parameter types, identical signatures are still duplicates
		if isIndexer(property) && isIndexer(others[0]) {
			skip = false
			params := indexerParameters(property)
			for _, other := range others {
				if AreSame(params, indexerParameters(other)) {
					skip = true
					break
				}
			}
		}
		if skip {
			i.logger.DuplicateIgnored("property", property)
			return nil
		}
	}
	propertyType, err := i.ImportType(property.PropertyType, clone)
	if err != nil {
		return err
	}
	target := &model.PropertyDefinition{Name: property.Name, Attributes: property.Attributes, PropertyType: propertyType}
	clone.AddProperty(target)
	if property.SetMethod != nil {
		target.SetMethod = i.findMethodInNewType(clone, property.SetMethod)
	}
	if property.GetMethod != nil {
		target.GetMethod = i.findMethodInNewType(clone, property.GetMethod)
	}
	for _, method := range property.OtherMethods {
		if other := i.findMethodInNewType(clone, method); other != nil {
			target.OtherMethods = append(target.OtherMethods, other)
		}
	}
	target.CustomAttributes, err = i.copier.CopyCustomAttributes(property.CustomAttributes, clone)
	return err
}

func (i *Importer) cloneMethod(method *model.MethodDefinition, clone *model.TypeDefinition, justCreated bool) error {
	if !justCreated && i.hasMethod(clone, method) {
		i.logger.DuplicateIgnored("method", method)
		return nil
	}
	// void placeholder, return type is imported once generic parameters exist
	target := model.NewMethodDefinition(method.Name, method.Attributes, i.ctx.Target.Void())
	target.ImplAttributes = method.ImplAttributes
	clone.AddMethod(target)

	if err := i.copier.CopyGenericParameters(method.GenericParameters, target); err != nil {
		return fmt.Errorf("failed to copy generic parameters of %v: %w", method.FullName(), err)
	}
	if method.HasPInvokeInfo() && method.PInvokeInfo != nil {
		info := method.PInvokeInfo
		target.PInvokeInfo = &model.PInvokeInfo{Attributes: info.Attributes, EntryPoint: info.EntryPoint, Module: info.Module}
	}
	for _, param := range method.Parameters {
		cloned, err := i.cloneParameter(param, target)
		if err != nil {
			return err
		}
		target.Parameters = append(target.Parameters, cloned)
	}
	for _, override := range method.Overrides {
		imported, err := i.ImportMethod(override, target)
		if err != nil {
			return err
		}
		target.Overrides = append(target.Overrides, imported)
	}
	target.SecurityDeclarations = i.copier.CopySecurityDeclarations(method.SecurityDeclarations)
	var err error
	if target.CustomAttributes, err = i.copier.CopyCustomAttributes(method.CustomAttributes, target); err != nil {
		return err
	}

	returnType, err := i.ImportType(method.MethodReturnType.ReturnType, target)
	if err != nil {
		return err
	}
	source := method.MethodReturnType
	target.MethodReturnType = model.MethodReturnType{ReturnType: returnType, Attributes: source.Attributes}
	if source.HasConstant {
		target.MethodReturnType.Constant = source.Constant
		target.MethodReturnType.HasConstant = true
	}
	if source.MarshalInfo != nil {
		target.MethodReturnType.MarshalInfo = source.MarshalInfo
	}
	if len(source.CustomAttributes) > 0 {
		if target.MethodReturnType.CustomAttributes, err = i.copier.CopyCustomAttributes(source.CustomAttributes, target); err != nil {
			return err
		}
	}

	if method.Body != nil {
		if err = i.cloneBody(method, target); err != nil {
			return err
		}
	}
	// release source body, large merges keep only clones alive
	method.Body = nil

	target.SemanticsAttributes = method.SemanticsAttributes
	target.CallingConvention = method.CallingConvention
	return nil
}

// hasMethod returns true when clone declares a method with identical name, arity and signature text
func (i *Importer) hasMethod(clone *model.TypeDefinition, method *model.MethodDefinition) bool {
	candidates := clone.MethodsNamed(method.Name)
	if len(candidates) == 0 {
		return false
	}
	signature := method.String()
	for _, candidate := range candidates {
		if len(candidate.Parameters) == len(method.Parameters) && candidate.String() == signature {
			return true
		}
	}
	return false
}

func (i *Importer) findMethodInNewType(clone *model.TypeDefinition, method *model.MethodDefinition) *model.MethodDefinition {
	ret := FindMethodDefinitionInType(clone, method)
	if ret == nil {
		i.logger.Warn("method not found in merged type", zap.String("method", method.FullName()), zap.String("type", clone.FullName()))
	}
	return ret
}

func (i *Importer) zapLogger() *zap.Logger {
	if i.base == nil {
		return zap.NewNop()
	}
	return i.base
}

func moduleName(t *model.TypeDefinition) string {
	if t.Module == nil {
		return ""
	}
	return t.Module.Name
}

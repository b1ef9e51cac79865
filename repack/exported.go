package repack

import (
	"github.com/viant/repack/model"
	"go.uber.org/zap"
)

// ImportExportedType mirrors an exported type into the target module, forwarders into
// assemblies or modules being merged would dangle and are skipped with a nil result
func (i *Importer) ImportExportedType(exported *model.ExportedType) (*model.ExportedType, error) {
	if cloned, ok := i.ctx.exported[exported]; ok {
		return cloned, nil
	}
	if i.isMergedScope(exported) {
		i.logger.Verbose("skipping exported type", zap.String("type", exported.FullName()))
		return nil, nil
	}
	ret := &model.ExportedType{
		Namespace:  exported.Namespace,
		Name:       exported.Name,
		Module:     i.ctx.Target,
		Attributes: exported.Attributes,
		Identifier: exported.Identifier,
	}
	if exported.DeclaringType != nil {
		declaring, err := i.ImportExportedType(exported.DeclaringType)
		if err != nil {
			return nil, err
		}
		ret.DeclaringType = declaring
	}
	switch scope := exported.Scope.(type) {
	case *model.AssemblyNameReference:
		ret.Scope = i.ctx.Target.AssemblyReference(scope)
	case *model.ModuleReference:
		ret.Scope = i.ctx.Target.ModuleReference(scope.Name)
	case *model.Module:
		ret.Scope = i.ctx.Target.ModuleReference(scope.Name)
	}
	i.ctx.exported[exported] = ret
	i.ctx.Target.ExportedTypes = append(i.ctx.Target.ExportedTypes, ret)
	return ret, nil
}

// isMergedScope checks the resolution scope of the outermost declaring exported type
func (i *Importer) isMergedScope(exported *model.ExportedType) bool {
	top := exported
	for top.DeclaringType != nil && top.Scope == nil {
		top = top.DeclaringType
	}
	switch scope := top.Scope.(type) {
	case *model.AssemblyNameReference:
		return i.ctx.IsMergedAssembly(scope.Name)
	case *model.ModuleReference:
		return i.ctx.IsMergedModule(scope.Name)
	case *model.Module:
		return i.ctx.IsMergedModule(scope.Name)
	}
	return false
}

package repack

import (
	"github.com/viant/repack/model"
)

const indexerName = "Item"

// FindMethodDefinitionInType returns the method of clone matching name and parameter types of method
func FindMethodDefinitionInType(clone *model.TypeDefinition, method *model.MethodDefinition) *model.MethodDefinition {
	for _, candidate := range clone.MethodsNamed(method.Name) {
		if len(candidate.Parameters) != len(method.Parameters) {
			continue
		}
		if AreSame(candidate.Parameters, method.Parameters) {
			return candidate
		}
	}
	return nil
}

// AreSame returns true when both parameter lists have equal type names
func AreSame(a, b []*model.ParameterDefinition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if typeFullName(a[i].ParameterType) != typeFullName(b[i].ParameterType) {
			return false
		}
	}
	return true
}

func isIndexer(property *model.PropertyDefinition) bool {
	if property.Name != indexerName {
		return false
	}
	return len(indexerParameters(property)) > 0
}

// indexerParameters returns getter parameters, or setter parameters without the trailing value
func indexerParameters(property *model.PropertyDefinition) []*model.ParameterDefinition {
	if property.GetMethod != nil {
		return property.GetMethod.Parameters
	}
	if property.SetMethod != nil && len(property.SetMethod.Parameters) > 0 {
		params := property.SetMethod.Parameters
		return params[:len(params)-1]
	}
	return nil
}

func typeFullName(ref model.TypeRef) string {
	if ref == nil {
		return ""
	}
	return ref.FullName()
}

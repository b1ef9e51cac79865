package repack

import (
	"fmt"

	"github.com/viant/repack/model"
)

// Copier copies attribute, security and generic parameter metadata into clones
type Copier interface {
	CopyCustomAttributes(source []*model.CustomAttribute, ctx model.GenericContext) ([]*model.CustomAttribute, error)
	CopySecurityDeclarations(source []*model.SecurityDeclaration) []*model.SecurityDeclaration
	CopyGenericParameters(source []*model.GenericParameter, owner GenericParameterOwner) error
	CopyTypeReferences(source []model.TypeRef, ctx model.GenericContext) ([]model.TypeRef, error)
}

// GenericParameterOwner is a clone accepting generic parameters
type GenericParameterOwner interface {
	model.GenericContext
	AddGenericParameter(param *model.GenericParameter)
}

// ReferenceImporter imports references into the target module
type ReferenceImporter interface {
	ImportType(ref model.TypeRef, ctx model.GenericContext) (model.TypeRef, error)
	ImportMethod(ref model.MethodRef, ctx model.GenericContext) (model.MethodRef, error)
}

type copier struct {
	importer ReferenceImporter
}

// NewCopier returns copier importing referenced types with importer
func NewCopier(importer ReferenceImporter) Copier {
	return &copier{importer: importer}
}

func (c *copier) CopyCustomAttributes(source []*model.CustomAttribute, ctx model.GenericContext) ([]*model.CustomAttribute, error) {
	if len(source) == 0 {
		return nil, nil
	}
	result := make([]*model.CustomAttribute, 0, len(source))
	for _, attribute := range source {
		constructor, err := c.importer.ImportMethod(attribute.Constructor, ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to copy attribute %v: %w", attribute.Constructor, err)
		}
		clone := &model.CustomAttribute{Constructor: constructor, Blob: attribute.Blob}
		for _, arg := range attribute.Arguments {
			argType, err := c.importer.ImportType(arg.Type, ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to copy attribute %v argument: %w", attribute.Constructor, err)
			}
			clone.Arguments = append(clone.Arguments, model.CustomAttributeArgument{Type: argType, Value: arg.Value})
		}
		result = append(result, clone)
	}
	return result, nil
}

func (c *copier) CopySecurityDeclarations(source []*model.SecurityDeclaration) []*model.SecurityDeclaration {
	if len(source) == 0 {
		return nil
	}
	result := make([]*model.SecurityDeclaration, 0, len(source))
	for _, declaration := range source {
		result = append(result, &model.SecurityDeclaration{Action: declaration.Action, Blob: declaration.Blob})
	}
	return result
}

// CopyGenericParameters adds every parameter before importing constraints, constraints may refer to siblings
func (c *copier) CopyGenericParameters(source []*model.GenericParameter, owner GenericParameterOwner) error {
	clones := make([]*model.GenericParameter, len(source))
	for i, param := range source {
		clones[i] = &model.GenericParameter{Name: param.Name, Attributes: param.Attributes}
		owner.AddGenericParameter(clones[i])
	}
	for i, param := range source {
		for _, constraint := range param.Constraints {
			imported, err := c.importer.ImportType(constraint, owner)
			if err != nil {
				return fmt.Errorf("failed to copy constraint %v of %v: %w", constraint, param.Name, err)
			}
			clones[i].Constraints = append(clones[i].Constraints, imported)
		}
		attributes, err := c.CopyCustomAttributes(param.CustomAttributes, owner)
		if err != nil {
			return err
		}
		clones[i].CustomAttributes = attributes
	}
	return nil
}

func (c *copier) CopyTypeReferences(source []model.TypeRef, ctx model.GenericContext) ([]model.TypeRef, error) {
	if len(source) == 0 {
		return nil, nil
	}
	result := make([]model.TypeRef, 0, len(source))
	for _, ref := range source {
		imported, err := c.importer.ImportType(ref, ctx)
		if err != nil {
			return nil, err
		}
		result = append(result, imported)
	}
	return result, nil
}

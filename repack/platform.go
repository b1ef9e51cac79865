package repack

import (
	"strings"

	"github.com/viant/repack/model"
	"golang.org/x/mod/semver"
)

// PlatformFixer rewrites target platform metadata of a reference before import
type PlatformFixer interface {
	FixType(ref model.TypeRef) model.TypeRef
	FixField(ref model.FieldRef) model.FieldRef
	FixMethod(ref model.MethodRef) model.MethodRef
}

type nopPlatformFixer struct{}

func (nopPlatformFixer) FixType(ref model.TypeRef) model.TypeRef       { return ref }
func (nopPlatformFixer) FixField(ref model.FieldRef) model.FieldRef    { return ref }
func (nopPlatformFixer) FixMethod(ref model.MethodRef) model.MethodRef { return ref }

// platformFixer retargets references to platform assemblies older than the target version
type platformFixer struct {
	version string // semver form of target version
	target  string // original dotted form
	scopes  map[string]*model.AssemblyNameReference
}

// NewPlatformFixer returns fixer retargeting platform references to version, e.g. "4.0.0.0";
// an empty or malformed version yields a fixer leaving references untouched
func NewPlatformFixer(version string) PlatformFixer {
	canonical := toSemver(version)
	if canonical == "" {
		return nopPlatformFixer{}
	}
	return &platformFixer{version: canonical, target: version, scopes: map[string]*model.AssemblyNameReference{}}
}

func (f *platformFixer) FixType(ref model.TypeRef) model.TypeRef {
	switch actual := ref.(type) {
	case *model.TypeReference:
		if actual.DeclaringType != nil {
			declaring, ok := f.FixType(actual.DeclaringType).(*model.TypeReference)
			if !ok || declaring == actual.DeclaringType {
				return ref
			}
			ret := *actual
			ret.DeclaringType = declaring
			return &ret
		}
		scope, ok := actual.Scope().(*model.AssemblyNameReference)
		if !ok || !f.outdated(scope) {
			return ref
		}
		ret := model.NewTypeReference(actual.Namespace, actual.Name, actual.Module, f.retarget(scope))
		ret.IsValueType = actual.IsValueType
		return ret
	case *model.GenericInstanceType:
		ret := &model.GenericInstanceType{ElementType: f.FixType(actual.ElementType)}
		for _, arg := range actual.GenericArguments {
			ret.GenericArguments = append(ret.GenericArguments, f.FixType(arg))
		}
		return ret
	case *model.TypeSpec:
		return &model.TypeSpec{Kind: actual.Kind, ElementType: f.FixType(actual.ElementType), Rank: actual.Rank}
	}
	return ref
}

func (f *platformFixer) FixField(ref model.FieldRef) model.FieldRef {
	actual, ok := ref.(*model.FieldReference)
	if !ok {
		return ref
	}
	return &model.FieldReference{Name: actual.Name, DeclaringType: f.FixType(actual.DeclaringType), FieldType: f.FixType(actual.FieldType)}
}

func (f *platformFixer) FixMethod(ref model.MethodRef) model.MethodRef {
	actual, ok := ref.(*model.MethodReference)
	if !ok {
		return ref
	}
	ret := *actual
	ret.DeclaringType = f.FixType(actual.DeclaringType)
	ret.ReturnType = f.FixType(actual.ReturnType)
	ret.Parameters = make([]model.TypeRef, len(actual.Parameters))
	for i, param := range actual.Parameters {
		ret.Parameters[i] = f.FixType(param)
	}
	return &ret
}

func (f *platformFixer) outdated(scope *model.AssemblyNameReference) bool {
	if !isPlatformAssembly(scope.Name) {
		return false
	}
	version := toSemver(scope.Version)
	return version != "" && semver.Compare(version, f.version) < 0
}

func (f *platformFixer) retarget(scope *model.AssemblyNameReference) *model.AssemblyNameReference {
	if ret, ok := f.scopes[scope.Name]; ok {
		return ret
	}
	ret := scope.Clone()
	ret.Version = f.target
	f.scopes[scope.Name] = ret
	return ret
}

func isPlatformAssembly(name string) bool {
	switch name {
	case "mscorlib", "netstandard", "System", "WindowsBase", "PresentationCore", "PresentationFramework":
		return true
	}
	return strings.HasPrefix(name, "System.") || strings.HasPrefix(name, "Microsoft.")
}

// toSemver converts dotted assembly version to semver, the fourth (revision) part is dropped
func toSemver(version string) string {
	if version == "" {
		return ""
	}
	parts := strings.Split(version, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	candidate := "v" + strings.Join(parts, ".")
	if !semver.IsValid(candidate) {
		return ""
	}
	return semver.Canonical(candidate)
}

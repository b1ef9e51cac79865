package repack

import (
	"github.com/hashicorp/go-set/v3"
	"github.com/viant/repack/model"
)

// Context holds state shared by every import operation of one merge run.
// The remapping table only grows: an entry, once stored, is never replaced.
type Context struct {
	Target           *model.Module
	MergedAssemblies []*model.AssemblyDefinition

	assemblyNames *set.Set[string] // simple names of merged assemblies
	moduleNames   *set.Set[string] // names of every merged module

	types    map[*model.TypeDefinition]*model.TypeDefinition // source to clone
	byName   map[typeKey]*model.TypeDefinition               // assembly scoped full name to clone
	origins  map[*model.TypeDefinition]*model.Module          // clone to module that first produced it
	exported map[*model.ExportedType]*model.ExportedType
}

type typeKey struct {
	assembly string
	fullName string
}

// NewContext creates a run context merging assemblies into target
func NewContext(target *model.Module, merged []*model.AssemblyDefinition) *Context {
	ret := &Context{
		Target:           target,
		MergedAssemblies: merged,
		assemblyNames:    set.New[string](len(merged)),
		moduleNames:      set.New[string](len(merged)),
		types:            map[*model.TypeDefinition]*model.TypeDefinition{},
		byName:           map[typeKey]*model.TypeDefinition{},
		origins:          map[*model.TypeDefinition]*model.Module{},
		exported:         map[*model.ExportedType]*model.ExportedType{},
	}
	for _, assembly := range merged {
		if assembly.Name != nil {
			ret.assemblyNames.Insert(assembly.Name.Name)
		}
		for _, module := range assembly.Modules {
			ret.moduleNames.Insert(module.Name)
		}
	}
	return ret
}

// IsMergedAssembly returns true when the simple assembly name is merged away
func (c *Context) IsMergedAssembly(name string) bool {
	return c.assemblyNames.Contains(name)
}

// IsMergedModule returns true when the module name belongs to a merged assembly
func (c *Context) IsMergedModule(name string) bool {
	return c.moduleNames.Contains(name)
}

// MergedAssemblyNames returns display names of merged assemblies
func (c *Context) MergedAssemblyNames() []string {
	var result []string
	for _, assembly := range c.MergedAssemblies {
		result = append(result, assembly.FullName())
	}
	return result
}

// StoreRemappedType records the clone of a source type, first entry wins
func (c *Context) StoreRemappedType(source, clone *model.TypeDefinition) {
	if _, ok := c.types[source]; ok {
		return
	}
	c.types[source] = clone
	if key, ok := keyOf(source); ok {
		if _, exists := c.byName[key]; !exists {
			c.byName[key] = clone
		}
	}
	if _, ok := c.origins[clone]; !ok {
		c.origins[clone] = source.Module
	}
}

// RemappedType returns clone of a source definition
func (c *Context) RemappedType(source *model.TypeDefinition) *model.TypeDefinition {
	return c.types[source]
}

// MergedType returns the clone for a source definition or for a reference into a merged assembly
func (c *Context) MergedType(ref model.TypeRef) *model.TypeDefinition {
	switch actual := ref.(type) {
	case *model.TypeDefinition:
		return c.types[actual]
	case *model.TypeReference:
		assembly := ""
		switch scope := actual.Scope().(type) {
		case *model.AssemblyNameReference:
			assembly = scope.Name
		case *model.Module:
			if scope.Assembly != nil && scope.Assembly.Name != nil {
				assembly = scope.Assembly.Name.Name
			}
		case *model.ModuleReference:
			return nil
		}
		if !c.assemblyNames.Contains(assembly) {
			return nil
		}
		return c.byName[typeKey{assembly: assembly, fullName: actual.FullName()}]
	}
	return nil
}

// OriginModule returns name of module that produced a clone
func (c *Context) OriginModule(clone *model.TypeDefinition) string {
	if module, ok := c.origins[clone]; ok && module != nil {
		return module.Name
	}
	if clone.Module != nil {
		return clone.Module.Name
	}
	return ""
}

func keyOf(source *model.TypeDefinition) (typeKey, bool) {
	module := source.Module
	if module == nil || module.Assembly == nil || module.Assembly.Name == nil {
		return typeKey{}, false
	}
	return typeKey{assembly: module.Assembly.Name.Name, fullName: source.FullName()}, true
}

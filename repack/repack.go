package repack

import (
	"fmt"

	"github.com/viant/repack/model"
	"github.com/viant/repack/resource"
	"go.uber.org/zap"
)

// Repack merges assemblies into a target module, the first assembly is the primary one
type Repack struct {
	ctx        *Context
	options    *Options
	importer   *Importer
	assemblies []*model.AssemblyDefinition
}

// New creates a merge run
func New(target *model.Module, assemblies []*model.AssemblyDefinition, options *Options, opts ...Option) *Repack {
	if options == nil {
		options = DefaultOptions()
	}
	ctx := NewContext(target, assemblies)
	return &Repack{
		ctx:        ctx,
		options:    options,
		importer:   NewImporter(ctx, options, opts...),
		assemblies: assemblies,
	}
}

// Context returns run context
func (r *Repack) Context() *Context {
	return r.ctx
}

// Importer returns run importer
func (r *Repack) Importer() *Importer {
	return r.importer
}

// Merge imports types, exported types and resources of every assembly in order.
// Any error aborts the run leaving the target partially written.
func (r *Repack) Merge() error {
	logger := r.importer.logger
	for index, assembly := range r.assemblies {
		internalize := r.options.Internalize && index > 0
		logger.Info("merging assembly", zap.String("assembly", assembly.FullName()), zap.Bool("internalize", internalize))
		for _, module := range assembly.Modules {
			for _, t := range module.Types {
				if _, err := r.importer.ImportTypeDefinition(t, nil, internalize); err != nil {
					return fmt.Errorf("failed to merge %v: %w", module.Name, err)
				}
			}
		}
	}
	for _, assembly := range r.assemblies {
		for _, module := range assembly.Modules {
			for _, exported := range module.ExportedTypes {
				if _, err := r.importer.ImportExportedType(exported); err != nil {
					return fmt.Errorf("failed to merge exported type %v of %v: %w", exported.FullName(), module.Name, err)
				}
			}
		}
	}
	return r.mergeResources()
}

// mergeResources copies resources into the target and patches compiled markup naming merged assemblies.
// Digests are taken over source payloads; of duplicate named resources the first is kept.
func (r *Repack) mergeResources() error {
	target := r.ctx.Target
	targetName := target.Name
	if target.Assembly != nil && target.Assembly.Name != nil {
		targetName = target.Assembly.FullName()
	}
	var merged []string
	for _, assembly := range r.assemblies {
		if assembly.Name == nil || (target.Assembly != nil && target.Assembly.Name != nil && assembly.Name.Name == target.Assembly.Name.Name) {
			continue
		}
		merged = append(merged, assembly.FullName())
	}
	patcher := resource.NewPatcher(targetName, merged, resource.WithLogger(r.importer.zapLogger()))

	digests := map[string]uint64{}
	for _, res := range target.Resources {
		digest, err := res.Digest()
		if err != nil {
			return fmt.Errorf("failed to digest resource %v: %w", res.Name, err)
		}
		digests[res.Name] = digest
	}
	for _, assembly := range r.assemblies {
		for _, module := range assembly.Modules {
			for _, res := range module.Resources {
				digest, err := res.Digest()
				if err != nil {
					return fmt.Errorf("failed to digest resource %v of %v: %w", res.Name, module.Name, err)
				}
				if kept, ok := digests[res.Name]; ok {
					if kept == digest {
						r.importer.logger.Verbose("skipping identical resource", zap.String("resource", res.Name), zap.String("module", module.Name))
						continue
					}
					r.importer.logger.Warn("ignoring duplicate resource", zap.String("resource", res.Name), zap.String("module", module.Name))
					continue
				}
				digests[res.Name] = digest
				cloned := &model.Resource{Name: res.Name}
				for _, entry := range res.Entries {
					cloned.Entries = append(cloned.Entries, &model.ResourceEntry{Name: entry.Name, Data: entry.Data})
				}
				count, err := patcher.PatchResource(cloned)
				if err != nil {
					return fmt.Errorf("failed to merge resource %v of %v: %w", res.Name, module.Name, err)
				}
				if count > 0 {
					r.importer.logger.Info("patched resource", zap.String("resource", res.Name), zap.Int("entries", count))
				}
				target.Resources = append(target.Resources, cloned)
			}
		}
	}
	return nil
}

package repack

import (
	"github.com/viant/repack/model"
	"go.uber.org/zap"
)

// Option configures the importer of a merge run
type Option func(i *Importer)

// WithLogger sets run logger
func WithLogger(logger *zap.Logger) Option {
	return func(i *Importer) {
		i.logger = NewLogger(logger)
		i.base = logger
	}
}

// WithCopier overrides attribute and generic parameter copying
func WithCopier(copier Copier) Option {
	return func(i *Importer) {
		i.copier = copier
	}
}

// WithLineIndexer sets method body observer
func WithLineIndexer(indexer LineIndexer) Option {
	return func(i *Importer) {
		i.indexer = indexer
	}
}

// WithPlatformFixer overrides the reference platform normalizer
func WithPlatformFixer(fixer PlatformFixer) Option {
	return func(i *Importer) {
		i.fixer = fixer
	}
}

// WithLiteralOffsets sets per source assembly offsets into the concatenated literal resource table
func WithLiteralOffsets(offsets map[*model.AssemblyDefinition]int) Option {
	return func(i *Importer) {
		i.literalOffsets = offsets
	}
}

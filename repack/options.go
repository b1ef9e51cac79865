package repack

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Options controls duplicate handling and visibility of merged types
type Options struct {
	// UnionMerge merges any same-name public types instead of failing
	UnionMerge bool `yaml:"unionMerge"`
	// AllowedDuplicateTypes lists full type names merged silently
	AllowedDuplicateTypes []string `yaml:"allowedDuplicateTypes,omitempty"`
	// AllowedDuplicateNameSpaces lists namespaces (and their sub namespaces) merged silently
	AllowedDuplicateNameSpaces []string `yaml:"allowedDuplicateNameSpaces,omitempty"`
	// Internalize makes public types of non primary assemblies private
	Internalize bool `yaml:"internalize"`
	// TargetPlatformVersion retargets older platform assembly references, e.g. 4.0.0.0
	TargetPlatformVersion string `yaml:"targetPlatformVersion,omitempty"`
	Verbose               bool   `yaml:"verbose"`
}

// DefaultOptions returns options failing on any public duplicate
func DefaultOptions() *Options {
	return &Options{}
}

// LoadOptions reads YAML encoded options from URL
func LoadOptions(ctx context.Context, fs afs.Service, URL string) (*Options, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	options := DefaultOptions()
	if err = yaml.Unmarshal(data, options); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	return options, nil
}

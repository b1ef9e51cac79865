package resource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/repack/model"
	"github.com/viant/repack/resource/markup"
	"go.uber.org/zap"
)

// Extension identifies compiled markup resource entries
const Extension = ".baml"

// Patcher rewrites assembly names of merged assemblies found in compiled markup to the target assembly
type Patcher struct {
	target   string
	merged   *set.Set[string] // full and simple names
	accessor AssemblyNameAccessor
	logger   *zap.Logger
}

// Option configures a patcher
type Option func(p *Patcher)

// WithAccessor overrides the node field accessor
func WithAccessor(accessor AssemblyNameAccessor) Option {
	return func(p *Patcher) {
		p.accessor = accessor
	}
}

// WithLogger sets patcher logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Patcher) {
		p.logger = logger
	}
}

// NewPatcher creates a patcher writing target assembly name in place of any merged assembly name
func NewPatcher(target string, merged []string, opts ...Option) *Patcher {
	ret := &Patcher{target: target, merged: set.New[string](2 * len(merged)), accessor: NewReflectAccessor(), logger: zap.NewNop()}
	for _, name := range merged {
		ret.merged.Insert(name)
		ret.merged.Insert(simpleName(name))
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Patch unframes, rewrites and reframes a compiled markup payload, returning true when any node changed.
// Unchanged payloads are returned as is.
func (p *Patcher) Patch(data []byte) ([]byte, bool, error) {
	payload, err := Unframe(data)
	if err != nil {
		return nil, false, err
	}
	tree, err := markup.Load(bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	changed := false
	for _, node := range tree.Nodes() {
		name, ok := p.accessor.ReadAssemblyName(node)
		if !ok || !p.isMerged(name) {
			continue
		}
		if err = p.accessor.WriteAssemblyName(node, p.target); err != nil {
			return nil, false, err
		}
		p.logger.Debug("patched assembly name", zap.String("from", name), zap.String("to", p.target))
		changed = true
	}
	if !changed {
		return data, false, nil
	}
	buffer := &bytes.Buffer{}
	if err = markup.Serialize(buffer, tree); err != nil {
		return nil, false, err
	}
	return Frame(buffer.Bytes()), true, nil
}

// PatchResource patches every compiled markup entry of resource, returning number of changed entries
func (p *Patcher) PatchResource(resource *model.Resource) (int, error) {
	count := 0
	for _, entry := range resource.Entries {
		if !IsMarkup(entry.Name) {
			continue
		}
		data, changed, err := p.Patch(entry.Data)
		if err != nil {
			return count, fmt.Errorf("failed to patch %v/%v: %w", resource.Name, entry.Name, err)
		}
		if changed {
			entry.Data = data
			count++
		}
	}
	return count, nil
}

// PatchDir patches compiled markup files under URL in place, unchanged files are not uploaded
func (p *Patcher) PatchDir(ctx context.Context, fs afs.Service, URL string) (int, error) {
	if fs == nil {
		fs = afs.New()
	}
	var locations []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		if IsMarkup(info.Name()) {
			locations = append(locations, url.Join(url.Join(baseURL, parent), info.Name()))
		}
		return true, nil
	}
	if err := fs.Walk(ctx, URL, visitor); err != nil {
		return 0, fmt.Errorf("failed to walk %v: %w", URL, err)
	}
	count := 0
	for _, location := range locations {
		data, err := fs.DownloadWithURL(ctx, location)
		if err != nil {
			return count, fmt.Errorf("failed to download %v: %w", location, err)
		}
		data, changed, err := p.Patch(data)
		if err != nil {
			return count, fmt.Errorf("failed to patch %v: %w", location, err)
		}
		if !changed {
			continue
		}
		if err = fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return count, fmt.Errorf("failed to upload %v: %w", location, err)
		}
		p.logger.Info("patched resource", zap.String("location", location))
		count++
	}
	return count, nil
}

func (p *Patcher) isMerged(name string) bool {
	return p.merged.Contains(name) || p.merged.Contains(simpleName(name))
}

// IsMarkup returns true for compiled markup entry names
func IsMarkup(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Extension)
}

// simpleName returns assembly name without version, culture and key token
func simpleName(fullName string) string {
	if index := strings.Index(fullName, ","); index != -1 {
		return strings.TrimSpace(fullName[:index])
	}
	return strings.TrimSpace(fullName)
}

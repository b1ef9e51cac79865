package repack

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/viant/repack/model"
)

// Resolution is the outcome of a type name collision
type Resolution int

const (
	// CloneFresh creates a new clone, no prior type exists
	CloneFresh Resolution = iota
	// Merge adds members into the existing clone
	Merge
	// RenameAndReclone renames the existing clone and clones the candidate under the original name
	RenameAndReclone
	// Conflict aborts the run
	Conflict
)

func (r Resolution) String() string {
	switch r {
	case CloneFresh:
		return "clone"
	case Merge:
		return "merge"
	case RenameAndReclone:
		return "rename"
	case Conflict:
		return "conflict"
	}
	return "unknown"
}

// well known compiler and tool generated types
const (
	moduleType                 = "<Module>"
	proxyType                  = "__<Proxy>"
	xamlTypeHelper             = "XamlGeneratedNamespace.GeneratedInternalTypeHelper"
	privateImplementationTypes = "<PrivateImplementationDetails>"
)

// DuplicatePolicy decides how a candidate type colliding with an existing clone is handled
type DuplicatePolicy struct {
	unionMerge bool
	types      *set.Set[string]
	namespaces *set.Set[string]
}

// NewDuplicatePolicy creates a policy from options
func NewDuplicatePolicy(options *Options) *DuplicatePolicy {
	if options == nil {
		options = DefaultOptions()
	}
	return &DuplicatePolicy{
		unionMerge: options.UnionMerge,
		types:      set.From(options.AllowedDuplicateTypes),
		namespaces: set.From(options.AllowedDuplicateNameSpaces),
	}
}

// Resolve chooses how candidate is imported given the existing output type of the same full name.
// Rename applies when either side is not public or when internalizing, so both
// definitions survive; two public definitions only merge when union merge is on.
func (p *DuplicatePolicy) Resolve(candidate, existing *model.TypeDefinition, internalize bool) Resolution {
	switch {
	case existing == nil:
		return CloneFresh
	case p.Allowed(candidate):
		return Merge
	case !candidate.IsPublic() || !existing.IsPublic() || internalize:
		return RenameAndReclone
	case p.unionMerge:
		return Merge
	}
	return Conflict
}

// Allowed returns true for types whose duplicates merge silently
func (p *DuplicatePolicy) Allowed(candidate *model.TypeDefinition) bool {
	fullName := candidate.FullName()
	switch fullName {
	case moduleType, proxyType:
		return true
	case xamlTypeHelper:
		return true
	case privateImplementationTypes:
		if candidate.IsPublic() {
			return true
		}
	}
	if p.types.Contains(fullName) {
		return true
	}
	top := candidate
	for top.IsNested() {
		top = top.DeclaringType
	}
	namespace := top.Namespace
	if namespace == "" {
		return false
	}
	if p.namespaces.Contains(namespace) {
		return true
	}
	for allowed := range p.namespaces.Items() {
		if strings.HasPrefix(namespace, allowed+".") {
			return true
		}
	}
	return false
}

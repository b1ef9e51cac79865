package repack

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func TestLoadOptions(t *testing.T) {
	var testCases = []struct {
		description string
		URL         string
		content     string
		expect      *Options
		expectErr   bool
	}{
		{
			description: "full options",
			URL:         "mem://localhost/repack/full.yaml",
			content: `unionMerge: true
allowedDuplicateTypes:
  - N.Foo
allowedDuplicateNameSpaces:
  - Shared
internalize: true
targetPlatformVersion: 4.0.0.0
verbose: true
`,
			expect: &Options{
				UnionMerge:                 true,
				AllowedDuplicateTypes:      []string{"N.Foo"},
				AllowedDuplicateNameSpaces: []string{"Shared"},
				Internalize:                true,
				TargetPlatformVersion:      "4.0.0.0",
				Verbose:                    true,
			},
		},
		{
			description: "defaults",
			URL:         "mem://localhost/repack/empty.yaml",
			content:     "internalize: false\n",
			expect:      DefaultOptions(),
		},
		{
			description: "malformed",
			URL:         "mem://localhost/repack/bad.yaml",
			content:     "unionMerge: [",
			expectErr:   true,
		},
		{
			description: "missing",
			URL:         "mem://localhost/repack/missing.yaml",
			expectErr:   true,
		},
	}

	ctx := context.Background()
	fs := afs.New()
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			if testCase.content != "" {
				require.NoError(t, fs.Upload(ctx, testCase.URL, file.DefaultFileOsMode, strings.NewReader(testCase.content)))
			}
			actual, err := LoadOptions(ctx, fs, testCase.URL)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, testCase.expect, actual)
		})
	}
}

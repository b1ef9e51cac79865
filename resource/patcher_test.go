package resource

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/repack/model"
	"github.com/viant/repack/resource/markup"
)

const (
	targetName = "App, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null"
	libName    = "Lib, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null"
)

func framedTree(t *testing.T, nodes ...markup.Node) []byte {
	buffer := &bytes.Buffer{}
	require.NoError(t, markup.Serialize(buffer, markup.NewTree(nodes...)))
	return Frame(buffer.Bytes())
}

func assemblyNames(t *testing.T, data []byte) []string {
	payload, err := Unframe(data)
	require.NoError(t, err)
	tree, err := markup.Load(bytes.NewReader(payload))
	require.NoError(t, err)
	accessor := NewReflectAccessor()
	var result []string
	for _, node := range tree.Nodes() {
		if name, ok := accessor.ReadAssemblyName(node); ok {
			result = append(result, name)
		}
	}
	return result
}

func TestPatcher_Patch(t *testing.T) {
	var testCases = []struct {
		description   string
		merged        []string
		nodes         []markup.Node
		expectChanged bool
		expectNames   []string
	}{
		{
			description: "full name match",
			merged:      []string{libName},
			nodes: []markup.Node{
				&markup.DocumentStart{},
				markup.NewStartElement(libName, "Lib.Button"),
				markup.NewProperty("Content", "Lib"),
				&markup.EndElement{},
				&markup.DocumentEnd{},
			},
			expectChanged: true,
			expectNames:   []string{targetName},
		},
		{
			description: "simple name match",
			merged:      []string{"Lib"},
			nodes: []markup.Node{
				markup.NewStartElement("Lib, Version=2.0.0.0, Culture=neutral, PublicKeyToken=null", "Lib.Button"),
				&markup.EndElement{},
			},
			expectChanged: true,
			expectNames:   []string{targetName},
		},
		{
			description: "other assemblies untouched",
			merged:      []string{libName},
			nodes: []markup.Node{
				markup.NewStartElement("PresentationFramework, Version=4.0.0.0, Culture=neutral, PublicKeyToken=31bf3856ad364e35", "System.Windows.Window"),
				markup.NewStartElement(libName, "Lib.Button"),
				&markup.EndElement{},
				&markup.EndElement{},
			},
			expectChanged: true,
			expectNames:   []string{"PresentationFramework, Version=4.0.0.0, Culture=neutral, PublicKeyToken=31bf3856ad364e35", targetName},
		},
		{
			description: "nothing to patch",
			merged:      []string{libName},
			nodes: []markup.Node{
				markup.NewStartElement(targetName, "App.Main"),
				markup.NewText("Lib, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null"),
				&markup.EndElement{},
			},
			expectNames: []string{targetName},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			patcher := NewPatcher(targetName, testCase.merged)
			data := framedTree(t, testCase.nodes...)
			actual, changed, err := patcher.Patch(data)
			require.NoError(t, err)
			assert.Equal(t, testCase.expectChanged, changed)
			assert.Equal(t, testCase.expectNames, assemblyNames(t, actual))

			payload, err := Unframe(actual)
			require.NoError(t, err)
			assert.Len(t, actual, len(payload)+4)

			again, changed, err := patcher.Patch(actual)
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, actual, again)
		})
	}
}

func TestPatcher_Patch_Invalid(t *testing.T) {
	patcher := NewPatcher(targetName, []string{libName})
	_, _, err := patcher.Patch([]byte{1})
	assert.ErrorIs(t, err, ErrFrame)
	_, _, err = patcher.Patch(append(framedTree(t, markup.NewStartElement(targetName, "App.Main"), &markup.EndElement{}), 0))
	assert.ErrorIs(t, err, ErrFrame)
	_, _, err = patcher.Patch(Frame([]byte("not markup")))
	assert.ErrorIs(t, err, markup.ErrFormat)
}

func TestPatcher_PatchResource(t *testing.T) {
	patcher := NewPatcher(targetName, []string{libName})
	logo := []byte{0x89, 'P', 'N', 'G'}
	res := &model.Resource{
		Name: "Lib.g.resources",
		Entries: []*model.ResourceEntry{
			{Name: "views/main.BAML", Data: framedTree(t, markup.NewStartElement(libName, "Lib.Main"), &markup.EndElement{})},
			{Name: "views/other.baml", Data: framedTree(t, markup.NewStartElement(targetName, "App.Other"), &markup.EndElement{})},
			{Name: "logo.png", Data: logo},
		},
	}
	count, err := patcher.PatchResource(res)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{targetName}, assemblyNames(t, res.Entries[0].Data))
	assert.Equal(t, logo, res.Entries[2].Data)
}

func TestPatcher_PatchDir(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/patchdir"
	files := map[string][]byte{
		baseURL + "/main.baml":       framedTree(t, markup.NewStartElement(libName, "Lib.Main"), &markup.EndElement{}),
		baseURL + "/views/list.baml": framedTree(t, markup.NewStartElement("Lib", "Lib.List"), &markup.EndElement{}),
		baseURL + "/views/app.baml":  framedTree(t, markup.NewStartElement(targetName, "App.Shell"), &markup.EndElement{}),
		baseURL + "/readme.txt":      []byte("Lib"),
	}
	for URL, data := range files {
		require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)))
	}

	patcher := NewPatcher(targetName, []string{libName})
	count, err := patcher.PatchDir(ctx, fs, baseURL)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, URL := range []string{baseURL + "/main.baml", baseURL + "/views/list.baml", baseURL + "/views/app.baml"} {
		data, err := fs.DownloadWithURL(ctx, URL)
		require.NoError(t, err)
		assert.Equal(t, []string{targetName}, assemblyNames(t, data), URL)
	}
	readme, err := fs.DownloadWithURL(ctx, baseURL+"/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("Lib"), readme)

	count, err = patcher.PatchDir(ctx, fs, baseURL)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

type fixedAccessor struct {
	written []string
}

func (f *fixedAccessor) ReadAssemblyName(node markup.Node) (string, bool) {
	if node.RecordType() != markup.StartElementRecord {
		return "", false
	}
	return libName, true
}

func (f *fixedAccessor) WriteAssemblyName(node markup.Node, name string) error {
	f.written = append(f.written, name)
	return nil
}

func TestPatcher_WithAccessor(t *testing.T) {
	accessor := &fixedAccessor{}
	patcher := NewPatcher(targetName, []string{libName}, WithAccessor(accessor))
	_, changed, err := patcher.Patch(framedTree(t, markup.NewStartElement("Other", "X.Y"), &markup.EndElement{}))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{targetName}, accessor.written)
}

func TestReflectAccessor(t *testing.T) {
	accessor := NewReflectAccessor()
	element := markup.NewStartElement(libName, "Lib.Main")
	name, ok := accessor.ReadAssemblyName(element)
	require.True(t, ok)
	assert.Equal(t, libName, name)
	require.NoError(t, accessor.WriteAssemblyName(element, targetName))
	name, _ = accessor.ReadAssemblyName(element)
	assert.Equal(t, targetName, name)
	assert.Equal(t, "Lib.Main", element.TypeFullName())

	_, ok = accessor.ReadAssemblyName(markup.NewText("x"))
	assert.False(t, ok)
	assert.Error(t, accessor.WriteAssemblyName(markup.NewProperty("a", "b"), targetName))
}

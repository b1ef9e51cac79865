package markup

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	var testCases = []struct {
		description string
		payload     []byte
		expectErr   error
		expectTypes []RecordType
	}{
		{
			description: "empty document",
			payload:     []byte{'M', 'K', 'U', 'P', 1, 0, 0x01, 0x02},
			expectTypes: []RecordType{DocumentStartRecord, DocumentEndRecord},
		},
		{
			description: "element with property",
			payload: []byte{'M', 'K', 'U', 'P', 1, 0,
				0x01,
				0x03, 3, 'L', 'i', 'b', 5, 'N', '.', 'W', 'i', 'n',
				0x05, 1, 'x', 1, 'y',
				0x04,
				0x02},
			expectTypes: []RecordType{DocumentStartRecord, StartElementRecord, PropertyRecord, EndElementRecord, DocumentEndRecord},
		},
		{
			description: "bad magic",
			payload:     []byte{'X', 'K', 'U', 'P', 1, 0},
			expectErr:   ErrFormat,
		},
		{
			description: "unsupported version",
			payload:     []byte{'M', 'K', 'U', 'P', 9, 0},
			expectErr:   ErrFormat,
		},
		{
			description: "unknown record",
			payload:     []byte{'M', 'K', 'U', 'P', 1, 0, 0x7F},
			expectErr:   ErrFormat,
		},
		{
			description: "truncated string",
			payload:     []byte{'M', 'K', 'U', 'P', 1, 0, 0x06, 10, 'a'},
			expectErr:   ErrTruncated,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			tree, err := Load(bytes.NewReader(testCase.payload))
			if testCase.expectErr != nil {
				assert.ErrorIs(t, err, testCase.expectErr)
				return
			}
			require.NoError(t, err)
			var actual []RecordType
			for _, node := range tree.Nodes() {
				actual = append(actual, node.RecordType())
			}
			assert.Equal(t, testCase.expectTypes, actual)
		})
	}
}

func TestSerialize(t *testing.T) {
	tree := NewTree(
		&DocumentStart{},
		NewStartElement("Lib, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null", "N.Window"),
		NewProperty("Title", "Main"),
		NewText("hello"),
		&EndElement{},
		&DocumentEnd{},
	)
	buffer := &bytes.Buffer{}
	require.NoError(t, Serialize(buffer, tree))

	loaded, err := Load(bytes.NewReader(buffer.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Version, loaded.Version())
	assert.EqualValues(t, tree.Nodes(), loaded.Nodes())

	again := &bytes.Buffer{}
	require.NoError(t, Serialize(again, loaded))
	assert.Equal(t, buffer.Bytes(), again.Bytes())
}

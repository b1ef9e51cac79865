package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnframe(t *testing.T) {
	var testCases = []struct {
		description string
		data        []byte
		expect      []byte
		expectErr   bool
	}{
		{
			description: "exact length",
			data:        []byte{3, 0, 0, 0, 'a', 'b', 'c'},
			expect:      []byte("abc"),
		},
		{
			description: "trailing bytes rejected",
			data:        []byte{2, 0, 0, 0, 'a', 'b', 'c'},
			expectErr:   true,
		},
		{
			description: "empty payload",
			data:        []byte{0, 0, 0, 0},
			expect:      []byte{},
		},
		{
			description: "short header",
			data:        []byte{1, 0},
			expectErr:   true,
		},
		{
			description: "declared length exceeds data",
			data:        []byte{9, 0, 0, 0, 'a'},
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := Unframe(testCase.data)
			if testCase.expectErr {
				assert.ErrorIs(t, err, ErrFrame)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, actual)
		})
	}
}

func TestFrame(t *testing.T) {
	payload := make([]byte, 300)
	framed := Frame(payload)
	assert.Equal(t, []byte{0x2C, 0x01, 0, 0}, framed[:4])
	actual, err := Unframe(framed)
	require.NoError(t, err)
	assert.Equal(t, payload, actual)
}

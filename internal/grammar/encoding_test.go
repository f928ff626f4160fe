package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_MarshalUnmarshalBinary(t *testing.T) {
	testCases := []struct {
		name  string
		input Grammar
	}{
		{
			name:  "empty",
			input: Grammar{Start: "S"},
		},
		{
			name:  "with epsilon and multi-character names",
			input: MustParse("Start-aB|0", "B-b|Bé"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			data, err := tc.input.MarshalBinary()
			if !assert.NoError(err) {
				return
			}

			var actual Grammar
			err = actual.UnmarshalBinary(data)
			if !assert.NoError(err) {
				return
			}

			assert.True(tc.input.Equal(actual), "expected %v, got %v", tc.input, actual)
			assert.Equal(tc.input.Lines(), actual.Lines())
		})
	}
}

func Test_Grammar_UnmarshalBinary_Truncated(t *testing.T) {
	assert := assert.New(t)

	data, err := MustParse("S-aSb|0").MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var g Grammar
	err = g.UnmarshalBinary(data[:len(data)-1])

	assert.Error(err)
}

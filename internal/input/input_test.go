package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectReader_ReadLine(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		allowBlank bool
		expect     []string
	}{
		{
			name:   "skips blanks by default",
			input:  "S-a\n\n  \nA-b\n",
			expect: []string{"S-a", "A-b"},
		},
		{
			name:       "returns blanks when allowed",
			input:      "S-a\n\nA-b\n",
			allowBlank: true,
			expect:     []string{"S-a", "", "A-b"},
		},
		{
			name:   "last line without newline",
			input:  "S-a\nA-b",
			expect: []string{"S-a", "A-b"},
		},
		{
			name:   "surrounding whitespace is trimmed",
			input:  "  S-a  \r\n",
			expect: []string{"S-a"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewDirectReader(strings.NewReader(tc.input))
			r.AllowBlank(tc.allowBlank)

			var actual []string
			for {
				line, err := r.ReadLine()
				if err == io.EOF {
					assert.Equal("", line)
					break
				}
				if !assert.NoError(err) {
					return
				}
				actual = append(actual, line)
			}

			assert.Equal(tc.expect, actual)
			assert.NoError(r.Close())
		})
	}
}

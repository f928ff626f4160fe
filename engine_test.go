package cfgcrunch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/cfgcrunch/internal/config"
	"github.com/stretchr/testify/assert"
)

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0660)
		if err != nil {
			t.Fatalf("could not write test file: %v", err)
		}
	}
	return dir
}

func Test_Engine_RunBatch(t *testing.T) {
	testCases := []struct {
		name   string
		files  map[string]string
		expect string
	}{
		{
			name:   "no grammar files",
			files:  map[string]string{"notes.md": "S-a\n"},
			expect: "No .txt file found. Fix that, now.\n",
		},
		{
			name: "files are processed in name order",
			files: map[string]string{
				"b.txt": "S-aS|a\nB-b\n",
				"a.txt": "S-aSb|0\n",
			},
			expect: "===a.txt===\nS-aSb|ab\n===b.txt===\nS-aS|a\n",
		},
		{
			name: "empty result prints only the banner",
			files: map[string]string{
				"loop.txt": "S-aS\n",
			},
			expect: "===loop.txt===\n",
		},
		{
			name: "files with other extensions are ignored",
			files: map[string]string{
				"g.txt":  "S-ASA|aB\r\nA-B|S\r\nB-b|0\r\n",
				"g.cfg":  "S-a\n",
				"g.txtx": "S-a\n",
			},
			expect: "===g.txt===\nS-ASA|SA|AS|S|aB|a\nA-B|S\nB-b\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dir := writeFiles(t, tc.files)
			var out bytes.Buffer
			eng, err := New(strings.NewReader(""), &out, config.Config{Input: config.Input{Dir: dir}}, true)
			if !assert.NoError(err) {
				return
			}
			defer eng.Close()

			err = eng.RunBatch()

			assert.NoError(err)
			assert.Equal(tc.expect, out.String())
		})
	}
}

func Test_Engine_RunBatch_ParseErrorDoesNotStopOthers(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{
		"1.txt": "S-aSb|0\n",
		"2.txt": "S-a||b\n",
		"3.txt": "S-a\n",
	})
	var out bytes.Buffer
	eng, err := New(strings.NewReader(""), &out, config.Config{Input: config.Input{Dir: dir}, Workers: 2}, true)
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	err = eng.RunBatch()
	if !assert.NoError(err) {
		return
	}

	actual := out.String()
	assert.True(strings.HasPrefix(actual, "===1.txt===\nS-aSb|ab\n===2.txt===\n"))
	assert.Contains(actual, "could not be read")
	assert.True(strings.HasSuffix(actual, "===3.txt===\nS-a\n"))
}

func Test_Engine_RunBatch_TooLargeDoesNotStopOthers(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{
		"1.txt": "S-AAA\nA-a|0\n",
		"2.txt": "S-a\n",
	})
	var out bytes.Buffer
	cfg := config.Config{Input: config.Input{Dir: dir}, MaxExpansion: 8}
	eng, err := New(strings.NewReader(""), &out, cfg, true)
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	err = eng.RunBatch()
	if !assert.NoError(err) {
		return
	}

	actual := out.String()
	assert.True(strings.HasPrefix(actual, "===1.txt===\nThe grammar is too large to simplify"))
	assert.True(strings.HasSuffix(actual, "===2.txt===\nS-a\n"))
}

func Test_Engine_RunBatch_Explain(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{"g.txt": "S-aA|C\nA-0\nC-cC\n"})
	cfg := config.Config{Input: config.Input{Dir: dir}, Output: config.Output{Explain: true}}
	var out bytes.Buffer
	eng, err := New(strings.NewReader(""), &out, cfg, true)
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	err = eng.RunBatch()
	if !assert.NoError(err) {
		return
	}

	actual := out.String()
	assert.Contains(actual, "Nonterminal")
	assert.Contains(actual, "Generating")
	assert.True(strings.HasSuffix(actual, "S-aA|a\n"))
}

func Test_Engine_RunBatch_MissingDir(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(t.TempDir(), "nope")
	var out bytes.Buffer
	eng, err := New(strings.NewReader(""), &out, config.Config{Input: config.Input{Dir: dir}}, true)
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	err = eng.RunBatch()

	assert.Error(err)
	assert.Equal("", out.String())
}

func Test_Engine_RunInteractive(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectParts  []string
		expectAbsent []string
	}{
		{
			name:        "blank line submits the grammar",
			input:       "S-aSb|0\n\nQUIT\n",
			expectParts: []string{"S-aSb|ab\n\n", "Goodbye\n"},
		},
		{
			name:        "end of input submits the pending grammar",
			input:       "S-AB\nA-a|0\nB-b|0\n",
			expectParts: []string{"S-AB|B|A\nA-a\nB-b\n\n", "Goodbye\n"},
		},
		{
			name:         "input after quit is ignored",
			input:        "S-a\nquit\nS-b\n\n",
			expectParts:  []string{"S-a\n\n", "Goodbye\n"},
			expectAbsent: []string{"S-b"},
		},
		{
			name:        "bad grammar reports and continues",
			input:       "S-\n\nS-c\n\nQUIT\n",
			expectParts: []string{"could not be read", "S-c\n\n", "Goodbye\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var out bytes.Buffer
			eng, err := New(strings.NewReader(tc.input), &out, config.Config{}, true)
			if !assert.NoError(err) {
				return
			}
			defer eng.Close()

			err = eng.RunInteractive()
			if !assert.NoError(err) {
				return
			}

			actual := out.String()
			for _, part := range tc.expectParts {
				assert.Contains(actual, part)
			}
			for _, part := range tc.expectAbsent {
				assert.NotContains(actual, part)
			}
			assert.True(strings.HasSuffix(actual, "Goodbye\n"))
		})
	}
}

func Test_New_InvalidConfig(t *testing.T) {
	assert := assert.New(t)

	_, err := New(strings.NewReader(""), &bytes.Buffer{}, config.Config{Output: config.Output{Width: 3}}, true)

	assert.Error(err)
}

func Test_Simplify(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    string
		expectErr bool
	}{
		{
			name:   "epsilon and useless removed",
			input:  "S-aA|bB|C\nA-a\nB-bA\nC-cC\nD-d\n",
			expect: "S-aA|bB\nA-a\nB-bA\n",
		},
		{
			name:   "nothing generating",
			input:  "S-aS",
			expect: "",
		},
		{
			name:      "no rules",
			input:     "\n\n",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Simplify(tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

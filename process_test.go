package cfgcrunch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/cfgcrunch/internal/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_SimplifyAll(t *testing.T) {
	assert := assert.New(t)

	inputs := [][]string{
		{"S-aSb|0"},
		{"S-"},
		{"S-aS", "A-a"},
		{"A-0", "S-aA"},
	}

	results := SimplifyAll(inputs)

	if !assert.Len(results, 4) {
		return
	}

	assert.NoError(results[0].Err)
	assert.Equal([]string{"S-aSb|ab"}, results[0].Grammar.Lines())

	var parseErr *grammar.ParseError
	assert.ErrorAs(results[1].Err, &parseErr)
	assert.Equal("", results[1].Text())

	assert.NoError(results[2].Err)
	assert.True(results[2].Grammar.Empty())
	assert.Equal("", results[2].Text())

	assert.NoError(results[3].Err)
	assert.Equal("S-aA|a\n", results[3].Text())
}

func Test_SimplifyAll_ReservedMarkerOnlyFailsItsOwnGrammar(t *testing.T) {
	testCases := []struct {
		name    string
		workers int
	}{
		{name: "sequential", workers: 1},
		{name: "parallel", workers: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			inputs := []Input{
				{Name: "good", Lines: []string{"S-a"}},
				{Name: "bad", Lines: []string{"S-aε"}},
				{Name: "also good", Lines: []string{"S-aSb|0"}},
			}

			var results []Result
			assert.NotPanics(func() {
				results = Process(inputs, Options{Workers: tc.workers})
			})

			if !assert.Len(results, 3) {
				return
			}
			assert.NoError(results[0].Err)
			assert.Equal("S-a\n", results[0].Text())

			var parseErr *grammar.ParseError
			assert.ErrorAs(results[1].Err, &parseErr)

			assert.NoError(results[2].Err)
			assert.Equal("S-aSb|ab\n", results[2].Text())
		})
	}

	assert.NotPanics(t, func() {
		results := SimplifyAll([][]string{{"S-a"}, {"S-aε"}})
		if assert.Len(t, results, 2) {
			assert.NoError(t, results[0].Err)
			assert.Error(t, results[1].Err)
		}
	})
}

func Test_Process_MaxExpansion(t *testing.T) {
	testCases := []struct {
		name         string
		maxExpansion int
		expectErr    bool
	}{
		{name: "under limit", maxExpansion: 9},
		{name: "over limit", maxExpansion: 8, expectErr: true},
		{name: "default limit", maxExpansion: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			inputs := []Input{
				{Name: "big", Lines: []string{"S-AAA", "A-a|0"}},
				{Name: "small", Lines: []string{"S-a"}},
			}

			results := Process(inputs, Options{Workers: 2, MaxExpansion: tc.maxExpansion})

			if !assert.Len(results, 2) {
				return
			}
			if tc.expectErr {
				var expErr *grammar.ExpansionError
				assert.ErrorAs(results[0].Err, &expErr)
			} else {
				assert.NoError(results[0].Err)
				assert.Equal("S-AAA|AA|AA|A|AA|A|A\nA-a\n", results[0].Text())
			}
			assert.NoError(results[1].Err)
			assert.Equal("S-a\n", results[1].Text())
		})
	}
}

func Test_SimplifyAll_HugeExpansionFailsOnlyItsGrammar(t *testing.T) {
	assert := assert.New(t)

	huge := []string{"S-b" + strings.Repeat("A", 80), "A-a|0"}

	var results []Result
	assert.NotPanics(func() {
		results = SimplifyAll([][]string{huge, {"S-a"}})
	})

	if !assert.Len(results, 2) {
		return
	}
	var expErr *grammar.ExpansionError
	assert.ErrorAs(results[0].Err, &expErr)
	assert.NoError(results[1].Err)
}

func Test_Process_OrderIndependentOfWorkers(t *testing.T) {
	var inputs []Input
	for i := 0; i < 25; i++ {
		term := string(rune('a' + i))
		inputs = append(inputs, Input{
			Name:  fmt.Sprintf("g%02d", i),
			Lines: []string{"S-" + term + "S|" + term + "|A", "A-0"},
		})
	}

	expect := Process(inputs, Options{Workers: 1})

	for _, workers := range []int{2, 4, 16, 50} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			assert := assert.New(t)

			actual := Process(inputs, Options{Workers: workers})

			if !assert.Len(actual, len(expect)) {
				return
			}
			for i := range expect {
				assert.Equal(expect[i].Name, actual[i].Name)
				assert.Equal(expect[i].Text(), actual[i].Text())
			}
		})
	}
}

func Test_Process_Explain(t *testing.T) {
	assert := assert.New(t)

	results := Process([]Input{{Name: "g", Lines: []string{"S-AB", "A-a|0", "B-b|0", "C-c"}}}, Options{Explain: true})

	if !assert.Len(results, 1) || !assert.NotNil(results[0].Analysis) {
		return
	}

	a := results[0].Analysis
	assert.ElementsMatch([]string{"A", "B", "S"}, a.Nullable.Elements())
	assert.False(a.Reachable.Has("C"))
	assert.Equal(results[0].Grammar.Lines(), a.Simplified.Lines())
	assert.Equal([]string{"S-AB|B|A", "A-a", "B-b"}, results[0].Grammar.Lines())
}

func Test_ReadLines(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		expect  []string
	}{
		{name: "empty file", content: "", expect: []string{}},
		{name: "unix endings", content: "S-a\nA-b\n", expect: []string{"S-a", "A-b"}},
		{name: "windows endings", content: "S-a\r\nA-b\r\n", expect: []string{"S-a", "A-b"}},
		{name: "no final newline", content: "S-a\nA-b", expect: []string{"S-a", "A-b"}},
		{name: "inner blank lines kept", content: "S-a\n\nA-b\n", expect: []string{"S-a", "", "A-b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			path := filepath.Join(t.TempDir(), "g.txt")
			if !assert.NoError(os.WriteFile(path, []byte(tc.content), 0660)) {
				return
			}

			actual, err := ReadLines(path)

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_DiscoverInputs(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{
		"z.txt": "S-z\n",
		"m.txt": "S-m\n",
		"a.md":  "S-a\n",
	})
	if !assert.NoError(os.Mkdir(filepath.Join(dir, "sub.txt"), 0770)) {
		return
	}

	inputs, err := DiscoverInputs(dir, ".txt")

	if !assert.NoError(err) {
		return
	}
	assert.Equal([]Input{
		{Name: "m.txt", Lines: []string{"S-m"}},
		{Name: "z.txt", Lines: []string{"S-z"}},
	}, inputs)
}

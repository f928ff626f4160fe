package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Unmarshal(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Config
		expectErr bool
	}{
		{
			name:   "empty",
			input:  "",
			expect: Config{},
		},
		{
			name: "all keys",
			input: `workers = 3
max_expansion = 500

[input]
dir = "grammars"
extension = ".cfg"

[output]
width = 100
explain = true
`,
			expect: Config{
				Input:        Input{Dir: "grammars", Extension: ".cfg"},
				Output:       Output{Width: 100, Explain: true},
				Workers:      3,
				MaxExpansion: 500,
			},
		},
		{
			name:      "unknown key",
			input:     "[input]\ndirectory = \"x\"\n",
			expectErr: true,
		},
		{
			name:      "not TOML",
			input:     "this is = = not toml",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Unmarshal([]byte(tc.input))

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaults_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{
			name: "zero value",
			cfg:  Config{},
		},
		{
			name:      "too narrow",
			cfg:       Config{Output: Output{Width: 5}},
			expectErr: true,
		},
		{
			name:      "negative workers",
			cfg:       Config{Workers: -1},
			expectErr: true,
		},
		{
			name:      "negative max expansion",
			cfg:       Config{MaxExpansion: -1},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.FillDefaults().Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{Input: Input{Extension: ".g"}}.FillDefaults()

	assert.Equal(DefaultDir, cfg.Input.Dir)
	assert.Equal(".g", cfg.Input.Extension)
	assert.Equal(DefaultWidth, cfg.Output.Width)
	assert.Equal(DefaultWorkers, cfg.Workers)
	assert.Equal(DefaultMaxExpansion, cfg.MaxExpansion)
}

func Test_Load(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "crunch.toml")
	err := os.WriteFile(path, []byte("[output]\nexplain = true\n"), 0660)
	if !assert.NoError(err) {
		return
	}

	cfg, err := Load(path)
	assert.NoError(err)
	assert.True(cfg.Output.Explain)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(err)
}

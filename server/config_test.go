package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", input: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "inmem upper case", input: "INMEM", expect: Database{Type: DatabaseInMemory}},
		{name: "inmem with params", input: "inmem:/data", expectErr: true},
		{name: "sqlite", input: "sqlite:/data", expect: Database{Type: DatabaseSQLite, DataDir: "/data"}},
		{name: "sqlite path with colon", input: "sqlite:C:/data", expect: Database{Type: DatabaseSQLite, DataDir: "C:/data"}},
		{name: "sqlite no path", input: "sqlite", expectErr: true},
		{name: "sqlite blank path", input: "sqlite:  ", expectErr: true},
		{name: "none", input: "none", expectErr: true},
		{name: "unknown", input: "postgres:localhost", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
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

func Test_Config_Validate(t *testing.T) {
	goodSecret := []byte("0123456789abcdef0123456789abcdef")

	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{name: "defaults", cfg: Config{}.FillDefaults()},
		{name: "defaults with secret", cfg: Config{TokenSecret: goodSecret}.FillDefaults()},
		{name: "short secret", cfg: Config{TokenSecret: []byte("short")}.FillDefaults(), expectErr: true},
		{name: "long secret", cfg: Config{TokenSecret: make([]byte, MaxSecretSize+1)}.FillDefaults(), expectErr: true},
		{name: "sqlite without dir", cfg: Config{DB: Database{Type: DatabaseSQLite}}.FillDefaults(), expectErr: true},
		{name: "negative expansion", cfg: Config{MaxExpansion: -1}.FillDefaults(), expectErr: true},
		{name: "hash cost too high", cfg: Config{HashCost: 99}.FillDefaults(), expectErr: true},
		{name: "unfilled", cfg: Config{}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Config_UnauthDelay(t *testing.T) {
	assert := assert.New(t)

	assert.Zero(Config{UnauthDelayMillis: -1}.UnauthDelay())
	assert.Equal(int64(1000), Config{}.FillDefaults().UnauthDelay().Milliseconds())
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/texsvg/engine"
	texerrors "github.com/wippyai/texsvg/errors"
	"github.com/wippyai/texsvg/internal/testbundle"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBundle, EnvStackLimit, EnvHeapLimit, EnvAddr, EnvAllowedOrigins, EnvDebug} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, engine.DefaultStackLimitBytes, cfg.StackLimitBytes)
	assert.Equal(t, engine.DefaultHeapLimitBytes, cfg.HeapLimitBytes)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.Debug)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBundle, "/opt/mathjax.js")
	t.Setenv(EnvStackLimit, "8MiB")
	t.Setenv(EnvHeapLimit, "268435456")
	t.Setenv(EnvAddr, "127.0.0.1:9000")
	t.Setenv(EnvAllowedOrigins, "https://a.example, https://b.example,")
	t.Setenv(EnvDebug, "true")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "/opt/mathjax.js", cfg.BundlePath)
	assert.Equal(t, uint64(8<<20), cfg.StackLimitBytes)
	assert.Equal(t, uint64(256<<20), cfg.HeapLimitBytes)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Debug)
}

func TestLoad_OverridesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvStackLimit, "8MiB")
	t.Setenv(EnvAddr, ":9000")

	cfg, err := Load(Overrides{StackLimitBytes: 1 << 20, Addr: ":7000", Debug: true})
	require.NoError(t, err)

	assert.Equal(t, uint64(1<<20), cfg.StackLimitBytes)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.True(t, cfg.Debug)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAddr, ":9100")

	path := filepath.Join(t.TempDir(), "texsvg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"heap_limit_bytes": 67108864, "addr": ":9000", "debug": true}`), 0o644))

	cfg, err := Load(Overrides{File: path})
	require.NoError(t, err)

	assert.Equal(t, uint64(64<<20), cfg.HeapLimitBytes)
	assert.Equal(t, ":9100", cfg.Addr, "environment overrides the file")
	assert.True(t, cfg.Debug)
}

func TestLoad_FileRejected(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", `{"stack": 1}`},
		{"wrong type", `{"heap_limit_bytes": "big"}`},
		{"below minimum", `{"stack_limit_bytes": 16}`},
		{"not json", `stack_limit_bytes = 16`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))

			_, err := Load(Overrides{File: path})
			require.Error(t, err)
			assert.ErrorIs(t, err, texerrors.ErrInitialization)
		})
	}

	_, err := Load(Overrides{File: filepath.Join(dir, "missing.json")})
	assert.ErrorIs(t, err, texerrors.ErrInitialization)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"stack not a number", map[string]string{EnvStackLimit: "lots"}},
		{"stack below a frame", map[string]string{EnvStackLimit: "100"}},
		{"zero heap", map[string]string{EnvHeapLimit: "0"}},
		{"bad addr", map[string]string{EnvAddr: "localhost"}},
		{"bad debug", map[string]string{EnvDebug: "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(Overrides{})
			require.Error(t, err)
			assert.ErrorIs(t, err, texerrors.ErrInitialization)
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"4MiB", 4 << 20, false},
		{"4M", 4 << 20, false},
		{"512KiB", 512 << 10, false},
		{"2 GiB", 2 << 30, false},
		{"100B", 100, false},
		{"", 0, true},
		{"-1", 0, true},
		{"1.5MiB", 0, true},
		{"99999999999999GiB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBytes(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok, "schema should have properties")
	for _, key := range []string{"bundle_path", "stack_limit_bytes", "heap_limit_bytes", "addr", "allowed_origins", "debug"} {
		assert.Contains(t, props, key)
	}
	assert.Equal(t, false, doc["additionalProperties"])
}

func TestValidateJSON(t *testing.T) {
	assert.NoError(t, ValidateJSON([]byte(`{}`)))
	assert.NoError(t, ValidateJSON([]byte(`{"allowed_origins": ["*"], "stack_limit_bytes": 1048576}`)))
	assert.Error(t, ValidateJSON([]byte(`{"allowed_origins": "*"}`)))
}

func TestNewRenderer(t *testing.T) {
	clearEnv(t)
	path, err := testbundle.WriteFile(t.TempDir())
	require.NoError(t, err)

	cfg, err := Load(Overrides{BundlePath: path, HeapLimitBytes: 64 << 20})
	require.NoError(t, err)

	r, err := cfg.NewRenderer()
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint64(64<<20), r.Config().HeapLimitBytes)
	assert.Equal(t, testbundle.Name, r.Bundle().Name)
}

// Package config resolves renderer and service settings from defaults, an
// optional JSON file, the environment and explicit overrides, in that order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wippyai/texsvg/bundle"
	"github.com/wippyai/texsvg/engine"
	"github.com/wippyai/texsvg/errors"
	"github.com/wippyai/texsvg/runtime"
)

// Environment variables read by Load.
const (
	EnvBundle         = bundle.EnvPath
	EnvStackLimit     = "TEXSVG_STACK_LIMIT"
	EnvHeapLimit      = "TEXSVG_HEAP_LIMIT"
	EnvAddr           = "TEXSVG_ADDR"
	EnvAllowedOrigins = "TEXSVG_ALLOWED_ORIGINS"
	EnvDebug          = "TEXSVG_DEBUG"
)

// DefaultAddr is the HTTP service listen address.
const DefaultAddr = ":8089"

// validate is a package-level singleton; validators cache struct metadata.
var validate = validator.New()

// Config is the resolved configuration.
type Config struct {
	BundlePath      string   `json:"bundle_path,omitempty" jsonschema:"description=Path to the MathJax bundle; empty uses TEXSVG_BUNDLE or js/mathjax_bundle.js"`
	StackLimitBytes uint64   `json:"stack_limit_bytes,omitempty" validate:"gte=256" jsonschema:"minimum=256,description=Interpreter stack ceiling in bytes"`
	HeapLimitBytes  uint64   `json:"heap_limit_bytes,omitempty" validate:"gte=1" jsonschema:"minimum=1,description=Interpreter heap ceiling in bytes"`
	Addr            string   `json:"addr,omitempty" validate:"required,hostname_port" jsonschema:"description=HTTP listen address"`
	AllowedOrigins  []string `json:"allowed_origins,omitempty" validate:"dive,required" jsonschema:"description=CORS origins allowed by the HTTP service; empty disables CORS"`
	Debug           bool     `json:"debug,omitempty" jsonschema:"description=Enable debug logging"`
}

// Overrides are explicit settings, typically from command-line flags. Zero
// values leave the lower layers in effect.
type Overrides struct {
	File            string
	BundlePath      string
	StackLimitBytes uint64
	HeapLimitBytes  uint64
	Addr            string
	AllowedOrigins  []string
	Debug           bool
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		StackLimitBytes: engine.DefaultStackLimitBytes,
		HeapLimitBytes:  engine.DefaultHeapLimitBytes,
		Addr:            DefaultAddr,
	}
}

// Load resolves the configuration and validates it.
func Load(o Overrides) (*Config, error) {
	cfg := Default()

	if o.File != "" {
		if err := cfg.mergeFile(o.File); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	cfg.mergeOverrides(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInitialization, err, "invalid configuration")
	}
	return nil
}

// Options converts the ceilings to renderer options.
func (c *Config) Options() []runtime.Option {
	return []runtime.Option{
		runtime.WithStackLimit(c.StackLimitBytes),
		runtime.WithHeapLimit(c.HeapLimitBytes),
	}
}

// Bundle loads the configured bundle.
func (c *Config) Bundle() (bundle.Source, error) {
	if c.BundlePath != "" {
		return bundle.Load(c.BundlePath)
	}
	return bundle.Default()
}

// NewRenderer loads the configured bundle into a renderer with the
// configured ceilings.
func (c *Config) NewRenderer(opts ...runtime.Option) (*runtime.Renderer, error) {
	src, err := c.Bundle()
	if err != nil {
		return nil, err
	}
	return runtime.New(src, append(c.Options(), opts...)...)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Initialization(errors.PhaseConfig, "read config "+path, err)
	}
	if err := ValidateJSON(data); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInitialization, err, "config "+path+" does not match schema")
	}
	if err := json.Unmarshal(data, c); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInitialization, err, "decode config "+path)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v := os.Getenv(EnvBundle); v != "" {
		c.BundlePath = v
	}
	if v := os.Getenv(EnvStackLimit); v != "" {
		n, err := ParseBytes(v)
		if err != nil {
			return errors.Misconfigured("%s: %v", EnvStackLimit, err)
		}
		c.StackLimitBytes = n
	}
	if v := os.Getenv(EnvHeapLimit); v != "" {
		n, err := ParseBytes(v)
		if err != nil {
			return errors.Misconfigured("%s: %v", EnvHeapLimit, err)
		}
		c.HeapLimitBytes = n
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvAllowedOrigins); v != "" {
		c.AllowedOrigins = SplitList(v)
	}
	if v := os.Getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Misconfigured("%s: %v", EnvDebug, err)
		}
		c.Debug = b
	}
	return nil
}

func (c *Config) mergeOverrides(o Overrides) {
	if o.BundlePath != "" {
		c.BundlePath = o.BundlePath
	}
	if o.StackLimitBytes != 0 {
		c.StackLimitBytes = o.StackLimitBytes
	}
	if o.HeapLimitBytes != 0 {
		c.HeapLimitBytes = o.HeapLimitBytes
	}
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if len(o.AllowedOrigins) > 0 {
		c.AllowedOrigins = o.AllowedOrigins
	}
	if o.Debug {
		c.Debug = true
	}
}

var byteUnits = []struct {
	suffix string
	scale  uint64
}{
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
	{"G", 1 << 30},
	{"M", 1 << 20},
	{"K", 1 << 10},
	{"B", 1},
}

// ParseBytes parses a byte count with an optional binary suffix:
// "4194304", "4MiB", "4M", "512KiB".
func ParseBytes(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	scale := uint64(1)
	for _, u := range byteUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			scale = u.scale
			break
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte count %q", s)
	}
	if n > ^uint64(0)/scale {
		return 0, fmt.Errorf("byte count %q overflows", s)
	}
	return n * scale, nil
}

// SplitList splits a comma-separated list, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

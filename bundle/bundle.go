package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/wippyai/texsvg/errors"
)

const (
	// EnvPath names the environment variable holding the bundle path.
	EnvPath = "TEXSVG_BUNDLE"

	// DefaultPath is used when EnvPath is unset.
	DefaultPath = "js/mathjax_bundle.js"
)

// Source is an immutable typesetting bundle. A Source can seed any number of
// interpreter instances.
type Source struct {
	// Name identifies the bundle in stack traces and logs.
	Name string
	// Code is the JavaScript program text.
	Code string
	// Digest is the hex SHA-256 of Code.
	Digest string
}

// FromString wraps in-memory JavaScript as a Source.
func FromString(name, code string) Source {
	sum := sha256.Sum256([]byte(code))
	return Source{
		Name:   name,
		Code:   code,
		Digest: hex.EncodeToString(sum[:]),
	}
}

// Load reads a bundle from disk.
func Load(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, errors.Initialization(errors.PhaseLoad, "read bundle "+path, err)
	}
	return FromString(filepath.Base(path), string(data)), nil
}

// Path resolves the bundle location from EnvPath, falling back to DefaultPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Default loads the bundle at Path().
func Default() (Source, error) {
	return Load(Path())
}

// Size returns the bundle length in bytes.
func (s Source) Size() int {
	return len(s.Code)
}

// ShortDigest returns the first 12 hex characters of Digest.
func (s Source) ShortDigest() string {
	if len(s.Digest) < 12 {
		return s.Digest
	}
	return s.Digest[:12]
}

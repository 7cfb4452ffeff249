package cli

import (
	"os"
	"path/filepath"
)

// Paths locates the tonescribe directory tree under the user's home.
type Paths struct {
	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a Paths rooted at the current user's home directory.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns ~/.tonescribe
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns ~/.tonescribe/config.yaml
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// LibraryDir returns ~/.tonescribe/library
func (p *Paths) LibraryDir() string {
	return filepath.Join(p.BaseDir(), "library")
}

// ExportDir returns ~/.tonescribe/exports, the local export target used
// when a context names none.
func (p *Paths) ExportDir() string {
	return filepath.Join(p.BaseDir(), "exports")
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}

// Package keystore stores SynapsAI API keys encrypted on disk.
package keystore

import (
	"os"
	"path/filepath"
	"runtime"
)

// PassphraseEnvVar overrides the machine-derived master key.
const PassphraseEnvVar = "SYNAPSAI_KEYSTORE_PASSPHRASE"

// Keystore defines the interface for secure key storage.
type Keystore interface {
	// Set stores a key-value pair.
	Set(name, value string) error
	// Get retrieves a value by name. Returns *ErrKeyNotFound if absent.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names, sorted.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// DefaultKeystorePath returns the default keystore file path.
// - macOS/Linux: ~/.synapsai/keys.enc
// - Windows: %USERPROFILE%\.synapsai\keys.enc
func DefaultKeystorePath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "keys.enc"
	}

	return filepath.Join(homeDir, ".synapsai", "keys.enc")
}

// NewKeystore opens the default keystore. The master key comes from
// SYNAPSAI_KEYSTORE_PASSPHRASE when set, otherwise from the machine identity.
func NewKeystore() (Keystore, error) {
	var source MasterKeySource = MachineKey{}
	if p := os.Getenv(PassphraseEnvVar); p != "" {
		source = Passphrase(p)
	}
	return NewFileKeystore(DefaultKeystorePath(), source)
}

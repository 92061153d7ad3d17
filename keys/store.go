package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is a simple local-first root-seed store: one hex-encoded seed file
// per named wallet, 0600, under a single directory. It is a development
// convenience, not a protocol surface.
type Store struct {
	Directory string
}

// DefaultDirectory returns ~/.verdin/keys.
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".verdin", "keys"), nil
}

// OpenStore opens (or designates) a store directory; empty means default.
func OpenStore(directory string) (*Store, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &Store{Directory: directory}, nil
}

// CheckName validates a wallet name.
func CheckName(name string) error {
	if name == "" {
		return errors.New("wallet name cannot be empty")
	}
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			continue
		}
		return fmt.Errorf("wallet name contains invalid character %q", c)
	}
	return nil
}

func (s *Store) seedPath(name string) string {
	return filepath.Join(s.Directory, name+".seed")
}

// Init writes a new root seed. It refuses to overwrite unless force is set.
func (s *Store) Init(name string, seed []byte, force bool) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if len(seed) != SeedSize {
		return fmt.Errorf("seed must be %d bytes", SeedSize)
	}
	if err := os.MkdirAll(s.Directory, 0o700); err != nil {
		return err
	}
	path := s.seedPath(name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("wallet %q already exists (use force to overwrite)", name)
		}
	}
	return os.WriteFile(path, []byte(hex.EncodeToString(seed)+"\n"), 0o600)
}

// Load reads a root seed by wallet name.
func (s *Store) Load(name string) ([]byte, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.seedPath(name))
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(b)))
	if err != nil {
		return nil, fmt.Errorf("wallet %q seed file is corrupt: %w", name, err)
	}
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("wallet %q seed has wrong length %d", name, len(seed))
	}
	return seed, nil
}

// List returns wallet names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".seed") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".seed"))
	}
	sort.Strings(names)
	return names, nil
}

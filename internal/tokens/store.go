// ABOUTME: Persisted token storage for the authenticated session
// ABOUTME: Stores access and refresh tokens as JSON in the config directory

package tokens

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Pair holds the two tokens issued by the API. Both are written on
// login/registration/refresh success and erased together on logout or
// refresh failure.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store persists the token pair in the given config directory
type Store struct {
	configDir string
}

// New creates a token store rooted at configDir
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// tokenFile returns the path to the persisted tokens
func (s *Store) tokenFile() string {
	return filepath.Join(s.configDir, "tokens.json")
}

// Load reads the persisted token pair. A missing file is not an error;
// it returns an empty pair, meaning no session exists.
func (s *Store) Load() (Pair, error) {
	data, err := os.ReadFile(s.tokenFile())
	if os.IsNotExist(err) {
		return Pair{}, nil
	}
	if err != nil {
		return Pair{}, err
	}

	var p Pair
	if err := json.Unmarshal(data, &p); err != nil {
		// Corrupt state is treated as no session
		return Pair{}, nil
	}
	return p, nil
}

// Save writes the token pair to disk. Tokens are credentials, so the
// file is created owner-readable only.
func (s *Store) Save(p Pair) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokenFile(), data, 0600)
}

// SetAccess replaces only the access token, keeping the refresh token.
// Used after a successful token refresh.
func (s *Store) SetAccess(access string) error {
	p, err := s.Load()
	if err != nil {
		return err
	}
	p.Access = access
	return s.Save(p)
}

// Clear erases all persisted tokens. Missing state is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.tokenFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Package credstore owns the local credential state for a truth network
// identity: the RSA key pair, the session token, and the server URL. All of
// it lives in a single JSON config file under the veritas home directory.
// Default location: ~/.veritas/config.json
//
// Every mutating call rewrites the file before returning, so in-memory and
// on-disk state never diverge between commands.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-jose/go-jose/v4"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
)

// DefaultServerURL is the truth network endpoint used until the user
// configures another one.
const DefaultServerURL = "https://truth.veritas.network"

// configFile is the name of the credential file inside the veritas home.
const configFile = "config.json"

// Config is the persisted credential state. The JSON layout is shared with
// other veritas clients; field names are part of that contract.
type Config struct {
	Server  string           `json:"server"`
	KeyPair *signing.KeyPair `json:"keyPair,omitempty"`
	Token   string           `json:"token,omitempty"`
}

// HasKeyPair reports whether a complete key pair is present.
func (c *Config) HasKeyPair() bool {
	return c.KeyPair != nil && c.KeyPair.PublicKeyPEM != "" && c.KeyPair.PrivateKeyPEM != ""
}

// HasSession reports whether a session token is present.
func (c *Config) HasSession() bool {
	return c.Token != ""
}

// KeyInfo describes the stored public key after a Generate call.
type KeyInfo struct {
	PublicKeyPEM string
	Fingerprint  string
	// Generated is false when an existing key pair was kept.
	Generated bool
}

// Store is a file-backed credential store.
type Store struct {
	dir string
	mu  sync.Mutex
}

// DefaultDir returns the veritas home directory.
func DefaultDir() string {
	if envPath := os.Getenv("VERITAS_HOME"); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".veritas"
	}
	return filepath.Join(home, ".veritas")
}

// New creates a store rooted at dir, creating the directory if needed.
// An empty dir selects DefaultDir.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errs.Persistence(err, "creating config directory %s", dir)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the credential file.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the credential file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, configFile)
}

// Load reads the credential file. On first run the file does not exist yet;
// a default config is written and returned. A file that exists but cannot
// be parsed is left untouched so the user can inspect or recover it.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save persists cfg, replacing the previous file contents.
func (s *Store) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

// Generate creates and persists a new RSA key pair. If a key pair already
// exists and force is false, the existing key is reported unchanged.
// Forcing a new key pair clears the session token, since the old session
// belongs to the old identity.
func (s *Store) Generate(force bool) (*KeyInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return nil, err
	}

	if cfg.HasKeyPair() && !force {
		fp, err := cfg.KeyPair.Fingerprint()
		if err != nil {
			return nil, errs.Persistence(err, "stored public key is unusable")
		}
		return &KeyInfo{
			PublicKeyPEM: cfg.KeyPair.PublicKeyPEM,
			Fingerprint:  fp,
			Generated:    false,
		}, nil
	}

	kp, err := signing.GenerateKeyPair()
	if err != nil {
		// Nothing persisted on failure; the previous state stays intact.
		return nil, err
	}

	cfg.KeyPair = kp
	cfg.Token = ""
	if err := s.save(cfg); err != nil {
		return nil, err
	}

	fp, err := kp.Fingerprint()
	if err != nil {
		return nil, err
	}

	return &KeyInfo{
		PublicKeyPEM: kp.PublicKeyPEM,
		Fingerprint:  fp,
		Generated:    true,
	}, nil
}

// SetSession stores the token from a successful login or registration.
func (s *Store) SetSession(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}
	cfg.Token = token
	return s.save(cfg)
}

// ClearSession drops the session token, keeping the key pair.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}
	cfg.Token = ""
	return s.save(cfg)
}

// SetServer changes the server URL for subsequent commands.
func (s *Store) SetServer(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}
	cfg.Server = url
	return s.save(cfg)
}

// ExportPublicJWK returns the stored public key as a JSON Web Key, with the
// key fingerprint as kid. Useful for registering the identity with systems
// that consume JWK sets rather than PEM.
func (s *Store) ExportPublicJWK() (*jose.JSONWebKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	if !cfg.HasKeyPair() {
		return nil, errs.Precondition("no key pair found, run 'veritas init' first")
	}

	pub, err := signing.ParsePublicKey(cfg.KeyPair.PublicKeyPEM)
	if err != nil {
		return nil, errs.Persistence(err, "stored public key is unusable")
	}
	fp, err := cfg.KeyPair.Fingerprint()
	if err != nil {
		return nil, errs.Persistence(err, "stored public key is unusable")
	}

	return &jose.JSONWebKey{
		Key:       pub,
		KeyID:     fp,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}, nil
}

// load reads or initializes the config file. Callers hold s.mu.
func (s *Store) load() (*Config, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		cfg := &Config{Server: DefaultServerURL}
		if err := s.save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Persistence(err, "reading %s", s.Path())
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errs.Persistence(err, "parsing %s (file left untouched)", s.Path())
	}
	if cfg.Server == "" {
		cfg.Server = DefaultServerURL
	}

	return &cfg, nil
}

// save writes cfg to a temp file in the same directory and renames it over
// the config file, so a crash mid-write cannot corrupt the previous state.
// Callers hold s.mu.
func (s *Store) save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errs.Persistence(err, "encoding config")
	}

	tmp, err := os.CreateTemp(s.dir, configFile+".tmp-*")
	if err != nil {
		return errs.Persistence(err, "creating temp file in %s", s.dir)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if err := tmp.Chmod(0600); err != nil {
		cleanup()
		return errs.Persistence(err, "restricting permissions on %s", tmpPath)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errs.Persistence(err, "writing %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.Persistence(err, "closing %s", tmpPath)
	}

	if err := os.Rename(tmpPath, s.Path()); err != nil {
		os.Remove(tmpPath)
		return errs.Persistence(err, "replacing %s", s.Path())
	}

	return nil
}

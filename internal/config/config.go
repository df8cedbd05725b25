package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the optional per-project configuration file, looked up at the
// project root.
const FileName = ".deadwood.toml"

// Config represents the per-project configuration for deadwood.
type Config struct {
	SrcDir             string   `toml:"src_dir"`
	Confidence         float64  `toml:"confidence"`
	TTLDays            int      `toml:"ttl_days"`
	IgnorePatterns     []string `toml:"ignore_patterns"`
	Entrypoints        []string `toml:"entrypoints"`
	SafeDelete         bool     `toml:"safe_delete"`
	BackupBeforeDelete bool     `toml:"backup_before_delete"`

	Store      StoreConfig      `toml:"store"`
	Backup     BackupConfig     `toml:"backup"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// StoreConfig points at the archive document store. URI and Database are
// usually left empty here and supplied via flags or environment.
type StoreConfig struct {
	URI      string `toml:"uri,omitempty"`
	Database string `toml:"database,omitempty"`
}

// BackupConfig configures the pre-delete backup vault.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type BackupConfig struct {
	Type string `toml:"type"` // "filesystem", "s3", or "memory"

	// FileSystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`

	// Encrypt applies age encryption to every backup copy.
	Encrypt bool `toml:"encrypt"`
}

// EncryptionConfig holds paths to the age key pair used for backup encryption.
type EncryptionConfig struct {
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig(projectRoot string) *Config {
	dataDir := filepath.Join(projectRoot, ".deadwood")
	return &Config{
		SrcDir:             "src",
		Confidence:         0.9,
		TTLDays:            90,
		SafeDelete:         true,
		BackupBeforeDelete: true,
		Store: StoreConfig{
			Database: "deadwood",
		},
		Backup: BackupConfig{
			Type: "filesystem",
			Dir:  filepath.Join(dataDir, "backup"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(dataDir, "keys", "deadwood.pub"),
			PrivateKeyPath: filepath.Join(dataDir, "keys", "deadwood.key"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader over the given defaults.
// Keys absent from the file keep their default values.
func (m *Manager) Read(r io.Reader, defaults *Config) (*Config, error) {
	cfg := *defaults
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the project's config file, falling back to pure defaults when
// the file does not exist.
func Load(projectRoot string) (*Config, error) {
	defaults := DefaultConfig(projectRoot)

	path := filepath.Join(projectRoot, FileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the project root with the defaults.
func Init(projectRoot string) (string, error) {
	path := filepath.Join(projectRoot, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, DefaultConfig(projectRoot)); err != nil {
		return "", fmt.Errorf("initializing config: %w", err)
	}
	return path, nil
}

// Package config loads the server's TOML configuration file and manages
// the derived public node-id sidecar used for P2P discovery.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk server configuration.
type Config struct {
	Bots       uint32  `toml:"bots"`
	IrohKey    *string `toml:"iroh_key"`
	Address    string  `toml:"address"`
	SmallBlind int64   `toml:"small_blind"`
	BigBlind   int64   `toml:"big_blind"`
}

// PublicInfo is the sidecar file exposing the derived node id for clients
// that need to dial this server's P2P adapter without the private key.
type PublicInfo struct {
	NodeID string `toml:"node_id"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		Bots:       1,
		Address:    "0.0.0.0:8080",
		SmallBlind: 5,
		BigBlind:   10,
	}
}

// Load reads path, falling back to Default when the file is absent. If no
// iroh_key is present, one is generated and persisted back to path, and a
// sibling public-info file is written next to it deriving node_id from it.
func Load(path string) (Config, error) {
	cfg, err := readOrDefault(path)
	if err != nil {
		return Config{}, err
	}

	if cfg.IrohKey == nil {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return Config{}, fmt.Errorf("config: generating iroh key: %w", err)
		}
		hexKey := hex.EncodeToString(key)
		cfg.IrohKey = &hexKey
		if err := save(path, cfg); err != nil {
			return Config{}, err
		}
	}

	if err := writePublicInfo(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readOrDefault(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

func save(path string, cfg Config) error {
	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// NodeID derives the public node id from a hex-encoded key the same way
// writePublicInfo does, so callers can obtain it without re-reading the
// sidecar file.
func NodeID(hexKey string) (string, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return "", fmt.Errorf("config: decoding iroh key: %w", err)
	}
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:]), nil
}

func publicInfoPath(configPath string) string {
	dir := filepath.Dir(configPath)
	return filepath.Join(dir, "mcg_server_public.toml")
}

func writePublicInfo(configPath string, cfg Config) error {
	nodeID, err := NodeID(*cfg.IrohKey)
	if err != nil {
		return err
	}
	raw, err := toml.Marshal(PublicInfo{NodeID: nodeID})
	if err != nil {
		return fmt.Errorf("config: marshaling public info: %w", err)
	}
	if err := os.WriteFile(publicInfoPath(configPath), raw, 0o644); err != nil {
		return fmt.Errorf("config: writing public info: %w", err)
	}
	return nil
}

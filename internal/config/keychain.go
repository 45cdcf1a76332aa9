package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"github.com/samber/lo"
)

const (
	keychainService = "beaconpush-cli"

	envKeyringBackend = "BEACONPUSH_KEYRING_BACKEND"
	envKeyringPass    = "BEACONPUSH_KEYRING_PASSWORD"
	envCredentialsDir = "BEACONPUSH_CREDENTIALS_DIR"

	profileItemPrefix = "profile:"
	profilesItem      = "profiles"
	currentItem       = "current"
)

// backend is the BEACONPUSH_KEYRING_BACKEND choice.
type backend string

const (
	backendAuto   backend = "auto"
	backendFile   backend = "file"
	backendSystem backend = "system"
)

var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var (
	userConfigDir = os.UserConfigDir
	stdinHasTTY   = func() bool {
		info, err := os.Stdin.Stat()
		return err == nil && info.Mode()&os.ModeCharDevice != 0
	}
)

// SetOpenKeyring swaps the keychain opener and returns a func restoring the
// previous one. Tests use it with keyring.NewArrayKeyring.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	previous := openKeyring
	openKeyring = fn
	return func() { openKeyring = previous }
}

func backendFromEnv() backend {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case "file":
		return backendFile
	case "system", "os", "native":
		return backendSystem
	default:
		return backendAuto
	}
}

// needsFileStore reports whether only the encrypted file store may be used:
// when asked for explicitly, or on Linux without a D-Bus session.
func needsFileStore(goos string, b backend, dbusAddr string) bool {
	switch b {
	case backendFile:
		return true
	case backendAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	default:
		return false
	}
}

func fileStoreDir() string {
	if dir := strings.TrimSpace(os.Getenv(envCredentialsDir)); dir != "" {
		return filepath.Join(dir, "keyring")
	}
	if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, keychainService, "keyring")
	}
	return filepath.Join(os.TempDir(), keychainService, "keyring")
}

func fileStorePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPass); strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("%s is required to unlock the credentials file without a terminal", envKeyringPass)
	}
	return keyring.TerminalPrompt(prompt)
}

func keychainConfig() keyring.Config {
	cfg := keyring.Config{ServiceName: keychainService}
	b := backendFromEnv()
	if b == backendSystem {
		return cfg
	}
	cfg.FileDir = fileStoreDir()
	cfg.FilePasswordFunc = fileStorePassword
	if needsFileStore(runtime.GOOS, b, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func profileItemKey(profile string) string {
	return profileItemPrefix + profile
}

// store keeps accounts, the profile list and the current profile as JSON
// items in one keychain service.
type store struct {
	ring keyring.Keyring
}

func openStore() (*store, error) {
	ring, err := openKeyring(keychainConfig())
	if err != nil {
		return nil, fmt.Errorf("open keychain: %w", err)
	}
	return &store{ring: ring}, nil
}

// read decodes the item at key into v. found is false when the item does
// not exist.
func (s *store) read(key string, v any) (found bool, err error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(item.Data, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *store) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.ring.Set(keyring.Item{Key: key, Label: keychainService + " " + key, Data: data})
}

func (s *store) remove(key string) error {
	if err := s.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

func (s *store) profiles() ([]string, error) {
	var names []string
	if _, err := s.read(profilesItem, &names); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return cleanProfiles(names), nil
}

func (s *store) setProfiles(names []string) error {
	return s.write(profilesItem, cleanProfiles(names))
}

func (s *store) current() (string, error) {
	var name string
	found, err := s.read(currentItem, &name)
	if err != nil {
		return "", fmt.Errorf("current profile: %w", err)
	}
	if !found || name == "" {
		return defaultProfile, nil
	}
	return name, nil
}

func (s *store) setCurrent(profile string) error {
	return s.write(currentItem, profile)
}

// cleanProfiles trims names and drops blanks and repeats, keeping order.
func cleanProfiles(names []string) []string {
	trimmed := lo.Map(names, func(n string, _ int) string { return strings.TrimSpace(n) })
	out := lo.Uniq(lo.Compact(trimmed))
	if out == nil {
		return []string{}
	}
	return out
}

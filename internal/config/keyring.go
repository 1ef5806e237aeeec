package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "dnsimple-cli"

	envKeyringBackend  = "DNSIMPLE_KEYRING_BACKEND"
	envKeyringPassword = "DNSIMPLE_KEYRING_PASSWORD"
	envCredentialsDir  = "DNSIMPLE_CREDENTIALS_DIR"
)

// backendMode selects where credentials are kept.
type backendMode int

const (
	backendAuto   backendMode = iota // OS keychain, falling back to the encrypted file
	backendFile                      // always the encrypted file
	backendSystem                    // OS keychain only
)

func (m backendMode) String() string {
	switch m {
	case backendFile:
		return "file"
	case backendSystem:
		return "system"
	default:
		return "auto"
	}
}

// parseBackendMode reads DNSIMPLE_KEYRING_BACKEND. Unknown values mean auto.
func parseBackendMode(value string) backendMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "file":
		return backendFile
	case "system", "os", "native":
		return backendSystem
	default:
		return backendAuto
	}
}

var (
	openKeyring   = keyring.Open
	userConfigDir = os.UserConfigDir
	stdinHasTTY   = func() bool {
		info, err := os.Stdin.Stat()
		return err == nil && info.Mode()&os.ModeCharDevice != 0
	}
)

// SetOpenKeyring swaps the keyring opener and returns a func restoring it.
// Tests use it to substitute keyring.NewArrayKeyring.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	previous := openKeyring
	openKeyring = fn
	return func() { openKeyring = previous }
}

func keyringConfig() keyring.Config {
	mode := parseBackendMode(os.Getenv(envKeyringBackend))
	cfg := keyring.Config{ServiceName: serviceName}
	if mode == backendSystem {
		return cfg
	}

	cfg.FileDir = credentialsDir()
	cfg.FilePasswordFunc = filePassword
	if fileOnly(mode, runtime.GOOS, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

// fileOnly reports whether native backends must be skipped. Linux without a
// session bus has no Secret Service to talk to.
func fileOnly(mode backendMode, goos, dbusAddr string) bool {
	switch mode {
	case backendFile:
		return true
	case backendAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	default:
		return false
	}
}

func credentialsDir() string {
	if dir := strings.TrimSpace(os.Getenv(envCredentialsDir)); dir != "" {
		return filepath.Join(dir, "keyring")
	}
	if dir, err := Dir(); err == nil {
		return filepath.Join(dir, "keyring")
	}
	return filepath.Join(os.TempDir(), serviceName, "keyring")
}

func filePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPassword); strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s to unlock the file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

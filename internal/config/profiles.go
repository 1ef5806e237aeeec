package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/99designs/keyring"
)

const (
	EnvToken   = "DNSIMPLE_TOKEN"
	EnvAccount = "DNSIMPLE_ACCOUNT"
	EnvBaseURL = "DNSIMPLE_BASE_URL"
	EnvProfile = "DNSIMPLE_PROFILE"

	DefaultProfile = "default"

	profilePrefix = "profile:"
	indexKey      = "profiles"
	currentKey    = "current_profile"
)

// Account holds the credentials of one profile. AccountID is the DNSimple
// account the profile acts on; BaseURL is empty for production.
type Account struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	BaseURL   string `json:"base_url,omitempty"`
	Sandbox   bool   `json:"sandbox,omitempty"`
}

var (
	// ErrNotConfigured is returned when no credentials are stored for a profile.
	ErrNotConfigured = errors.New("dnsimple not configured - run 'dnsimple auth login' first")

	// ErrUnknownProfile is returned when switching to a profile that was never saved.
	ErrUnknownProfile = errors.New("unknown profile")
)

// profileStore keeps profiles in a keyring: one JSON item per profile, an
// index of names in save order and the name of the current profile.
type profileStore struct {
	ring keyring.Keyring
}

func openProfiles() (*profileStore, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &profileStore{ring: ring}, nil
}

func profileName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return DefaultProfile
	}
	return name
}

// get decodes the item at key into v. It returns false for a missing key.
func (s *profileStore) get(key string, v any) (bool, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(item.Data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (s *profileStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.ring.Set(keyring.Item{Key: key, Label: serviceName + " " + key, Data: data}); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *profileStore) names() ([]string, error) {
	var names []string
	if _, err := s.get(indexKey, &names); err != nil {
		return nil, err
	}
	return compactNames(names), nil
}

func (s *profileStore) current() (string, error) {
	var name string
	found, err := s.get(currentKey, &name)
	if err != nil || !found {
		return DefaultProfile, err
	}
	return profileName(name), nil
}

func (s *profileStore) load(name string) (Account, error) {
	var account Account
	found, err := s.get(profilePrefix+name, &account)
	if err != nil {
		return Account{}, err
	}
	if !found {
		return Account{}, ErrNotConfigured
	}
	return account, nil
}

func (s *profileStore) save(name string, account Account) error {
	if err := s.put(profilePrefix+name, account); err != nil {
		return err
	}
	names, err := s.names()
	if err != nil {
		return err
	}
	if err := s.put(indexKey, compactNames(append(names, name))); err != nil {
		return err
	}
	return s.put(currentKey, name)
}

func (s *profileStore) remove(name string) error {
	if err := s.ring.Remove(profilePrefix + name); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile %s: %w", name, err)
	}
	names, err := s.names()
	if err != nil {
		return err
	}
	names = slices.DeleteFunc(names, func(n string) bool { return n == name })
	if err := s.put(indexKey, names); err != nil {
		return err
	}

	current, err := s.current()
	if err != nil || current != name {
		return err
	}
	next := DefaultProfile
	if len(names) > 0 {
		next = names[0]
	}
	return s.put(currentKey, next)
}

// compactNames trims names and drops blanks and repeats, keeping first-seen order.
func compactNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// LoadAccount resolves the active credentials. DNSIMPLE_TOKEN takes
// precedence over the keyring; otherwise DNSIMPLE_PROFILE or the current
// profile is loaded.
func LoadAccount() (Account, error) {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return Account{
			Token:     token,
			AccountID: strings.TrimSpace(os.Getenv(EnvAccount)),
			BaseURL:   strings.TrimSuffix(strings.TrimSpace(os.Getenv(EnvBaseURL)), "/"),
		}, nil
	}

	store, err := openProfiles()
	if err != nil {
		return Account{}, err
	}
	name := strings.TrimSpace(os.Getenv(EnvProfile))
	if name == "" {
		if name, err = store.current(); err != nil {
			return Account{}, err
		}
	}
	return store.load(name)
}

// SaveProfile stores credentials under name and makes it the current profile.
func SaveProfile(name string, account Account) error {
	name = profileName(name)
	if strings.TrimSpace(account.Token) == "" {
		return fmt.Errorf("cannot save profile %q: token is empty", name)
	}
	store, err := openProfiles()
	if err != nil {
		return err
	}
	return store.save(name, account)
}

// LoadProfile returns the credentials stored under name.
func LoadProfile(name string) (Account, error) {
	store, err := openProfiles()
	if err != nil {
		return Account{}, err
	}
	return store.load(profileName(name))
}

// DeleteProfile removes a profile. Removing the current profile switches to
// the first remaining one. Missing profiles are not an error.
func DeleteProfile(name string) error {
	store, err := openProfiles()
	if err != nil {
		return err
	}
	return store.remove(profileName(name))
}

// ListProfiles returns the stored profile names in the order they were saved.
func ListProfiles() ([]string, error) {
	store, err := openProfiles()
	if err != nil {
		return nil, err
	}
	return store.names()
}

// CurrentProfile returns the profile used when neither --profile nor
// DNSIMPLE_PROFILE is set.
func CurrentProfile() (string, error) {
	store, err := openProfiles()
	if err != nil {
		return "", err
	}
	return store.current()
}

// SetCurrentProfile switches the current profile. The profile must exist.
func SetCurrentProfile(name string) error {
	name = profileName(name)
	store, err := openProfiles()
	if err != nil {
		return err
	}
	names, err := store.names()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownProfile, name, strings.Join(names, ", "))
	}
	return store.put(currentKey, name)
}

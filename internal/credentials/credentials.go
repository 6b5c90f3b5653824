// Package credentials keeps the GitHub token for private rules documents in
// the OS credential store (Keychain on macOS, libsecret on Linux, Credential
// Manager on Windows).
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "rulesmcp"
	keyringAccount = "github_pat"

	minTokenLength = 20
)

// ErrNoToken is returned when no token has been stored.
var ErrNoToken = errors.New("no GitHub token stored")

// tokenKinds maps GitHub token prefixes to a readable name. The fine-grained
// prefix comes first so it is not mistaken for a shorter one.
var tokenKinds = []struct {
	prefix string
	name   string
}{
	{"github_pat_", "fine-grained personal access token"},
	{"ghp_", "classic personal access token"},
	{"gho_", "OAuth token"},
	{"ghu_", "GitHub App user token"},
	{"ghs_", "GitHub App installation token"},
}

// Store reads and writes the single GitHub token used by rulesmcp.
type Store struct {
	service string
	account string
}

// NewStore returns a Store bound to the rulesmcp keyring entry.
func NewStore() *Store {
	return &Store{
		service: keyringService,
		account: keyringAccount,
	}
}

// SetToken validates token and saves it, replacing any stored token.
func (s *Store) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := validate(token); err != nil {
		return fmt.Errorf("invalid token format: %w", err)
	}

	if err := keyring.Set(s.service, s.account, token); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}
	return nil
}

// Token returns the stored token, or ErrNoToken when there is none.
func (s *Store) Token() (string, error) {
	token, err := keyring.Get(s.service, s.account)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNoToken
	case err != nil:
		return "", fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// DeleteToken removes the stored token. A missing token is not an error.
func (s *Store) DeleteToken() error {
	err := keyring.Delete(s.service, s.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

// Describe names the kind of GitHub token from its prefix. It returns
// "unrecognized token" for anything else.
func Describe(token string) string {
	token = strings.TrimSpace(token)
	for _, kind := range tokenKinds {
		if strings.HasPrefix(token, kind.prefix) {
			return kind.name
		}
	}
	return "unrecognized token"
}

func validate(token string) error {
	if len(token) < minTokenLength {
		return fmt.Errorf("token too short (minimum %d characters)", minTokenLength)
	}
	for _, kind := range tokenKinds {
		if strings.HasPrefix(token, kind.prefix) {
			return nil
		}
	}
	return fmt.Errorf("token does not match expected GitHub token format (ghp_, github_pat_, gho_, ghu_ or ghs_)")
}

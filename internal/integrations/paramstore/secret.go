package paramstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// KeySource yields a vendor credential.
type KeySource interface {
	Key(ctx context.Context) (string, error)
}

// Static is a credential known at startup, typically from the environment.
type Static string

func (s Static) Key(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", errors.New("paramstore: credential is not configured")
	}
	return string(s), nil
}

// tokenPayload is the JSON shape accepted for secrets stored as JSON.
type tokenPayload struct {
	Token string `json:"token"`
}

// Secret resolves a parameter on first use and reuses the value for the
// lifetime of the process. Failed lookups are retried on the next call.
type Secret struct {
	getter Getter
	name   string

	mu     sync.Mutex
	loaded bool
	val    string
}

// NewSecret creates a Secret for the named parameter.
func NewSecret(getter Getter, name string) *Secret {
	return &Secret{getter: getter, name: strings.TrimSpace(name)}
}

// Key returns the cached value, fetching it on first use.
func (s *Secret) Key(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.val, nil
	}
	v, err := fetchSecret(ctx, s.getter, s.name)
	if err != nil {
		return "", err
	}
	s.val, s.loaded = v, true
	return v, nil
}

// Resolve picks the static value when present, otherwise the parameter name
// looked up through getter. A nil getter leaves only the static value.
func Resolve(static string, getter Getter, name string) KeySource {
	if strings.TrimSpace(static) != "" || getter == nil {
		return Static(static)
	}
	return NewSecret(getter, name)
}

// fetchSecret accepts either a plain string or {"token": "..."}.
func fetchSecret(ctx context.Context, getter Getter, name string) (string, error) {
	if getter == nil {
		return "", errors.New("paramstore: getter is nil")
	}
	if name == "" {
		return "", errors.New("paramstore: secret parameter name is empty")
	}

	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("paramstore: fetch secret: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var tp tokenPayload
		if err := json.Unmarshal([]byte(raw), &tp); err != nil {
			return "", fmt.Errorf("paramstore: unmarshal secret value as JSON: %w", err)
		}
		raw = tp.Token
	}
	if raw == "" {
		return "", fmt.Errorf("paramstore: secret %q is empty", name)
	}
	return raw, nil
}

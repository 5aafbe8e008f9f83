// Package tokenstore persists the bearer token between runs, the way the
// browser build keeps it in a cookie. The persisted copy is secondary state:
// the session layer owns the authoritative token and rewrites or deletes the
// stored one on every transition.
package tokenstore

import "time"

// TokenName is the fixed key the bearer token is stored under.
const TokenName = "allegrolike-jwttoken"

// TokenTTL is the expiry window applied on every save.
const TokenTTL = 24 * time.Hour

type Store interface {
	// Save persists value under name until expires.
	Save(name, value string, expires time.Time) error
	// Load returns the stored value, or ok=false when absent or expired.
	Load(name string) (value string, ok bool, err error)
	// Delete removes the value; deleting an absent name is not an error.
	Delete(name string) error
}

// Memory is the test double and the fallback when no durable store is wired.
type Memory struct {
	values map[string]entry
}

type entry struct {
	value   string
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]entry)}
}

func (m *Memory) Save(name, value string, expires time.Time) error {
	m.values[name] = entry{value: value, expires: expires}
	return nil
}

func (m *Memory) Load(name string) (string, bool, error) {
	e, ok := m.values[name]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.values, name)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Delete(name string) error {
	delete(m.values, name)
	return nil
}

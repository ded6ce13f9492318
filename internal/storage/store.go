// Package storage is the durable key-value layer behind the client session
// and the user's booking list.
package storage

import (
	"encoding/json"
	"fmt"
)

// Keys mirrored from the browser client.
const (
	KeyToken        = "token"
	KeyUser         = "user"
	KeyRememberMe   = "rememberMe"
	KeyHasVisited   = "hasVisited"
	KeyUserBookings = "userBookings"
)

// AuthKeys are removed on logout and on session invalidation.
var AuthKeys = []string{KeyToken, KeyUser, KeyRememberMe}

// Store is a synchronous string key-value store. Load reports ok=false for
// a missing key.
type Store interface {
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
	Clear(keys ...string) error
}

// LoadJSON decodes the value stored under key into dst.
func LoadJSON(s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Load(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Save(key, string(raw))
}

// LoadBool reads a "true"/"false" flag; anything else is false.
func LoadBool(s Store, key string) (bool, error) {
	raw, ok, err := s.Load(key)
	if err != nil || !ok {
		return false, err
	}
	return raw == "true", nil
}

func SaveBool(s Store, key string, v bool) error {
	if v {
		return s.Save(key, "true")
	}
	return s.Save(key, "false")
}

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Load(KeyToken); err != nil || ok {
		t.Fatalf("empty store Load: ok=%v err=%v", ok, err)
	}
	if err := s.Save(KeyToken, "abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := SaveBool(s, KeyRememberMe, true); err != nil {
		t.Fatalf("SaveBool: %v", err)
	}
	if err := SaveJSON(s, KeyUser, map[string]string{"email": "user@example.com"}); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	v, ok, err := s.Load(KeyToken)
	if err != nil || !ok || v != "abc" {
		t.Fatalf("Load token = %q ok=%v err=%v", v, ok, err)
	}
	remember, err := LoadBool(s, KeyRememberMe)
	if err != nil || !remember {
		t.Fatalf("LoadBool = %v err=%v", remember, err)
	}
	var user map[string]string
	if ok, err := LoadJSON(s, KeyUser, &user); err != nil || !ok || user["email"] != "user@example.com" {
		t.Fatalf("LoadJSON = %v ok=%v err=%v", user, ok, err)
	}

	if err := s.Clear(AuthKeys...); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range AuthKeys {
		if _, ok, _ := s.Load(k); ok {
			t.Fatalf("key %s survived Clear", k)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStoreRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	fs, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	exerciseStore(t, fs)

	if err := fs.Save(KeyHasVisited, "true"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	visited, err := LoadBool(reopened, KeyHasVisited)
	if err != nil || !visited {
		t.Fatalf("hasVisited not persisted: %v %v", visited, err)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFileStore(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadBoolTreatsGarbageAsFalse(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Save(KeyRememberMe, "yes")
	if v, err := LoadBool(s, KeyRememberMe); err != nil || v {
		t.Fatalf("LoadBool(yes) = %v %v", v, err)
	}
}

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

// mockStoreSpec implements ValidatingSpec for testing FileStore
type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, dir string, id Identifier, spec *mockStoreSpec) {
	t.Helper()
	asset := Asset[*mockStoreSpec]{
		Version:    1,
		Identifier: id,
		Spec:       spec,
	}
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, string(id)+".json"), data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_WithExistingAssets(t *testing.T) {
	tmpDir := t.TempDir()

	writeAsset(t, tmpDir, "item-1", &mockStoreSpec{Name: "First", Value: 1})
	writeAsset(t, tmpDir, "item-2", &mockStoreSpec{Name: "Second", Value: 2})

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 2)

	item1, err := store.Get("item-1")
	if err != nil {
		t.Fatalf("expected item-1 to be loaded: %v", err)
	}
	testutil.AssertEqual(t, "item-1 name", item1.Name, "First")
	testutil.AssertEqual(t, "item-1 value", item1.Value, 1)
}

func TestNewFileStore_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "bad.json"), []byte(`{invalid json`), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNewFileStore_ValidationError(t *testing.T) {
	tmpDir := t.TempDir()

	asset := Asset[*mockStoreSpec]{
		Version:    0,
		Identifier: "bad-spec",
		Spec:       &mockStoreSpec{Name: "Bad"},
	}
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "bad-spec.json"), data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err = NewFileStore[*mockStoreSpec](tmpDir)
	if err == nil {
		t.Error("expected error for invalid asset version")
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = store.Get("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("item-1", &mockStoreSpec{Name: "Saved", Value: 7}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// the record is visible in memory and survives a reload from disk
	got, err := store.Get("item-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	testutil.AssertEqual(t, "saved name", got.Name, "Saved")

	reloaded, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("reloading store: %v", err)
	}
	got, err = reloaded.Get("item-1")
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	testutil.AssertEqual(t, "reloaded name", got.Name, "Saved")
	testutil.AssertEqual(t, "reloaded value", got.Value, 7)
}

func TestNewFileStore_DuplicateKeys(t *testing.T) {
	tmpDir := t.TempDir()

	// two files carrying the same identifier
	for _, filename := range []string{"copy-a.json", "copy-b.json"} {
		asset := Asset[*mockStoreSpec]{
			Version:    1,
			Identifier: "dup",
			Spec:       &mockStoreSpec{Name: "Dup"},
		}
		data, err := json.Marshal(asset)
		if err != nil {
			t.Fatalf("failed to marshal test asset: %v", err)
		}
		if err := os.WriteFile(filepath.Join(tmpDir, filename), data, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
	}

	_, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err == nil {
		t.Error("expected error for duplicate identifiers")
	}
}

func TestIdentifierValidate(t *testing.T) {
	tests := map[string]struct {
		id     Identifier
		expErr bool
	}{
		"simple":        {id: "room-1"},
		"alphanumeric":  {id: "Zone9"},
		"empty":         {id: "", expErr: true},
		"with spaces":   {id: "room one", expErr: true},
		"with slashes":  {id: "a/b", expErr: true},
		"with unicode":  {id: "zimmer-ü", expErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.expErr && err == nil {
				t.Error("expected error")
			}
			if !tt.expErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

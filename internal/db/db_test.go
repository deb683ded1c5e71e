package db

import (
	"path/filepath"
	"testing"
)

func TestOpenInMemory(t *testing.T) {
	gdb, err := Open("file:db-open-test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if !gdb.Migrator().HasTable(&SystemSetting{}) {
		t.Fatal("expected system_settings table to be migrated")
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.db")

	gdb, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}

func TestIsMemoryDSN(t *testing.T) {
	tests := map[string]bool{
		DefaultPath:                   true,
		"file::memory:?cache=shared":  true,
		"chronitrack.db":              false,
		"file:data/settings.db?_fk=1": false,
	}
	for dsn, want := range tests {
		if got := isMemoryDSN(dsn); got != want {
			t.Fatalf("isMemoryDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}

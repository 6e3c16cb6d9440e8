package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runInit(t *testing.T, args ...string) error {
	t.Helper()

	cmd := NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates settings file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), configFileName)
		if err := runInit(t, "-o", path); err != nil {
			t.Fatalf("init failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read settings file: %v", err)
		}
		if !strings.Contains(string(data), "cf_host") {
			t.Error("settings file should mention cf_host")
		}
		if !strings.Contains(string(data), "cf_port") {
			t.Error("settings file should mention cf_port")
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), configFileName)
		if err := os.WriteFile(path, []byte("api:\n  cf_host: keep\n"), 0600); err != nil {
			t.Fatalf("failed to seed settings file: %v", err)
		}

		if err := runInit(t, "-o", path); err == nil {
			t.Error("expected an error when the file already exists")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read settings file: %v", err)
		}
		if !strings.Contains(string(data), "keep") {
			t.Error("existing file should be untouched")
		}
	})

	t.Run("force overwrites existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), configFileName)
		if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
			t.Fatalf("failed to seed settings file: %v", err)
		}

		if err := runInit(t, "-o", path, "-f"); err != nil {
			t.Fatalf("init -f failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read settings file: %v", err)
		}
		if strings.Contains(string(data), "old") {
			t.Error("file should have been overwritten")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", configFileName)
		if err := runInit(t, "-o", path); err != nil {
			t.Fatalf("init failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("settings file was not created: %v", err)
		}
	})
}

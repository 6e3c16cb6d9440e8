package main

import (
	"bytes"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("registers subcommands", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()

		want := []string{"serve", "init", "version"}
		for _, name := range want {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("subcommand %s not registered", name)
			}
		}
	})

	t.Run("declares harvest flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()

		for _, name := range []string{"input", "output", "mode", "site-key", "proxy", "timeout", "concurrency", "json", "markdown", "report", "db"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("flag --%s not declared", name)
			}
		}
		for _, name := range []string{"verbose", "config"} {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("persistent flag --%s not declared", name)
			}
		}
	})

	t.Run("rejects more than one positional argument", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"https://a.example", "https://b.example"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected an error for two positional arguments")
		}
	})
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	if setupLogger(false) == nil {
		t.Error("setupLogger(false) returned nil")
	}
	if setupLogger(true) == nil {
		t.Error("setupLogger(true) returned nil")
	}
}

package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "mirrorscan" {
			t.Errorf("expected use 'mirrorscan', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		hasDiscover := false
		hasHistory := false
		hasVersion := false
		for _, sub := range cmd.Commands() {
			switch sub.Use {
			case "discover [start-url...]":
				hasDiscover = true
			case "history [domain-suffix]":
				hasHistory = true
			case "version":
				hasVersion = true
			}
		}
		if !hasDiscover {
			t.Error("expected discover subcommand")
		}
		if !hasHistory {
			t.Error("expected history subcommand")
		}
		if !hasVersion {
			t.Error("expected version subcommand")
		}
	})
}

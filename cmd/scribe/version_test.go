package main

import (
	"strings"
	"testing"
)

func TestVersionOverride(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "0.1.0-test"
	GitCommit = "abc123"

	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Scribe 0.1.0-test") || !strings.Contains(out, "abc123") {
		t.Errorf("version output = %q", out)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"generate", "preflight", "usage", "serve", "validate", "version", "completion"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered (err %v)", name, err)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "scribe") {
		t.Errorf("bash completion does not mention scribe")
	}
}

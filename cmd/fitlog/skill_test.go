// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation, and embedded content.

package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSkillEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	expectedMarkers := []string{
		"name: fitlog",
		"description:",
		"mcp__fitlog__add_exercise",
		"mcp__fitlog__log_session",
		"mcp__fitlog__get_progress",
		"## When to use fitlog",
	}
	for _, marker := range expectedMarkers {
		if !strings.Contains(string(content), marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

func TestInstallSkillWithConfirmation(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(home, strings.NewReader("y\n"), &out, false); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	written, err := os.ReadFile(skillPath(home))
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(written, embedded) {
		t.Error("Installed skill does not match embedded content")
	}

	info, err := os.Stat(skillPath(home))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}
}

func TestInstallSkillCanceled(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(home, strings.NewReader("n\n"), &out, false); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "Installation canceled.") {
		t.Errorf("Expected cancel message, got %q", out.String())
	}
	if _, err := os.Stat(skillPath(home)); !os.IsNotExist(err) {
		t.Error("Expected no skill file after cancel")
	}
}

func TestInstallSkillOverwritesExisting(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(home, nil, &out, true); err != nil {
		t.Fatalf("first install failed: %v", err)
	}
	if err := os.WriteFile(skillPath(home), []byte("# stale"), 0600); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := installSkill(home, nil, &out, true); err != nil {
		t.Fatalf("second install failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Error("Expected overwrite notice")
	}
	written, _ := os.ReadFile(skillPath(home))
	if strings.Contains(string(written), "# stale") {
		t.Error("Expected stale content to be replaced")
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("Expected --yes flag on install-skill command")
	}
	if flag.Shorthand != "y" {
		t.Errorf("Expected shorthand y, got %q", flag.Shorthand)
	}
}

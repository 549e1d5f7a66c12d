package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderDefaults(t *testing.T) {
	messages, err := Render(Options{}, "French", "Bonjour le monde")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(messages.System, "French") {
		t.Errorf("system message missing language, got %q", messages.System)
	}
	if !strings.Contains(messages.User, "Bonjour le monde") {
		t.Errorf("user message missing content, got %q", messages.User)
	}
	if strings.Contains(messages.System, "{{") || strings.Contains(messages.User, "{{") {
		t.Error("unsubstituted template variables left in output")
	}
}

func TestRenderCustomTemplates(t *testing.T) {
	dir := t.TempDir()
	systemPath := filepath.Join(dir, "system.tmpl")
	userPath := filepath.Join(dir, "user.tmpl")
	if err := os.WriteFile(systemPath, []byte("reply in {{language}}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("text: {{content}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	messages, err := Render(Options{SystemTemplatePath: systemPath, UserTemplatePath: userPath}, "German", "hallo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if messages.System != "reply in German" {
		t.Errorf("unexpected system message %q", messages.System)
	}
	if messages.User != "text: hallo" {
		t.Errorf("unexpected user message %q", messages.User)
	}
}

func TestRenderMissingTemplateFile(t *testing.T) {
	_, err := Render(Options{SystemTemplatePath: "/no/such/template.tmpl"}, "English", "x")
	if err == nil {
		t.Error("expected error for missing template file")
	}
}

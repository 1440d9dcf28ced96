package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	got := Render("hello **world**")
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Errorf("Expected bold rendering, got %q", got)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	got := Render("hi <script>alert(1)</script> there")
	if strings.Contains(got, "<script") || strings.Contains(got, "alert(1)") {
		t.Errorf("Script content survived sanitization: %q", got)
	}
}

func TestRenderHardensLinks(t *testing.T) {
	got := Render("[site](https://example.com)")
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Fatalf("Expected link to survive, got %q", got)
	}
	if !strings.Contains(got, `target="_blank"`) || !strings.Contains(got, "noreferrer") {
		t.Errorf("Expected hardened link attributes, got %q", got)
	}
}

func TestRenderGFMTable(t *testing.T) {
	got := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(got, "<table>") {
		t.Errorf("Expected GFM table rendering, got %q", got)
	}
}

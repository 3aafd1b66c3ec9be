package smartlink

import "testing"

func TestBuildURL(t *testing.T) {
	tests := []struct {
		platform Platform
		input    string
		want     string
	}{
		{Twitter, "@void", "https://twitter.com/void"},
		{Twitter, "  void ", "https://twitter.com/void"},
		{YouTube, "@channel", "https://youtube.com/@channel"},
		{TikTok, "dancer", "https://tiktok.com/@dancer"},
		{Mail, "me@example.com", "mailto:me@example.com"},
		{Website, "example.com", "https://example.com"},
		{Custom, "http://example.com/x", "http://example.com/x"},
		{Discord, "123456789", "123456789"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.platform, tt.input); got != tt.want {
			t.Fatalf("BuildURL(%s, %q) = %q, want %q", tt.platform, tt.input, got, tt.want)
		}
	}
}

func TestExtractValueRoundTrip(t *testing.T) {
	for _, c := range All() {
		if c.URLTemplate == "" || c.Input != InputUsername {
			continue
		}
		url := BuildURL(c.Platform, "handle_1")
		if got := ExtractValue(url, c.Platform); got != "handle_1" {
			t.Fatalf("%s: ExtractValue(%q) = %q", c.Platform, url, got)
		}
	}
}

func TestExtractValueFallsBack(t *testing.T) {
	if got := ExtractValue("https://example.com/me", Twitter); got != "https://example.com/me" {
		t.Fatalf("unexpected %q", got)
	}
	if got := ExtractValue("https://x.com/void?s=1", Twitter); got != "void" {
		t.Fatalf("x.com handle not extracted, got %q", got)
	}
	if got := ExtractValue("https://example.com", Website); got != "https://example.com" {
		t.Fatalf("raw platform should return url, got %q", got)
	}
}

func TestParse(t *testing.T) {
	if p, err := Parse(""); err != nil || p != Custom {
		t.Fatalf("Parse(\"\") = %q, %v", p, err)
	}
	if p, err := Parse("GitHub"); err != nil || p != GitHub {
		t.Fatalf("Parse(GitHub) = %q, %v", p, err)
	}
	if _, err := Parse("myspace"); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func TestCatalogComplete(t *testing.T) {
	if len(All()) != len(byPlatform) {
		t.Fatal("duplicate platform in catalog")
	}
	for _, c := range All() {
		if c.Label == "" || c.Input == "" {
			t.Fatalf("incomplete config for %s", c.Platform)
		}
	}
}

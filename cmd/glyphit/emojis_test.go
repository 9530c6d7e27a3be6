package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/4thel00z/glyphit/internal"
)

func TestEmojisCmdListsCatalog(t *testing.T) {
	setupRepo(t)

	out, err := run(t, t.TempDir(), nil, "emojis")
	if err != nil {
		t.Fatalf("emojis: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(internal.DefaultCatalog().Emojis) {
		t.Errorf("expected %d lines, got %d", len(internal.DefaultCatalog().Emojis), len(lines))
	}
}

func TestEmojisCmdQuery(t *testing.T) {
	setupRepo(t)

	out, err := run(t, t.TempDir(), nil, "emojis", "--json", "bug")
	if err != nil {
		t.Fatalf("emojis: %v", err)
	}

	var got []internal.Emoji
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) == 0 || got[0].Code != "bug" {
		t.Errorf("expected bug to rank first, got %+v", got)
	}
}

func TestSearchCatalogNoMatch(t *testing.T) {
	if got := searchCatalog(internal.DefaultCatalog(), "zzzzzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho ok\n"), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverPlugins(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeScript(t, first, "glyphit-foo", 0755)
	writeScript(t, first, "glyphit-noexec", 0644)
	writeScript(t, first, "other-script", 0755)
	writeScript(t, first, "glyphit-", 0755)
	if err := os.Mkdir(filepath.Join(first, "glyphit-dir"), 0755); err != nil {
		t.Fatal(err)
	}
	shadowed := writeScript(t, second, "glyphit-foo", 0755)
	writeScript(t, second, "glyphit-bar", 0755)

	plugins := discoverPlugins(first + string(os.PathListSeparator) + second)

	var names []string
	for _, p := range plugins {
		names = append(names, p.Name)
		if p.Path == shadowed {
			t.Errorf("plugin %s from a later PATH entry must be shadowed", p.Name)
		}
	}
	if strings.Join(names, ",") != "bar,foo" {
		t.Errorf("plugins = %v, want [bar foo]", names)
	}
}

func TestLookupPlugin(t *testing.T) {
	tmp := t.TempDir()
	script := writeScript(t, tmp, "glyphit-test", 0755)

	p, err := lookupPlugin(tmp, "test")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Path != script {
		t.Errorf("expected %s, got %s", script, p.Path)
	}

	if _, err := lookupPlugin(tmp, "nonexistent-command-12345"); err == nil {
		t.Error("expected error for nonexistent plugin")
	}
}

func TestPluginEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin"}

	env := pluginEnv(base, "1.2.3", "/usr/local/bin/glyphit", "/work/repo")
	want := "PATH=/usr/bin,GLYPHIT_VERSION=1.2.3,GLYPHIT_BIN=/usr/local/bin/glyphit,GLYPHIT_ROOT=/work/repo"
	if strings.Join(env, ",") != want {
		t.Errorf("env = %v", env)
	}

	env = pluginEnv(base, "1.2.3", "/usr/local/bin/glyphit", "")
	for _, kv := range env {
		if strings.HasPrefix(kv, "GLYPHIT_ROOT=") {
			t.Error("GLYPHIT_ROOT must be omitted outside a repository")
		}
	}
	if len(base) != 1 {
		t.Error("base environment must not be modified")
	}
}

func TestRunPluginSkipsBuiltins(t *testing.T) {
	tmp := t.TempDir()
	writeScript(t, tmp, "glyphit-status", 0755)
	t.Setenv("PATH", tmp)

	root := NewRootCmd("test")
	for _, args := range [][]string{nil, {"--help"}, {"status"}, {"missing"}} {
		handled, err := runPlugin(context.Background(), root, args, "test")
		if handled || err != nil {
			t.Errorf("runPlugin(%v) = %v, %v; want not handled", args, handled, err)
		}
	}
}

func TestHelpListsPlugins(t *testing.T) {
	tmp := t.TempDir()
	writeScript(t, tmp, "glyphit-changelog", 0755)
	t.Setenv("PATH", tmp)

	out, err := run(t, tmp, nil, "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out, "Plugins (glyphit-*):") || !strings.Contains(out, "changelog") {
		t.Errorf("expected plugins in help, got %q", out)
	}
}

package cli

import (
	"io"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{
		"log", "commit", "restore", "activate", "preview", "fork",
		"layout", "render", "browse", "serve", "cache", "completion",
	}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRootCommandWorkspaceFlag(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	flag := root.PersistentFlags().Lookup("workspace")
	if flag == nil {
		t.Fatal("root command should have a --workspace flag")
	}
	if flag.Shorthand != "w" {
		t.Errorf("workspace flag shorthand = %q, want %q", flag.Shorthand, "w")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)

	c.SetLogLevel(LogDebug)
	if got := c.Logger.GetLevel(); got != LogDebug {
		t.Errorf("log level = %v, want %v", got, LogDebug)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWorkspacePathFlagWins(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.workspace = "/tmp/custom/workspace.json"

	path, err := c.workspacePath()
	if err != nil {
		t.Fatalf("workspacePath() error: %v", err)
	}
	if path != "/tmp/custom/workspace.json" {
		t.Errorf("workspacePath() = %q, want the flag value", path)
	}
}

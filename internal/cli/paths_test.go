package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		input  string
		format string
		multi  bool
		want   string
	}{
		{"default from input", "", "boards/plan.json", "svg", false, "plan.svg"},
		{"default from script", "", "plan.yaml", "png", true, "plan.png"},
		{"default for stdin", "", "-", "pdf", false, "board.pdf"},
		{"default for sample", "", "", "txt", false, "board.txt"},
		{"single format keeps base", "out/diagram.image", "plan.json", "png", false, "out/diagram.image"},
		{"multi replaces extension", "out/plan.svg", "plan.json", "pdf", true, "out/plan.pdf"},
		{"multi without extension", "out/plan", "plan.json", "json", true, "out/plan.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.base, tt.input, tt.format, tt.multi)
			if got != tt.want {
				t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.base, tt.input, tt.format, tt.multi, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " svg , ,txt", []string{"svg", "txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsScript(t *testing.T) {
	for path, want := range map[string]bool{
		"plan.yaml":  true,
		"plan.YML":   true,
		"plan.json":  false,
		"yaml":       false,
		"dir.yaml/x": false,
	} {
		if got := isScript(path); got != want {
			t.Errorf("isScript(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "board.txt")
	if err := writeFile(path, []byte("hello")); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}

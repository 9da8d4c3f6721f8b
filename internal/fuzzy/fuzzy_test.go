package fuzzy

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
)

func TestDetectFuzzyFinder(t *testing.T) {
	_, fzfErr := exec.LookPath("fzf")
	_, pecoErr := exec.LookPath("peco")

	finder, err := DetectFuzzyFinder()

	switch {
	case fzfErr == nil:
		if err != nil || finder != FinderFzf {
			t.Errorf("DetectFuzzyFinder() = %s, %v, want %s when fzf is available", finder, err, FinderFzf)
		}
	case pecoErr == nil:
		if err != nil || finder != FinderPeco {
			t.Errorf("DetectFuzzyFinder() = %s, %v, want %s when peco is available", finder, err, FinderPeco)
		}
	default:
		if err == nil {
			t.Error("DetectFuzzyFinder() should return error when no fuzzy finder is available")
		}
		if finder != FinderNone {
			t.Errorf("DetectFuzzyFinder() = %s, want %s", finder, FinderNone)
		}
	}

	if IsAvailable() != (err == nil) {
		t.Errorf("IsAvailable() = %v, want %v", IsAvailable(), err == nil)
	}
}

func TestResolveFinder(t *testing.T) {
	// An empty PATH hides every finder.
	t.Setenv("PATH", t.TempDir())

	for _, preferred := range []Finder{FinderAuto, FinderFzf, FinderPeco, ""} {
		finder, err := ResolveFinder(preferred)
		if err == nil {
			t.Errorf("ResolveFinder(%q) should fail without finders on PATH", preferred)
		}
		if finder != FinderNone {
			t.Errorf("ResolveFinder(%q) = %s, want %s", preferred, finder, FinderNone)
		}
	}
}

func TestSelect_EmptyList(t *testing.T) {
	if _, err := Select(nil, "Activity", "auto"); err == nil {
		t.Error("Select() should return error for empty list")
	}
}

func TestRunFuzzyFinder_UnknownFinder(t *testing.T) {
	if _, err := RunFuzzyFinder([]string{"a", "b"}, "", Finder("unknown")); err == nil {
		t.Error("RunFuzzyFinder() should return error for unknown finder")
	}
}

func TestSelectWithPrompt(t *testing.T) {
	items := []string{"reading", "writing", "gym"}

	tests := []struct {
		name      string
		input     string
		want      string
		wantErr   bool
		cancelled bool
	}{
		{name: "first", input: "1\n", want: "reading"},
		{name: "last without newline", input: "3", want: "gym"},
		{name: "padded", input: "  2 \n", want: "writing"},
		{name: "empty cancels", input: "\n", wantErr: true, cancelled: true},
		{name: "eof cancels", input: "", wantErr: true, cancelled: true},
		{name: "zero", input: "0\n", wantErr: true},
		{name: "too large", input: "4\n", wantErr: true},
		{name: "not a number", input: "gym\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			got, err := selectWithPrompt(items, "Activity", strings.NewReader(tt.input), out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("selectWithPrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.cancelled && !eris.Is(err, ErrCancelled) {
				t.Errorf("selectWithPrompt() error = %v, want ErrCancelled", err)
			}
			if got != tt.want {
				t.Errorf("selectWithPrompt() = %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), "  2. writing") {
				t.Errorf("prompt output missing numbered item:\n%s", out.String())
			}
		})
	}
}

func TestRunFuzzyFinder_UsesFinderOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script finder requires a unix shell")
	}

	// A fake fzf that picks the second line of its input.
	dir := t.TempDir()
	script := "#!/bin/sh\nsed -n 2p\n"
	if err := os.WriteFile(filepath.Join(dir, "fzf"), []byte(script), 0o755); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	got, err := RunFuzzyFinder([]string{"reading", "writing", "gym"}, "Activity", FinderFzf)
	if err != nil {
		t.Fatalf("RunFuzzyFinder() failed: %v", err)
	}
	if got != "writing" {
		t.Errorf("RunFuzzyFinder() = %q, want %q", got, "writing")
	}
}

func TestRunFuzzyFinder_Cancelled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script finder requires a unix shell")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "peco"), []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	_, err := RunFuzzyFinder([]string{"reading"}, "", FinderPeco)
	if !eris.Is(err, ErrCancelled) {
		t.Errorf("RunFuzzyFinder() error = %v, want ErrCancelled", err)
	}
}

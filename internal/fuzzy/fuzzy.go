package fuzzy

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Finder represents the type of fuzzy finder available
type Finder string

const (
	FinderFzf  Finder = "fzf"
	FinderPeco Finder = "peco"
	FinderNone Finder = "none"
	FinderAuto Finder = "auto"
)

// ErrCancelled is returned when the user aborts a selection
var ErrCancelled = eris.New("selection cancelled")

// Select asks the user to pick one item. preferred names the configured
// finder ("auto", "fzf" or "peco"); when it is unavailable the items are
// listed with numbers and read back from stdin.
func Select(items []string, prompt string, preferred string) (string, error) {
	if len(items) == 0 {
		return "", eris.New("no items available to select")
	}

	finder, err := ResolveFinder(Finder(preferred))
	if err != nil {
		return selectWithPrompt(items, prompt, os.Stdin, os.Stderr)
	}

	return RunFuzzyFinder(items, prompt, finder)
}

// ResolveFinder returns the preferred finder if installed, or the first
// installed one for "auto"
func ResolveFinder(preferred Finder) (Finder, error) {
	switch preferred {
	case FinderFzf, FinderPeco:
		if _, err := exec.LookPath(string(preferred)); err == nil {
			return preferred, nil
		}
		return FinderNone, eris.Errorf("configured fuzzy finder %s is not installed", preferred)
	default:
		return DetectFuzzyFinder()
	}
}

// DetectFuzzyFinder detects which fuzzy finder is available on the system
// Checks in order: fzf, peco
func DetectFuzzyFinder() (Finder, error) {
	if _, err := exec.LookPath("fzf"); err == nil {
		return FinderFzf, nil
	}
	if _, err := exec.LookPath("peco"); err == nil {
		return FinderPeco, nil
	}
	return FinderNone, eris.New("no fuzzy finder found (install fzf or peco)")
}

// finderCommand builds the command line for a finder
func finderCommand(finder Finder, prompt string) (*exec.Cmd, error) {
	switch finder {
	case FinderFzf:
		args := []string{"--height", "40%", "--reverse", "--border"}
		if prompt != "" {
			args = append(args, "--prompt", prompt+"> ")
		}
		return exec.Command("fzf", args...), nil
	case FinderPeco:
		args := []string{}
		if prompt != "" {
			args = append(args, "--prompt", prompt+">")
		}
		return exec.Command("peco", args...), nil
	default:
		return nil, eris.Errorf("unknown fuzzy finder: %s", finder)
	}
}

// RunFuzzyFinder runs the specified fuzzy finder with the given items
func RunFuzzyFinder(items []string, prompt string, finder Finder) (string, error) {
	cmd, err := finderCommand(finder, prompt)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	cmd.Stdin = strings.NewReader(strings.Join(items, "\n") + "\n")
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// fzf exits 130 on Ctrl+C and 1 when nothing matched
		if exitErr, ok := err.(*exec.ExitError); ok && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return "", ErrCancelled
		}
		return "", eris.Wrap(err, "fuzzy finder failed")
	}

	selected := strings.TrimSpace(out.String())
	if selected == "" {
		return "", ErrCancelled
	}
	return selected, nil
}

// selectWithPrompt displays a numbered list and reads the chosen number
func selectWithPrompt(items []string, prompt string, in io.Reader, out io.Writer) (string, error) {
	if prompt == "" {
		prompt = "Select an option"
	}
	fmt.Fprintf(out, "%s:\n", prompt)
	for i, item := range items {
		fmt.Fprintf(out, "%3d. %s\n", i+1, item)
	}
	fmt.Fprintf(out, "\nEnter number (1-%d): ", len(items))

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", eris.Wrap(err, "failed to read input")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrCancelled
	}
	selection, err := strconv.Atoi(input)
	if err != nil {
		return "", eris.Wrapf(err, "invalid selection %q", input)
	}
	if selection < 1 || selection > len(items) {
		return "", eris.Errorf("selection out of range (1-%d)", len(items))
	}

	return items[selection-1], nil
}

// IsAvailable checks if a fuzzy finder is available on the system
func IsAvailable() bool {
	_, err := DetectFuzzyFinder()
	return err == nil
}

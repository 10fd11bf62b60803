package clipboard

import (
	"fmt"
	"os/exec"
	"strings"
)

// Accessor reads and writes the host clipboard as text.
type Accessor interface {
	// Text returns the current clipboard text. Non-text content reads as "".
	Text() (string, error)

	// SetText replaces the clipboard content.
	SetText(text string) error
}

// Paster is the optional capability of forwarding a paste keystroke to the
// focused window after setting the clipboard. Hosts without it simply don't
// offer the copy-and-paste action.
type Paster interface {
	SetTextAndPaste(text string) error
}

// CommandAccessor shells out to the platform clipboard tools. Candidates are
// tried in order, so Wayland setups fall through to X11 and macOS ones.
type CommandAccessor struct {
	readCmd  []string
	writeCmd []string
	pasteCmd []string
}

var readCandidates = [][]string{
	{"wl-paste", "--no-newline"},
	{"xclip", "-selection", "clipboard", "-o"},
	{"xsel", "--clipboard", "--output"},
	{"pbpaste"},
}

var writeCandidates = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"pbcopy"},
}

// NewCommandAccessor locates the first available read/write tool pair.
// pasteCmd is a command that sends a paste keystroke (e.g. xdotool key
// ctrl+v); it may be empty, in which case paste support is absent.
func NewCommandAccessor(pasteCmd []string) (*CommandAccessor, error) {
	read, err := firstAvailable(readCandidates)
	if err != nil {
		return nil, fmt.Errorf("no clipboard read tool found: %w", err)
	}
	write, err := firstAvailable(writeCandidates)
	if err != nil {
		return nil, fmt.Errorf("no clipboard write tool found: %w", err)
	}

	a := &CommandAccessor{readCmd: read, writeCmd: write}
	if len(pasteCmd) > 0 {
		if _, err := exec.LookPath(pasteCmd[0]); err == nil {
			a.pasteCmd = pasteCmd
		}
	}
	return a, nil
}

func firstAvailable(candidates [][]string) ([]string, error) {
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, exec.ErrNotFound
}

// Text implements Accessor. Some tools exit non-zero on an empty clipboard;
// that reads as no text, not as an error.
func (a *CommandAccessor) Text() (string, error) {
	out, err := exec.Command(a.readCmd[0], a.readCmd[1:]...).Output()
	if err != nil {
		return "", nil
	}
	return string(out), nil
}

// SetText implements Accessor.
func (a *CommandAccessor) SetText(text string) error {
	cmd := exec.Command(a.writeCmd[0], a.writeCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// PasteSupported reports whether a paste command is configured and present.
func (a *CommandAccessor) PasteSupported() bool {
	return len(a.pasteCmd) > 0
}

// SetTextAndPaste implements Paster.
func (a *CommandAccessor) SetTextAndPaste(text string) error {
	if len(a.pasteCmd) == 0 {
		return fmt.Errorf("paste command not configured")
	}
	if err := a.SetText(text); err != nil {
		return err
	}
	return exec.Command(a.pasteCmd[0], a.pasteCmd[1:]...).Run()
}

package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Editor represents a supported editor CLI.
type Editor string

const (
	EditorCursor Editor = "cursor"
	EditorCode   Editor = "code"
)

// DetectEditor returns the first editor CLI found on PATH.
func DetectEditor() (Editor, error) {
	for _, ed := range []Editor{EditorCursor, EditorCode} {
		if _, err := exec.LookPath(string(ed)); err == nil {
			return ed, nil
		}
	}
	return "", errors.New("no editor found (cursor or code)")
}

// OpenFile opens a file in the given editor at line:column. The command is
// started in the background so an interactive caller is not blocked.
func OpenFile(ed Editor, file string, line, column int) error {
	if ed == "" {
		return errors.New("no editor configured")
	}

	args := []string{"--goto", fmt.Sprintf("%s:%d:%d", file, line, column)}
	if insideEditorTerminal() {
		// Reuse the surrounding window instead of flashing a new one.
		args = append([]string{"--reuse-window"}, args...)
	}

	cmd := exec.Command(string(ed), args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", ed, err)
	}
	go func() { _ = cmd.Wait() }()

	return nil
}

// insideEditorTerminal reports whether we are running in a Cursor or VS Code
// integrated terminal.
func insideEditorTerminal() bool {
	if os.Getenv("VSCODE_IPC_HOOK") != "" {
		return true
	}
	if os.Getenv("CURSOR_PID") != "" || os.Getenv("VSCODE_PID") != "" {
		return true
	}
	return os.Getenv("TERM_PROGRAM") == "vscode"
}

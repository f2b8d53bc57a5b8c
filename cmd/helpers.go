package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inovacc/jbconsole/internal/encoding"
)

// promptConfirm asks the user for confirmation and returns true if they confirm
// prompt should include the question (e.g., "Delete this bot? [y/N]: ")
func promptConfirm(prompt string) bool {
	_, _ = fmt.Fprint(os.Stdout, prompt)

	var response string

	_, _ = fmt.Scanln(&response)

	return response == "y" || response == "Y"
}

// confirmOrYes skips the prompt when --yes was given.
func confirmOrYes(cmd *cobra.Command, prompt string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}

	return promptConfirm(prompt)
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// expandPath expands ~ to the user's home directory and returns an absolute path
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("path is empty")
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}

		path = filepath.Join(home, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	return absPath, nil
}

// setPair is one --set key=value.
type setPair struct {
	key   string
	value string
}

// parseSetFlags splits key=value pairs at the first '='. Values may be empty.
func parseSetFlags(sets []string) ([]setPair, error) {
	pairs := make([]setPair, 0, len(sets))

	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")

		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}

		pairs = append(pairs, setPair{key: key, value: value})
	}

	return pairs, nil
}

// printResult writes v as JSON or YAML when -o asks for it, else the
// rendered table.
func printResult(w io.Writer, v any, table func() string) error {
	if outputFormat.Structured() {
		return encoding.Encode(w, outputFormat, v)
	}

	_, err := fmt.Fprintln(w, table())

	return err
}

// alertError carries the message shown to the user for a failed form.
type alertError struct {
	alert string
	err   error
}

func (e *alertError) Error() string {
	return e.alert
}

func (e *alertError) Unwrap() error {
	return e.err
}

var errCancelled = errors.New("cancelled")

// centerString centers a string in a field of given width
func centerString(s string, width int) string {
	if len(s) >= width {
		return s
	}

	padding := (width - len(s)) / 2

	return fmt.Sprintf("%*s%s%*s", padding, "", s, width-len(s)-padding, "")
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}

// boxWidth is the standard width for info boxes
const boxWidth = 64

// infoBox renders a box with a title and key-value pairs in the given order
func infoBox(title string, items map[string]string, order []string) string {
	var sb strings.Builder

	sb.WriteString("╔══════════════════════════════════════════════════════════════╗\n")
	sb.WriteString(fmt.Sprintf("║%s║\n", centerString(title, boxWidth-2)))
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")

	for _, key := range order {
		val, ok := items[key]
		if !ok {
			continue
		}

		content := truncateString(fmt.Sprintf("  %s: %s", key, val), boxWidth-2)
		sb.WriteString(fmt.Sprintf("║%s%*s║\n", content, boxWidth-2-len(content), ""))
	}

	sb.WriteString("╚══════════════════════════════════════════════════════════════╝")

	return sb.String()
}

package form

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
)

type Field struct {
	Name     string
	Value    string
	Required bool
}

// Validate returns the names of required fields that are blank.
func Validate(fields []Field) (invalid []string) {
	for _, f := range fields {
		if f.Required && strings.TrimSpace(f.Value) == "" {
			invalid = append(invalid, f.Name)
		}
	}
	return invalid
}

const DefaultConfirmMessage = "Are you sure?"

// Confirm asks a yes/no question on w and reads the answer from r. Anything
// other than "y" or "yes" is a no.
func Confirm(r io.Reader, w io.Writer, message string) (ok bool, err error) {
	if message == "" {
		message = DefaultConfirmMessage
	}
	if _, err = fmt.Fprintf(w, "%s [y/N] ", message); err != nil {
		return false, err
	}
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

const (
	MessageCopied     = "Copied to clipboard!"
	MessageCopyFailed = "Failed to copy to clipboard."
)

// Copy writes text to the system clipboard and returns the message to show
// the user.
func Copy(text string) (message string, err error) {
	if err = clipboard.WriteAll(text); err != nil {
		return MessageCopyFailed, err
	}
	return MessageCopied, nil
}

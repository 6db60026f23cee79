// Package source loads text to read from files, stdin or the clipboard.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

// Stdin names standard input as a path argument.
const Stdin = "-"

// maxTextBytes bounds a single text so a stray binary file cannot exhaust memory.
const maxTextBytes = 16 << 20

// ErrEmpty reports text without any readable words.
var ErrEmpty = errors.New("text is empty")

// LoadText reads the whole file at path, or stdin when path is "-".
func LoadText(path string) (string, error) {
	if path == Stdin {
		return ReadStdin()
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only text.
			_ = cerr
		}
	}()
	return Read(file)
}

// ReadStdin reads standard input. It refuses an interactive terminal.
func ReadStdin() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("stdin is a terminal; pipe text or pass a file")
	}
	return Read(os.Stdin)
}

// Read consumes r and returns its text.
func Read(r io.Reader) (string, error) {
	data, err := ReadBytes(r)
	if err != nil {
		return "", err
	}
	return checkText(string(data))
}

// ReadBytes consumes r, failing once it exceeds the text size limit.
func ReadBytes(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxTextBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxTextBytes {
		return nil, fmt.Errorf("text exceeds %d bytes", maxTextBytes)
	}
	return data, nil
}

// Clipboard returns the clipboard contents.
func Clipboard() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard is not supported on this system")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return checkText(text)
}

func checkText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}

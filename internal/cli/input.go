package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readLine prompts and reads one trimmed line. An empty answer returns
// def.
func (a *App) readLine(prompt, def string) string {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", prompt)
	}
	if !a.in.Scan() {
		return def
	}
	line := strings.TrimSpace(a.in.Text())
	if line == "" {
		return def
	}
	return line
}

// readPassword reads a password without echoing when stdin is a
// terminal, falling back to a plain line otherwise (tests, pipes).
func (a *App) readPassword(prompt string) string {
	fmt.Fprintf(a.out, "%s: ", prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(a.out)
		if err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

// newScanner builds the line scanner used by the app.
func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return s
}

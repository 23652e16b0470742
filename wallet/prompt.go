package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// TerminalPrompter reads the password from an interactive terminal without
// echoing. It satisfies PasswordPrompter for the daemon; HTTP callers supply
// the password in the request instead.
type TerminalPrompter struct{}

// RequestPassword prompts on stderr and reads the password from stdin.
// The caller must zero the returned bytes after use.
func (TerminalPrompter) RequestPassword(ctx context.Context, reason string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}

	fmt.Fprintf(os.Stderr, "Enter wallet password (%s): ", reason)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// StaticPrompter returns a fixed password; used in tests as a scripted
// responder.
type StaticPrompter struct {
	Password []byte
	Err      error
}

// RequestPassword returns a copy of the configured password.
func (p StaticPrompter) RequestPassword(ctx context.Context, reason string) ([]byte, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]byte, len(p.Password))
	copy(out, p.Password)
	return out, nil
}

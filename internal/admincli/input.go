package admincli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSecret prompts on w and reads the token secret from the terminal
// without echo.
func GetSecret(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Admin token secret: "); err != nil {
		return "", err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

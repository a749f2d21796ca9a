package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errEmptyPassword = errors.New("password must not be empty")

// promptPassword prints label and reads one line from stdin. Echo is turned
// off when stdin is a terminal; piped input is read as is.
func promptPassword(stdin *os.File, out io.Writer, label string) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}
	fmt.Fprint(out, label)

	restore, err := disableEcho(stdin)
	if err == nil {
		defer func() {
			restore()
			fmt.Fprintln(out)
		}()
	}

	line, err := readLine(stdin)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r")
	if strings.TrimSpace(password) == "" {
		return "", errEmptyPassword
	}
	return password, nil
}

// readLine reads up to the next newline one byte at a time so consecutive
// prompts on the same stdin never lose buffered input.
func readLine(stdin io.Reader) (string, error) {
	var line strings.Builder
	buffer := make([]byte, 1)
	for {
		n, err := stdin.Read(buffer)
		if n == 1 {
			if buffer[0] == '\n' {
				return line.String(), nil
			}
			line.WriteByte(buffer[0])
		}
		if errors.Is(err, io.EOF) {
			return line.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

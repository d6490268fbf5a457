package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsolePrompter reads field answers from Reader (os.Stdin by default),
// echoing a suggested default the caller can accept by pressing enter —
// the same bufio.Scanner-over-an-injectable-reader shape the original
// confirmation prompt used, generalized to arbitrary fields.
type ConsolePrompter struct {
	Reader io.Reader
}

func (p ConsolePrompter) reader() io.Reader {
	if p.Reader != nil {
		return p.Reader
	}
	return os.Stdin
}

// Prompt asks for field, showing suggested as the default. An empty line
// accepts the suggestion.
func (p ConsolePrompter) Prompt(field, suggested string) (string, error) {
	if suggested != "" {
		fmt.Printf("%s [%s]: ", field, suggested)
	} else {
		fmt.Printf("%s: ", field)
	}

	scanner := bufio.NewScanner(p.reader())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return suggested, nil
	}

	answer := strings.TrimSpace(scanner.Text())
	if answer == "" {
		return suggested, nil
	}
	return answer, nil
}

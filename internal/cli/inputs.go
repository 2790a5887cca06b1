package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// readInputs returns the non-blank, non-comment lines of the file named in
// args, or of stdin when args is empty or "-".
func readInputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) == 0 || args[0] == "-" {
		return scanInputs(cmd.InOrStdin())
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	return scanInputs(f)
}

func scanInputs(r io.Reader) ([]string, error) {
	var items []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading inputs: %w", err)
	}
	return items, nil
}

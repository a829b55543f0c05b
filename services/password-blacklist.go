package services

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PasswordBlacklist holds passwords that registration refuses.
type PasswordBlacklist map[string]bool

// LoadPasswordBlacklist reads one password per line. Blank lines are skipped.
func LoadPasswordBlacklist(filePath string) (PasswordBlacklist, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open password blacklist: %w", err)
	}
	defer file.Close()

	blacklist := make(PasswordBlacklist)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			blacklist[line] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read password blacklist: %w", err)
	}
	return blacklist, nil
}

func (b PasswordBlacklist) Contains(password string) bool {
	return b[password]
}

package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptInput reads one line of input after showing a styled prompt.
// Returns the trimmed line, which may be empty.
func PromptInput(prompt string) string {
	fmt.Printf("%s ", StyleMeta.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// PromptSecret reads a line meant for sensitive values. The value is
// still echoed by the terminal; callers should warn the user first.
func PromptSecret(prompt string) string {
	return PromptInput(prompt)
}

// Hint prints a dim usage hint line.
func Hint(msg string) {
	fmt.Println(StyleMeta.Render("  " + msg))
}

package command

import (
	"fmt"
	"strings"
)

// responseFormatter renders command output as light markdown. The CLI
// prints it as is; the Telegram sender converts it to HTML.
type responseFormatter struct{}

var formatter responseFormatter

func (responseFormatter) Info(title string) string {
	return fmt.Sprintf("ℹ️ **%s**\n", title)
}

func (responseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func (responseFormatter) Error(err error) string {
	return fmt.Sprintf("❌ **Command Error**\n\n**Issue**: %s\n", err.Error())
}

func (responseFormatter) Usage(command string) string {
	return fmt.Sprintf("**Usage**: `%s`\n", command)
}

func (responseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("› %s\n", item))
	}
	return sb.String()
}

func (responseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

func (responseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}

package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// RenderPlan renders an ordered action list for display
func RenderPlan(title string, items []string) string {
	if len(items) == 0 {
		return Get("Muted").Render("Nothing to do")
	}

	var b strings.Builder
	b.WriteString(Get("Title").Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(Get("Action").Render(item))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// PrintActionError reports a single failed action with context.
// Execution continues with the next action.
func PrintActionError(action string, err error) {
	msg := fmt.Sprintf("%s: %v", action, err)
	fmt.Fprintln(os.Stderr, Get("Error").Render(msg))
}

// PrintSkipWarning emits the single aggregate diagnostic for skipped
// actions at the end of a run
func PrintSkipWarning() {
	pterm.Warning.Println("Some files were skipped. To ignore errors and overwrite unexpected target files, use the --force flag.")
}

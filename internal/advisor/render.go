package advisor

import (
	"fmt"
	"strings"
)

// DisclaimerBlock is the mandatory closing block of every published
// advisory. EnsureDisclaimer appends it if the publisher model dropped
// it; the compliance stage checks for the first line of it.
const DisclaimerBlock = `---

**Important information:**
- This information does not constitute personalised financial advice
- Conditions may vary depending on the customer's profile
- For up-to-date conditions, always check the bank's official website`

// EnsureDisclaimer returns content guaranteed to end with the
// mandatory disclaimer block.
func EnsureDisclaimer(content string) string {
	trimmed := strings.TrimRight(content, "\n")
	if strings.Contains(trimmed, "does not constitute personalised financial advice") {
		return trimmed + "\n"
	}
	return trimmed + "\n\n" + DisclaimerBlock + "\n"
}

// RenderMissingInfo builds the halted-for-info message listing the
// fields the profiler could not extract.
func RenderMissingInfo(missing []string) string {
	var builder strings.Builder
	builder.WriteString("We need a little more information to help you:\n\n")
	for _, item := range missing {
		builder.WriteString(fmt.Sprintf("- %s\n", item))
	}
	builder.WriteString("\nPlease provide these details so we can suggest the best options.")
	return builder.String()
}

// buildClarityRequest wraps the expert's product information in the
// clarity writer's rewrite instruction.
func buildClarityRequest(expertContent string) string {
	return "Rewrite this bank product information in clear language for the customer:\n\n" + expertContent
}

// buildRevisionRequest turns a compliance rejection into a revision
// instruction carrying the issues, feedback and original content.
func buildRevisionRequest(decision Decision) string {
	var builder strings.Builder
	builder.WriteString("Please revise the content according to this compliance feedback:\n\n")
	if len(decision.Issues) > 0 {
		builder.WriteString("ISSUES FOUND:\n")
		for _, issue := range decision.Issues {
			builder.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		builder.WriteString("\n")
	}
	builder.WriteString("FEEDBACK:\n")
	builder.WriteString(decision.Feedback)
	if strings.TrimSpace(decision.PriorContent) != "" {
		builder.WriteString("\n\nORIGINAL CONTENT:\n")
		builder.WriteString(decision.PriorContent)
	}
	return builder.String()
}

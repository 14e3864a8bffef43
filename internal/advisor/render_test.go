package advisor_test

import (
	"strings"
	"testing"

	"github.com/finclarity/advisor/internal/advisor"
)

func TestEnsureDisclaimerAppendsWhenAbsent(t *testing.T) {
	result := advisor.EnsureDisclaimer("## Mortgages\n\nSome advisory text.")
	if !strings.Contains(result, "does not constitute personalised financial advice") {
		t.Fatalf("disclaimer missing from: %q", result)
	}
}

func TestEnsureDisclaimerDoesNotDuplicate(t *testing.T) {
	once := advisor.EnsureDisclaimer("advisory text")
	twice := advisor.EnsureDisclaimer(once)
	if strings.Count(twice, "does not constitute personalised financial advice") != 1 {
		t.Fatalf("disclaimer duplicated: %q", twice)
	}
}

func TestRenderMissingInfoListsEveryField(t *testing.T) {
	message := advisor.RenderMissingInfo([]string{"product type", "income range"})
	for _, field := range []string{"product type", "income range"} {
		if !strings.Contains(message, "- "+field) {
			t.Fatalf("expected %q listed in %q", field, message)
		}
	}
}

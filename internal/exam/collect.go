package exam

import "strings"

// Selection is one question's picked option at submission time: the
// displayed letter, or "" when nothing was selected.
type Selection struct {
	QuestionID string
	Displayed  string
	Order      OptionOrder
}

// CollectAnswers builds the answer map from current selections:
// question id -> canonical letter. Unanswered questions are omitted,
// never defaulted, and each question contributes at most one entry.
func CollectAnswers(selections []Selection) map[string]string {
	answers := make(map[string]string, len(selections))
	for _, sel := range selections {
		displayed := strings.ToUpper(strings.TrimSpace(sel.Displayed))
		if displayed == "" {
			continue
		}
		canonical := sel.Order.CanonicalLetter(displayed)
		if canonical == "" {
			continue
		}
		answers[sel.QuestionID] = canonical
	}
	return answers
}

package exam

import (
	"math"
	"strings"
)

// Grade scores an answer map against the canonical answer key. Total is
// the size of the key; questions missing from answers simply score
// nothing. Percentage is rounded to two decimals.
func Grade(key map[string]string, answers map[string]string) (score, total int, percentage float64) {
	total = len(key)
	for qid, correct := range key {
		given, ok := answers[qid]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(given), correct) {
			score++
		}
	}
	if total > 0 {
		percentage = math.Round(float64(score)/float64(total)*10000) / 100
	}
	return score, total, percentage
}

// Advice maps a percentage to the coaching line shown on the result
// page and in history.
func Advice(percentage float64) string {
	switch {
	case percentage >= 80:
		return "Excellent work! Keep practicing to stay sharp."
	case percentage >= 60:
		return "Good effort. Review the questions you missed and try again."
	case percentage >= 40:
		return "Fair attempt. Spend more time on this topic before the exam."
	default:
		return "Needs improvement. Revisit the material and retake this practice."
	}
}

package exam

import "testing"

func TestGrade(t *testing.T) {
	key := map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D"}

	tests := []struct {
		name    string
		answers map[string]string
		score   int
		pct     float64
	}{
		{"all correct", map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D"}, 4, 100},
		{"half answered", map[string]string{"q1": "A", "q3": "C"}, 2, 50},
		{"wrong answers", map[string]string{"q1": "B", "q2": "A"}, 0, 0},
		{"empty", map[string]string{}, 0, 0},
		{"lowercase tolerated", map[string]string{"q1": "a"}, 1, 25},
		{"unknown ids ignored", map[string]string{"zz": "A"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total, pct := Grade(key, tt.answers)
			if total != 4 {
				t.Errorf("total = %d, want 4", total)
			}
			if score != tt.score {
				t.Errorf("score = %d, want %d", score, tt.score)
			}
			if pct != tt.pct {
				t.Errorf("percentage = %v, want %v", pct, tt.pct)
			}
		})
	}
}

func TestGradeEmptyKey(t *testing.T) {
	score, total, pct := Grade(map[string]string{}, map[string]string{"q1": "A"})
	if score != 0 || total != 0 || pct != 0 {
		t.Errorf("empty key graded as (%d, %d, %v), want zeros", score, total, pct)
	}
}

func TestGradeRounding(t *testing.T) {
	key := map[string]string{"q1": "A", "q2": "B", "q3": "C"}
	_, _, pct := Grade(key, map[string]string{"q1": "A"})
	if pct != 33.33 {
		t.Errorf("percentage = %v, want 33.33", pct)
	}
}

func TestAdviceBands(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "Excellent work! Keep practicing to stay sharp."},
		{80, "Excellent work! Keep practicing to stay sharp."},
		{79.99, "Good effort. Review the questions you missed and try again."},
		{60, "Good effort. Review the questions you missed and try again."},
		{45, "Fair attempt. Spend more time on this topic before the exam."},
		{0, "Needs improvement. Revisit the material and retake this practice."},
	}
	for _, tt := range tests {
		if got := Advice(tt.pct); got != tt.want {
			t.Errorf("Advice(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

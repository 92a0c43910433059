package exam

import "testing"

func TestCollectAnswersOmitsUnanswered(t *testing.T) {
	order := IdentityOrder()
	selections := []Selection{
		{QuestionID: "q1", Displayed: "A", Order: order},
		{QuestionID: "q2", Displayed: "", Order: order},
		{QuestionID: "q3", Displayed: "C", Order: order},
		{QuestionID: "q4", Displayed: "", Order: order},
	}

	answers := CollectAnswers(selections)

	if len(answers) != 2 {
		t.Fatalf("answer map has %d entries, want 2", len(answers))
	}
	if answers["q1"] != "A" || answers["q3"] != "C" {
		t.Errorf("unexpected answer map: %v", answers)
	}
	if _, ok := answers["q2"]; ok {
		t.Error("unanswered question must not appear in the answer map")
	}
}

func TestCollectAnswersNormalizes(t *testing.T) {
	order := IdentityOrder()
	answers := CollectAnswers([]Selection{
		{QuestionID: "q1", Displayed: " b ", Order: order},
		{QuestionID: "q2", Displayed: "x", Order: order},
	})

	if answers["q1"] != "B" {
		t.Errorf("q1 = %q, want B", answers["q1"])
	}
	if _, ok := answers["q2"]; ok {
		t.Error("invalid selections must be dropped")
	}
}

func TestCollectAnswersShuffledMapping(t *testing.T) {
	// Displayed position A shows canonical option C, and so on.
	order := OptionOrder{"C", "A", "D", "B"}

	answers := CollectAnswers([]Selection{
		{QuestionID: "q1", Displayed: "A", Order: order},
		{QuestionID: "q2", Displayed: "D", Order: order},
	})

	if answers["q1"] != "C" {
		t.Errorf("q1 = %q, want canonical C for displayed A", answers["q1"])
	}
	if answers["q2"] != "B" {
		t.Errorf("q2 = %q, want canonical B for displayed D", answers["q2"])
	}
}

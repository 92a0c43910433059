package exam

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/unitechhub/examhub/internal/model"
)

func sampleQuestion() *model.Question {
	return &model.Question{
		ID:            uuid.New(),
		QuestionText:  "What is 2+2?",
		OptionA:       "3",
		OptionB:       "4",
		OptionC:       "5",
		OptionD:       "22",
		CorrectOption: "B",
	}
}

func TestBuildPaperQuestionIdentity(t *testing.T) {
	q := sampleQuestion()
	p := BuildPaperQuestion(q, IdentityOrder())

	if p.OptionA != "3" || p.OptionB != "4" || p.OptionC != "5" || p.OptionD != "22" {
		t.Errorf("identity order must keep option texts in place: %+v", p)
	}
	if p.Letters != IdentityOrder() {
		t.Errorf("letters = %v, want identity", p.Letters)
	}
}

func TestShuffledOrderKeepsAnswerKeyValid(t *testing.T) {
	q := sampleQuestion()
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		order := ShuffledOrder(r)
		p := BuildPaperQuestion(q, order)

		// Every permutation must contain each canonical letter once.
		seen := map[string]int{}
		for _, l := range order {
			seen[l]++
		}
		for _, l := range Letters {
			if seen[l] != 1 {
				t.Fatalf("order %v is not a permutation of A-D", order)
			}
		}

		// Find the displayed position showing the correct text and map it
		// back: it must resolve to the canonical correct letter.
		texts := [4]string{p.OptionA, p.OptionB, p.OptionC, p.OptionD}
		for pos, text := range texts {
			if text == "4" {
				displayed := Letters[pos]
				if got := order.CanonicalLetter(displayed); got != "B" {
					t.Fatalf("displayed %s resolved to %q, want B (order %v)", displayed, got, order)
				}
			}
		}
	}
}

func TestCanonicalLetterUnknown(t *testing.T) {
	if got := IdentityOrder().CanonicalLetter("E"); got != "" {
		t.Errorf("CanonicalLetter(E) = %q, want empty", got)
	}
}

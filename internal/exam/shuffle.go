package exam

import (
	"math/rand"

	"github.com/unitechhub/examhub/internal/model"
)

// Letters are the four canonical option letters in canonical order.
var Letters = [4]string{"A", "B", "C", "D"}

// OptionOrder maps display positions (0..3) to canonical letters. The
// identity order renders A-D in place; a shuffled order moves the texts
// around but each position remembers which canonical letter it shows,
// so display order never encodes the answer key.
type OptionOrder [4]string

// IdentityOrder returns the unshuffled A-D order.
func IdentityOrder() OptionOrder {
	return OptionOrder(Letters)
}

// ShuffledOrder returns a random permutation of the canonical letters.
func ShuffledOrder(r *rand.Rand) OptionOrder {
	order := IdentityOrder()
	r.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// BuildPaperQuestion lays out a question for the exam view: option
// texts are placed by display position per order, the correct answer is
// stripped, and Letters carries the position -> canonical mapping.
func BuildPaperQuestion(q *model.Question, order OptionOrder) model.PaperQuestion {
	texts := [4]string{}
	for pos, letter := range order {
		texts[pos] = q.OptionText(letter)
	}
	return model.PaperQuestion{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		OptionA:      texts[0],
		OptionB:      texts[1],
		OptionC:      texts[2],
		OptionD:      texts[3],
		Letters:      order,
	}
}

// CanonicalLetter resolves a displayed position letter ("A" = first
// shown option) back to the canonical letter for grading. Returns ""
// for anything outside A-D.
func (o OptionOrder) CanonicalLetter(displayed string) string {
	for pos, l := range Letters {
		if l == displayed {
			return o[pos]
		}
	}
	return ""
}

package questions

import (
	"context"
	"errors"

	"yourturn/internal/models"
)

// ErrNoQuestions is returned when a category has no eligible question
// left. This is an expected end state, not a failure: a round that
// exhausts its category concludes instead of erroring.
var ErrNoQuestions = errors.New("no questions available")

// Source provides trivia questions. Implementations must be safe for
// concurrent use.
type Source interface {
	// Random returns one random question from the category whose ID is
	// not in exclude, or ErrNoQuestions.
	Random(ctx context.Context, category string, exclude []int) (*models.Question, error)

	// Categories lists the category names that have questions.
	Categories(ctx context.Context) ([]string, error)
}

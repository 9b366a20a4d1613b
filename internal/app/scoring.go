package app

import "olympiad-service/internal/domain"

// Score grades a ledger snapshot against the questions. It is pure: the same
// inputs always produce the same result. Reason and elapsed time are left for
// the caller to fill.
func Score(questions []domain.Question, answers []int) domain.Result {
	result := domain.Result{
		Answers:     make([]int, len(questions)),
		PerQuestion: make([]domain.QuestionOutcome, len(questions)),
	}
	for i, q := range questions {
		selected := domain.Unanswered
		if i < len(answers) {
			selected = answers[i]
		}
		correct := selected == q.CorrectOption
		awarded := 0
		if correct {
			awarded = q.Points
		}
		result.Answers[i] = selected
		result.PerQuestion[i] = domain.QuestionOutcome{
			QuestionID:    q.ID,
			Prompt:        q.Prompt,
			Options:       append([]string(nil), q.Options...),
			Selected:      selected,
			CorrectOption: q.CorrectOption,
			IsCorrect:     correct,
			PointsAwarded: awarded,
			Points:        q.Points,
			Explanation:   q.Explanation,
		}
		result.Score += awarded
		result.MaxScore += q.Points
	}

	result.Percentage = Percentage(result.Score, result.MaxScore)
	result.CertificateEligible = result.Percentage >= domain.CertificateThreshold
	result.Rating = domain.RatingFor(result.Percentage)
	return result
}

// Percentage returns round(score/max*100) with halves rounded up, or 0 for an empty bank.
func Percentage(score, max int) int {
	if max <= 0 {
		return 0
	}
	// integer form of floor(score*100/max + 0.5)
	return (score*200 + max) / (2 * max)
}

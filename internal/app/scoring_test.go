package app

import (
	"reflect"
	"testing"

	"olympiad-service/internal/domain"
)

func TestScoreSampleScenarios(t *testing.T) {
	bank := mathBank()
	allCorrect := make([]int, len(bank.Questions))
	for i, q := range bank.Questions {
		allCorrect[i] = q.CorrectOption
	}
	unanswered := make([]int, len(bank.Questions))
	for i := range unanswered {
		unanswered[i] = domain.Unanswered
	}
	// correct on questions 1,2,3,5,7,9; wrong on 4; rest unanswered
	partial := append([]int(nil), unanswered...)
	for _, i := range []int{0, 1, 2, 4, 6, 8} {
		partial[i] = bank.Questions[i].CorrectOption
	}
	partial[3] = 0

	tests := []struct {
		name     string
		answers  []int
		score    int
		percent  int
		eligible bool
		rating   domain.Rating
	}{
		{name: "partial", answers: partial, score: 17, percent: 59, eligible: false, rating: domain.RatingNeedsImprovement},
		{name: "all correct", answers: allCorrect, score: 29, percent: 100, eligible: true, rating: domain.RatingExcellent},
		{name: "all unanswered", answers: unanswered, score: 0, percent: 0, eligible: false, rating: domain.RatingNeedsImprovement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(bank.Questions, tc.answers)
			if got.Score != tc.score || got.MaxScore != 29 {
				t.Fatalf("expected %d/29, got %d/%d", tc.score, got.Score, got.MaxScore)
			}
			if got.Percentage != tc.percent {
				t.Fatalf("expected %d%%, got %d%%", tc.percent, got.Percentage)
			}
			if got.CertificateEligible != tc.eligible {
				t.Fatalf("expected eligible=%v", tc.eligible)
			}
			if got.Rating != tc.rating {
				t.Fatalf("expected rating %s, got %s", tc.rating, got.Rating)
			}

			sum := 0
			for i, row := range got.PerQuestion {
				sum += row.PointsAwarded
				if row.IsCorrect != (tc.answers[i] == bank.Questions[i].CorrectOption) {
					t.Fatalf("row %d correctness mismatch", i)
				}
				if row.IsCorrect && row.PointsAwarded != bank.Questions[i].Points {
					t.Fatalf("row %d awarded %d", i, row.PointsAwarded)
				}
			}
			if sum != got.Score {
				t.Fatalf("score %d != sum of awarded %d", got.Score, sum)
			}
		})
	}
}

func TestCertificateThresholdBoundaries(t *testing.T) {
	for _, tc := range []struct {
		first    int
		eligible bool
	}{
		{first: 69, eligible: false},
		{first: 70, eligible: true},
		{first: 71, eligible: true},
	} {
		questions := []domain.Question{
			{ID: 1, Options: []string{"a", "b"}, CorrectOption: 0, Points: tc.first},
			{ID: 2, Options: []string{"a", "b"}, CorrectOption: 0, Points: 100 - tc.first},
		}
		got := Score(questions, []int{0, 1})
		if got.Percentage != tc.first {
			t.Fatalf("expected %d%%, got %d%%", tc.first, got.Percentage)
		}
		if got.CertificateEligible != tc.eligible {
			t.Fatalf("%d%%: expected eligible=%v", tc.first, tc.eligible)
		}
	}
}

func TestPercentageRounding(t *testing.T) {
	cases := []struct{ score, max, want int }{
		{17, 29, 59},
		{1, 8, 13}, // 12.5 rounds up
		{1, 3, 33},
		{2, 3, 67},
		{29, 29, 100},
		{0, 29, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := Percentage(tc.score, tc.max); got != tc.want {
			t.Fatalf("Percentage(%d,%d) = %d, want %d", tc.score, tc.max, got, tc.want)
		}
	}
}

func TestScoreEmptyBank(t *testing.T) {
	got := Score(nil, nil)
	if got.Percentage != 0 || got.CertificateEligible || got.MaxScore != 0 {
		t.Fatalf("empty bank must score 0 and not be eligible, got %+v", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	bank := mathBank()
	answers := []int{1, 0, 2, domain.Unanswered, 1, 3, 2, 1, 0, 2}
	first := Score(bank.Questions, answers)
	second := Score(bank.Questions, first.Answers)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rescoring changed the result:\n%+v\n%+v", first, second)
	}
}

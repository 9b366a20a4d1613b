package domain

import (
	"errors"
	"testing"
)

func TestBankValidate(t *testing.T) {
	valid := func() Bank {
		return Bank{ID: "b", Questions: []Question{
			{ID: 1, Options: []string{"a", "b"}, CorrectOption: 0, Points: 1},
			{ID: 2, Options: []string{"a", "b", "c"}, CorrectOption: 2, Points: 4},
		}}
	}

	tests := []struct {
		name   string
		mutate func(*Bank)
		ok     bool
	}{
		{name: "valid", mutate: func(*Bank) {}, ok: true},
		{name: "empty bank", mutate: func(b *Bank) { b.Questions = nil }, ok: true},
		{name: "one option", mutate: func(b *Bank) { b.Questions[0].Options = []string{"a"} }},
		{name: "correct too high", mutate: func(b *Bank) { b.Questions[1].CorrectOption = 3 }},
		{name: "correct negative", mutate: func(b *Bank) { b.Questions[0].CorrectOption = -1 }},
		{name: "zero points", mutate: func(b *Bank) { b.Questions[0].Points = 0 }},
		{name: "duplicate id", mutate: func(b *Bank) { b.Questions[1].ID = 1 }},
		{name: "negative duration", mutate: func(b *Bank) { b.DurationSeconds = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bank := valid()
			tc.mutate(&bank)
			err := bank.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidBank) {
				t.Fatalf("expected ErrInvalidBank, got %v", err)
			}
		})
	}
}

func TestSummaryHasNoAnswers(t *testing.T) {
	bank := Bank{ID: "b", Subject: "math", Grade: "3", DurationSeconds: 60, Questions: []Question{
		{ID: 1, Options: []string{"a", "b"}, Points: 3},
		{ID: 2, Options: []string{"a", "b"}, Points: 2},
	}}
	got := bank.Summary()
	want := BankSummary{ID: "b", Subject: "math", Grade: "3", QuestionCount: 2, MaxScore: 5, DurationSeconds: 60}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestRatingFor(t *testing.T) {
	cases := map[int]Rating{
		100: RatingExcellent,
		90:  RatingExcellent,
		89:  RatingGood,
		80:  RatingGood,
		79:  RatingSatisfactory,
		70:  RatingSatisfactory,
		69:  RatingNeedsImprovement,
		0:   RatingNeedsImprovement,
	}
	for pct, want := range cases {
		if got := RatingFor(pct); got != want {
			t.Fatalf("RatingFor(%d) = %s, want %s", pct, got, want)
		}
	}
}

package experience

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestEstimator_ExplicitYears(t *testing.T) {
	e := NewEstimator(nil)

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"plain mention", "5 years of experience in Python", 5},
		{"plus sign", "5+ years of experience in Python", 5},
		{"abbreviated", "8 yrs experience with Java", 8},
		{"decimal", "2.5 years of backend work", 2.5},
		{"multiple mentions keeps max", "2 years of Go and 7 years of Java", 7},
		{"above sanity bound rejected", "I have 75 years of experience", 0},
		{"no mention", "I write software", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.explicitYears(tt.text); got != tt.want {
				t.Errorf("explicitYears(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimator_DateRanges(t *testing.T) {
	e := NewEstimator(nil)

	t.Run("closed range inside experience section", func(t *testing.T) {
		text := "Experience\nAcme Corp\nJan 2019 - Dec 2020\nEducation\nBSc 2018"
		got := e.estimateAt(text, testNow)
		if got < 1.8 || got > 2.05 {
			t.Errorf("estimate = %v, want ~1.9-2.0", got)
		}
	})

	t.Run("same dates under education contribute nothing", func(t *testing.T) {
		text := "Education\nUniversity\nJan 2019 - Dec 2020"
		if got := e.estimateAt(text, testNow); got != 0 {
			t.Errorf("estimate = %v, want 0 for education dates", got)
		}
	})

	t.Run("open-ended range uses now", func(t *testing.T) {
		text := "Experience\nAcme Corp\nJan 2019 - Present"
		got := e.estimateAt(text, testNow)
		// Jan 2019 to testNow is a bit over 7.1 years, day-of-month lenient.
		if got < 7.0 || got > 7.3 {
			t.Errorf("estimate = %v, want ~7.1-7.2", got)
		}
	})

	t.Run("present family variants", func(t *testing.T) {
		for _, word := range []string{"Present", "current", "Till Date", "to date", "Ongoing", "now"} {
			text := "Experience\nAcme Corp\nJan 2024 - " + word
			got := e.estimateAt(text, testNow)
			if got < 2.0 || got > 2.4 {
				t.Errorf("estimate with end %q = %v, want ~2.2", word, got)
			}
		}
	})

	t.Run("multiple ranges sum", func(t *testing.T) {
		text := "Experience\nAcme Corp\nJan 2015 - Jan 2017\nBeta LLC\nJan 2018 - Jan 2021"
		got := e.estimateAt(text, testNow)
		if got < 4.8 || got > 5.2 {
			t.Errorf("estimate = %v, want ~5", got)
		}
	})

	t.Run("normalized unicode dash and glued month-year", func(t *testing.T) {
		text := "Experience\nAcme Corp\nFeb2020 – Feb2022"
		got := e.estimateAt(text, testNow)
		if got < 1.9 || got > 2.1 {
			t.Errorf("estimate = %v, want ~2", got)
		}
	})

	t.Run("reversed range discarded", func(t *testing.T) {
		text := "Experience\nAcme Corp\nJan 2021 - Jan 2019"
		if got := e.estimateAt(text, testNow); got != 0 {
			t.Errorf("estimate = %v, want 0 for end before start", got)
		}
	})

	t.Run("bare year range", func(t *testing.T) {
		text := "Experience\nAcme Corp\n2016 to 2019"
		got := e.estimateAt(text, testNow)
		if got < 2.8 || got > 3.2 {
			t.Errorf("estimate = %v, want ~3", got)
		}
	})
}

func TestEstimator_MaxOfStrategies(t *testing.T) {
	e := NewEstimator(nil)

	t.Run("explicit wins when larger", func(t *testing.T) {
		text := "10 years of experience\nExperience\nAcme Corp\nJan 2019 - Jan 2021"
		got := e.estimateAt(text, testNow)
		if got != 10 {
			t.Errorf("estimate = %v, want 10 (max of strategies, not sum)", got)
		}
	})

	t.Run("date ranges win when larger", func(t *testing.T) {
		text := "1 year of management experience\nExperience\nAcme Corp\nJan 2015 - Jan 2021"
		got := e.estimateAt(text, testNow)
		if got < 5.8 || got > 6.2 {
			t.Errorf("estimate = %v, want ~6 from date ranges", got)
		}
	})

	t.Run("rejected explicit mention leaves final at zero", func(t *testing.T) {
		if got := e.estimateAt("I have 75 years of experience", testNow); got != 0 {
			t.Errorf("estimate = %v, want 0 after sanity-bound rejection", got)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if got := e.estimateAt("", testNow); got != 0 {
			t.Errorf("estimate = %v, want 0", got)
		}
	})
}

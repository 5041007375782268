package domain

import "testing"

func TestCategoryMapResolve(t *testing.T) {
	t.Parallel()

	categories := DefaultCategories()

	tests := []struct {
		name string
		want int
	}{
		{"Technology", 2},
		{"History", 18},
		{"Uncategorised", 1},
		{"Cooking", 1},
		{"", 1},
		{"technology", 1},
	}

	for _, tt := range tests {
		if got := categories.Resolve(tt.name); got != tt.want {
			t.Fatalf("Resolve(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCategoryMapWithFallback(t *testing.T) {
	t.Parallel()

	custom := CategoryMap{"Technology": 7}
	withFallback := custom.WithFallback()

	if _, ok := custom[Uncategorised]; ok {
		t.Fatalf("WithFallback must not mutate the receiver")
	}
	if withFallback.Resolve("Technology") != 7 {
		t.Fatalf("expected Technology to keep id 7")
	}
	if withFallback.Resolve("Unknown") != UncategorisedID {
		t.Fatalf("expected unknown names to map to %d", UncategorisedID)
	}

	custom = CategoryMap{Uncategorised: 42}.WithFallback()
	if custom.Resolve("Unknown") != 42 {
		t.Fatalf("expected configured fallback id to win, got %d", custom.Resolve("Unknown"))
	}
}

func TestTickReportCount(t *testing.T) {
	t.Parallel()

	var report TickReport
	for _, outcome := range []PublishOutcome{OutcomePublished, OutcomePublished, OutcomeDuplicate, OutcomeRejected, OutcomeFailed} {
		report.Count(outcome)
	}

	if report.Published != 2 || report.Duplicates != 1 || report.Rejected != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

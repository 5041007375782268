package domain

// Article is a normalized feed entry. Link doubles as the dedupe key.
type Article struct {
	Title   string
	Link    string
	Content string
	Source  string
}

// PostDraft is the create-post payload understood by the content backend.
type PostDraft struct {
	Title      string
	Content    string
	Status     string
	Categories []int
}

// Post is the backend's view of a created post.
type Post struct {
	ID   int
	Link string
}

// PublishOutcome enumerates what happened to a single publish attempt.
type PublishOutcome string

const (
	OutcomePublished PublishOutcome = "published"
	OutcomeDuplicate PublishOutcome = "duplicate"
	OutcomeRejected  PublishOutcome = "rejected"
	OutcomeFailed    PublishOutcome = "failed"
)

// TickReport summarizes one scheduled pipeline pass.
type TickReport struct {
	Fetched    int
	Fresh      int
	Selected   int
	Published  int
	Duplicates int
	Rejected   int
	Failed     int
}

// Count folds a publish outcome into the report.
func (r *TickReport) Count(outcome PublishOutcome) {
	switch outcome {
	case OutcomePublished:
		r.Published++
	case OutcomeDuplicate:
		r.Duplicates++
	case OutcomeRejected:
		r.Rejected++
	case OutcomeFailed:
		r.Failed++
	}
}

package constant

type SelectionStatus string

const (
	StatusSubmitted SelectionStatus = "submitted"
	StatusAssigned  SelectionStatus = "assigned"
	StatusToDiscuss SelectionStatus = "to_discuss"
	StatusCandidate SelectionStatus = "candidate"
	StatusAwarded   SelectionStatus = "awarded"
	StatusRefused   SelectionStatus = "refused"
	StatusSelected  SelectionStatus = "selected"
	StatusFinalist  SelectionStatus = "finalist"
)

var SelectionStatuses = []SelectionStatus{
	StatusSubmitted,
	StatusAssigned,
	StatusToDiscuss,
	StatusCandidate,
	StatusAwarded,
	StatusRefused,
	StatusSelected,
	StatusFinalist,
}

func (s SelectionStatus) IsValid() bool {
	for _, st := range SelectionStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s SelectionStatus) String() string {
	return string(s)
}

const (
	// Producer facing cap for a submitted film, in seconds.
	MaxMovieDurationSeconds = 120
)

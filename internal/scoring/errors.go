package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// CandidateError ties a validation failure to the candidate that caused it.
type CandidateError struct {
	ID  string
	Err error
}

func (e CandidateError) Error() string {
	return fmt.Sprintf("candidate %s: %v", e.ID, e.Err)
}

func (e CandidateError) Unwrap() error { return e.Err }

// Fields returns the field-level problems of this candidate, if any.
func (e CandidateError) Fields() ValidationErrors {
	var ve ValidationErrors
	if errors.As(e.Err, &ve) {
		return ve
	}
	return nil
}

// RankErrors lists every candidate rejected during ranking.
type RankErrors []CandidateError

func (e RankErrors) Error() string {
	parts := make([]string, len(e))
	for i, c := range e {
		parts[i] = c.Error()
	}
	return strings.Join(parts, "; ")
}

package models

// AdvisoryResult is the non-binding outcome of a DOI duplicate check.
// IsDuplicate is nil when the check was skipped or the classifier was
// unavailable; a true value warns but never blocks submission.
type AdvisoryResult struct {
	IsDuplicate *bool  `json:"isDuplicate"`
	Message     string `json:"message"`
}

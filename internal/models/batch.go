package models

// BatchFailure names one target a bulk action could not apply to.
type BatchFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult reports the outcome of a bulk action. Every target is
// attempted; a mid-batch failure never stops the remaining targets,
// so callers can report partial success accurately.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// AllSucceeded reports whether no target failed.
func (r BatchResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}

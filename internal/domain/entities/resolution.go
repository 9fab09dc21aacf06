package entities

// UnresolvedBucket is the default aggregation bucket for values that did not
// resolve to exactly one canonical entity.
const UnresolvedBucket = "[Unresolved]"

// ResolutionStatus is the outcome of resolving a raw value.
type ResolutionStatus string

const (
	StatusResolved   ResolutionStatus = "resolved"
	StatusUnresolved ResolutionStatus = "unresolved"
	StatusAmbiguous  ResolutionStatus = "ambiguous"
)

// Collision lists every canonical that matched the same raw input.
type Collision struct {
	Input      string   `json:"input"`
	Candidates []string `json:"candidates"`
}

// ResolverResult describes how a raw value resolved.
//
// Status resolved guarantees Canonical names an existing, enabled entity.
// Status ambiguous guarantees Collision holds at least two candidates; in
// that case Canonical is the trimmed input, never a guessed candidate.
type ResolverResult struct {
	Status    ResolutionStatus `json:"status"`
	Canonical string           `json:"canonical"`
	Raw       string           `json:"raw"`
	Collision *Collision       `json:"collision,omitempty"`
}

// IsResolved reports whether the result maps to exactly one canonical.
func (r ResolverResult) IsResolved() bool { return r.Status == StatusResolved }

// IsAmbiguous reports whether several canonicals matched.
func (r ResolverResult) IsAmbiguous() bool { return r.Status == StatusAmbiguous }

// Candidates returns the collision candidates, or nil.
func (r ResolverResult) Candidates() []string {
	if r.Collision == nil {
		return nil
	}
	return r.Collision.Candidates
}

// ProvisionalCanonical returns the first collision candidate of an ambiguous
// result. It is the working name some reports use while a reviewer has not
// yet picked the right entity. ok is false for non-ambiguous results.
func (r ResolverResult) ProvisionalCanonical() (string, bool) {
	if r.Status != StatusAmbiguous || r.Collision == nil || len(r.Collision.Candidates) == 0 {
		return "", false
	}
	return r.Collision.Candidates[0], true
}

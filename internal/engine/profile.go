package engine

// CandidateProfile holds everything derived from the resume text. It is
// built once per ranking request and never mutated afterwards.
type CandidateProfile struct {
	Text       string
	Skills     SkillSet
	Years      int
	YearsKnown bool
	Education  EducationLevel

	// Embedding is nil when the provider was unavailable for the candidate
	// text; the ranking then falls back to skill/experience/education-only
	// scoring.
	Embedding []float64
}

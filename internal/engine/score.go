package engine

import (
	"fmt"
	"math"

	"github.com/akhmetov/cv-matcher/internal/catalog"
)

// Weights are the fixed component weights of the composite score. Semantic
// similarity carries the most weight because it captures latent fit that
// keyword matching misses; skill overlap comes second because it is the most
// interpretable signal for the end user.
type Weights struct {
	Similarity float64
	Skills     float64
	Experience float64
	Education  float64
}

func DefaultWeights() Weights {
	return Weights{
		Similarity: 0.40,
		Skills:     0.35,
		Experience: 0.15,
		Education:  0.10,
	}
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"similarity": w.Similarity,
		"skills":     w.Skills,
		"experience": w.Experience,
		"education":  w.Education,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be a non-negative number", name)
		}
	}
	if w.Similarity+w.Skills+w.Experience+w.Education <= 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

// MatchResult is the scored outcome for one job. Component scores are nil
// when the component was excluded from the weighted sum; the weights of
// excluded components are redistributed proportionally among the present
// ones, never silently dropped.
type MatchResult struct {
	JobID    string `json:"job_id"`
	JobTitle string `json:"job_title,omitempty"`
	Company  string `json:"company,omitempty"`

	Score float64 `json:"score"`

	Similarity    *float64 `json:"similarity,omitempty"`
	SkillRatio    *float64 `json:"skill_ratio,omitempty"`
	ExperienceFit *float64 `json:"experience_fit,omitempty"`
	EducationFit  *float64 `json:"education_fit,omitempty"`

	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Reasons       []string `json:"reasons,omitempty"`
}

// Scorer combines similarity, skill overlap, experience fit and education
// fit into one [0,1] score. Purely functional given its inputs.
type Scorer struct {
	weights   Weights
	extractor *SkillExtractor
}

func NewScorer(weights Weights, extractor *SkillExtractor) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if extractor == nil {
		extractor = NewSkillExtractor(nil)
	}
	return &Scorer{weights: weights, extractor: extractor}, nil
}

// Score evaluates one job against the candidate profile. jobEmbedding may be
// nil, in which case the similarity component is excluded. A dimension
// mismatch between the candidate and job embeddings is returned as an error;
// it is fatal for this job only.
func (s *Scorer) Score(profile *CandidateProfile, job *catalog.JobPosting, jobEmbedding []float64) (*MatchResult, error) {
	result := &MatchResult{
		JobID:         job.ID,
		JobTitle:      job.Title,
		Company:       job.Company,
		MatchedSkills: []string{},
		MissingSkills: []string{},
	}

	if profile.Embedding != nil && jobEmbedding != nil {
		similarity, err := Similarity(profile.Embedding, jobEmbedding)
		if err != nil {
			return nil, err
		}
		result.Similarity = &similarity
		result.Reasons = append(result.Reasons, fmt.Sprintf("Semantic similarity: %s", percent(similarity)))
	}

	s.scoreSkills(profile, job, result)
	s.scoreExperience(profile, job, result)
	s.scoreEducation(profile, job, result)

	result.Score = s.combine(result)

	return result, nil
}

// scoreSkills partitions the job's declared requirements into matched and
// missing sets. The sets are always reported, even when the job declares no
// requirements and the component is excluded from scoring.
func (s *Scorer) scoreSkills(profile *CandidateProfile, job *catalog.JobPosting, result *MatchResult) {
	if len(job.RequiredSkills) == 0 {
		return
	}

	for _, raw := range job.RequiredSkills {
		if profile.Skills.Has(s.extractor.Canonical(raw)) {
			result.MatchedSkills = append(result.MatchedSkills, raw)
		} else {
			result.MissingSkills = append(result.MissingSkills, raw)
		}
	}

	ratio := float64(len(result.MatchedSkills)) / float64(len(job.RequiredSkills))

	// Preferred skills give a small bonus on top of the required ratio.
	if len(job.PreferredSkills) > 0 {
		preferredMatched := 0
		for _, raw := range job.PreferredSkills {
			if profile.Skills.Has(s.extractor.Canonical(raw)) {
				preferredMatched++
			}
		}
		ratio += float64(preferredMatched) / float64(len(job.PreferredSkills)) * 0.1
		ratio = math.Min(ratio, 1.0)
	}

	result.SkillRatio = &ratio
	result.Reasons = append(result.Reasons, fmt.Sprintf("Skill match: %s (%d of %d required skills)",
		percent(ratio), len(result.MatchedSkills), len(job.RequiredSkills)))
}

func (s *Scorer) scoreExperience(profile *CandidateProfile, job *catalog.JobPosting, result *MatchResult) {
	// Unknown experience must never silently help or hurt: the component is
	// excluded rather than defaulted to zero.
	if !profile.YearsKnown {
		return
	}

	fit := 1.0
	switch {
	case job.RequiredYears <= 0 || profile.Years >= job.RequiredYears:
		result.Reasons = append(result.Reasons, "Experience: meets requirement")
	default:
		fit = float64(profile.Years) / float64(job.RequiredYears)
		result.Reasons = append(result.Reasons, fmt.Sprintf("Experience: %d of %d required years",
			profile.Years, job.RequiredYears))
	}

	result.ExperienceFit = &fit
}

func (s *Scorer) scoreEducation(profile *CandidateProfile, job *catalog.JobPosting, result *MatchResult) {
	required := ParseEducationLevel(job.RequiredEducation)
	if required == EducationNone || profile.Education == EducationNone {
		return
	}

	fit := 1.0
	if profile.Education >= required {
		result.Reasons = append(result.Reasons, "Education: meets requirement")
	} else {
		distance := float64(required - profile.Education)
		fit = math.Max(0, 1-distance/float64(EducationDoctorate))
		result.Reasons = append(result.Reasons, fmt.Sprintf("Education: %s vs required %s",
			profile.Education, required))
	}

	result.EducationFit = &fit
}

// combine computes the weighted sum of present components, renormalized so
// the weights of excluded components are redistributed proportionally.
func (s *Scorer) combine(result *MatchResult) float64 {
	var sum, weightSum float64

	add := func(value *float64, weight float64) {
		if value == nil || weight <= 0 {
			return
		}
		sum += *value * weight
		weightSum += weight
	}

	add(result.Similarity, s.weights.Similarity)
	add(result.SkillRatio, s.weights.Skills)
	add(result.ExperienceFit, s.weights.Experience)
	add(result.EducationFit, s.weights.Education)

	if weightSum == 0 {
		return 0
	}

	return math.Max(0, math.Min(1, sum/weightSum))
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/akhmetov/cv-matcher/internal/catalog"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()

	scorer, err := NewScorer(DefaultWeights(), nil)
	if err != nil {
		t.Fatalf("creating scorer: %v", err)
	}
	return scorer
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewScorerRejectsBadWeights(t *testing.T) {
	t.Parallel()

	if _, err := NewScorer(Weights{Similarity: -0.1, Skills: 0.5}, nil); err == nil {
		t.Fatal("expected an error for a negative weight")
	}
	if _, err := NewScorer(Weights{}, nil); err == nil {
		t.Fatal("expected an error when all weights are zero")
	}
}

func TestScorePartitionsSkills(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)
	profile := &CandidateProfile{
		Skills: SkillSet{"Python": {}, "Azure": {}, "Docker": {}},
	}
	job := &catalog.JobPosting{
		ID:             "job-1",
		RequiredSkills: []string{"Python", "FastAPI", "Docker"},
	}

	result, err := scorer.Score(profile, job, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(result.MatchedSkills, []string{"Python", "Docker"}) {
		t.Fatalf("unexpected matched skills: %v", result.MatchedSkills)
	}
	if !reflect.DeepEqual(result.MissingSkills, []string{"FastAPI"}) {
		t.Fatalf("unexpected missing skills: %v", result.MissingSkills)
	}
	if result.SkillRatio == nil || !almostEqual(*result.SkillRatio, 2.0/3.0) {
		t.Fatalf("expected skill ratio 2/3, got %v", result.SkillRatio)
	}

	// Skills is the only present component, so the composite score equals it.
	if !almostEqual(result.Score, 2.0/3.0) {
		t.Fatalf("expected score 2/3, got %v", result.Score)
	}
}

func TestScoreMatchesSkillsBySynonym(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)
	profile := &CandidateProfile{Skills: SkillSet{"Kubernetes": {}}}
	job := &catalog.JobPosting{ID: "job-1", RequiredSkills: []string{"k8s"}}

	result, err := scorer.Score(profile, job, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The job's own spelling is reported back, not the canonical form.
	if !reflect.DeepEqual(result.MatchedSkills, []string{"k8s"}) {
		t.Fatalf("unexpected matched skills: %v", result.MatchedSkills)
	}
}

func TestScorePreferredSkillsBonus(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)
	profile := &CandidateProfile{Skills: SkillSet{"Python": {}, "Docker": {}}}

	full := &catalog.JobPosting{
		ID:              "job-1",
		RequiredSkills:  []string{"Python"},
		PreferredSkills: []string{"Docker", "FastAPI"},
	}
	result, err := scorer.Score(profile, full, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1.0 required ratio + 0.5 * 0.1 preferred bonus, capped at 1.0.
	if result.SkillRatio == nil || !almostEqual(*result.SkillRatio, 1.0) {
		t.Fatalf("expected capped skill ratio 1.0, got %v", result.SkillRatio)
	}

	partial := &catalog.JobPosting{
		ID:              "job-2",
		RequiredSkills:  []string{"FastAPI"},
		PreferredSkills: []string{"Docker"},
	}
	result, err = scorer.Score(profile, partial, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SkillRatio == nil || !almostEqual(*result.SkillRatio, 0.1) {
		t.Fatalf("expected skill ratio 0.1 from the preferred bonus, got %v", result.SkillRatio)
	}
}

func TestScoreExperienceFit(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)

	tests := []struct {
		name     string
		years    int
		known    bool
		required int
		expect   float64
		excluded bool
	}{
		{"meets requirement", 7, true, 5, 1.0, false},
		{"exact requirement", 5, true, 5, 1.0, false},
		{"partial fit", 4, true, 5, 0.8, false},
		{"well below requirement", 3, true, 5, 0.6, false},
		{"no requirement declared", 2, true, 0, 1.0, false},
		{"unknown experience is excluded", 0, false, 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profile := &CandidateProfile{Years: tt.years, YearsKnown: tt.known}
			job := &catalog.JobPosting{ID: "job-1", RequiredYears: tt.required}

			result, err := scorer.Score(profile, job, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.excluded {
				if result.ExperienceFit != nil {
					t.Fatalf("expected excluded experience component, got %v", *result.ExperienceFit)
				}
				return
			}
			if result.ExperienceFit == nil {
				t.Fatal("expected experience component to be present")
			}
			if !almostEqual(*result.ExperienceFit, tt.expect) {
				t.Fatalf("expected experience fit %v, got %v", tt.expect, *result.ExperienceFit)
			}
			if tt.expect > 0 && tt.expect < 1 && (*result.ExperienceFit <= 0 || *result.ExperienceFit >= 1) {
				t.Fatalf("partial fit must be strictly between 0 and 1, got %v", *result.ExperienceFit)
			}
		})
	}
}

func TestScoreEducationFit(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)

	tests := []struct {
		name      string
		candidate EducationLevel
		required  string
		expect    float64
		excluded  bool
	}{
		{"meets requirement", EducationMaster, "bachelor", 1.0, false},
		{"exceeds requirement", EducationDoctorate, "master", 1.0, false},
		{"one level short", EducationBachelor, "master", 1.0 - 1.0/3.0, false},
		{"two levels short", EducationBachelor, "doctorate", 1.0 - 2.0/3.0, false},
		{"no requirement", EducationMaster, "", 0, true},
		{"candidate level unknown", EducationNone, "master", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profile := &CandidateProfile{Education: tt.candidate}
			job := &catalog.JobPosting{ID: "job-1", RequiredEducation: tt.required}

			result, err := scorer.Score(profile, job, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.excluded {
				if result.EducationFit != nil {
					t.Fatalf("expected excluded education component, got %v", *result.EducationFit)
				}
				return
			}
			if result.EducationFit == nil {
				t.Fatal("expected education component to be present")
			}
			if !almostEqual(*result.EducationFit, tt.expect) {
				t.Fatalf("expected education fit %v, got %v", tt.expect, *result.EducationFit)
			}
		})
	}
}

func TestScoreCombinesAllComponents(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)
	profile := &CandidateProfile{
		Skills:     SkillSet{"Python": {}},
		Years:      4,
		YearsKnown: true,
		Education:  EducationMaster,
		Embedding:  []float64{1, 0},
	}
	job := &catalog.JobPosting{
		ID:                "job-1",
		RequiredSkills:    []string{"Python"},
		RequiredYears:     5,
		RequiredEducation: "bachelor",
	}

	// Orthogonal embeddings rescale to 0.5.
	result, err := scorer.Score(profile, job, []float64{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := 0.40*0.5 + 0.35*1.0 + 0.15*0.8 + 0.10*1.0
	if !almostEqual(result.Score, expect) {
		t.Fatalf("expected score %v, got %v", expect, result.Score)
	}
}

func TestScoreRedistributesExcludedWeights(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)
	profile := &CandidateProfile{
		Skills:     SkillSet{"Python": {}},
		Years:      4,
		YearsKnown: true,
		Education:  EducationMaster,
	}
	job := &catalog.JobPosting{
		ID:                "job-1",
		RequiredSkills:    []string{"Python"},
		RequiredYears:     5,
		RequiredEducation: "bachelor",
	}

	// No embeddings: the similarity weight is redistributed among the
	// remaining components instead of dragging the score down.
	result, err := scorer.Score(profile, job, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Similarity != nil {
		t.Fatalf("expected excluded similarity component, got %v", *result.Similarity)
	}

	expect := (0.35*1.0 + 0.15*0.8 + 0.10*1.0) / 0.60
	if !almostEqual(result.Score, expect) {
		t.Fatalf("expected score %v, got %v", expect, result.Score)
	}
}

func TestScoreWithNoComponents(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)

	result, err := scorer.Score(&CandidateProfile{}, &catalog.JobPosting{ID: "job-1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 0 {
		t.Fatalf("expected zero score with no components, got %v", result.Score)
	}
	if result.Similarity != nil || result.SkillRatio != nil || result.ExperienceFit != nil || result.EducationFit != nil {
		t.Fatalf("expected all components excluded: %+v", result)
	}
	if result.MatchedSkills == nil || result.MissingSkills == nil {
		t.Fatal("skill lists must be present even when empty")
	}
}

func TestScoreReportsDimensionMismatch(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)
	profile := &CandidateProfile{Embedding: []float64{1, 0, 0}}

	_, err := scorer.Score(profile, &catalog.JobPosting{ID: "job-1"}, []float64{1, 0})
	if err == nil {
		t.Fatal("expected an error for mismatched embedding dimensions")
	}

	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DimensionMismatchError, got %T: %v", err, err)
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer(t)
	profiles := []*CandidateProfile{
		{},
		{Skills: SkillSet{"Python": {}, "Go": {}}, Years: 10, YearsKnown: true, Education: EducationDoctorate, Embedding: []float64{1, 1}},
		{Years: 1, YearsKnown: true, Embedding: []float64{-1, 0}},
	}
	jobs := []*catalog.JobPosting{
		{ID: "a"},
		{ID: "b", RequiredSkills: []string{"Python", "Rust"}, RequiredYears: 8, RequiredEducation: "phd"},
		{ID: "c", PreferredSkills: []string{"Go"}},
	}

	for _, profile := range profiles {
		for _, job := range jobs {
			var jobEmbedding []float64
			if profile.Embedding != nil {
				jobEmbedding = []float64{1, 0}
			}
			result, err := scorer.Score(profile, job, jobEmbedding)
			if err != nil {
				t.Fatalf("unexpected error for job %s: %v", job.ID, err)
			}
			if result.Score < 0 || result.Score > 1 {
				t.Fatalf("score out of range for job %s: %v", job.ID, result.Score)
			}
		}
	}
}

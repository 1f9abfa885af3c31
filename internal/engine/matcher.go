package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/akhmetov/cv-matcher/internal/catalog"
	"github.com/akhmetov/cv-matcher/internal/embedding"
)

const defaultConcurrency = 4

// Config carries the explicit engine configuration. Weights and vocabulary
// are passed in at construction so tests can substitute alternates without
// process-wide side effects.
type Config struct {
	Weights    Weights
	Vocabulary Vocabulary
	// Concurrency bounds parallel embedding calls within one ranking
	// request. Zero means the default.
	Concurrency int
}

// Matcher orchestrates profile derivation, embedding lookups and scoring
// into a ranked result list. Stateless per call; the embedding cache is the
// only shared mutable resource.
type Matcher struct {
	provider    embedding.Provider
	cache       *embedding.Cache
	scorer      *Scorer
	extractor   *SkillExtractor
	concurrency int
	logger      *zap.Logger
}

// SkippedJob records a job excluded from the results and why.
type SkippedJob struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// Ranking is the outcome of one Rank call.
type Ranking struct {
	Matches []*MatchResult `json:"matches"`
	Skipped []SkippedJob   `json:"skipped,omitempty"`
}

func NewMatcher(provider embedding.Provider, cache *embedding.Cache, cfg Config, logger *zap.Logger) (*Matcher, error) {
	if provider == nil {
		return nil, errors.New("embedding provider is required")
	}
	if cache == nil {
		cache = embedding.NewCache(provider, logger, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	extractor := NewSkillExtractor(cfg.Vocabulary)

	weights := cfg.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}

	scorer, err := NewScorer(weights, extractor)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Matcher{
		provider:    provider,
		cache:       cache,
		scorer:      scorer,
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Profile derives the candidate attributes from resume text. The embedding
// is left nil when the provider fails; ranking then proceeds without the
// similarity component.
func (m *Matcher) Profile(ctx context.Context, text string) (*CandidateProfile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("candidate text is required")
	}

	profile := &CandidateProfile{
		Text:      text,
		Skills:    m.extractor.Extract(text),
		Education: DetectEducation(text),
	}
	profile.Years, profile.YearsKnown = EstimateYears(text)

	vector, err := m.provider.Embed(ctx, text)
	if err != nil {
		m.logger.Warn("could not embed candidate text, ranking without semantic similarity",
			zap.Error(err),
		)
	} else {
		profile.Embedding = vector
	}

	return profile, nil
}

// Rank scores every active job in the snapshot against the candidate text
// and returns the results sorted by score descending, ties broken by job ID
// ascending. topN <= 0 returns all results. An empty catalog is a valid,
// empty outcome.
func (m *Matcher) Rank(ctx context.Context, candidateText string, jobs *catalog.Jobs, topN int) (*Ranking, error) {
	profile, err := m.Profile(ctx, candidateText)
	if err != nil {
		return nil, err
	}

	ranking := &Ranking{Matches: []*MatchResult{}}
	if jobs.Len() == 0 {
		return ranking, nil
	}

	candidates := make([]*catalog.JobPosting, 0, jobs.Len())
	for _, job := range jobs.Items {
		if err := job.Validate(); err != nil {
			ranking.Skipped = append(ranking.Skipped, skippedFrom(job, err))
			continue
		}
		if !job.IsActive() {
			continue
		}
		candidates = append(candidates, job)
	}

	type outcome struct {
		match   *MatchResult
		skipped *SkippedJob
	}
	outcomes := make([]outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, job := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			match, skipped := m.scoreJob(gctx, profile, job)
			outcomes[i] = outcome{match: match, skipped: skipped}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking aborted: %w", err)
	}

	for _, o := range outcomes {
		if o.skipped != nil {
			ranking.Skipped = append(ranking.Skipped, *o.skipped)
			continue
		}
		if o.match != nil {
			ranking.Matches = append(ranking.Matches, o.match)
		}
	}

	sort.SliceStable(ranking.Matches, func(i, j int) bool {
		a, b := ranking.Matches[i], ranking.Matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.JobID < b.JobID
	})

	if topN > 0 && len(ranking.Matches) > topN {
		ranking.Matches = ranking.Matches[:topN]
	}

	m.logger.Info("ranking completed",
		zap.Int("jobs", jobs.Len()),
		zap.Int("matches", len(ranking.Matches)),
		zap.Int("skipped", len(ranking.Skipped)),
	)

	return ranking, nil
}

// scoreJob computes the job's match result, degrading to a similarity-free
// score when the provider fails for this job. Only a dimension mismatch
// skips the job entirely.
func (m *Matcher) scoreJob(ctx context.Context, profile *CandidateProfile, job *catalog.JobPosting) (*MatchResult, *SkippedJob) {
	var jobEmbedding []float64

	if profile.Embedding != nil {
		vector, err := m.cache.GetOrCompute(ctx, job.ID, job.Fingerprint(), job.EmbeddingText())
		if err != nil {
			m.logger.Warn("could not embed job, scoring without semantic similarity",
				zap.String("job_id", job.ID),
				zap.Error(err),
			)
		} else {
			jobEmbedding = vector
		}
	}

	match, err := m.scorer.Score(profile, job, jobEmbedding)
	if err != nil {
		var mismatch *DimensionMismatchError
		if errors.As(err, &mismatch) {
			m.logger.Warn("embedding dimensions do not agree, job excluded from ranking",
				zap.String("job_id", job.ID),
				zap.Error(err),
			)
			s := skippedFrom(job, err)
			return nil, &s
		}

		s := skippedFrom(job, err)
		return nil, &s
	}

	return match, nil
}

// DumpToTmpFile writes the ranking to a temporary JSON file and returns its
// name.
func (r *Ranking) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func skippedFrom(job *catalog.JobPosting, err error) SkippedJob {
	skipped := SkippedJob{Reason: err.Error()}
	if job != nil {
		skipped.ID = job.ID
		skipped.Title = job.Title
	}
	return skipped
}

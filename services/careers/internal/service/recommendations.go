package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"abletech/common/cache"
	"abletech/common/errors"
	"abletech/common/events"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/prefs"
	"abletech/services/careers/internal/recommend"
	"abletech/services/careers/internal/store"

	"go.uber.org/zap"
)

const (
	DefaultJobRecommendations  = 3
	DefaultTechRecommendations = 4

	kindJobs = "jobs"
	kindTech = "tech"
)

type ScoredJob struct {
	models.Job
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
}

type JobRecommendations struct {
	Items        []ScoredJob `json:"items"`
	Personalized bool        `json:"personalized"`
}

type ScoredTech struct {
	models.AssistiveTechItem
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
}

type TechRecommendations struct {
	Items        []ScoredTech `json:"items"`
	Personalized bool         `json:"personalized"`
}

// RecommendationService ranks jobs and assistive technology for a user.
// Results are cached per kind and user. Cache keys embed two generations,
// one per kind and one per user, so bumping either makes older entries
// unreachable.
type RecommendationService struct {
	store      *store.Store
	disability *prefs.Repository[models.DisabilityInfo]
	cache      cache.Cache
	ttl        time.Duration
	publisher  events.Publisher
	logger     *zap.Logger
	jobs       *recommend.Engine
	tech       *recommend.Engine
	now        func() time.Time
}

func NewRecommendationService(
	logger *zap.Logger,
	s *store.Store,
	disability *prefs.Repository[models.DisabilityInfo],
	c cache.Cache,
	ttl time.Duration,
	publisher events.Publisher,
) *RecommendationService {
	r := &RecommendationService{
		store:      s,
		disability: disability,
		cache:      c,
		ttl:        ttl,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
	clock := func() time.Time { return r.now() }
	r.jobs = recommend.New(recommend.JobTable, clock)
	r.tech = recommend.New(recommend.AssistiveTechTable, clock)
	return r
}

func (r *RecommendationService) Jobs(ctx context.Context, email string, limit int) (*JobRecommendations, error) {
	ctx, span := tracer.Start(ctx, "RecommendationService.Jobs")
	defer span.End()

	email, err := recommendationEmail(email)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultJobRecommendations
	}
	span.SetAttributes(telemetry.String("user.email", email), telemetry.Int("limit", limit))

	key := r.cacheKey(ctx, kindJobs, email, limit)
	var cached JobRecommendations
	if r.fromCache(ctx, key, &cached) {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return &cached, nil
	}

	profile, err := r.profile(ctx, email)
	if err != nil {
		return nil, fail(span, err)
	}
	jobs, err := r.store.ListJobs(ctx, store.JobQuery{Statuses: []models.JobStatus{models.JobStatusActive}})
	if err != nil {
		return nil, fail(span, storeError(err, "jobs"))
	}

	byID := make(map[string]models.Job, len(jobs))
	candidates := make([]recommend.Candidate, len(jobs))
	for i, j := range jobs {
		byID[j.ID] = j
		candidates[i] = recommend.FromJob(j)
	}

	result := r.jobs.Recommend(profile, candidates, limit)
	out := &JobRecommendations{Items: make([]ScoredJob, 0, len(result.Items)), Personalized: result.Personalized}
	for _, s := range result.Items {
		out.Items = append(out.Items, ScoredJob{Job: byID[s.ID], Score: s.Score, MatchedKeywords: s.MatchedKeywords})
	}

	r.toCache(ctx, key, out)
	span.SetAttributes(telemetry.Int("results", len(out.Items)), telemetry.Bool("personalized", out.Personalized))
	return out, nil
}

func (r *RecommendationService) Tech(ctx context.Context, email string, limit int) (*TechRecommendations, error) {
	ctx, span := tracer.Start(ctx, "RecommendationService.Tech")
	defer span.End()

	email, err := recommendationEmail(email)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTechRecommendations
	}

	key := r.cacheKey(ctx, kindTech, email, limit)
	var cached TechRecommendations
	if r.fromCache(ctx, key, &cached) {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		return &cached, nil
	}

	profile, err := r.profile(ctx, email)
	if err != nil {
		return nil, fail(span, err)
	}
	// Skills describe jobs, not assistive technology.
	profile.Skills = nil

	items, err := r.store.ListAssistiveTech(ctx, "")
	if err != nil {
		return nil, fail(span, storeError(err, "assistive technology"))
	}

	byID := make(map[string]models.AssistiveTechItem, len(items))
	candidates := make([]recommend.Candidate, len(items))
	for i, t := range items {
		byID[t.ID] = t
		candidates[i] = recommend.FromAssistiveTech(t)
	}

	result := r.tech.Recommend(profile, candidates, limit)
	out := &TechRecommendations{Items: make([]ScoredTech, 0, len(result.Items)), Personalized: result.Personalized}
	for _, s := range result.Items {
		out.Items = append(out.Items, ScoredTech{AssistiveTechItem: byID[s.ID], Score: s.Score, MatchedKeywords: s.MatchedKeywords})
	}

	r.toCache(ctx, key, out)
	return out, nil
}

// MatchingSeekers returns the emails of seekers with a personalised profile
// for whom job scores above zero.
func (r *RecommendationService) MatchingSeekers(ctx context.Context, job models.Job) ([]string, error) {
	ctx, span := tracer.Start(ctx, "RecommendationService.MatchingSeekers")
	defer span.End()

	seekers, err := r.store.ListProfiles(ctx, models.RoleSeeker)
	if err != nil {
		return nil, fail(span, storeError(err, "profiles"))
	}

	candidate := recommend.FromJob(job)
	var matches []string
	for _, p := range seekers {
		info, _, err := r.disability.Get(ctx, p.Email)
		if err != nil {
			r.logger.Warn("failed to read disability info", zap.String("email", p.Email), zap.Error(err))
			continue
		}
		profile := recommend.ProfileFrom(info, p.Skills)
		if !profile.Personalized() {
			continue
		}
		if r.jobs.Score(profile, candidate).Score > 0 {
			matches = append(matches, p.Email)
		}
	}
	span.SetAttributes(telemetry.Int("matches", len(matches)))
	return matches, nil
}

// RecordInteraction publishes a user's reaction to a recommended item.
func (r *RecommendationService) RecordInteraction(ctx context.Context, in models.Interaction) error {
	ctx, span := tracer.Start(ctx, "RecommendationService.RecordInteraction")
	defer span.End()

	in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	e := events.New(events.RecommendationInteraction, in.Email)
	e.ItemID = in.ItemID
	e.ItemType = in.ItemType
	e.Action = in.Action
	if in.ItemType == models.ItemTypeJob {
		e.JobID = in.ItemID
	}
	if err := r.publisher.Publish(ctx, e); err != nil {
		return fail(span, errors.Unavailable("failed to record interaction", err))
	}
	return nil
}

// InvalidateUser drops every cached recommendation for email.
func (r *RecommendationService) InvalidateUser(ctx context.Context, email string) {
	r.bump(ctx, userGenerationKey(strings.ToLower(strings.TrimSpace(email))))
}

func (r *RecommendationService) InvalidateJobs(ctx context.Context) {
	r.bump(ctx, kindGenerationKey(kindJobs))
}

func (r *RecommendationService) InvalidateTech(ctx context.Context) {
	r.bump(ctx, kindGenerationKey(kindTech))
}

func (r *RecommendationService) profile(ctx context.Context, email string) (recommend.Profile, error) {
	if email == "" {
		return recommend.Profile{}, nil
	}

	var skills []string
	p, err := r.store.GetProfile(ctx, email)
	switch {
	case err == nil:
		skills = p.Skills
	case !stderrors.Is(err, store.ErrNotFound):
		return recommend.Profile{}, storeError(err, "profile")
	}

	info, _, err := r.disability.Get(ctx, email)
	if err != nil {
		return recommend.Profile{}, errors.Internal("failed to read disability info", err)
	}
	return recommend.ProfileFrom(info, skills), nil
}

func (r *RecommendationService) cacheKey(ctx context.Context, kind, email string, limit int) string {
	return fmt.Sprintf("rec:%s:%s:%d:g%d:u%d", kind, email, limit,
		r.generation(ctx, kindGenerationKey(kind)),
		r.generation(ctx, userGenerationKey(email)))
}

func (r *RecommendationService) generation(ctx context.Context, key string) int64 {
	var gen int64
	if err := r.cache.Get(ctx, key, &gen); err != nil && !stderrors.Is(err, cache.ErrNotFound) {
		r.logger.Warn("cache error reading generation", zap.String("key", key), zap.Error(err))
	}
	return gen
}

// bump stores a fresh generation. Generations are timestamps, so an expired
// generation key never resurrects stale entries.
func (r *RecommendationService) bump(ctx context.Context, key string) {
	if err := r.cache.Set(ctx, key, r.now().UnixNano(), 30*24*time.Hour); err != nil {
		r.logger.Warn("failed to bump cache generation", zap.String("key", key), zap.Error(err))
	}
}

func (r *RecommendationService) fromCache(ctx context.Context, key string, value interface{}) bool {
	err := r.cache.Get(ctx, key, value)
	if err == nil {
		return true
	}
	if !stderrors.Is(err, cache.ErrNotFound) {
		r.logger.Warn("cache error", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (r *RecommendationService) toCache(ctx context.Context, key string, value interface{}) {
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		r.logger.Warn("failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}

func kindGenerationKey(kind string) string { return "rec:gen:kind:" + kind }

func userGenerationKey(email string) string { return "rec:gen:user:" + email }

func recommendationEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !models.ValidEmail(email) {
		return "", errors.InvalidInput("email is not a valid address", nil)
	}
	return email, nil
}

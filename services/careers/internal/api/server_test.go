package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"abletech/common/cache"
	"abletech/common/cache/memory"
	"abletech/common/events"
	"abletech/services/careers/internal/analytics"
	"abletech/services/careers/internal/chat"
	"abletech/services/careers/internal/config"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/prefs"
	"abletech/services/careers/internal/service"
	"abletech/services/careers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	*httptest.Server
	store *store.Store
}

func newTestServer(t *testing.T, upstream chat.Completer) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	c := memory.New(cache.Options{DefaultTTL: time.Minute})

	pub := events.NopPublisher{}
	disability := prefs.NewDisabilityInfo(prefs.StoreBackend{Store: s})
	notifications := service.NewNotificationService(logger, s)
	recs := service.NewRecommendationService(logger, s, disability, c, time.Minute, pub)
	applications := service.NewApplicationService(logger, s, pub, notifications)
	require.NoError(t, applications.EnsureDefaultTemplates(ctx))

	svc := Services{
		Store:           s,
		Jobs:            service.NewJobService(logger, s, pub, notifications, recs),
		Applications:    applications,
		Recommendations: recs,
		Catalog:         service.NewCatalogService(logger, s, recs),
		Community:       service.NewCommunityService(logger, s, pub),
		Notifications:   notifications,
		Profiles:        service.NewProfileService(logger, s, disability, recs, notifications),
		Analytics:       service.NewAnalyticsService(s, analytics.NewReader(logger, nil)),
		Chat:            chat.NewService(logger, upstream, chat.NewLimiter(0, 0)),
	}
	srv := httptest.NewServer(NewServer(logger, &config.Config{Port: "0", AllowedOrigins: []string{"*"}}, svc))
	t.Cleanup(func() {
		srv.Close()
		_ = c.Close()
		_ = s.Close()
	})
	return &testServer{Server: srv, store: s}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (ts *testServer) createJob(t *testing.T, title, city string) models.Job {
	t.Helper()
	var job models.Job
	status := ts.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"title":          title,
		"department":     "Engineering",
		"category":       "Software Development",
		"location":       city,
		"description":    "Remote friendly role.",
		"recruiterEmail": "hr@example.com",
	}, &job)
	require.Equal(t, http.StatusCreated, status)
	return job
}

type fakeCompleter struct {
	reply string
	err   error
}

func (f fakeCompleter) Complete(context.Context, []chat.Message) (string, error) {
	return f.reply, f.err
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	var body map[string]string
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestJobsEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	karachi := ts.createJob(t, "Backend Developer", "Karachi")
	ts.createJob(t, "Frontend Developer", "Lahore")

	var page service.JobPage
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/jobs?city=karachi", nil, &page))
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, karachi.ID, page.Jobs[0].ID)
	assert.Equal(t, 1, page.Total)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/jobs?status=Active,Closed&limit=1", nil, &page))
	assert.Equal(t, 2, page.Total)
	assert.True(t, page.HasMore)

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/jobs?status=open", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/jobs?limit=ten", nil, &errBody))

	var job models.Job
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/jobs/"+karachi.ID, nil, &job))
	assert.Equal(t, "Backend Developer", job.Title)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/jobs/missing", nil, &errBody))
	assert.Equal(t, "job not found", errBody.Message)

	var departments []service.Department
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/jobs/departments", nil, &departments))
	require.Len(t, departments, 1)
	assert.Equal(t, 2, departments[0].Count)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/api/jobs/"+karachi.ID, map[string]any{
		"title": "Staff Developer", "department": "Engineering", "location": "Karachi", "description": "x",
	}, &job))
	assert.Equal(t, "Staff Developer", job.Title)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/jobs/"+karachi.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/api/jobs/"+karachi.ID, nil, &errBody))
}

func TestCreateJobValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	var errBody errorResponse
	status := ts.do(t, http.MethodPost, "/api/jobs", map[string]any{"department": "Engineering"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "title is required", errBody.Message)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/jobs", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	jobs, err := ts.store.ListJobs(context.Background(), store.JobQuery{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestApplicationFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t, "Analyst", "Karachi")

	var app models.Application
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/applications", map[string]any{
		"jobId": job.ID, "candidateName": "Ali", "candidateEmail": "ali@example.com",
	}, &app))
	assert.Equal(t, models.ApplicationPending, app.Status)

	var apps []models.Application
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/applications?jobId="+job.ID, nil, &apps))
	assert.Len(t, apps, 1)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/api/applications/"+app.ID+"/status", map[string]string{"status": "Rejected"}, &app))
	assert.Equal(t, models.ApplicationRejected, app.Status)

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/applications/"+app.ID+"/emails", map[string]string{"templateId": "rejection"}, &app))
	assert.Len(t, app.EmailHistory, 1)

	var templates []models.EmailTemplate
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/email-templates", nil, &templates))
	assert.Len(t, templates, 5)

	var count map[string]int
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/notifications/unread-count?userId=ali@example.com", nil, &count))
	assert.Equal(t, 1, count["count"])

	var notes []models.Notification
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/notifications?userId=ali@example.com&unreadOnly=true", nil, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, models.PriorityHigh, notes[0].Priority)

	var n models.Notification
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/api/notifications/"+notes[0].ID+"/read", nil, &n))
	assert.True(t, n.Read)

	var updated map[string]int
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/api/notifications/read-all?userId=hr@example.com", nil, &updated))
	assert.Equal(t, 1, updated["updated"])

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/notifications/"+notes[0].ID, nil, nil))
}

func TestCommunityEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	var post models.CommunityPost
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/community/posts", map[string]string{
		"author": "Ali", "authorEmail": "ali@example.com", "content": "Hello",
	}, &post))

	for _, want := range []int{1, 0} {
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/community/posts/"+post.ID+"/like", map[string]string{"email": "sara@example.com"}, &post))
		assert.Equal(t, want, post.Likes)
		assert.Len(t, post.LikedBy, want)
	}

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/community/posts/"+post.ID+"/comment", map[string]string{"author": "Sara", "content": "Hi"}, &post))
	assert.Len(t, post.Comments, 1)

	var errBody errorResponse
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodDelete, "/api/community/posts/"+post.ID+"?email=sara@example.com", nil, &errBody))
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/community/posts/"+post.ID+"?email=ali@example.com", nil, nil))

	var posts []models.CommunityPost
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/community/posts", nil, &posts))
	assert.Empty(t, posts)
}

func TestProfileAndRecommendationEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	job := ts.createJob(t, "Developer", "Karachi")

	var profile models.UserProfile
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/api/profiles/sam@example.com", map[string]any{"name": "Sam"}, &profile))
	assert.Equal(t, "sam@example.com", profile.Email)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/profiles/sam@example.com", nil, &profile))
	assert.Equal(t, "Sam", profile.Name)

	var info models.DisabilityInfo
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, "/api/profiles/sam@example.com/disability", map[string]any{
		"hasDisability": true, "disabilityCategories": []string{"Mobility impairment"},
	}, &info))
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/profiles/sam@example.com/disability", nil, &info))
	assert.Equal(t, []string{"Mobility impairment"}, info.DisabilityCategories)

	var recs service.JobRecommendations
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/recommendations/sam@example.com", nil, &recs))
	assert.True(t, recs.Personalized)
	require.Len(t, recs.Items, 1)
	assert.Equal(t, job.ID, recs.Items[0].ID)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/recommendations?email=", nil, &recs))
	assert.False(t, recs.Personalized)

	var tech service.TechRecommendations
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/assistive-tech/recommended?email=sam@example.com", nil, &tech))
	assert.Empty(t, tech.Items)

	assert.Equal(t, http.StatusAccepted, ts.do(t, http.MethodPost, "/api/recommendations/interaction", map[string]string{
		"email": "sam@example.com", "itemId": job.ID, "itemType": "job", "action": "click",
	}, nil))
	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/recommendations/interaction", map[string]string{
		"email": "sam@example.com", "itemId": job.ID, "itemType": "job", "action": "share",
	}, &errBody))
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	var item models.AssistiveTechItem
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/assistive-tech", map[string]string{
		"title": "Screen magnifier", "category": "Visual Assistance",
	}, &item))

	var items []models.AssistiveTechItem
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/assistive-tech?category=visual%20assistance", nil, &items))
	assert.Len(t, items, 1)

	var sessions []models.MotivationalSession
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/motivational-sessions", nil, &sessions))
	assert.Empty(t, sessions)

	var programs []models.TrainingProgram
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/trainers/training-programs", nil, &programs))
	assert.Empty(t, programs)
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t, fakeCompleter{reply: "Try **NVDA**."})

	var reply chat.Reply
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/chatbot/chat", map[string]string{"message": "screen reader?", "userId": "u1"}, &reply))
	assert.False(t, reply.Fallback)
	assert.Equal(t, []chat.Segment{{Text: "Try "}, {Text: "NVDA", Bold: true}, {Text: "."}}, reply.Segments)

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/chatbot/chat", map[string]string{"message": " "}, &errBody))
}

func TestChatEndpointFallsBack(t *testing.T) {
	ts := newTestServer(t, nil)

	var reply chat.Reply
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/chatbot/chat", map[string]string{"message": "hi"}, &reply))
	assert.True(t, reply.Fallback)
	assert.Equal(t, chat.Apology, reply.Reply)
}

func TestAnalyticsEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.createJob(t, "Developer", "Karachi")

	var sum store.Summary
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/analytics/summary?recruiter=hr@example.com", nil, &sum))
	assert.Equal(t, 1, sum.TotalJobs)

	var errBody errorResponse
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/api/analytics/engagement?days=7", nil, &errBody))
	assert.Equal(t, "engagement analytics are not configured", errBody.Message)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/jobs", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

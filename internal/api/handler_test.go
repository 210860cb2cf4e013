package api_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/leettrack/backend/internal/api"
	"github.com/leettrack/backend/internal/recommend"
	"github.com/leettrack/backend/internal/service"
	"github.com/leettrack/backend/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	profiles := service.NewProfileService(s, recommend.DefaultWeights(), logger)
	h := api.NewHandler(api.Deps{
		Store:    s,
		Profiles: profiles,
		History:  service.NewHistoryService(s, logger),
		Stats:    service.NewStatsService(s, 10),
		Recommendations: service.NewRecommendationService(s, profiles, service.RecommendationOptions{
			RecentWindow:    10,
			PersistAdjusted: true,
			Seed:            42,
		}, logger),
		Limits: api.Limits{DefaultRecommendations: 5, MaxRecommendations: 20},
		Logger: logger,
	})

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, h)
	return api.Chain(mux, api.RequestID, api.Logging(logger), api.Metrics)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func createUser(t *testing.T, h http.Handler, email string) api.UserResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/users", api.CreateUserRequest{Email: email, DisplayName: "Ada"})
	expectStatus(t, rec, http.StatusCreated)
	return decode[api.UserResponse](t, rec)
}

func createQuestion(t *testing.T, h http.Handler, title, difficulty string, topics ...string) api.QuestionResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/questions", api.CreateQuestionRequest{
		Title:      title,
		Difficulty: difficulty,
		Topics:     topics,
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[api.QuestionResponse](t, rec)
}

func TestUsers(t *testing.T) {
	h := newTestServer(t)

	u := createUser(t, h, "ada@example.com")
	if u.ID == "" || u.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	expectStatus(t, do(t, h, http.MethodPost, "/users", api.CreateUserRequest{Email: "ada@example.com"}), http.StatusConflict)
	expectStatus(t, do(t, h, http.MethodPost, "/users", api.CreateUserRequest{Email: "not-an-email"}), http.StatusBadRequest)

	rec := do(t, h, http.MethodGet, "/users", nil)
	expectStatus(t, rec, http.StatusOK)
	if users := decode[[]api.UserResponse](t, rec); len(users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users))
	}

	profile := decode[api.ProfileResponse](t, do(t, h, http.MethodGet, "/users/"+u.ID+"/profile", nil))
	if profile.Weights[string(recommend.StrategyWeakArea)] != 0.4 {
		t.Errorf("new profile should start on default weights, got %v", profile.Weights)
	}

	expectStatus(t, do(t, h, http.MethodDelete, "/users/"+u.ID, nil), http.StatusNoContent)
	expectStatus(t, do(t, h, http.MethodGet, "/users/"+u.ID, nil), http.StatusNotFound)
}

func TestQuestions(t *testing.T) {
	h := newTestServer(t)

	twoSum := createQuestion(t, h, "Two Sum", "Easy", "Array", "hash-table")
	createQuestion(t, h, "Course Schedule", "medium", "graph")

	if twoSum.Slug != "two-sum" || twoSum.Difficulty != "easy" {
		t.Errorf("unexpected question: %+v", twoSum)
	}

	expectStatus(t, do(t, h, http.MethodPost, "/questions", api.CreateQuestionRequest{Title: "Two Sum", Difficulty: "easy"}), http.StatusConflict)
	expectStatus(t, do(t, h, http.MethodPost, "/questions", api.CreateQuestionRequest{Title: "X", Difficulty: "brutal"}), http.StatusBadRequest)
	expectStatus(t, do(t, h, http.MethodPost, "/questions", api.CreateQuestionRequest{Difficulty: "easy"}), http.StatusBadRequest)

	rec := do(t, h, http.MethodGet, "/questions?topic=graph", nil)
	expectStatus(t, rec, http.StatusOK)
	if qs := decode[[]api.QuestionResponse](t, rec); len(qs) != 1 || qs[0].Slug != "course-schedule" {
		t.Errorf("topic filter returned %+v", qs)
	}
	expectStatus(t, do(t, h, http.MethodGet, "/questions?difficulty=impossible", nil), http.StatusBadRequest)

	expectStatus(t, do(t, h, http.MethodDelete, "/questions/"+twoSum.ID, nil), http.StatusNoContent)
	expectStatus(t, do(t, h, http.MethodGet, "/questions/"+twoSum.ID, nil), http.StatusNotFound)
}

func TestSolves(t *testing.T) {
	h := newTestServer(t)
	u := createUser(t, h, "ada@example.com")
	q := createQuestion(t, h, "Two Sum", "easy", "array")

	path := "/users/" + u.ID + "/solves"
	expectStatus(t, do(t, h, http.MethodPost, path, api.RecordSolveRequest{QuestionID: "missing"}), http.StatusNotFound)
	expectStatus(t, do(t, h, http.MethodPost, path, api.RecordSolveRequest{QuestionID: q.ID, TimeSpentSeconds: -1}), http.StatusBadRequest)
	expectStatus(t, do(t, h, http.MethodPost, "/users/nobody/solves", api.RecordSolveRequest{QuestionID: q.ID}), http.StatusNotFound)

	rec := do(t, h, http.MethodPost, path, api.RecordSolveRequest{QuestionID: q.ID, Solved: true, TimeSpentSeconds: 600})
	expectStatus(t, rec, http.StatusCreated)
	if s := decode[api.SolveResponse](t, rec); !s.Solved || s.TimeSpentSeconds != 600 {
		t.Errorf("unexpected solve: %+v", s)
	}

	rec = do(t, h, http.MethodGet, path+"?limit=5", nil)
	expectStatus(t, rec, http.StatusOK)
	if solves := decode[[]api.SolveResponse](t, rec); len(solves) != 1 {
		t.Errorf("expected 1 solve, got %d", len(solves))
	}
	expectStatus(t, do(t, h, http.MethodGet, path+"?limit=abc", nil), http.StatusBadRequest)

	stats := decode[api.UserStatsResponse](t, do(t, h, http.MethodGet, "/users/"+u.ID+"/stats", nil))
	if stats.TotalAttempts != 1 || stats.RecentSuccessRate != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRecommendations(t *testing.T) {
	h := newTestServer(t)
	u := createUser(t, h, "ada@example.com")
	for _, q := range []struct{ title, difficulty, topic string }{
		{"Two Sum", "easy", "array"},
		{"Valid Anagram", "easy", "string"},
		{"Number of Islands", "medium", "graph"},
		{"Coin Change", "medium", "dynamic-programming"},
		{"Word Ladder", "hard", "graph"},
		{"Edit Distance", "hard", "dynamic-programming"},
		{"Trapping Rain Water", "hard", "array"},
	} {
		createQuestion(t, h, q.title, q.difficulty, q.topic)
	}

	path := "/users/" + u.ID + "/recommendations"
	rec := do(t, h, http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusOK)
	got := decode[api.RecommendationResponse](t, rec)

	if got.Plan.Target != 5 || got.Plan.Total != 7 {
		t.Errorf("expected target 5 total 7, got %+v", got.Plan)
	}
	if got.Adjusted {
		t.Error("no history should not adjust weights")
	}
	if len(got.Questions) < 5 {
		t.Errorf("expected at least 5 questions, got %d", len(got.Questions))
	}

	expectStatus(t, do(t, h, http.MethodGet, path+"?count=-1", nil), http.StatusBadRequest)
	expectStatus(t, do(t, h, http.MethodGet, path+"?count=21", nil), http.StatusBadRequest)
	expectStatus(t, do(t, h, http.MethodGet, "/users/nobody/recommendations", nil), http.StatusNotFound)

	rec = do(t, h, http.MethodGet, path+"?count=0", nil)
	expectStatus(t, rec, http.StatusOK)
	if zero := decode[api.RecommendationResponse](t, rec); zero.Plan.Total != 0 || len(zero.Questions) != 0 {
		t.Errorf("count 0 should plan nothing, got %+v", zero)
	}
}

func TestRecommendations_PersistAdjustedWeights(t *testing.T) {
	h := newTestServer(t)
	u := createUser(t, h, "ada@example.com")
	q := createQuestion(t, h, "Number of Islands", "medium", "graph")
	createQuestion(t, h, "Two Sum", "easy", "array")

	rec := do(t, h, http.MethodPost, "/users/"+u.ID+"/solves", api.RecordSolveRequest{QuestionID: q.ID, Solved: false})
	expectStatus(t, rec, http.StatusCreated)

	rec = do(t, h, http.MethodGet, "/users/"+u.ID+"/recommendations", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("expected Cache-Control no-store, got %q", got)
	}
	if got := decode[api.RecommendationResponse](t, rec); !got.Adjusted {
		t.Error("expected a failed attempt to adjust the weights")
	}

	profile := decode[api.ProfileResponse](t, do(t, h, http.MethodGet, "/users/"+u.ID+"/profile", nil))
	if w := profile.Weights["weak_area_reinforcement"]; w != 0.5 {
		t.Errorf("expected the adjustment to be saved (weak area 0.5), got %v", w)
	}
}

func TestPreviewPlan(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name      string
		body      any
		wantCode  int
		wantTotal int
		wantDist  map[string]int
	}{
		{
			name:      "default weights",
			body:      map[string]any{"count": 5},
			wantCode:  http.StatusOK,
			wantTotal: 7,
			wantDist: map[string]int{
				"weak_area_reinforcement": 2,
				"progressive_difficulty":  2,
				"spaced_repetition":       1,
				"topic_exploration":       1,
				"general_practice":        1,
			},
		},
		{
			name:      "low success rate shifts weight",
			body:      map[string]any{"count": 10, "success_rate": 0.3},
			wantCode:  http.StatusOK,
			wantTotal: 11,
			wantDist: map[string]int{
				"weak_area_reinforcement": 5,
				"progressive_difficulty":  2,
				"spaced_repetition":       2,
				"topic_exploration":       1,
				"general_practice":        1,
			},
		},
		{
			name:     "negative count",
			body:     map[string]any{"count": -1},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown strategy",
			body:     map[string]any{"count": 5, "weights": map[string]float64{"lucky_dip": 1}},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "weights off by more than tolerance",
			body: map[string]any{"count": 5, "weights": map[string]float64{
				"weak_area_reinforcement": 0.5,
				"progressive_difficulty":  0.5,
				"spaced_repetition":       0.5,
				"topic_exploration":       0,
				"general_practice":        0,
			}},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "success rate out of range",
			body:     map[string]any{"count": 5, "success_rate": 1.5},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/recommendations/plan", tt.body)
			expectStatus(t, rec, tt.wantCode)
			if tt.wantCode != http.StatusOK {
				return
			}
			got := decode[api.PlanPreviewResponse](t, rec)
			if got.Plan.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", got.Plan.Total, tt.wantTotal)
			}
			for s, n := range tt.wantDist {
				if got.Plan.Distribution[s] != n {
					t.Errorf("%s = %d, want %d", s, got.Plan.Distribution[s], n)
				}
			}
		})
	}
}

func TestUpdateWeights(t *testing.T) {
	h := newTestServer(t)
	u := createUser(t, h, "ada@example.com")
	path := "/users/" + u.ID + "/profile/weights"

	doubled := map[string]float64{
		"weak_area_reinforcement": 0.8,
		"progressive_difficulty":  0.6,
		"spaced_repetition":       0.4,
		"topic_exploration":       0.14,
		"general_practice":        0.06,
	}

	expectStatus(t, do(t, h, http.MethodPut, path, api.UpdateWeightsRequest{Weights: doubled}), http.StatusBadRequest)

	rec := do(t, h, http.MethodPut, path, api.UpdateWeightsRequest{Weights: doubled, Normalize: true})
	expectStatus(t, rec, http.StatusOK)
	p := decode[api.ProfileResponse](t, rec)
	if w := p.Weights["weak_area_reinforcement"]; w < 0.399999 || w > 0.400001 {
		t.Errorf("expected normalised weak area weight 0.4, got %v", w)
	}

	rec = do(t, h, http.MethodPut, "/users/"+u.ID+"/profile/preferences", api.UpdatePreferencesRequest{Theme: "dark"})
	expectStatus(t, rec, http.StatusOK)
	if p := decode[api.ProfileResponse](t, rec); p.Preferences.Theme != "dark" {
		t.Errorf("expected dark theme, got %q", p.Preferences.Theme)
	}
	expectStatus(t, do(t, h, http.MethodPut, "/users/"+u.ID+"/profile/preferences", api.UpdatePreferencesRequest{Theme: "neon"}), http.StatusBadRequest)

	expectStatus(t, do(t, h, http.MethodDelete, path, nil), http.StatusOK)
}

func TestExportImport(t *testing.T) {
	src := newTestServer(t)
	createQuestion(t, src, "Two Sum", "easy", "array")
	createQuestion(t, src, "Word Ladder", "hard", "graph", "bfs")

	rec := do(t, src, http.MethodGet, "/export", nil)
	expectStatus(t, rec, http.StatusOK)
	export := decode[api.ExportData](t, rec)
	if export.Version != api.ExportVersion || len(export.Questions) != 2 {
		t.Fatalf("unexpected export: %+v", export)
	}

	dst := newTestServer(t)
	rec = do(t, dst, http.MethodPost, "/import", export)
	expectStatus(t, rec, http.StatusCreated)
	if res := decode[api.ImportResult](t, rec); res.QuestionsCreated != 2 {
		t.Errorf("expected 2 created, got %+v", res)
	}

	export.Questions = append(export.Questions, api.ExportQuestion{Title: "Bad", Difficulty: "unknown"})
	rec = do(t, dst, http.MethodPost, "/import", export)
	expectStatus(t, rec, http.StatusCreated)
	res := decode[api.ImportResult](t, rec)
	if res.QuestionsCreated != 0 || res.QuestionsSkipped != 2 || res.QuestionsInvalid != 1 {
		t.Errorf("unexpected re-import result: %+v", res)
	}
}

func TestMalformedBody(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
}

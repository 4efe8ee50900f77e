package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	achievementrepo "github.com/naturetrail/naturetrail/internal/achievement/repository"
	achievementservice "github.com/naturetrail/naturetrail/internal/achievement/service"
	"github.com/naturetrail/naturetrail/internal/activity"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/config"
	identityrepo "github.com/naturetrail/naturetrail/internal/identity/repository"
	identityservice "github.com/naturetrail/naturetrail/internal/identity/service"
	"github.com/naturetrail/naturetrail/internal/identity/session"
	"github.com/naturetrail/naturetrail/internal/providers/payment"
	"github.com/naturetrail/naturetrail/internal/seed"
	sightingrepo "github.com/naturetrail/naturetrail/internal/sighting/repository"
	sightingservice "github.com/naturetrail/naturetrail/internal/sighting/service"
	subscriptionrepo "github.com/naturetrail/naturetrail/internal/subscription/repository"
	subscriptionservice "github.com/naturetrail/naturetrail/internal/subscription/service"
	trailrepo "github.com/naturetrail/naturetrail/internal/trail/repository"
	trailservice "github.com/naturetrail/naturetrail/internal/trail/service"
	"github.com/naturetrail/naturetrail/pkg/db"

	achievementdomain "github.com/naturetrail/naturetrail/internal/achievement/domain"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
	sightingdomain "github.com/naturetrail/naturetrail/internal/sighting/domain"
	subscriptiondomain "github.com/naturetrail/naturetrail/internal/subscription/domain"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&identitydomain.User{},
		&achievementdomain.Badge{},
		&achievementdomain.UserBadge{},
		&subscriptiondomain.Subscription{},
		&traildomain.Trail{},
		&traildomain.Completion{},
		&sightingdomain.Sighting{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := seed.Run(dbConn); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	clk := clock.NewSystem()
	log := zap.NewNop()
	cfg := config.Config{}

	trailSvc := trailservice.New(log, trailrepo.New(dbConn), node, clk)
	activityRepo := activity.New(dbConn)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:             router,
		Cfg:             cfg,
		DB:              dbConn,
		GenID:           node,
		IdentitySvc:     identityservice.New(log, identityrepo.New(dbConn), node, clk),
		Sessions:        session.NewManager(cfg),
		SessionStore:    session.NewStore(cfg, clk),
		TrailSvc:        trailSvc,
		SightingSvc:     sightingservice.New(log, sightingrepo.New(dbConn), trailSvc, node, clk),
		AchievementSvc:  achievementservice.New(log, achievementrepo.New(dbConn), activityRepo, node, clk),
		SubscriptionSvc: subscriptionservice.New(log, dbConn, subscriptionrepo.New(), payment.NewSimulated(log), cfg, node, clk),
		ActivityRepo:    activityRepo,
	})

	return &testServer{router: router}
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body == "" {
		buf = bytes.NewBuffer(nil)
	} else {
		buf = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	return resp
}

func (ts *testServer) registerAndLogin(t *testing.T, username string) []*http.Cookie {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/auth/register",
		fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"wander1ng"}`, username, username), nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = ts.do(t, http.MethodPost, "/auth/login",
		fmt.Sprintf(`{"username":%q,"password":"wander1ng"}`, username), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d: %s", resp.Code, resp.Body.String())
	}

	cookies := resp.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie from login")
	}
	return cookies
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", resp.Body.String(), err)
	}
	return body
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	cookies := ts.registerAndLogin(t, "alice")

	resp := ts.do(t, http.MethodGet, "/auth/me", "", cookies)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from me, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if body["username"] != "alice" {
		t.Fatalf("expected username alice, got %v", body["username"])
	}
	if body["tier"] != "standard" {
		t.Fatalf("expected standard tier, got %v", body["tier"])
	}

	resp = ts.do(t, http.MethodPost, "/auth/logout", "", cookies)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from logout, got %d", resp.Code)
	}

	resp = ts.do(t, http.MethodGet, "/auth/me", "", cookies)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.Code)
	}
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "alice")

	resp := ts.do(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"other@example.com","password":"wander1ng"}`, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAnalyticsRequiresPremium(t *testing.T) {
	ts := newTestServer(t)
	cookies := ts.registerAndLogin(t, "alice")

	resp := ts.do(t, http.MethodGet, "/api/analytics/summary", "", cookies)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for standard tier, got %d", resp.Code)
	}
}

func TestCompleteTrailAwardsFirstBadge(t *testing.T) {
	ts := newTestServer(t)
	cookies := ts.registerAndLogin(t, "alice")

	resp := ts.do(t, http.MethodPost, "/api/trails",
		`{"name":"Test Ridge","location":"Nowhere","difficulty":"Easy","length_miles":1.5}`, cookies)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 from create trail, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID snowflake.ID `json:"ID"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode trail: %v", err)
	}
	trailID := created.ID.String()

	resp = ts.do(t, http.MethodPost, "/api/trails/"+trailID+"/complete",
		`{"duration_minutes":45,"rating":4}`, cookies)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 from completion, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	awarded, ok := body["newly_awarded"].([]any)
	if !ok {
		t.Fatalf("expected newly_awarded list, got %v", body["newly_awarded"])
	}
	found := false
	for _, name := range awarded {
		if name == "Trail Pioneer" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Trail Pioneer in %v", awarded)
	}
}

func TestSubscriptionUpgradeUnlocksAnalytics(t *testing.T) {
	ts := newTestServer(t)
	cookies := ts.registerAndLogin(t, "alice")

	resp := ts.do(t, http.MethodPost, "/api/subscriptions/checkout",
		`{"plan_type":"monthly"}`, cookies)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 from checkout, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = ts.do(t, http.MethodPost, "/api/subscriptions/confirm",
		`{"plan_type":"monthly","payment_method":"card"}`, cookies)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 from confirm, got %d: %s", resp.Code, resp.Body.String())
	}

	// Confirm rotates the session so the upgrade is visible immediately.
	refreshed := resp.Result().Cookies()
	if len(refreshed) == 0 {
		t.Fatal("expected a refreshed session cookie after confirm")
	}

	resp = ts.do(t, http.MethodGet, "/api/analytics/summary", "", refreshed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from analytics after upgrade, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUnknownPlanIsRejected(t *testing.T) {
	ts := newTestServer(t)
	cookies := ts.registerAndLogin(t, "alice")

	resp := ts.do(t, http.MethodPost, "/api/subscriptions/checkout",
		`{"plan_type":"lifetime"}`, cookies)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown plan, got %d", resp.Code)
	}
}

func TestPlansArePublic(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/plans", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from plans, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	plans, ok := body["plans"].([]any)
	if !ok || len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %v", body["plans"])
	}
}

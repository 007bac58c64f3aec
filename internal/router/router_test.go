package router

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/neighborly/api/handler"
	"github.com/fastygo/neighborly/internal/infrastructure/monitor"
	"github.com/fastygo/neighborly/internal/middleware"
	"github.com/fastygo/neighborly/internal/testutil"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	"github.com/fastygo/neighborly/pkg/token"
	authUC "github.com/fastygo/neighborly/usecase/auth"
	messageUC "github.com/fastygo/neighborly/usecase/message"
	profileUC "github.com/fastygo/neighborly/usecase/profile"
	reputationUC "github.com/fastygo/neighborly/usecase/reputation"
	taskUC "github.com/fastygo/neighborly/usecase/task"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  interface{}     `json:"error"`
}

type api struct {
	t       *testing.T
	handler fasthttp.RequestHandler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := testutil.NewStore(t)
	sessions := testutil.NewSessionRepository()
	signer, err := token.NewSigner("test-secret", "neighborly")
	require.NoError(t, err)

	mon := monitor.New(time.Minute, nil, monitor.Check{Name: "bolt", Ping: store.Ping})
	mon.Refresh()

	adapter := httpcontext.NewAdapter(time.Second)
	auth := authUC.New(store, sessions, time.Hour, nil)
	handlers := Handlers{
		Auth:    apiHandler.NewAuthHandler(auth, signer, adapter, nil),
		Profile: apiHandler.NewProfileHandler(profileUC.New(store, 0, nil), adapter, nil),
		Task:    apiHandler.NewTaskHandler(taskUC.New(store, taskUC.Options{}, nil), adapter, nil),
		Message: apiHandler.NewMessageHandler(messageUC.New(store, nil), adapter, nil),
		Review:  apiHandler.NewReviewHandler(reputationUC.New(store, nil), adapter, nil),
		Health:  apiHandler.NewHealthHandler(mon, adapter, nil),
	}
	r := New(handlers, middleware.NewAuth(signer, auth, adapter, nil), nil)
	return &api{t: t, handler: r.Handler}
}

func (a *api) do(method, uri, bearer string, body interface{}) (int, envelope) {
	a.t.Helper()
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if bearer != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(raw)
	}

	a.handler(&ctx)

	var env envelope
	require.NoError(a.t, json.Unmarshal(ctx.Response.Body(), &env), string(ctx.Response.Body()))
	return ctx.Response.StatusCode(), env
}

func (a *api) login(userID string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"user_id": userID})
	require.Equal(a.t, http.StatusCreated, status)
	var out struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	require.Equal(a.t, userID, out.UserID)
	return out.Token
}

func (a *api) createProfile(bearer, name, userType string) {
	a.t.Helper()
	status, _ := a.do(http.MethodPost, "/api/v1/profile", bearer, map[string]interface{}{
		"name":      name,
		"email":     name + "@example.com",
		"user_type": userType,
		"location":  map[string]interface{}{"lat": 52.52, "lng": 13.405, "address": "Berlin"},
		"skills":    []string{"errands"},
	})
	require.Equal(a.t, http.StatusCreated, status)
}

func decodeID(t *testing.T, env envelope) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestRouter_TaskExchangeFlow(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", env.Status)

	seeker := a.login("seeker")
	helper := a.login("helper")

	status, env = a.do(http.MethodGet, "/api/v1/profile", seeker, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(env.Data), "profile is null until setup completes")

	a.createProfile(seeker, "sara", "seeker")
	a.createProfile(helper, "hugo", "helper")

	status, env = a.do(http.MethodPost, "/api/v1/profile", seeker, map[string]interface{}{
		"name": "sara", "email": "sara@example.com", "user_type": "seeker",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Code)

	status, env = a.do(http.MethodPost, "/api/v1/tasks", seeker, map[string]interface{}{
		"title":         "Groceries",
		"category":      "errands",
		"location":      map[string]interface{}{"lat": 52.521, "lng": 13.405, "address": "Mitte"},
		"reward_points": 15,
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := decodeID(t, env)
	taskURI := "/api/v1/tasks/" + taskID

	status, env = a.do(http.MethodGet, "/api/v1/tasks/nearby?lat=52.52&lng=13.405", helper, nil)
	require.Equal(t, http.StatusOK, status)
	var nearby []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &nearby))
	require.Len(t, nearby, 1)
	assert.Equal(t, taskID, nearby[0]["id"])

	status, _ = a.do(http.MethodPost, taskURI+"/apply", helper, nil)
	require.Equal(t, http.StatusOK, status)
	status, env = a.do(http.MethodPost, taskURI+"/apply", helper, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_APPLICATION", env.Code)
	status, env = a.do(http.MethodPost, taskURI+"/apply", seeker, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SELF_APPLICATION", env.Code)

	status, env = a.do(http.MethodPost, taskURI+"/assign", helper, map[string]string{"helper_id": "helper"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Code)
	status, _ = a.do(http.MethodPost, taskURI+"/assign", seeker, map[string]string{"helper_id": "helper"})
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodPost, taskURI+"/messages", helper, map[string]string{"content": "On it"})
	require.Equal(t, http.StatusCreated, status)
	status, env = a.do(http.MethodGet, taskURI+"/messages", seeker, nil)
	require.Equal(t, http.StatusOK, status)
	var messages []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0]["message_type"])
	assert.Equal(t, "hugo", messages[1]["sender_name"])

	status, _ = a.do(http.MethodPost, taskURI+"/complete", seeker, nil)
	require.Equal(t, http.StatusOK, status)
	status, env = a.do(http.MethodPost, taskURI+"/complete", helper, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", env.Code)

	review := map[string]interface{}{"task_id": taskID, "reviewee_id": "helper", "rating": 4}
	status, _ = a.do(http.MethodPost, "/api/v1/reviews", seeker, review)
	require.Equal(t, http.StatusCreated, status)
	status, env = a.do(http.MethodPost, "/api/v1/reviews", seeker, review)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_REVIEWED", env.Code)

	status, env = a.do(http.MethodGet, "/api/v1/users/helper", "", nil)
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		Rating      float64 `json:"rating"`
		ReviewCount int     `json:"review_count"`
		TotalPoints int     `json:"total_points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, 4.0, profile.Rating)
	assert.Equal(t, 1, profile.ReviewCount)
	assert.Equal(t, 15, profile.TotalPoints)

	status, env = a.do(http.MethodGet, "/api/v1/profile/points", helper, nil)
	require.Equal(t, http.StatusOK, status)
	var ledger []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &ledger))
	require.Len(t, ledger, 1)
	assert.EqualValues(t, 15, ledger[0]["points"])
}

func TestRouter_Rejections(t *testing.T) {
	a := newAPI(t)
	seeker := a.login("seeker")

	status, env := a.do(http.MethodPost, "/api/v1/tasks", "", map[string]interface{}{"title": "x", "category": "other"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", env.Code)

	status, _ = a.do(http.MethodPost, "/api/v1/tasks", "forged", map[string]interface{}{"title": "x", "category": "other"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = a.do(http.MethodPost, "/api/v1/tasks", seeker, map[string]interface{}{"category": "other"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)

	status, env = a.do(http.MethodPost, "/api/v1/tasks", seeker, map[string]interface{}{"title": "x", "category": "garden"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)

	status, _ = a.do(http.MethodGet, "/api/v1/tasks/nearby?lat=north", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(http.MethodGet, "/api/v1/tasks/does-not-exist", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(env.Data))

	status, env = a.do(http.MethodGet, "/api/v1/tasks/mine", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(env.Data))

	status, env = a.do(http.MethodPost, "/api/v1/reviews", seeker, map[string]interface{}{
		"task_id": "t", "reviewee_id": "u", "rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_RATING", env.Code)

	status, _ = a.do(http.MethodPost, "/api/v1/auth/logout", seeker, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodGet, "/api/v1/profile/points", seeker, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "tokens die with their session")
}

func TestRouter_RefreshIssuesNewToken(t *testing.T) {
	a := newAPI(t)
	bearer := a.login("user-1")

	status, env := a.do(http.MethodPost, "/api/v1/auth/refresh", bearer, nil)
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.NotEmpty(t, out.Token)

	status, _ = a.do(http.MethodGet, "/api/v1/tasks/mine", out.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_NearbyRequiresFiniteCoordinates(t *testing.T) {
	a := newAPI(t)

	for _, uri := range []string{
		"/api/v1/tasks/nearby",
		"/api/v1/tasks/nearby?lat=52.5",
		"/api/v1/tasks/nearby?lat=52.5&lng=Inf",
		"/api/v1/tasks/nearby?lat=52.5&lng=13.4&radius_km=NaN",
		"/api/v1/helpers/nearby",
		"/api/v1/helpers/nearby?lng=13.4",
		"/api/v1/helpers/nearby?radius_km=NaN&lat=1&lng=1",
		"/api/v1/helpers/nearby?lat=NaN&lng=1",
	} {
		t.Run(uri, func(t *testing.T) {
			status, env := a.do(http.MethodGet, uri, "", nil)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "INVALID", env.Code)
		})
	}

	status, _ := a.do(http.MethodGet, "/api/v1/helpers/nearby?lat=1&lng=1", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_NearbyAcrossTheGlobe(t *testing.T) {
	a := newAPI(t)
	seeker := a.login("seeker")

	status, _ := a.do(http.MethodPost, "/api/v1/tasks", seeker, map[string]interface{}{
		"title":    "Far away",
		"category": "other",
		"location": map[string]interface{}{"lat": -10, "lng": -160},
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := a.do(http.MethodGet, "/api/v1/tasks/nearby?lat=10&lng=20&radius_km=20100", "", nil)
	require.Equal(t, http.StatusOK, status)
	var tasks []struct {
		DistanceKm    float64 `json:"distance_km"`
		DistanceLabel string  `json:"distance_label"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 1)
	assert.InDelta(t, 20015.1, tasks[0].DistanceKm, 0.1)
	assert.Equal(t, "20015.1km", tasks[0].DistanceLabel)
}

func TestRouter_ReviewByOutsiderIsForbidden(t *testing.T) {
	a := newAPI(t)
	seeker := a.login("seeker")
	outsider := a.login("outsider")
	a.createProfile(seeker, "sara", "seeker")
	a.createProfile(outsider, "otto", "helper")

	status, env := a.do(http.MethodPost, "/api/v1/tasks", seeker, map[string]interface{}{
		"title":    "Water the plants",
		"category": "household",
		"location": map[string]interface{}{"lat": 52.5, "lng": 13.4},
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := decodeID(t, env)

	status, env = a.do(http.MethodPost, "/api/v1/reviews", outsider, map[string]interface{}{
		"task_id": taskID, "reviewee_id": "seeker", "rating": 4,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Code)

	status, env = a.do(http.MethodPost, "/api/v1/reviews", seeker, map[string]interface{}{
		"task_id": taskID, "reviewee_id": "outsider", "rating": 4,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", env.Code)
}

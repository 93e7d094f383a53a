package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsevents/factory"
	"sportsevents/models"
	"sportsevents/services"
	"sportsevents/store/memory"
)

type testServer struct {
	t      *testing.T
	app    *factory.App
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.Wire(memory.New(), services.NewMemoryCatalogCache(time.Minute), factory.Options{
		JWTSecret: "routes-test-secret",
		TokenTTL:  time.Hour,
		Logger:    logger,
	})
	return &testServer{t: t, app: app, router: NewRouter(app, "*", logger)}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

type errorBody struct {
	Error string      `json:"error"`
	Code  models.Kind `json:"code"`
}

func (s *testServer) signupStudent(name, roll, email string) (string, uint) {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "rollNumber": roll, "course": "BTech", "year": "2", "email": email, "password": "secret1",
	})
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decode[services.AuthResponse](s.t, rr)
	return resp.Token, resp.User.ID
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	_, err := s.app.AuthService.CreateUser(context.Background(), &services.SignupRequest{
		Name: "Admin", RollNumber: "ADM001", Course: "Staff", Year: "-", Email: "admin@example.com", Password: "admin-pass",
	}, models.RoleAdmin)
	require.NoError(s.t, err)

	rr := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@example.com", "password": "admin-pass"})
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[services.AuthResponse](s.t, rr).Token
}

func (s *testServer) createGame(token string, body map[string]interface{}) models.Game {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/games", token, body)
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Game](s.t, rr)
}

func TestChessScenario(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	studentA, _ := s.signupStudent("Student A", "A001", "a@example.com")
	studentB, _ := s.signupStudent("Student B", "B001", "b@example.com")

	chess := s.createGame(admin, map[string]interface{}{"name": "Chess", "gameType": "registrable", "registrationOpen": true})

	rr := s.do(http.MethodPost, "/api/registrations", studentA, map[string]uint{"gameId": chess.ID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	reg := decode[models.Registration](t, rr)
	require.NotNil(t, reg.Game)
	assert.Equal(t, "Chess", reg.Game.Name)

	rr = s.do(http.MethodPost, "/api/registrations", studentA, map[string]uint{"gameId": chess.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errorBody{Error: "You are already registered for this game", Code: models.KindDuplicate}, decode[errorBody](t, rr))

	rr = s.do(http.MethodPut, "/api/games/"+itoa(chess.ID), admin, map[string]bool{"registrationOpen": false})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[models.Game](t, rr)
	assert.False(t, updated.RegistrationOpen)
	assert.Equal(t, "Chess", updated.Name)

	rr = s.do(http.MethodPost, "/api/registrations", studentB, map[string]uint{"gameId": chess.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindRegistrationClosed, decode[errorBody](t, rr).Code)

	rr = s.do(http.MethodDelete, "/api/games/"+itoa(chess.ID), admin, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// deleting the game does not cascade to its registrations
	rr = s.do(http.MethodGet, "/api/registrations/my-registrations", studentA, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	mine := decode[[]map[string]interface{}](t, rr)
	require.Len(t, mine, 1)
	assert.EqualValues(t, reg.ID, mine[0]["id"])
	game, present := mine[0]["game"]
	assert.True(t, present, "game key is always serialized")
	assert.Nil(t, game)
}

func TestAccessControl(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	student, _ := s.signupStudent("Student A", "A001", "a@example.com")
	game := s.createGame(admin, map[string]interface{}{"name": "Kabaddi"})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
		code   models.Kind
	}{
		{"anonymous create game", http.MethodPost, "/api/games", "", map[string]string{"name": "X"}, http.StatusUnauthorized, models.KindUnauthenticated},
		{"student create game", http.MethodPost, "/api/games", student, map[string]string{"name": "X"}, http.StatusForbidden, models.KindForbidden},
		{"student delete game", http.MethodDelete, "/api/games/" + itoa(game.ID), student, nil, http.StatusForbidden, models.KindForbidden},
		{"admin registers", http.MethodPost, "/api/registrations", admin, map[string]uint{"gameId": game.ID}, http.StatusForbidden, models.KindForbidden},
		{"student lists all", http.MethodGet, "/api/registrations/all", student, nil, http.StatusForbidden, models.KindForbidden},
		{"student exports", http.MethodGet, "/api/registrations/export", student, nil, http.StatusForbidden, models.KindForbidden},
		{"anonymous my registrations", http.MethodGet, "/api/registrations/my-registrations", "", nil, http.StatusUnauthorized, models.KindUnauthenticated},
		{"forged token", http.MethodGet, "/api/games", "not.a.jwt", nil, http.StatusUnauthorized, models.KindUnauthenticated},
		{"anonymous me", http.MethodGet, "/api/auth/me", "", nil, http.StatusUnauthorized, models.KindUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, decode[errorBody](t, rr).Code)
		})
	}

	rr := s.do(http.MethodGet, "/api/games", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.Game](t, rr), 1)
}

func TestUnregisterOwnership(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	owner, _ := s.signupStudent("Student A", "A001", "a@example.com")
	other, _ := s.signupStudent("Student B", "B001", "b@example.com")
	game := s.createGame(admin, map[string]interface{}{"name": "Long Jump"})

	rr := s.do(http.MethodPost, "/api/registrations", owner, map[string]uint{"gameId": game.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	reg := decode[models.Registration](t, rr)
	path := "/api/registrations/" + itoa(reg.ID)

	rr = s.do(http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Registration deleted successfully", decode[map[string]string](t, rr)["message"])

	rr = s.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.KindNotFound, decode[errorBody](t, rr).Code)

	rr = s.do(http.MethodPost, "/api/registrations", owner, map[string]uint{"gameId": game.ID})
	assert.Equal(t, http.StatusCreated, rr.Code, "re-registering after unregistering")
}

func TestRegistrationErrors(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	student, _ := s.signupStudent("Student A", "A001", "a@example.com")
	ceremony := s.createGame(admin, map[string]interface{}{"name": "Prize Distribution", "gameType": "display-only", "registrationOpen": false})

	rr := s.do(http.MethodPost, "/api/registrations", student, map[string]uint{"gameId": ceremony.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errorBody{Error: "Cannot register for display-only games", Code: models.KindInvalidOperation}, decode[errorBody](t, rr))

	rr = s.do(http.MethodPost, "/api/registrations", student, map[string]uint{"gameId": 9999})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Game not found", decode[errorBody](t, rr).Error)

	rr = s.do(http.MethodPost, "/api/registrations", student, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errorBody{Error: "Game ID is required", Code: models.KindValidation}, decode[errorBody](t, rr))
}

func TestGameEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	s.createGame(admin, map[string]interface{}{"name": "Tug of War"})
	chess := s.createGame(admin, map[string]interface{}{"name": "Chess", "description": "Board game"})

	rr := s.do(http.MethodPost, "/api/games", admin, map[string]string{"name": "Chess"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errorBody{Error: "Game with this name already exists", Code: models.KindDuplicate}, decode[errorBody](t, rr))

	rr = s.do(http.MethodPost, "/api/games", admin, map[string]string{"name": "Chess 2", "gameType": "league"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindValidation, decode[errorBody](t, rr).Code)

	rr = s.do(http.MethodGet, "/api/games", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	games := decode[[]models.Game](t, rr)
	require.Len(t, games, 2)
	assert.Equal(t, "Chess", games[0].Name)
	assert.Equal(t, "Tug of War", games[1].Name)

	rr = s.do(http.MethodGet, "/api/games/"+itoa(chess.ID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Board game", decode[models.Game](t, rr).Description)

	rr = s.do(http.MethodGet, "/api/games/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/games/4242", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodPut, "/api/games/"+itoa(chess.ID), admin, map[string]string{"name": "Tug of War"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindDuplicate, decode[errorBody](t, rr).Code)

	rr = s.do(http.MethodDelete, "/api/games/4242", admin, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListAllAndExport(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	alice, _ := s.signupStudent("Alice Rao", "CS101", "alice@example.com")
	bob, _ := s.signupStudent("Bob Singh", "ME202", "bob@example.com")
	chess := s.createGame(admin, map[string]interface{}{"name": "Chess"})
	kabaddi := s.createGame(admin, map[string]interface{}{"name": "Kabaddi"})

	for _, r := range []struct {
		token  string
		gameID uint
	}{{alice, chess.ID}, {alice, kabaddi.ID}, {bob, chess.ID}} {
		rr := s.do(http.MethodPost, "/api/registrations", r.token, map[string]uint{"gameId": r.gameID})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := s.do(http.MethodGet, "/api/registrations/all", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[[]models.Registration](t, rr)
	require.Len(t, all, 3)
	require.NotNil(t, all[0].Student)
	assert.Empty(t, all[0].Student.PasswordHash)

	rr = s.do(http.MethodGet, "/api/registrations/all?gameId="+itoa(chess.ID)+"&search=bob", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	filtered := decode[[]models.Registration](t, rr)
	require.Len(t, filtered, 1)
	assert.Equal(t, "ME202", filtered[0].Student.RollNumber)

	rr = s.do(http.MethodGet, "/api/registrations/all?gameId=chess", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/registrations/export?search=alice", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="registrations-\d{4}-\d{2}-\d{2}\.csv"$`, rr.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student Name,Roll Number,Course,Year,Email,Game,Registered At", lines[0])
	assert.Contains(t, lines[1], "Alice Rao,CS101,BTech,2,alice@example.com,")
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, id := s.signupStudent("Asha Verma", "abc123", "Asha@Example.com")

	rr := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[map[string]interface{}](t, rr)
	assert.EqualValues(t, id, me["id"])
	assert.Equal(t, "ABC123", me["rollNumber"])
	assert.Equal(t, "asha@example.com", me["email"])
	assert.NotContains(t, me, "passwordHash")

	rr = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Copy", "rollNumber": "ABC123", "course": "BSc", "year": "1", "email": "copy@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindDuplicate, decode[errorBody](t, rr).Code)

	rr = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestBodyValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	student, _ := s.signupStudent("Student A", "A001", "a@example.com")

	validSignup := func(overrides map[string]interface{}) map[string]interface{} {
		body := map[string]interface{}{
			"name": "New Student", "rollNumber": "N001", "course": "BSc", "year": "1", "email": "new@example.com", "password": "secret1",
		}
		for k, v := range overrides {
			body[k] = v
		}
		return body
	}

	tests := []struct {
		name    string
		method  string
		path    string
		token   string
		body    interface{}
		message string
	}{
		{"signup without name", http.MethodPost, "/api/auth/signup", "", validSignup(map[string]interface{}{"name": ""}), "Name is required"},
		{"signup without roll number", http.MethodPost, "/api/auth/signup", "", validSignup(map[string]interface{}{"rollNumber": ""}), "Roll number is required"},
		{"signup with malformed email", http.MethodPost, "/api/auth/signup", "", validSignup(map[string]interface{}{"email": "not-an-email"}), "A valid email is required"},
		{"signup with short password", http.MethodPost, "/api/auth/signup", "", validSignup(map[string]interface{}{"password": "abc"}), "Password must be at least 6 characters"},
		{"signup with wrong field type", http.MethodPost, "/api/auth/signup", "", validSignup(map[string]interface{}{"year": 2}), "Invalid request body"},
		{"login without password", http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@example.com"}, "Email and password are required"},
		{"game without name", http.MethodPost, "/api/games", admin, map[string]string{"description": "x"}, "Game name is required"},
		{"game with unknown type", http.MethodPost, "/api/games", admin, map[string]string{"name": "Relay", "gameType": "league"}, "Invalid game type"},
		{"register without game", http.MethodPost, "/api/registrations", student, map[string]string{}, "Game ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, errorBody{Error: tt.message, Code: models.KindValidation}, decode[errorBody](t, rr))
		})
	}

	// a whitespace-only name passes the binding rule and is caught by the service
	rr := s.do(http.MethodPost, "/api/games", admin, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Game name is required", decode[errorBody](t, rr).Error)

	rr = s.do(http.MethodPost, "/api/games", admin, map[string]string{"name": "Relay"})
	require.Equal(t, http.StatusCreated, rr.Code)
	relay := decode[models.Game](t, rr)
	rr = s.do(http.MethodPut, "/api/games/"+itoa(relay.ID), admin, map[string]string{"gameType": "league"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid game type", decode[errorBody](t, rr).Error)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestActivityFeed(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.app.Hub.Run(ctx)

	admin := s.adminToken()
	student, _ := s.signupStudent("Student A", "A001", "a@example.com")

	srv := httptest.NewServer(s.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/activity?token="

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+student, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+admin, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.app.Hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	s.createGame(admin, map[string]interface{}{"name": "Relay Race"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string      `json:"type"`
		Payload models.Game `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, services.EventGameCreated, msg.Type)
	assert.Equal(t, "Relay Race", msg.Payload.Name)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dekarrin/cfgcrunch/server/api"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/dekarrin/cfgcrunch/server/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) (*Server, testClient) {
	srv, err := New(Config{
		UnauthDelayMillis: -1,
		HashCost:          bcrypt.MinCost,
		MaxExpansion:      64,
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	_, err = srv.CreateUser(context.Background(), "admin", "adminpass", dao.Admin)
	require.NoError(t, err)
	_, err = srv.CreateUser(context.Background(), "ana", "anapass", dao.Normal)
	require.NoError(t, err)
	_, err = srv.CreateUser(context.Background(), "bo", "bopass", dao.Normal)
	require.NoError(t, err)

	return srv, testClient{t: t, handler: srv.Handler()}
}

// do sends a request and returns the recorded response. If body is a string
// it is sent as-is; otherwise it is marshaled to JSON.
func (c testClient) do(method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var bodyStr string
	switch b := body.(type) {
	case nil:
	case string:
		bodyStr = b
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		bodyStr = string(data)
	}

	req := httptest.NewRequest(method, api.PathPrefix+path, strings.NewReader(bodyStr))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func (c testClient) login(username, password string) api.LoginResponse {
	w := c.do(http.MethodPost, "/login", "", api.LoginRequest{Username: username, Password: password})
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())

	var resp api.LoginResponse
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[E any](t *testing.T, w *httptest.ResponseRecorder) E {
	var v E
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func Test_Server_Login(t *testing.T) {
	testCases := []struct {
		name     string
		body     interface{}
		expectSC int
	}{
		{name: "valid", body: api.LoginRequest{Username: "ana", Password: "anapass"}, expectSC: http.StatusCreated},
		{name: "wrong password", body: api.LoginRequest{Username: "ana", Password: "nope"}, expectSC: http.StatusUnauthorized},
		{name: "unknown user", body: api.LoginRequest{Username: "cy", Password: "anapass"}, expectSC: http.StatusUnauthorized},
		{name: "blank username", body: api.LoginRequest{Password: "anapass"}, expectSC: http.StatusBadRequest},
		{name: "malformed JSON", body: `{"username": `, expectSC: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, c := newTestServer(t)

			w := c.do(http.MethodPost, "/login", "", tc.body)

			assert.Equal(tc.expectSC, w.Code, w.Body.String())
			if tc.expectSC == http.StatusUnauthorized {
				assert.Contains(w.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func Test_Server_Logout_InvalidatesToken(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	login := c.login("ana", "anapass")

	w := c.do(http.MethodGet, "/simplifications", login.Token, nil)
	assert.Equal(http.StatusOK, w.Code)

	w = c.do(http.MethodDelete, "/login/"+login.UserID, login.Token, nil)
	assert.Equal(http.StatusNoContent, w.Code)

	w = c.do(http.MethodGet, "/simplifications", login.Token, nil)
	assert.Equal(http.StatusUnauthorized, w.Code)
}

func Test_Server_Info(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	w := c.do(http.MethodGet, "/info", "", nil)
	assert.Equal(http.StatusOK, w.Code)

	info := decode[api.InfoModel](t, w)
	assert.NotEmpty(info.Version.Server)
	assert.NotEmpty(info.Version.CFGCrunch)
	assert.Equal(64, info.Limits.MaxExpansion)
	assert.Equal(api.MaxBodySize, info.Limits.MaxBodyBytes)
	assert.Equal(token.Lifetime.String(), info.Limits.TokenLife)

	w = c.do(http.MethodGet, "/info/", "", nil)
	assert.Equal(http.StatusPermanentRedirect, w.Code)
	assert.Equal(api.PathPrefix+"/info", w.Header().Get("Location"))
}

func Test_Server_CreateSimplification(t *testing.T) {
	testCases := []struct {
		name         string
		body         interface{}
		expectSC     int
		expectResult []string
		expectEmpty  bool
		expectErrMsg string
	}{
		{
			name:         "grammar text",
			body:         api.SimplificationRequest{Name: "anbn", Grammar: "S-aSb|0"},
			expectSC:     http.StatusCreated,
			expectResult: []string{"S-aSb|ab"},
		},
		{
			name:         "grammar text with CRLF",
			body:         api.SimplificationRequest{Grammar: "S-aS|a\r\nB-b"},
			expectSC:     http.StatusCreated,
			expectResult: []string{"S-aS|a"},
		},
		{
			name:         "lines",
			body:         api.SimplificationRequest{Lines: []string{"A-0", "S-aA"}},
			expectSC:     http.StatusCreated,
			expectResult: []string{"S-aA|a"},
		},
		{
			name:         "empty language",
			body:         api.SimplificationRequest{Lines: []string{"S-aS"}},
			expectSC:     http.StatusCreated,
			expectResult: []string{},
			expectEmpty:  true,
		},
		{
			name:     "both grammar and lines",
			body:     api.SimplificationRequest{Grammar: "S-a", Lines: []string{"S-a"}},
			expectSC: http.StatusBadRequest,
		},
		{
			name:     "neither grammar nor lines",
			body:     api.SimplificationRequest{Name: "nothing"},
			expectSC: http.StatusBadRequest,
		},
		{
			name:     "parse error",
			body:     api.SimplificationRequest{Grammar: "S"},
			expectSC: http.StatusBadRequest,
		},
		{
			name:     "expansion too large",
			body:     api.SimplificationRequest{Grammar: "S-AAAAAAA\nA-a|0"},
			expectSC: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "not JSON",
			body:     `S-aSb|0`,
			expectSC: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, c := newTestServer(t)
			login := c.login("ana", "anapass")

			w := c.do(http.MethodPost, "/simplifications", login.Token, tc.body)

			if !assert.Equal(tc.expectSC, w.Code, w.Body.String()) {
				return
			}
			if tc.expectSC != http.StatusCreated {
				return
			}

			actual := decode[api.SimplificationModel](t, w)
			assert.Equal(login.UserID, actual.Owner)
			assert.Equal(tc.expectEmpty, actual.Empty)
			if tc.expectResult != nil {
				assert.ElementsMatch(tc.expectResult, actual.Result)
			}
			assert.Equal(api.PathPrefix+"/simplifications/"+actual.ID, actual.URI)
		})
	}
}

func Test_Server_CreateSimplification_RequiresAuth(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	w := c.do(http.MethodPost, "/simplifications", "", api.SimplificationRequest{Grammar: "S-a"})
	assert.Equal(http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodPost, "/simplifications", "not-a-token", api.SimplificationRequest{Grammar: "S-a"})
	assert.Equal(http.StatusUnauthorized, w.Code)
}

func Test_Server_Simplifications_Ownership(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	ana := c.login("ana", "anapass")
	bo := c.login("bo", "bopass")
	admin := c.login("admin", "adminpass")

	w := c.do(http.MethodPost, "/simplifications", ana.Token, api.SimplificationRequest{Name: "first", Grammar: "S-aSb|0"})
	require.Equal(t, http.StatusCreated, w.Code)
	anaSimp := decode[api.SimplificationModel](t, w)

	w = c.do(http.MethodPost, "/simplifications", bo.Token, api.SimplificationRequest{Name: "second", Grammar: "S-a"})
	require.Equal(t, http.StatusCreated, w.Code)

	// each normal user only sees their own
	w = c.do(http.MethodGet, "/simplifications", ana.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	anaList := decode[[]api.SimplificationModel](t, w)
	if assert.Len(anaList, 1) {
		assert.Equal("first", anaList[0].Name)
	}

	// admin sees everything, oldest first
	w = c.do(http.MethodGet, "/simplifications", admin.Token, nil)
	adminList := decode[[]api.SimplificationModel](t, w)
	if assert.Len(adminList, 2) {
		assert.Equal("first", adminList[0].Name)
		assert.Equal("second", adminList[1].Name)
	}

	// bo cannot see or delete ana's
	w = c.do(http.MethodGet, "/simplifications/"+anaSimp.ID, bo.Token, nil)
	assert.Equal(http.StatusNotFound, w.Code)
	w = c.do(http.MethodDelete, "/simplifications/"+anaSimp.ID, bo.Token, nil)
	assert.Equal(http.StatusNotFound, w.Code)

	// ana and admin can
	w = c.do(http.MethodGet, "/simplifications/"+anaSimp.ID, ana.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	got := decode[api.SimplificationModel](t, w)
	assert.Equal([]string{"S-aSb|0"}, got.Input)
	assert.Equal([]string{"S-aSb|ab"}, got.Result)
	assert.Equal("S", got.Start)

	w = c.do(http.MethodDelete, "/simplifications/"+anaSimp.ID, admin.Token, nil)
	assert.Equal(http.StatusNoContent, w.Code)

	w = c.do(http.MethodGet, "/simplifications/"+anaSimp.ID, ana.Token, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Server_Users(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	ana := c.login("ana", "anapass")
	admin := c.login("admin", "adminpass")

	// only admins list and create
	w := c.do(http.MethodGet, "/users", ana.Token, nil)
	assert.Equal(http.StatusForbidden, w.Code)
	w = c.do(http.MethodPost, "/users", ana.Token, api.UserModel{Username: "cy", Password: "cypass"})
	assert.Equal(http.StatusForbidden, w.Code)

	w = c.do(http.MethodPost, "/users", admin.Token, api.UserModel{Username: "cy", Password: "cypass", Email: "cy@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cy := decode[api.UserModel](t, w)
	assert.Equal("cy", cy.Username)
	assert.Equal("normal", strings.ToLower(cy.Role))
	assert.Empty(cy.Password)

	w = c.do(http.MethodPost, "/users", admin.Token, api.UserModel{Username: "cy", Password: "again"})
	assert.Equal(http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/users", admin.Token, api.UserModel{Username: "dee", Password: "deepass", Role: "wizard"})
	assert.Equal(http.StatusBadRequest, w.Code)

	w = c.do(http.MethodGet, "/users", admin.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Len(decode[[]api.UserModel](t, w), 4)

	// self or admin for single users
	w = c.do(http.MethodGet, "/users/"+ana.UserID, ana.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	w = c.do(http.MethodGet, "/users/"+cy.ID, ana.Token, nil)
	assert.Equal(http.StatusForbidden, w.Code)
	w = c.do(http.MethodGet, "/users/"+cy.ID, admin.Token, nil)
	assert.Equal(http.StatusOK, w.Code)

	w = c.do(http.MethodDelete, "/users/"+cy.ID, admin.Token, nil)
	assert.Equal(http.StatusNoContent, w.Code)
	w = c.do(http.MethodGet, "/users/"+cy.ID, admin.Token, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Server_Token_Refresh(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	login := c.login("ana", "anapass")

	w := c.do(http.MethodPost, "/tokens", login.Token, nil)
	assert.Equal(http.StatusCreated, w.Code, w.Body.String())

	resp := decode[api.LoginResponse](t, w)
	assert.NotEmpty(resp.Token)
	assert.Equal(login.UserID, resp.UserID)
	expires, err := time.Parse(time.RFC3339, resp.Expires)
	if assert.NoError(err) {
		assert.WithinDuration(time.Now().Add(token.Lifetime), expires, time.Minute)
	}

	w = c.do(http.MethodGet, "/simplifications", resp.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
}

func Test_Server_UnknownRoutes(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	w := c.do(http.MethodGet, "/grammars", "", nil)
	assert.Equal(http.StatusNotFound, w.Code)

	w = c.do(http.MethodPut, "/info", "", nil)
	assert.Equal(http.StatusMethodNotAllowed, w.Code)
}

func Test_Server_CreateUser_Existing(t *testing.T) {
	assert := assert.New(t)
	srv, _ := newTestServer(t)

	first, err := srv.db.Users().GetByUsername(context.Background(), "admin")
	require.NoError(t, err)

	again, err := srv.CreateUser(context.Background(), "admin", "other", dao.Admin)
	assert.NoError(err)
	assert.Equal(first.ID, again.ID)
}

package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/usercrud/internal/domain"
	"github.com/msomdec/usercrud/internal/handler"
	"github.com/msomdec/usercrud/internal/service"
)

type userBody struct {
	ID     int64   `json:"id,omitempty"`
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Salary float64 `json:"salary"`
}

func createUser(t *testing.T, srv *httptest.Server, u userBody) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/api/user/", u)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/api/user/"), "Location %q", loc)
	return loc
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestUserAPI_ListEmptyReturnsNoContent(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/user/", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))
}

func TestUserAPI_ListAfterCreate(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, userBody{Name: "Sam", Age: 30, Salary: 70000})

	resp := do(t, http.MethodGet, srv.URL+"/api/user/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	users := decode[[]userBody](t, resp)
	require.Len(t, users, 1)
	assert.Equal(t, "Sam", users[0].Name)
}

func TestUserAPI_ListIsBareArrayInIDOrder(t *testing.T) {
	srv := newTestServer(t)
	for _, name := range []string{"Sam", "Tom", "Jerome"} {
		createUser(t, srv, userBody{Name: name, Age: 20, Salary: 1})
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/user/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw := readBody(t, resp)
	assert.True(t, strings.HasPrefix(raw, "["), "body %q", raw)

	var users []userBody
	require.NoError(t, json.Unmarshal([]byte(raw), &users))
	require.Len(t, users, 3)
	assert.Equal(t, []string{"Sam", "Tom", "Jerome"}, []string{users[0].Name, users[1].Name, users[2].Name})
}

func TestUserAPI_CreateThenGet(t *testing.T) {
	srv := newTestServer(t)

	loc := createUser(t, srv, userBody{ID: 999, Name: "Sam", Age: 30, Salary: 70000.5})

	resp := do(t, http.MethodGet, srv.URL+loc, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user := decode[userBody](t, resp)
	assert.Equal(t, loc, fmt.Sprintf("/api/user/%d", user.ID))
	assert.NotEqual(t, int64(999), user.ID, "client-supplied id is ignored")
	assert.Equal(t, "Sam", user.Name)
	assert.Equal(t, 30, user.Age)
	assert.Equal(t, 70000.5, user.Salary)
}

func TestUserAPI_CreateHasEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/user/", userBody{Name: "Sam"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))
}

func TestUserAPI_CreateDuplicateNameConflicts(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, userBody{Name: "Sam", Age: 30, Salary: 1})

	resp := do(t, http.MethodPost, srv.URL+"/api/user/", userBody{Name: "Sam", Age: 55, Salary: 2})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "unable to create. A user with name Sam already exists", body.Message)
}

func TestUserAPI_CreateMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/user/", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "invalid request body", body.Message)
}

func sendRaw(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestUserAPI_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t)
	loc := createUser(t, srv, userBody{Name: "Sam", Age: 30, Salary: 70000})
	huge := `{"name":"` + strings.Repeat("a", 1<<20) + `","age":1,"salary":1}`

	for _, tc := range []struct{ method, url string }{
		{http.MethodPost, srv.URL + "/api/user/"},
		{http.MethodPut, srv.URL + loc},
	} {
		resp := sendRaw(t, tc.method, tc.url, huge)
		require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode, tc.method)
		body := decode[handler.ErrorResponse](t, resp)
		assert.Equal(t, "request body too large", body.Message)
	}

	resp := do(t, http.MethodGet, srv.URL+loc, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sam", decode[userBody](t, resp).Name)
}

func TestUserAPI_FractionalAgeRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := sendRaw(t, http.MethodPost, srv.URL+"/api/user/", `{"name":"Sam","age":30.7,"salary":1}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "invalid request body", body.Message)

	resp = do(t, http.MethodGet, srv.URL+"/api/user/", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUserAPI_GetMissing(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []int64{1, 42, 987654321} {
		resp := do(t, http.MethodGet, fmt.Sprintf("%s/api/user/%d", srv.URL, id), nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decode[handler.ErrorResponse](t, resp)
		assert.Equal(t, fmt.Sprintf("User with id: %d not found", id), body.Message)
	}
}

func TestUserAPI_GetInvalidID(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/user/abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "invalid user id: abc", body.Message)
}

func TestUserAPI_UpdateKeepsID(t *testing.T) {
	srv := newTestServer(t)
	loc := createUser(t, srv, userBody{Name: "Tomy", Age: 40, Salary: 50000})

	resp := do(t, http.MethodPut, srv.URL+loc, userBody{ID: 12345, Name: "Tom", Age: 41, Salary: 55000})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decode[userBody](t, resp)
	assert.Equal(t, loc, fmt.Sprintf("/api/user/%d", updated.ID))
	assert.Equal(t, "Tom", updated.Name)
	assert.Equal(t, 41, updated.Age)
	assert.Equal(t, 55000.0, updated.Salary)

	resp = do(t, http.MethodGet, srv.URL+loc, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, updated, decode[userBody](t, resp))
}

func TestUserAPI_UpdateMissing(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/api/user/7", userBody{Name: "Tom"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "Unable to update. User with id 7 not found", body.Message)
}

func TestUserAPI_DeleteTwice(t *testing.T) {
	srv := newTestServer(t)
	loc := createUser(t, srv, userBody{Name: "Sam"})

	resp := do(t, http.MethodDelete, srv.URL+loc, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))

	resp = do(t, http.MethodDelete, srv.URL+loc, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode[handler.ErrorResponse](t, resp)
	assert.Equal(t, "Unable to delete. User with id "+strings.TrimPrefix(loc, "/api/user/")+" not found", body.Message)
}

func TestUserAPI_DeleteAll(t *testing.T) {
	srv := newTestServer(t)

	// Succeeds on an empty store.
	resp := do(t, http.MethodDelete, srv.URL+"/api/user/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, name := range []string{"A", "B", "C"} {
		createUser(t, srv, userBody{Name: name})
	}

	resp = do(t, http.MethodDelete, srv.URL+"/api/user/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))

	resp = do(t, http.MethodGet, srv.URL+"/api/user/", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUserAPI_NameFreedAfterDelete(t *testing.T) {
	srv := newTestServer(t)
	loc := createUser(t, srv, userBody{Name: "Sam"})

	resp := do(t, http.MethodDelete, srv.URL+loc, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	createUser(t, srv, userBody{Name: "Sam"})
}

// failingRepo simulates a store that lost its connection.
type failingRepo struct{}

var errStoreDown = errors.New("store down")

func (failingRepo) FindAll(context.Context) ([]domain.User, error)        { return nil, errStoreDown }
func (failingRepo) FindByID(context.Context, int64) (*domain.User, error) { return nil, errStoreDown }
func (failingRepo) ExistsByName(context.Context, string) (bool, error)    { return false, errStoreDown }
func (failingRepo) Save(context.Context, *domain.User) error              { return errStoreDown }
func (failingRepo) DeleteByID(context.Context, int64) error               { return errStoreDown }
func (failingRepo) DeleteAll(context.Context) error                       { return errStoreDown }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestUserAPI_StoreFailureIsInternalError(t *testing.T) {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, service.NewUserService(failingRepo{}), okPinger{}, nil)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/user/", nil},
		{http.MethodGet, "/api/user/1", nil},
		{http.MethodPost, "/api/user/", userBody{Name: "Sam"}},
		{http.MethodPut, "/api/user/1", userBody{Name: "Sam"}},
		{http.MethodDelete, "/api/user/1", nil},
		{http.MethodDelete, "/api/user/", nil},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := do(t, tc.method, srv.URL+tc.path, tc.body)
			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

			body := decode[handler.ErrorResponse](t, resp)
			assert.Equal(t, "Internal Server Error", body.Message)
			assert.NotContains(t, body.Message, errStoreDown.Error())
		})
	}
}

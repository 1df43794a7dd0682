package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"angeles-backend/internal/domains/user/model"
	"angeles-backend/internal/shared"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *mockService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *mockService) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*shared.Principal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Principal), args.Error(1)
}

func (m *mockService) GetUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserResponse), args.Error(1)
}

func (m *mockService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserResponse), args.Error(1)
}

func (m *mockService) UpdateUser(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.UserResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserResponse), args.Error(1)
}

func (m *mockService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc)

	r := gin.New()
	r.POST("/identities", h.Register)
	r.POST("/identities/login", h.Login)
	r.GET("/identities", h.ListUsers)
	r.GET("/identities/:id", h.GetUser)
	r.PUT("/identities/:id", h.UpdateUser)
	r.DELETE("/identities/:id", h.DeleteUser)
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRegister_Created(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	id := uuid.New()

	svc.On("Register", mock.Anything, mock.MatchedBy(func(req model.RegisterRequest) bool {
		return req.FirstName == "Ann" && req.Email == "ann@example.com" && req.Password == "secret1"
	})).Return(&model.AuthResponse{
		UserResponse: model.UserResponse{ID: id, FirstName: "Ann", LastName: "Lee", FullName: "Ann Lee"},
		Token:        "tok",
	}, nil)

	w := perform(r, http.MethodPost, "/identities",
		`{"first_name":"Ann","last_name":"Lee","username":"annlee","email":"ann@example.com","password":"secret1"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/v1/identities/"+id.String(), w.Header().Get("Location"))

	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"token":"tok"`)
	assert.NotContains(t, w.Body.String(), "secret1")
}

func TestRegister_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate email", model.ErrEmailAlreadyExists, http.StatusConflict, "DUPLICATE_IDENTITY"},
		{"duplicate username", model.ErrUsernameTaken, http.StatusConflict, "DUPLICATE_IDENTITY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockService)
			r := setupRouter(svc)
			svc.On("Register", mock.Anything, mock.Anything).Return(nil, tc.err)

			w := perform(r, http.MethodPost, "/identities", `{"email":"ann@example.com"}`)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w).Error.Code)
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)

	w := perform(r, http.MethodPost, "/identities", `{"first_name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	svc.On("Login", mock.Anything, model.LoginRequest{Email: "ann@example.com", Password: "nope"}).
		Return(nil, model.ErrInvalidCredentials)

	w := perform(r, http.MethodPost, "/identities/login", `{"email":"ann@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env := decode(t, w)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
	assert.Equal(t, "invalid email or password", env.Error.Message)
}

func TestGetUser(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	id := uuid.New()
	missing := uuid.New()

	svc.On("GetUser", mock.Anything, id).Return(&model.UserResponse{ID: id, Username: "annlee"}, nil)
	svc.On("GetUser", mock.Anything, missing).Return(nil, model.ErrUserNotFound)

	w := perform(r, http.MethodGet, "/identities/"+id.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "annlee")

	w = perform(r, http.MethodGet, "/identities/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(r, http.MethodGet, "/identities/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUser_PassesPartialPatch(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	id := uuid.New()

	svc.On("UpdateUser", mock.Anything, id, mock.MatchedBy(func(req model.UpdateUserRequest) bool {
		return req.LastName != nil && *req.LastName == "Park" && req.FirstName == nil && req.Password == nil
	})).Return(&model.UserResponse{ID: id, LastName: "Park"}, nil)

	w := perform(r, http.MethodPut, "/identities/"+id.String(), `{"last_name":"Park"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteUser(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)
	id := uuid.New()

	svc.On("DeleteUser", mock.Anything, id).Return(nil)

	w := perform(r, http.MethodDelete, "/identities/"+id.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestListUsers(t *testing.T) {
	svc := new(mockService)
	r := setupRouter(svc)

	svc.On("ListUsers", mock.Anything).Return([]model.UserResponse{{Username: "a"}, {Username: "b"}}, nil)

	w := perform(r, http.MethodGet, "/identities", "")
	require.Equal(t, http.StatusOK, w.Code)

	var users []model.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &users))
	assert.Len(t, users, 2)
}

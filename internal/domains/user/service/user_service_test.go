package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"angeles-backend/internal/domains/user/model"
	"angeles-backend/internal/domains/user/repository/mocks"
	"angeles-backend/internal/shared"
	"angeles-backend/internal/shared/apperror"
)

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(userID uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + userID.String(), nil
}

func (s stubIssuer) TTL() time.Duration { return time.Hour }

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *mocks.MockUserRepository) *userService {
	svc := NewUserService(repo, stubIssuer{}).(*userService)
	svc.bcryptCost = bcrypt.MinCost
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func annLee(t *testing.T) *model.User {
	return &model.User{
		ID:           uuid.New(),
		FirstName:    "Ann",
		LastName:     "Lee",
		Username:     "annlee",
		Email:        "ann@example.com",
		PasswordHash: hashOf(t, "secret1"),
		Role:         shared.RoleUser,
		IsActive:     true,
		CreatedAt:    fixedNow.Add(-time.Hour),
		UpdatedAt:    fixedNow.Add(-time.Hour),
	}
}

func registerRequest() model.RegisterRequest {
	return model.RegisterRequest{
		FirstName: "Ann",
		LastName:  "Lee",
		Username:  "annlee",
		Email:     " Ann@Example.com ",
		Password:  "secret1",
	}
}

// =====================================================
// REGISTER
// =====================================================

func TestRegister_Success(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "ann@example.com").Return(false, nil)
	repo.On("ExistsByUsername", ctx, "annlee").Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "ann@example.com" &&
			u.Role == shared.RoleUser &&
			u.IsActive &&
			u.LastLoginAt != nil && u.LastLoginAt.Equal(fixedNow) &&
			u.PasswordHash != "secret1" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)

	resp, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "token-"+resp.ID.String(), resp.Token)
	assert.Equal(t, "Ann Lee", resp.FullName)
	assert.Equal(t, "ann@example.com", resp.Email)
	assert.Equal(t, fixedNow.Add(time.Hour), resp.ExpiresAt)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "secret1")

	repo.AssertExpectations(t)
}

func TestRegister_WithEditorRole(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
	repo.On("ExistsByUsername", ctx, mock.Anything).Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == shared.RoleEditor
	})).Return(nil)

	req := registerRequest()
	req.Role = "Editor"

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleEditor, resp.Role)
}

func TestRegister_DuplicateEmailCheckedFirst(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "ann@example.com").Return(true, nil)

	_, err := svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
	assert.Equal(t, apperror.KindDuplicate, apperror.KindOf(err))

	repo.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
	repo.On("ExistsByUsername", ctx, "ANNLEE").Return(true, nil)

	req := registerRequest()
	req.Username = "ANNLEE"

	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateFromUniqueIndex(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
	repo.On("ExistsByUsername", ctx, mock.Anything).Return(false, nil)
	repo.On("Create", ctx, mock.Anything).Return(model.ErrEmailAlreadyExists)

	_, err := svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestRegister_ValidationAggregatesFields(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
	repo.On("ExistsByUsername", ctx, mock.Anything).Return(false, nil)

	_, err := svc.Register(ctx, model.RegisterRequest{
		Username: "al",
		Email:    "bad-email",
		Password: "123",
	})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Details, 5) // first_name, last_name, username, email, password

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_StoreFailure(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, mock.Anything).Return(false, errors.New("connection refused"))

	_, err := svc.Register(ctx, registerRequest())
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

// =====================================================
// LOGIN
// =====================================================

func TestLogin_SuccessByEmailAndUsername(t *testing.T) {
	for name, req := range map[string]model.LoginRequest{
		"email":             {Email: "ann@example.com", Password: "secret1"},
		"username in email": {Email: "annlee", Password: "secret1"},
		"username field":    {Username: "annlee", Password: "secret1"},
	} {
		t.Run(name, func(t *testing.T) {
			repo := new(mocks.MockUserRepository)
			svc := newTestService(repo)
			ctx := context.Background()
			u := annLee(t)

			repo.On("FindByIdentifier", ctx, req.Identifier()).Return(u, nil)
			repo.On("UpdateLastLogin", ctx, u.ID, fixedNow).Return(nil)

			resp, err := svc.Login(ctx, req)
			require.NoError(t, err)

			assert.Equal(t, u.ID, resp.ID)
			assert.Equal(t, "token-"+u.ID.String(), resp.Token)
			require.NotNil(t, resp.LastLoginAt)
			assert.True(t, resp.LastLoginAt.Equal(fixedNow))
			repo.AssertExpectations(t)
		})
	}
}

func TestLogin_SameFailureForUnknownUserAndWrongPassword(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	u := annLee(t)

	repo.On("FindByIdentifier", ctx, "ghost@example.com").Return(nil, model.ErrUserNotFound)
	repo.On("FindByIdentifier", ctx, "ann@example.com").Return(u, nil)

	_, unknownErr := svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	_, wrongErr := svc.Login(ctx, model.LoginRequest{Email: "ann@example.com", Password: "wrong-password"})

	assert.ErrorIs(t, unknownErr, model.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, model.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(wrongErr))

	repo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), model.LoginRequest{Password: "secret1"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), model.LoginRequest{Email: "ann@example.com"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	repo.AssertNotCalled(t, "FindByIdentifier", mock.Anything, mock.Anything)
}

func TestLogin_StoreFailureIsNotCredentialFailure(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("FindByIdentifier", ctx, "ann@example.com").Return(nil, errors.New("timeout"))

	_, err := svc.Login(ctx, model.LoginRequest{Email: "ann@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

// =====================================================
// PROFILE MANAGEMENT
// =====================================================

func strPtr(s string) *string { return &s }

func TestUpdateUser_Partial(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	u := annLee(t)

	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(got *model.User) bool {
		return got.LastName == "Park" &&
			got.FirstName == "Ann" &&
			got.Email == "ann@example.com" &&
			got.PasswordHash == "" && // keep stored hash
			got.UpdatedAt.Equal(fixedNow)
	})).Return(nil)

	resp, err := svc.UpdateUser(ctx, u.ID, model.UpdateUserRequest{LastName: strPtr("Park")})
	require.NoError(t, err)
	assert.Equal(t, "Ann Park", resp.FullName)

	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	u := annLee(t)

	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(got *model.User) bool {
		return got.PasswordHash != "" &&
			bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("new-secret")) == nil
	})).Return(nil)

	_, err := svc.UpdateUser(ctx, u.ID, model.UpdateUserRequest{Password: strPtr("new-secret")})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateUser_Collisions(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	u := annLee(t)

	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("ExistsByEmail", ctx, "bob@example.com").Return(true, nil)
	repo.On("ExistsByUsername", ctx, "bob").Return(true, nil)

	_, err := svc.UpdateUser(ctx, u.ID, model.UpdateUserRequest{Email: strPtr("Bob@Example.com")})
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)

	_, err = svc.UpdateUser(ctx, u.ID, model.UpdateUserRequest{Username: strPtr("bob")})
	assert.ErrorIs(t, err, model.ErrUsernameTaken)

	// Re-submitting the current username in another case is not a collision
	repo.On("Update", ctx, mock.Anything).Return(nil)
	_, err = svc.UpdateUser(ctx, u.ID, model.UpdateUserRequest{Username: strPtr("AnnLee")})
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "ExistsByUsername", ctx, "AnnLee")
}

func TestUpdateUser_NotFoundAndInvalid(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	u := annLee(t)
	missing := uuid.New()

	repo.On("FindByID", ctx, missing).Return(nil, model.ErrUserNotFound)
	repo.On("FindByID", ctx, u.ID).Return(u, nil)

	_, err := svc.UpdateUser(ctx, missing, model.UpdateUserRequest{LastName: strPtr("Park")})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.UpdateUser(ctx, u.ID, model.UpdateUserRequest{Email: strPtr("nope")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteUser(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	id := uuid.New()
	missing := uuid.New()

	repo.On("Delete", ctx, id).Return(nil)
	repo.On("Delete", ctx, missing).Return(model.ErrUserNotFound)

	assert.NoError(t, svc.DeleteUser(ctx, id))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(svc.DeleteUser(ctx, missing)))
}

func TestListAndGetUsers(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	u := annLee(t)

	repo.On("List", ctx).Return([]*model.User{u}, nil)
	repo.On("FindByID", ctx, u.ID).Return(u, nil)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "annlee", list[0].Username)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestResolvePrincipal(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := newTestService(repo)
	ctx := context.Background()
	u := annLee(t)
	missing := uuid.New()

	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("FindByID", ctx, missing).Return(nil, model.ErrUserNotFound)

	p, err := svc.ResolvePrincipal(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", p.DisplayName())
	assert.Equal(t, shared.RoleUser, p.Role)

	_, err = svc.ResolvePrincipal(ctx, missing)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

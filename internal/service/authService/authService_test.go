package authService

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/KotFed0t/stocks_portfolio_api/data/repository"
	"github.com/KotFed0t/stocks_portfolio_api/data/session"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/dbModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	nextID int64
	users  map[string]dbModel.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]dbModel.User)}
}

func (r *fakeRepo) InsertUser(_ context.Context, firstname, lastname, email, passwordHash string) (int64, error) {
	if _, ok := r.users[email]; ok {
		return 0, repository.ErrAlreadyExists
	}
	r.nextID++
	r.users[email] = dbModel.User{
		UserID:       r.nextID,
		Firstname:    firstname,
		Lastname:     lastname,
		Email:        email,
		PasswordHash: passwordHash,
	}
	return r.nextID, nil
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (dbModel.User, error) {
	user, ok := r.users[email]
	if !ok {
		return dbModel.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, userID int64) (dbModel.User, error) {
	for _, user := range r.users {
		if user.UserID == userID {
			return user, nil
		}
	}
	return dbModel.User{}, repository.ErrNotFound
}

type fakeSession struct {
	tokens map[int64]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{tokens: make(map[int64]string)}
}

func (s *fakeSession) SetRefreshToken(_ context.Context, userID int64, refreshToken string) error {
	s.tokens[userID] = refreshToken
	return nil
}

func (s *fakeSession) GetRefreshToken(_ context.Context, userID int64) (string, error) {
	token, ok := s.tokens[userID]
	if !ok {
		return "", session.ErrNotFound
	}
	return token, nil
}

func (s *fakeSession) DeleteRefreshToken(_ context.Context, userID int64) error {
	delete(s.tokens, userID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWT{
			AccessSecret:      "test-access-secret",
			RefreshSecret:     "test-refresh-secret",
			AccessExpiration:  30 * time.Minute,
			RefreshExpiration: 30 * 24 * time.Hour,
		},
	}
}

func newTestService() (*AuthService, *fakeRepo, *fakeSession) {
	repo := newFakeRepo()
	sess := newFakeSession()
	return New(testConfig(), repo, sess), repo, sess
}

func TestSignUpIssuesValidTokens(t *testing.T) {
	srv, _, sess := newTestService()
	ctx := context.Background()

	res, err := srv.SignUp(ctx, "Ada", "Lovelace", "Ada@Example.com ", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", res.User.Email, "email is normalized")
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.Equal(t, res.Tokens.RefreshToken, sess.tokens[res.User.ID], "refresh token is persisted")

	userID, err := srv.ValidateAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	srv, _, _ := newTestService()
	ctx := context.Background()

	_, err := srv.SignUp(ctx, "Ada", "Lovelace", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = srv.SignUp(ctx, "Ada", "Again", "ada@example.com", "0ther-pass")
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
}

func TestSignIn(t *testing.T) {
	srv, _, _ := newTestService()
	ctx := context.Background()

	_, err := srv.SignUp(ctx, "Ada", "Lovelace", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		res, err := srv.SignIn(ctx, "ada@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", res.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := srv.SignIn(ctx, "ada@example.com", "not-the-pass")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := srv.SignIn(ctx, "nobody@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRefreshRotation(t *testing.T) {
	srv, _, sess := newTestService()
	ctx := context.Background()

	signedUp, err := srv.SignUp(ctx, "Ada", "Lovelace", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	refreshed, err := srv.Refresh(ctx, signedUp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, refreshed.Tokens.RefreshToken, sess.tokens[signedUp.User.ID], "stored token follows the rotation")

	userID, err := srv.ValidateAccessToken(refreshed.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, userID)
}

func TestRefreshRejectsRotatedOutToken(t *testing.T) {
	srv, _, sess := newTestService()
	ctx := context.Background()

	signedUp, err := srv.SignUp(ctx, "Ada", "Lovelace", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	// another sign-in stores a different token for the user
	sess.tokens[signedUp.User.ID] = "some-other-stored-token"

	_, err = srv.Refresh(ctx, signedUp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRefreshRejectsGarbageAndWrongSecret(t *testing.T) {
	srv, _, _ := newTestService()
	ctx := context.Background()

	signedUp, err := srv.SignUp(ctx, "Ada", "Lovelace", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = srv.Refresh(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// access tokens are signed with a different secret
	_, err = srv.Refresh(ctx, signedUp.Tokens.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestSignOutDeletesStoredToken(t *testing.T) {
	srv, _, sess := newTestService()
	ctx := context.Background()

	signedUp, err := srv.SignUp(ctx, "Ada", "Lovelace", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, srv.SignOut(ctx, signedUp.Tokens.RefreshToken))

	_, ok := sess.tokens[signedUp.User.ID]
	assert.False(t, ok)

	_, err = srv.Refresh(ctx, signedUp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	srv, _, _ := newTestService()
	ctx := context.Background()

	signedUp, err := srv.SignUp(ctx, "Ada", "Lovelace", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = srv.ValidateAccessToken(signedUp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

package service

import (
	"context"
	"testing"

	"famenet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	s := newMemStore()
	svc := NewUserService(&fakeUserRepo{s: s})

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.EDU",
		Password: "SecurePass12!@",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.edu", user.Email)
	assert.True(t, user.Active)
	assert.False(t, user.Banned)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("SecurePass12!@")))
}

func TestRegisterRejectsWeakCredentials(t *testing.T) {
	s := newMemStore()
	svc := NewUserService(&fakeUserRepo{s: s})
	ctx := context.Background()

	cases := []RegisterInput{
		{Username: "alice", Email: "a@example.edu", Password: "short1!A"},
		{Username: "a", Email: "a@example.edu", Password: "SecurePass12!@"},
		{Username: "alice", Email: "not-an-email", Password: "SecurePass12!@"},
		{Username: "", Email: "", Password: ""},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newMemStore()
	svc := NewUserService(&fakeUserRepo{s: s})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.edu", Password: "SecurePass12!@"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice2", Email: "A@example.edu", Password: "SecurePass12!@"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestAuthenticate(t *testing.T) {
	s := newMemStore()
	svc := NewUserService(&fakeUserRepo{s: s})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.edu", Password: "SecurePass12!@"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "A@Example.edu", "SecurePass12!@")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Authenticate(ctx, "a@example.edu", "wrong password")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)

	_, err = svc.Authenticate(ctx, "nobody@example.edu", "SecurePass12!@")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

func TestAuthenticateBannedUserRefused(t *testing.T) {
	s := newMemStore()
	svc := NewUserService(&fakeUserRepo{s: s})
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "mallory", Email: "m@example.edu", Password: "SecurePass12!@"})
	require.NoError(t, err)

	user.Banned = true
	user.Active = false

	_, err = svc.Authenticate(ctx, "m@example.edu", "SecurePass12!@")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeBanned, appErr.Code)
}

func TestRequireActive(t *testing.T) {
	s := newMemStore()
	s.addUser(models.User{ID: 1, Username: "alice", Active: true})
	s.addUser(models.User{ID: 2, Username: "mallory", Active: false, Banned: true})

	svc := NewUserService(&fakeUserRepo{s: s})
	ctx := context.Background()

	user, err := svc.RequireActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.RequireActive(ctx, 2)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeBanned, appErr.Code)

	_, err = svc.RequireActive(ctx, 404)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

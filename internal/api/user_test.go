package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/storage"
	"github.com/pageza/soyummy/backend/internal/testhelpers"
	"github.com/pageza/soyummy/backend/internal/types"
)

func TestSignupSigninLogout(t *testing.T) {
	env := setupAPI(t)

	w := env.doJSON(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Carol", "email": "carol@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signup types.AuthResponse
	decode(t, w, &signup)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, "carol@example.com", signup.User.Email)
	assert.Contains(t, signup.User.Avatar, "gravatar.com")

	w = env.doJSON(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Carol", "email": "carol@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email in use", messageOf(t, w))

	w = env.doJSON(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "   ", "email": "dave@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/users/signin", "", map[string]string{
		"email": "carol@example.com", "password": "nope-nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email or password is wrong", messageOf(t, w))

	w = env.doJSON(t, http.MethodPost, "/api/users/signin", "", map[string]string{
		"email": "carol@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var signin types.AuthResponse
	decode(t, w, &signin)

	w = env.do(t, http.MethodGet, "/api/users/current", signin.Token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var me types.UserResponse
	decode(t, w, &me)
	assert.Equal(t, "Carol", me.Name)

	w = env.do(t, http.MethodPost, "/api/users/logout", signin.Token, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/users/current", signin.Token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserDetails(t *testing.T) {
	env := setupAPI(t)
	tacos, _ := env.seedRecipes(t)
	testhelpers.Favorite(t, env.db, env.alice, tacos, time.Now().UTC())
	alice := env.token(t, env.alice)

	w := env.do(t, http.MethodGet, "/api/users/details/"+env.alice.ID.String(), alice, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var self map[string]interface{}
	decode(t, w, &self)
	assert.Equal(t, float64(1), self["recipes"])
	assert.Equal(t, float64(1), self["favorites"])

	w = env.do(t, http.MethodGet, "/api/users/details/"+env.alice.ID.String(), env.token(t, env.bob), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var other map[string]interface{}
	decode(t, w, &other)
	assert.Equal(t, "alice", other["name"])
	assert.NotContains(t, other, "favorites")

	w = env.do(t, http.MethodGet, "/api/users/details/nope", alice, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAvatar(t *testing.T) {
	env := setupAPI(t)
	env.images.On("Upload", mock.Anything, storage.FolderAvatars, "me.jpeg").Return("https://cdn.example.com/me.jpeg", nil)

	body, ct := multipartBody(t, nil, "avatar", "me.jpeg", []byte("jpeg"))
	w := env.do(t, http.MethodPatch, "/api/users/avatars", env.token(t, env.alice), body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"avatar":"https://cdn.example.com/me.jpeg"}`, w.Body.String())

	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", env.alice.ID).Error)
	assert.Equal(t, "https://cdn.example.com/me.jpeg", user.Avatar)
}

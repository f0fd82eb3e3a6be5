package api_test

import (
	"net/http"
	"testing"

	"github.com/fridgechef/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	a := setupAPI(t, nil)

	w := a.do(t, http.MethodPost, "/api/signup/", map[string]string{
		"username": "chef",
		"password": "secret123",
		"email":    "chef@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	signup := decode[types.AuthResponse](t, w)
	assert.Equal(t, "회원가입 성공!", signup.Message)
	assert.Equal(t, "chef", signup.User.Username)
	assert.Equal(t, "chef@example.com", signup.User.Email)
	assert.NotEmpty(t, signup.User.ID)

	claims, err := a.auth.ValidateToken(signup.Token)
	require.NoError(t, err)
	assert.Equal(t, "chef", claims.Username)

	w = a.do(t, http.MethodPost, "/api/login/", map[string]string{"username": "chef", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[types.AuthResponse](t, w)
	assert.Equal(t, "로그인 성공", login.Message)
	assert.Equal(t, signup.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestSignupErrors(t *testing.T) {
	a := setupAPI(t, nil)

	w := a.do(t, http.MethodPost, "/api/signup/", map[string]string{"username": "chef", "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodPost, "/api/signup/", map[string]string{"username": "chef", "password": "another"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"이미 존재하는 아이디입니다."}`, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/signup/", map[string]string{"username": "cook"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := setupAPI(t, nil)
	a.do(t, http.MethodPost, "/api/signup/", map[string]string{"username": "chef", "password": "secret123"}, "")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "chef", "nope"},
		{"unknown user", "ghost", "secret123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, http.MethodPost, "/api/login/", map[string]string{"username": tt.username, "password": tt.password}, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"아이디/비번 불일치"}`, w.Body.String())
		})
	}
}

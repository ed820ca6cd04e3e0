package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auth logging on success/fail
func TestAuthLogging(t *testing.T) {
	app, _ := newTestApp(t)

	var status int
	failLogs := captureLogs(t, func() {
		resp, _ := do(t, app, "POST", "/api/login", `{"username": "admin", "password": "badpass!"}`)
		status = resp.StatusCode
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	e, ok := findLog(failLogs, "auth.login.fail")
	require.True(t, ok, "auth.login.fail log not found")
	assert.Equal(t, "warn", e.Level)
	assert.Equal(t, "admin", e.Fields["username"])
	_, leaked := e.Fields["password"]
	assert.False(t, leaked)

	var body []byte
	successLogs := captureLogs(t, func() {
		var resp *http.Response
		resp, body = do(t, app, "POST", "/api/login", `{"username": "admin", "password": "admin123"}`)
		status = resp.StatusCode
	})
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"username": "admin"}`, string(body))
	e, ok = findLog(successLogs, "auth.login.success")
	require.True(t, ok, "auth.login.success log not found")
	assert.Equal(t, "audit", e.Level)
	assert.Equal(t, "admin", e.Fields["username"])
}

func TestLoginRejectsEmptyFields(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := do(t, app, "POST", "/api/login", `{"username": "", "password": ""}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steptzi/api/internal/core/domain"
)

func linkToken(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func postJSON(t *testing.T, app *TestApp, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := app.Client.Post(app.Server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

// TestAuthFlow walks the full account lifecycle: register, verify the
// email via the mailed link, log in, rotate the refresh token and check
// the old one can't be redeemed twice.
func TestAuthFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	// Register. Username and email come back lowercased.
	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username":         "Alice",
		"email":            "Alice@Example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.False(t, created.IsVerified)

	// Registration triggers a verification mail.
	mail := app.Mailer.waitForMail(t, "alice@example.com")
	require.Equal(t, "email_verification", mail.Template)
	verifyToken := linkToken(t, mail.Vars["verification_link"])

	// Login before verification works; the account just can't use
	// access tokens yet.
	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pair domain.TokenPair
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, app.Server.URL+"/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Confirm the email.
	resp, err = app.Client.Get(app.Server.URL + "/api/auth/email-verify/confirm?token=" + verifyToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The same verification token cannot be redeemed again.
	resp, err = app.Client.Get(app.Server.URL + "/api/auth/email-verify/confirm?token=" + verifyToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Access works now.
	req, _ = http.NewRequest(http.MethodGet, app.Server.URL+"/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me domain.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	resp.Body.Close()
	assert.Equal(t, "alice", me.Username)
	assert.True(t, me.IsVerified)

	// Rotate the refresh token.
	resp, err = app.Client.Get(app.Server.URL + "/api/auth/refresh?token=" + pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rotated domain.TokenPair
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rotated))
	resp.Body.Close()
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)

	// The redeemed refresh token is single-use.
	resp, err = app.Client.Get(app.Server.URL + "/api/auth/refresh?token=" + pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// An access token is not accepted where a refresh token is expected.
	resp, err = app.Client.Get(app.Server.URL + "/api/auth/refresh?token=" + rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	user, _ := app.createUser(t, false)

	// Wrong password and unknown user produce the same response.
	resp := postJSON(t, app, "/api/auth/login", map[string]string{
		"username": user.Username,
		"password": "wrong-password",
	})
	wrongPass := resp.StatusCode
	resp.Body.Close()

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "password123",
	})
	unknownUser := resp.StatusCode
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, wrongPass)
	assert.Equal(t, http.StatusUnauthorized, unknownUser)
}

func TestPasswordResetFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	user, _ := app.createUser(t, false)

	resp, err := app.Client.Get(app.Server.URL + "/api/auth/reset-password?email=" + user.Email)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	mail := app.Mailer.waitForMail(t, user.Email)
	require.Equal(t, "reset_password", mail.Template)
	resetToken := linkToken(t, mail.Vars["reset_link"])

	// Mismatched confirmation is rejected before the token is burned.
	resp = postJSON(t, app, "/api/auth/reset-password/confirm?token="+resetToken, map[string]string{
		"new_password":     "new-password",
		"confirm_password": "other-password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/auth/reset-password/confirm?token="+resetToken, map[string]string{
		"new_password":     "new-password",
		"confirm_password": "new-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The reset token is single-use.
	resp = postJSON(t, app, "/api/auth/reset-password/confirm?token="+resetToken, map[string]string{
		"new_password":     "again",
		"confirm_password": "again",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Old password no longer works, the new one does.
	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"username": user.Username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"username": user.Username,
		"password": "new-password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Reset for an unknown email reports not found.
	resp, err = app.Client.Get(app.Server.URL + "/api/auth/reset-password?email=ghost@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	user, _ := app.createUser(t, false)

	resp := postJSON(t, app, "/api/auth/register", map[string]string{
		"username":         user.Username,
		"email":            "fresh@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/auth/register", map[string]string{
		"username":         "freshname",
		"email":            user.Email,
		"password":         "password123",
		"confirm_password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/auth/register", map[string]string{
		"username":         "freshname",
		"email":            "fresh@example.com",
		"password":         "password123",
		"confirm_password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

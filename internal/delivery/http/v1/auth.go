package v1

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 10 * 60
)

func (h *handlerImpl) HandleGoogleLogin(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate oauth state")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge,
		"/", "", h.cfg.SecureCookies, true)

	c.Redirect(http.StatusFound, h.auth.AuthCodeURL(state))
}

func (h *handlerImpl) HandleGoogleCallback(c *gin.Context) {
	state := requestValue(c, "state")
	expectedState, err := c.Cookie(oauthStateCookie)
	clearCookie(c, oauthStateCookie)
	if err != nil || state == "" || state != expectedState {
		h.logger.Error().
			Err(err).
			Msg("oauth state mismatch")
		h.redirectAuthFailed(c)
		return
	}

	if providerErr := requestValue(c, "error"); providerErr != "" {
		h.logger.Error().
			Str("error", providerErr).
			Msg("identity provider returned an error")
		h.redirectAuthFailed(c)
		return
	}

	result, err := h.auth.Authenticate(c, requestValue(c, "code"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to authenticate")
		h.redirectAuthFailed(c)
		return
	}

	h.logger.Info().
		Str("user_id", result.User.ID).
		Msg("authenticated with google")
	c.Redirect(http.StatusFound, h.frontendURL("/auth-success", url.Values{
		"token": {result.AccessToken},
	}))
}

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUserByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to get user profile")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetUserResponse(user))
}

func (h *handlerImpl) redirectAuthFailed(c *gin.Context) {
	c.Redirect(http.StatusFound, h.frontendURL("/login", url.Values{
		"error": {"auth_failed"},
	}))
}

func (h *handlerImpl) frontendURL(path string, query url.Values) string {
	return strings.TrimRight(h.cfg.FrontendURL, "/") + path + "?" + query.Encode()
}

// requestValue looks the key up in the query string, then in the form body.
func requestValue(c *gin.Context, key string) string {
	if value := c.Query(key); value != "" {
		return value
	}
	return c.PostForm(key)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, true)
}

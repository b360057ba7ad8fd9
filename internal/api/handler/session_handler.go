package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fittrack/fittrack-client/internal/core/ports"
)

type SessionHandler struct {
	session ports.Session
}

func NewSessionHandler(session ports.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// Login authenticates against the backend and populates the session.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.session.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		// The central error handler maps AuthenticationError to 401 with the
		// backend's detail message.
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Logout clears the session. Idempotent.
//
// @Summary      Log out
// @Tags         session
// @Success      204
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout()
	return c.NoContent(http.StatusNoContent)
}

// Current returns the session snapshot.
//
// @Summary      Current session state
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.snapshot())
}

// TokenStatus reports whether the stored access token is still valid.
//
// @Summary      Check token expiration
// @Tags         session
// @Produce      json
// @Success      200  {object}  tokenStatusResponse
// @Router       /session/token [get]
func (h *SessionHandler) TokenStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, tokenStatusResponse{Valid: h.session.CheckTokenExpiration()})
}

func (h *SessionHandler) snapshot() sessionResponse {
	resp := sessionResponse{
		Authenticated:   h.session.IsAuthenticated(),
		Loading:         h.session.IsLoading(),
		Account:         h.session.Account(),
		Profile:         h.session.Profile(),
		ProfileResolved: h.session.ProfileResolved(),
	}
	if role, ok := h.session.ResolvedRole(); ok {
		resp.Role = string(role)
	}
	return resp
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "househunt/internal/errors"
	"househunt/internal/guard"
	"househunt/internal/model"
	"househunt/internal/notify"
	"househunt/internal/session"
)

// SessionView is the session as shown to the browser. The bearer token never
// leaves the gateway.
type SessionView struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
	Home          string      `json:"home"`
}

// PageResponse is the view model of a page.
type PageResponse struct {
	Page          string          `json:"page"`
	Session       SessionView     `json:"session"`
	Data          interface{}     `json:"data,omitempty"`
	Notifications []notify.Notice `json:"notifications"`
}

// ActionResponse is the result of a form submission or button press.
type ActionResponse struct {
	Message       string          `json:"message,omitempty"`
	Data          interface{}     `json:"data,omitempty"`
	Redirect      string          `json:"redirect,omitempty"`
	Notifications []notify.Notice `json:"notifications"`
}

// ErrorResponse is a failed action, with the notifications it produced.
type ErrorResponse struct {
	apperrors.ErrorResponse
	Redirect      string          `json:"redirect,omitempty"`
	Notifications []notify.Notice `json:"notifications"`
}

func viewOf(snap session.Snapshot) SessionView {
	return SessionView{
		Authenticated: snap.Authenticated,
		User:          snap.User,
		Home:          session.DefaultRoute(snap),
	}
}

func renderPage(c echo.Context, name string, data interface{}) error {
	return c.JSON(http.StatusOK, PageResponse{
		Page:          name,
		Session:       viewOf(snapshotOf(c)),
		Data:          data,
		Notifications: NoticesOf(c).Notices(),
	})
}

// respond sends a successful action result; message is also raised as a
// success notification.
func respond(c echo.Context, status int, message string, data interface{}, redirect string) error {
	NoticesOf(c).Success(message)
	return c.JSON(status, ActionResponse{
		Message:       message,
		Data:          data,
		Redirect:      redirect,
		Notifications: NoticesOf(c).Notices(),
	})
}

// fail reports err to the browser. Authentication errors clear the session
// and send the browser to the login page.
func fail(c echo.Context, err error, fallback string) error {
	notices := NoticesOf(c)
	notices.Error(apperrors.UserMessage(err, fallback))

	if apperrors.IsAuth(err) {
		ctx := c.Request().Context()
		if store := SessionOf(c); store != nil {
			if lerr := store.Logout(ctx); lerr != nil {
				c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), lerr)
			}
		}
		target := session.PathLogin
		if w := WatcherOf(c); w != nil {
			if d := w.Decision(); !d.Allow {
				target = d.Target
			}
		}
		// a redirect carries no notifications; the login page raises it again
		target = guard.WithReason(target, guard.ReasonSessionExpired)
		return Deny(c, guard.Decision{Target: target}, apperrors.UserMessage(err, fallback))
	}

	httpErr := apperrors.MapErrorToHTTP(err, fallback)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(httpErr.StatusCode, ErrorResponse{
		ErrorResponse: httpErr.ToErrorResponse(),
		Notifications: notices.Notices(),
	})
}

// Deny sends the browser to d.Target: a 303 for page loads, a 401 carrying
// the target for actions.
func Deny(c echo.Context, d guard.Decision, message string) error {
	if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodHead {
		return c.Redirect(http.StatusSeeOther, d.Target)
	}
	if message == "" {
		message = apperrors.ErrNotLoggedIn.Message
	}
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		ErrorResponse: apperrors.ErrorResponse{Error: message, Code: "UNAUTHENTICATED"},
		Redirect:      d.Target,
		Notifications: NoticesOf(c).Notices(),
	})
}

// bindAndValidate binds the request body and checks its validate tags. A
// missing required field becomes the shared "fill all fields" error.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() != "required" {
					return apperrors.Validation("Invalid " + strings.ToLower(fe.Field()))
				}
			}
		}
		return apperrors.ErrMissingFields
	}
	return nil
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/loanwise/internal/auth"
	"github.com/jon4hz/loanwise/internal/features"
	"github.com/jon4hz/loanwise/internal/predict"
	"github.com/jon4hz/loanwise/internal/session"
	"github.com/jon4hz/loanwise/web/templates/pages"
)

// Messages shown to the user.
const (
	MsgUsernameTaken      = "Username already exists. Please choose a different username."
	MsgUserAdded          = "User successfully added! Please click OK to confirm."
	MsgMissingCredentials = "Please enter a username and a password."
	MsgRegisterFailed     = "Registration failed. Please try again later."
	MsgInvalidCredentials = "Invalid username or password. Please try again."
	MsgLoginFailed        = "Login failed. Please try again later."
	MsgLoginSuccessful    = "Login successful!"
	MsgLoginRequired      = "You need to log in first."
	MsgLoggedOut          = "You have been logged out successfully."
	MsgPredictionFailed   = "The prediction failed. Please try again later."
)

// SessionTokenKey is the cookie session key holding the server side session token.
const SessionTokenKey = "token"

const contextSessionKey = "session"

// maxFormMemory is the part of a multipart form kept in memory.
const maxFormMemory = 1 << 20

// Authenticator is what the handlers need from the auth service.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	RequireSession(ctx context.Context, token string) (*session.Info, error)
}

// Predictor classifies a loan application.
type Predictor interface {
	Predict(ctx context.Context, app *features.LoanApplication) (*predict.Result, error)
}

type Handler struct {
	auth      Authenticator
	predictor Predictor
}

func New(authenticator Authenticator, predictor Predictor) *Handler {
	return &Handler{
		auth:      authenticator,
		predictor: predictor,
	}
}

func render(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render page", "path", c.Request.URL.Path, "error", err)
	}
}

func redirectWithMessage(c *gin.Context, path, message string) {
	c.Redirect(http.StatusFound, path+"?"+url.Values{"message": {message}}.Encode())
}

func sessionToken(s sessions.Session) string {
	token, _ := s.Get(SessionTokenKey).(string)
	return token
}

// flashes pops all flash messages of the session.
func flashes(c *gin.Context) []string {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(); err != nil {
		log.Error("Failed to save session", "error", err)
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			messages = append(messages, m)
		}
	}
	return messages
}

func (h *Handler) Home(c *gin.Context) {
	signedIn := false
	if token := sessionToken(sessions.Default(c)); token != "" {
		_, err := h.auth.RequireSession(c.Request.Context(), token)
		signedIn = err == nil
	}
	render(c, http.StatusOK, pages.Home(signedIn))
}

func (h *Handler) Favicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, pages.Register(c.Query("message")))
}

func (h *Handler) Register(c *gin.Context) {
	err := h.auth.Register(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	switch {
	case err == nil:
		redirectWithMessage(c, "/register", MsgUserAdded)
	case errors.Is(err, auth.ErrDuplicateUsername):
		redirectWithMessage(c, "/register", MsgUsernameTaken)
	case errors.Is(err, auth.ErrMissingCredentials):
		redirectWithMessage(c, "/register", MsgMissingCredentials)
	default:
		log.Error("Failed to register user", "error", err)
		redirectWithMessage(c, "/register", MsgRegisterFailed)
	}
}

func (h *Handler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, pages.Login(c.Query("message"), flashes(c)))
}

func (h *Handler) Login(c *gin.Context) {
	token, err := h.auth.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			redirectWithMessage(c, "/login", MsgInvalidCredentials)
			return
		}
		log.Error("Failed to log in user", "error", err)
		redirectWithMessage(c, "/login", MsgLoginFailed)
		return
	}

	s := sessions.Default(c)
	// drop a session that was still open in this browser
	if old := sessionToken(s); old != "" {
		if err := h.auth.Logout(c.Request.Context(), old); err != nil {
			log.Warn("Failed to clear previous session", "error", err)
		}
	}
	s.Set(SessionTokenKey, token)
	s.AddFlash(MsgLoginSuccessful)
	if err := s.Save(); err != nil {
		log.Error("Failed to save session", "error", err)
		redirectWithMessage(c, "/login", MsgLoginFailed)
		return
	}
	c.Redirect(http.StatusFound, "/predict")
}

func (h *Handler) Logout(c *gin.Context) {
	s := sessions.Default(c)
	if token := sessionToken(s); token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			log.Error("Failed to clear session", "error", err)
		}
	}
	s.Delete(SessionTokenKey)
	s.AddFlash(MsgLoggedOut)
	if err := s.Save(); err != nil {
		if err := c.AbortWithError(http.StatusInternalServerError, err); err != nil {
			log.Error("Failed to abort with error", "error", err)
		}
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func currentSession(c *gin.Context) *session.Info {
	return c.MustGet(contextSessionKey).(*session.Info)
}

func (h *Handler) predictData(c *gin.Context) pages.PredictData {
	info := currentSession(c)
	return pages.PredictData{
		Username:   info.Username,
		SignedInAt: info.CreatedAt,
		Flashes:    flashes(c),
	}
}

// PredictPage renders the empty application form.
func (h *Handler) PredictPage(c *gin.Context) {
	render(c, http.StatusOK, pages.Predict(h.predictData(c)))
}

// Predict classifies the submitted application.
func (h *Handler) Predict(c *gin.Context) {
	data := h.predictData(c)

	if err := parseForm(c.Request); err != nil {
		data.Error = "The submitted form could not be read."
		render(c, http.StatusBadRequest, pages.Predict(data))
		return
	}

	app, err := features.ParseForm(c.Request.PostForm)
	if err != nil {
		data.Error = userMessage(err)
		render(c, http.StatusBadRequest, pages.Predict(data))
		return
	}

	result, err := h.predictor.Predict(c.Request.Context(), app)
	if err != nil {
		var unknown *features.UnknownCategoryError
		if errors.As(err, &unknown) {
			data.Error = userMessage(err)
			render(c, http.StatusBadRequest, pages.Predict(data))
			return
		}
		log.Error("Failed to predict loan eligibility", "user", data.Username, "error", err)
		data.Error = MsgPredictionFailed
		render(c, http.StatusInternalServerError, pages.Predict(data))
		return
	}

	data.Prediction = result.Message
	data.Eligible = result.Eligible()
	data.Application = app
	render(c, http.StatusOK, pages.Predict(data))
}

// parseForm reads urlencoded and multipart bodies into PostForm.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// userMessage turns an input error into a sentence for the form.
func userMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

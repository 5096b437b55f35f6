package auth

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/parkpal/config"
	"github.com/FACorreiaa/parkpal/internal/api"
	"github.com/FACorreiaa/parkpal/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
	cfg     config.SessionConfig
}

func NewHandler(service Service, cfg config.SessionConfig, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
		cfg:     cfg,
	}
}

func (h *HandlerImpl) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.TTL),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *HandlerImpl) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register godoc
// @Summary      Register
// @Description  Creates an account, starts its 7-day trial and opens a session.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RegisterRequest true "Credentials"
// @Success      201 {object} types.User
// @Failure      400 {object} types.MessageResponse
// @Router       /register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/register"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		api.HandleServiceError(w, r, l, err)
		return
	}

	user, token, err := h.service.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "register failed")
		api.HandleServiceError(w, r, l, err)
		return
	}

	traceUser(span, user)
	h.setSessionCookie(w, token)
	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// Login godoc
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.LoginRequest true "Credentials"
// @Success      200 {object} types.User
// @Failure      401 {object} types.MessageResponse
// @Failure      429 {object} types.MessageResponse
// @Router       /login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/login"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeAndValidate(w, r, &req); err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}

	user, token, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		api.HandleServiceError(w, r, l, err)
		return
	}

	traceUser(span, user)
	h.setSessionCookie(w, token)
	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

// Logout godoc
// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.MessageResponse
// @Router       /logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Logout")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Logout"))

	if err := h.service.Logout(ctx, tokenFromRequest(r, h.cfg.CookieName)); err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	h.clearSessionCookie(w)
	api.WriteJSONResponse(w, r, http.StatusOK, types.MessageResponse{Message: "Logged out"})
}

// CurrentUser godoc
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.User
// @Failure      401 "No session"
// @Router       /user [get]
func (h *HandlerImpl) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

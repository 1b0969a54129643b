// Package register handles account registration. A successful request
// answers with a fresh bearer token, so registering doubles as logging
// in.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/invoicebox/invoicebox/internal/http/response"
	"github.com/invoicebox/invoicebox/internal/lib/sl"
	"github.com/invoicebox/invoicebox/internal/storage/repository"
)

// Request is the registration body.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=provider purchaser"`
}

// Response is the token shape returned by both register and login.
type Response struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
}

// Service is the part of the auth service this handler uses.
type Service interface {
	Register(ctx context.Context, username, email, password, role string) (int64, string, error)
}

// Handler handles POST /register.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New builds the handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userID, token, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("username already exists"))
		case errors.Is(err, repository.ErrEmailTaken):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already exists"))
		default:
			log.Error("registration failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	log.Info("user registered", slog.String("username", req.Username), slog.String("role", req.Role))
	render.JSON(w, r, Response{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      userID,
		Role:        req.Role,
	})
}

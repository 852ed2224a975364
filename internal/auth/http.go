// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/rowanfield/compostly/internal/platform/request"
	"github.com/rowanfield/compostly/internal/platform/respond"
	"github.com/rowanfield/compostly/internal/platform/sec"
	"github.com/rowanfield/compostly/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the user-facing routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates (form-encoded) and returns a bearer token.
//   - GET  /me       : Returns the authenticated account's public profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(protected chi.Router) {
		protected.Use(RequireIdentity(handler.authService))
		protected.Get("/me", handler.me)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Country  *string `json:"country"`
	Location *string `json:"location"`
}

// register handles POST /users/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the public profile.
//   - Writes HTTP 400 Bad Request if validation rules fail or the username
//     or email is already registered.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	// Prevent malformed data from reaching the service layer. The password
	// byte ceiling mirrors the hash input limit so no silently ignored
	// suffix can exist.
	v := &validate.Validator{}
	err := v.
		Required("username", input.Username).
		MinLen("username", input.Username, 3).
		MaxLen("username", input.Username, 50).
		Required("email", input.Email).
		Email("email", input.Email).
		MaxLen("email", input.Email, 120).
		MinLen("password", input.Password, 8).
		MaxBytes("password", input.Password, sec.MaxPasswordBytes).
		Custom("country", input.Country != nil && len(*input.Country) > 100, "Maximum 100 characters").
		Custom("location", input.Location != nil && len(*input.Location) > 255, "Maximum 255 characters").
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Country:  input.Country,
		Location: input.Location,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	// PasswordHash is json:"-", so the stored secret never leaves the server.
	respond.Created(writer, user)
}

// login handles POST /users/login requests.
//
// # Wire Format
//
// The body is form-encoded (username, password), not JSON, for
// compatibility with standard OAuth2 password-flow clients.
//
// # Returns
//   - Writes HTTP 200 OK with {access_token, token_type: "bearer"}.
//   - Writes HTTP 401 Unauthorized for bad credentials; unknown usernames
//     and wrong passwords are indistinguishable.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	if err := request.ParseForm(); err != nil {
		respond.Error(writer, request, validate.ErrInvalidForm)
		return
	}

	username := request.PostFormValue("username")
	password := request.PostFormValue("password")

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if username == "" || password == "" {
		respond.Error(writer, request, validate.RequiredError("username/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, result)
}

// me handles GET /users/me requests.
//
// The identity is guaranteed by [RequireIdentity]; the nil check is a
// safety net against a misconfigured router.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity := IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, errMissingIdentity)
		return
	}

	respond.OK(writer, identity)
}

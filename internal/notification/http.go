// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rowanfield/compostly/internal/auth"
	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/constants"
	requestutil "github.com/rowanfield/compostly/internal/platform/request"
	"github.com/rowanfield/compostly/internal/platform/respond"
)

// Handler implements notification HTTP endpoints.
type Handler struct {
	notificationService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{notificationService: service}
}

// Routes returns a [chi.Router] for notification endpoints. Every route
// requires an authenticated identity.
//
// # Endpoints
//   - GET  /me              : Lists alerts across the caller's piles.
//   - GET  /me/unread-count : Returns the cached unread counter.
//   - POST /{id}/read       : Acknowledges one alert.
func (handler *Handler) Routes(resolver auth.IdentityResolver) chi.Router {
	router := chi.NewRouter()
	router.Use(auth.RequireIdentity(resolver))

	router.Get("/me", handler.listMine)
	router.Get("/me/unread-count", handler.unreadCount)
	router.Post("/{id}/read", handler.markRead)

	return router
}

// listMine handles GET /notifications/me requests.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	identity := auth.IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
		return
	}

	notifications, err := handler.notificationService.ListMine(request.Context(), identity.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, notifications)
}

// unreadCount handles GET /notifications/me/unread-count requests.
func (handler *Handler) unreadCount(writer http.ResponseWriter, request *http.Request) {
	identity := auth.IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
		return
	}

	result, err := handler.notificationService.UnreadCount(request.Context(), identity.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// markRead handles POST /notifications/{id}/read requests.
//
// # Returns
//   - Writes HTTP 200 OK with the acknowledged alert.
//   - Writes HTTP 404 Not Found when the alert is absent or attached to a
//     pile the caller does not own.
func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	identity := auth.IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
		return
	}

	notificationID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	notification, err := handler.notificationService.MarkRead(request.Context(), identity.Username, notificationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, notification)
}

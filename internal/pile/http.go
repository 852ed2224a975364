// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package pile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rowanfield/compostly/internal/auth"
	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/constants"
	requestutil "github.com/rowanfield/compostly/internal/platform/request"
	"github.com/rowanfield/compostly/internal/platform/respond"
	"github.com/rowanfield/compostly/internal/platform/validate"
)

// Handler implements compost-pile HTTP endpoints.
type Handler struct {
	pileService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{pileService: service}
}

// Routes returns a [chi.Router] for pile endpoints. Every route requires an
// authenticated identity.
//
// # Endpoints
//   - POST /create                  : Registers a new pile for the caller.
//   - GET  /me                      : Lists the caller's piles.
//   - POST /{pileID}/health-records : Records a health snapshot.
//   - GET  /{pileID}/health-records : Lists a pile's health timeline.
func (handler *Handler) Routes(resolver auth.IdentityResolver) chi.Router {
	router := chi.NewRouter()
	router.Use(auth.RequireIdentity(resolver))

	router.Post("/create", handler.createPile)
	router.Get("/me", handler.listMine)
	router.Post("/{pileID}/health-records", handler.recordHealth)
	router.Get("/{pileID}/health-records", handler.listHealth)

	return router
}

// createPileRequest represents the JSON payload for pile registration.
//
// A username field, if a client sends one, is simply not part of this
// struct: ownership comes from the bearer token alone.
type createPileRequest struct {
	Name             string   `json:"name"`
	VolumeAtCreation *float64 `json:"volume_at_creation"`
	Location         *string  `json:"location"`
}

// createPile handles POST /compost-piles/create requests.
func (handler *Handler) createPile(writer http.ResponseWriter, request *http.Request) {
	identity := auth.IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
		return
	}

	var input createPileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	err := v.
		Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Positive("volume_at_creation", input.VolumeAtCreation).
		Custom("location", input.Location != nil && len(*input.Location) > 255, "Maximum 255 characters").
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pile, err := handler.pileService.CreatePile(request.Context(), identity.Username, CreatePileInput{
		Name:             input.Name,
		VolumeAtCreation: input.VolumeAtCreation,
		Location:         input.Location,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, pile)
}

// listMine handles GET /compost-piles/me requests.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	identity := auth.IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
		return
	}

	piles, err := handler.pileService.ListMine(request.Context(), identity.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, piles)
}

// recordHealthRequest represents the JSON payload for a health snapshot.
type recordHealthRequest struct {
	Temperature     *float64 `json:"temperature"`
	Moisture        *float64 `json:"moisture"`
	NitrogenContent *float64 `json:"nitrogen_content"`
	CarbonContent   *float64 `json:"carbon_content"`
}

// recordHealth handles POST /compost-piles/{pileID}/health-records requests.
//
// # Returns
//   - Writes HTTP 201 Created with the scored record.
//   - Writes HTTP 404 Not Found when the pile is absent or owned by a
//     different user; the two are indistinguishable.
func (handler *Handler) recordHealth(writer http.ResponseWriter, request *http.Request) {
	identity := auth.IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
		return
	}

	pileID, err := requestutil.Int64Param(request, "pileID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input recordHealthRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	err = v.
		Custom("temperature", input.Temperature != nil && (*input.Temperature < -50 || *input.Temperature > 120), "Must be between -50 and 120 °C").
		Custom("moisture", input.Moisture != nil && (*input.Moisture < 0 || *input.Moisture > 100), "Must be a percentage between 0 and 100").
		Custom("nitrogen_content", input.NitrogenContent != nil && (*input.NitrogenContent < 0 || *input.NitrogenContent > 100), "Must be a percentage between 0 and 100").
		Custom("carbon_content", input.CarbonContent != nil && (*input.CarbonContent < 0 || *input.CarbonContent > 100), "Must be a percentage between 0 and 100").
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.pileService.RecordHealth(request.Context(), identity.Username, pileID, RecordHealthInput{
		Temperature:     input.Temperature,
		Moisture:        input.Moisture,
		NitrogenContent: input.NitrogenContent,
		CarbonContent:   input.CarbonContent,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

// listHealth handles GET /compost-piles/{pileID}/health-records requests.
func (handler *Handler) listHealth(writer http.ResponseWriter, request *http.Request) {
	identity := auth.IdentityFromContext(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericCredentialsMessage))
		return
	}

	pileID, err := requestutil.Int64Param(request, "pileID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.pileService.ListHealth(request.Context(), identity.Username, pileID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, records)
}

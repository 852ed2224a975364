// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package recipe

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rowanfield/compostly/internal/auth"
	requestutil "github.com/rowanfield/compostly/internal/platform/request"
	"github.com/rowanfield/compostly/internal/platform/respond"
	"github.com/rowanfield/compostly/internal/platform/validate"
	"github.com/rowanfield/compostly/pkg/pagination"
)

// Handler implements the catalogue HTTP endpoints.
type Handler struct {
	catalogueService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogueService: service}
}

// RecipeRoutes returns a [chi.Router] for the recipe catalogue. Reads are
// public; publishing requires an authenticated identity.
func (handler *Handler) RecipeRoutes(resolver auth.IdentityResolver) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listRecipes)
	router.Get("/{slug}", handler.getRecipe)

	router.Group(func(protected chi.Router) {
		protected.Use(auth.RequireIdentity(resolver))
		protected.Post("/", handler.createRecipe)
	})

	return router
}

// IngredientRoutes returns a [chi.Router] for the ingredient table with the
// same access rules as recipes.
func (handler *Handler) IngredientRoutes(resolver auth.IdentityResolver) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listIngredients)

	router.Group(func(protected chi.Router) {
		protected.Use(auth.RequireIdentity(resolver))
		protected.Post("/", handler.createIngredient)
	})

	return router
}

// # Recipes

// createRecipeRequest represents the JSON payload for publishing a recipe.
type createRecipeRequest struct {
	Name           string   `json:"name"`
	TargetMoisture *float64 `json:"target_moisture"`
	TargetCNRatio  *float64 `json:"target_cn_ratio"`
}

// createRecipe handles POST /recipes requests.
func (handler *Handler) createRecipe(writer http.ResponseWriter, request *http.Request) {
	var input createRecipeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	err := v.
		Required("name", input.Name).
		MaxLen("name", input.Name, 120).
		Custom("target_moisture", input.TargetMoisture != nil && (*input.TargetMoisture < 0 || *input.TargetMoisture > 100), "Must be a percentage between 0 and 100").
		Positive("target_cn_ratio", input.TargetCNRatio).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recipe, err := handler.catalogueService.CreateRecipe(request.Context(), CreateRecipeInput{
		Name:           input.Name,
		TargetMoisture: input.TargetMoisture,
		TargetCNRatio:  input.TargetCNRatio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, recipe)
}

// listRecipes handles GET /recipes requests with page/limit parameters.
func (handler *Handler) listRecipes(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	recipes, meta, err := handler.catalogueService.ListRecipes(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, recipes, meta)
}

// getRecipe handles GET /recipes/{slug} requests.
func (handler *Handler) getRecipe(writer http.ResponseWriter, request *http.Request) {
	recipe, err := handler.catalogueService.GetRecipeBySlug(request.Context(), chi.URLParam(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, recipe)
}

// # Ingredients

// createIngredientRequest represents the JSON payload for cataloguing an
// ingredient.
type createIngredientRequest struct {
	Name            string   `json:"name"`
	MoistureContent *float64 `json:"moisture_content"`
	NitrogenContent *float64 `json:"nitrogen_content"`
	CarbonContent   *float64 `json:"carbon_content"`
}

// createIngredient handles POST /ingredients requests.
func (handler *Handler) createIngredient(writer http.ResponseWriter, request *http.Request) {
	var input createIngredientRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	percentRule := func(value *float64) bool {
		return value != nil && (*value < 0 || *value > 100)
	}

	v := &validate.Validator{}
	err := v.
		Required("name", input.Name).
		MaxLen("name", input.Name, 80).
		Custom("moisture_content", percentRule(input.MoistureContent), "Must be a percentage between 0 and 100").
		Custom("nitrogen_content", percentRule(input.NitrogenContent), "Must be a percentage between 0 and 100").
		Custom("carbon_content", percentRule(input.CarbonContent), "Must be a percentage between 0 and 100").
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ingredient, err := handler.catalogueService.CreateIngredient(request.Context(), CreateIngredientInput{
		Name:            input.Name,
		MoistureContent: input.MoistureContent,
		NitrogenContent: input.NitrogenContent,
		CarbonContent:   input.CarbonContent,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, ingredient)
}

// listIngredients handles GET /ingredients requests.
func (handler *Handler) listIngredients(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	ingredients, meta, err := handler.catalogueService.ListIngredients(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, ingredients, meta)
}

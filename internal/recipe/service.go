// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package recipe

import (
	"context"
	"fmt"

	"github.com/rowanfield/compostly/pkg/pagination"
	"github.com/rowanfield/compostly/pkg/slug"
)

// Service implements the shared recipe and ingredient catalogue.
type Service struct {
	recipeRepository     RecipeRepository
	ingredientRepository IngredientRepository
}

// NewService constructs a new catalogue [Service] with necessary dependencies.
func NewService(recipeRepo RecipeRepository, ingredientRepo IngredientRepository) *Service {
	return &Service{
		recipeRepository:     recipeRepo,
		ingredientRepository: ingredientRepo,
	}
}

// CreateRecipeInput holds the data required to publish a recipe.
type CreateRecipeInput struct {
	Name           string
	TargetMoisture *float64
	TargetCNRatio  *float64
}

// CreateRecipe publishes a recipe under a URL slug derived from its name.
// Two recipes whose names normalize to the same slug collide; the second
// one is rejected by the slug's unique constraint.
func (service *Service) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*CompostRecipe, error) {
	recipe := &CompostRecipe{
		Name:           input.Name,
		Slug:           slug.From(input.Name),
		TargetMoisture: input.TargetMoisture,
		TargetCNRatio:  input.TargetCNRatio,
	}

	if err := service.recipeRepository.Create(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// ListRecipes returns one page of the recipe catalogue with its metadata.
func (service *Service) ListRecipes(ctx context.Context, params pagination.Params) ([]*CompostRecipe, pagination.Meta, error) {
	recipes, total, err := service.recipeRepository.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("recipe_service_list_failed: %w", err)
	}

	if recipes == nil {
		recipes = []*CompostRecipe{}
	}
	return recipes, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// GetRecipeBySlug returns a single recipe by its URL slug.
func (service *Service) GetRecipeBySlug(ctx context.Context, recipeSlug string) (*CompostRecipe, error) {
	return service.recipeRepository.FindBySlug(ctx, recipeSlug)
}

// CreateIngredientInput holds the data required to catalogue an ingredient.
type CreateIngredientInput struct {
	Name            string
	MoistureContent *float64
	NitrogenContent *float64
	CarbonContent   *float64
}

// CreateIngredient adds a feedstock entry to the reference table.
func (service *Service) CreateIngredient(ctx context.Context, input CreateIngredientInput) (*Ingredient, error) {
	ingredient := &Ingredient{
		Name:            input.Name,
		MoistureContent: input.MoistureContent,
		NitrogenContent: input.NitrogenContent,
		CarbonContent:   input.CarbonContent,
	}

	if err := service.ingredientRepository.Create(ctx, ingredient); err != nil {
		return nil, err
	}

	return ingredient, nil
}

// ListIngredients returns one page of the ingredient table with its metadata.
func (service *Service) ListIngredients(ctx context.Context, params pagination.Params) ([]*Ingredient, pagination.Meta, error) {
	ingredients, total, err := service.ingredientRepository.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("ingredient_service_list_failed: %w", err)
	}

	if ingredients == nil {
		ingredients = []*Ingredient{}
	}
	return ingredients, pagination.NewMeta(params.Page, params.Limit, total), nil
}

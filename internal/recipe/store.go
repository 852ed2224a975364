// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package recipe

import "context"

// RecipeRepository defines the data access contract for the recipe catalogue.
type RecipeRepository interface {
	// Create persists a new recipe and fills in its generated RecipeID and
	// CreatedAt. Returns [apperr.ConstraintViolation] on a slug collision.
	Create(ctx context.Context, recipe *CompostRecipe) error

	// List returns one page of recipes (newest first) plus the total count.
	List(ctx context.Context, limit, offset int) ([]*CompostRecipe, int, error)

	// FindBySlug returns the recipe with the given slug, or
	// [apperr.NotFound].
	FindBySlug(ctx context.Context, slug string) (*CompostRecipe, error)
}

// IngredientRepository defines the data access contract for the ingredient
// reference table.
type IngredientRepository interface {
	// Create persists a new ingredient. Returns
	// [apperr.ConstraintViolation] when the name is already catalogued.
	Create(ctx context.Context, ingredient *Ingredient) error

	// List returns one page of ingredients (alphabetical) plus the total
	// count.
	List(ctx context.Context, limit, offset int) ([]*Ingredient, int, error)
}

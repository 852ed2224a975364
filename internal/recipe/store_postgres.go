// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package recipe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/internal/platform/dberr"
)

// PostgresRecipeRepository implements the RecipeRepository interface using pgx.
type PostgresRecipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository creates a new PostgreSQL implementation of the RecipeRepository.
func NewRecipeRepository(pool *pgxpool.Pool) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{pool: pool}
}

// Create inserts a recipe row and reads back the generated key and timestamp.
func (repository *PostgresRecipeRepository) Create(ctx context.Context, recipe *CompostRecipe) error {
	const query = `
		INSERT INTO compost_recipe (name, slug, target_moisture, target_cn_ratio)
		VALUES ($1, $2, $3, $4)
		RETURNING recipe_id, created_at`

	err := repository.pool.QueryRow(ctx, query,
		recipe.Name,
		recipe.Slug,
		recipe.TargetMoisture,
		recipe.TargetCNRatio,
	).Scan(&recipe.RecipeID, &recipe.CreatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.ConstraintViolation("A recipe with this name already exists")
		}
		return fmt.Errorf("postgres_recipe_repo_create_failed: %w", err)
	}

	return nil
}

// List returns one page of recipes, newest first, and the catalogue total.
//
// The total count rides along on every row via a window function, the same
// single-round-trip pattern used across the Compostly stores.
func (repository *PostgresRecipeRepository) List(ctx context.Context, limit, offset int) ([]*CompostRecipe, int, error) {
	const query = `
		SELECT recipe_id, name, slug, target_moisture, target_cn_ratio, created_at,
		       COUNT(*) OVER() AS total_count
		FROM compost_recipe
		ORDER BY created_at DESC, recipe_id DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_recipe_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var total int
	recipes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*CompostRecipe, error) {
		recipe := &CompostRecipe{}
		err := row.Scan(
			&recipe.RecipeID,
			&recipe.Name,
			&recipe.Slug,
			&recipe.TargetMoisture,
			&recipe.TargetCNRatio,
			&recipe.CreatedAt,
			&total,
		)
		return recipe, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_recipe_repo_collect_failed: %w", err)
	}

	return recipes, total, nil
}

// FindBySlug returns the recipe with the given URL slug.
func (repository *PostgresRecipeRepository) FindBySlug(ctx context.Context, slug string) (*CompostRecipe, error) {
	const query = `
		SELECT recipe_id, name, slug, target_moisture, target_cn_ratio, created_at
		FROM compost_recipe
		WHERE slug = $1`

	recipe := &CompostRecipe{}
	err := repository.pool.QueryRow(ctx, query, slug).Scan(
		&recipe.RecipeID,
		&recipe.Name,
		&recipe.Slug,
		&recipe.TargetMoisture,
		&recipe.TargetCNRatio,
		&recipe.CreatedAt,
	)

	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Recipe")
		}
		return nil, fmt.Errorf("postgres_recipe_repo_find_by_slug_failed: %w", err)
	}

	return recipe, nil
}

// PostgresIngredientRepository implements the IngredientRepository interface
// using pgx.
type PostgresIngredientRepository struct {
	pool *pgxpool.Pool
}

// NewIngredientRepository creates a new PostgreSQL implementation of the
// IngredientRepository.
func NewIngredientRepository(pool *pgxpool.Pool) *PostgresIngredientRepository {
	return &PostgresIngredientRepository{pool: pool}
}

// Create inserts an ingredient row.
func (repository *PostgresIngredientRepository) Create(ctx context.Context, ingredient *Ingredient) error {
	const query = `
		INSERT INTO ingredient (name, moisture_content, nitrogen_content, carbon_content)
		VALUES ($1, $2, $3, $4)`

	_, err := repository.pool.Exec(ctx, query,
		ingredient.Name,
		ingredient.MoistureContent,
		ingredient.NitrogenContent,
		ingredient.CarbonContent,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.ConstraintViolation("Ingredient is already catalogued")
		}
		return fmt.Errorf("postgres_ingredient_repo_create_failed: %w", err)
	}

	return nil
}

// List returns one page of ingredients in alphabetical order plus the total.
func (repository *PostgresIngredientRepository) List(ctx context.Context, limit, offset int) ([]*Ingredient, int, error) {
	const query = `
		SELECT name, moisture_content, nitrogen_content, carbon_content,
		       COUNT(*) OVER() AS total_count
		FROM ingredient
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_ingredient_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var total int
	ingredients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Ingredient, error) {
		ingredient := &Ingredient{}
		err := row.Scan(
			&ingredient.Name,
			&ingredient.MoistureContent,
			&ingredient.NitrogenContent,
			&ingredient.CarbonContent,
			&total,
		)
		return ingredient, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_ingredient_repo_collect_failed: %w", err)
	}

	return ingredients, total, nil
}

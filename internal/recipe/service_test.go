// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package recipe

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/compostly/internal/platform/apperr"
	"github.com/rowanfield/compostly/pkg/pagination"
	"github.com/rowanfield/compostly/pkg/pointer"
)

// # Test Doubles

type memoryRecipeRepository struct {
	mu      sync.Mutex
	nextID  int64
	recipes []*CompostRecipe
}

func newMemoryRecipeRepository() *memoryRecipeRepository {
	return &memoryRecipeRepository{nextID: 1}
}

func (repo *memoryRecipeRepository) Create(_ context.Context, recipe *CompostRecipe) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.recipes {
		if existing.Slug == recipe.Slug {
			return apperr.ConstraintViolation("A recipe with this name already exists")
		}
	}

	recipe.RecipeID = repo.nextID
	recipe.CreatedAt = time.Now()
	repo.nextID++

	clone := *recipe
	repo.recipes = append(repo.recipes, &clone)
	return nil
}

func (repo *memoryRecipeRepository) List(_ context.Context, limit, offset int) ([]*CompostRecipe, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	ordered := append([]*CompostRecipe(nil), repo.recipes...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].RecipeID > ordered[j].RecipeID })

	total := len(ordered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return ordered[offset:end], total, nil
}

func (repo *memoryRecipeRepository) FindBySlug(_ context.Context, slug string) (*CompostRecipe, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, recipe := range repo.recipes {
		if recipe.Slug == slug {
			clone := *recipe
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Recipe")
}

type memoryIngredientRepository struct {
	mu          sync.Mutex
	ingredients []*Ingredient
}

func (repo *memoryIngredientRepository) Create(_ context.Context, ingredient *Ingredient) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.ingredients {
		if existing.Name == ingredient.Name {
			return apperr.ConstraintViolation("Ingredient is already catalogued")
		}
	}

	clone := *ingredient
	repo.ingredients = append(repo.ingredients, &clone)
	return nil
}

func (repo *memoryIngredientRepository) List(_ context.Context, limit, offset int) ([]*Ingredient, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	ordered := append([]*Ingredient(nil), repo.ingredients...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	total := len(ordered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return ordered[offset:end], total, nil
}

func newTestService() *Service {
	return NewService(newMemoryRecipeRepository(), &memoryIngredientRepository{})
}

// # Recipes

func TestService_CreateRecipe(t *testing.T) {
	t.Run("derives the slug from the name", func(t *testing.T) {
		service := newTestService()

		recipe, err := service.CreateRecipe(context.Background(), CreateRecipeInput{
			Name:           "Hot Composting Mix",
			TargetMoisture: pointer.To(55.0),
			TargetCNRatio:  pointer.To(30.0),
		})
		require.NoError(t, err)

		assert.Equal(t, "hot-composting-mix", recipe.Slug)
		assert.NotZero(t, recipe.RecipeID)

		found, err := service.GetRecipeBySlug(context.Background(), "hot-composting-mix")
		require.NoError(t, err)
		assert.Equal(t, recipe.RecipeID, found.RecipeID)
	})

	t.Run("rejects names that normalize to the same slug", func(t *testing.T) {
		service := newTestService()

		_, err := service.CreateRecipe(context.Background(), CreateRecipeInput{Name: "Hot Composting Mix"})
		require.NoError(t, err)

		_, err = service.CreateRecipe(context.Background(), CreateRecipeInput{Name: "Hot   Composting  Mix!"})
		require.Error(t, err)
		assert.Equal(t, "CONSTRAINT_VIOLATION", apperr.As(err).Code)
	})
}

func TestService_ListRecipes(t *testing.T) {
	t.Run("pages through the catalogue with metadata", func(t *testing.T) {
		service := newTestService()
		for _, name := range []string{"Mix A", "Mix B", "Mix C"} {
			_, err := service.CreateRecipe(context.Background(), CreateRecipeInput{Name: name})
			require.NoError(t, err)
		}

		recipes, meta, err := service.ListRecipes(context.Background(), pagination.Params{Page: 1, Limit: 2})
		require.NoError(t, err)

		assert.Len(t, recipes, 2)
		assert.Equal(t, 3, meta.Total)
		assert.Equal(t, 2, meta.TotalPages)

		lastPage, _, err := service.ListRecipes(context.Background(), pagination.Params{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, lastPage, 1)
	})

	t.Run("empty catalogue is an empty page", func(t *testing.T) {
		service := newTestService()

		recipes, meta, err := service.ListRecipes(context.Background(), pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)

		assert.NotNil(t, recipes)
		assert.Empty(t, recipes)
		assert.Equal(t, 0, meta.Total)
	})
}

func TestService_GetRecipeBySlug(t *testing.T) {
	t.Run("unknown slug is NOT_FOUND", func(t *testing.T) {
		service := newTestService()

		_, err := service.GetRecipeBySlug(context.Background(), "no-such-mix")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

// # Ingredients

func TestService_Ingredients(t *testing.T) {
	t.Run("catalogues and lists alphabetically", func(t *testing.T) {
		service := newTestService()

		for _, name := range []string{"Straw", "Coffee grounds", "Grass clippings"} {
			_, err := service.CreateIngredient(context.Background(), CreateIngredientInput{
				Name:            name,
				NitrogenContent: pointer.To(2.0),
			})
			require.NoError(t, err)
		}

		ingredients, meta, err := service.ListIngredients(context.Background(), pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)

		require.Len(t, ingredients, 3)
		assert.Equal(t, "Coffee grounds", ingredients[0].Name)
		assert.Equal(t, 3, meta.Total)
	})

	t.Run("duplicate name is a constraint violation", func(t *testing.T) {
		service := newTestService()

		_, err := service.CreateIngredient(context.Background(), CreateIngredientInput{Name: "Straw"})
		require.NoError(t, err)

		_, err = service.CreateIngredient(context.Background(), CreateIngredientInput{Name: "Straw"})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.As(err).HTTPStatus)
	})
}

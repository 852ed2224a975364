// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

/*
Package recipe implements the shared composting catalogue: recipes with
target parameters and the ingredient reference table.

Unlike piles, the catalogue is not per-user data. Reading it requires no
authentication; contributing to it does.
*/
package recipe

import "time"

// CompostRecipe describes a target mix for a compost pile.
type CompostRecipe struct {
	RecipeID       int64     `json:"recipe_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	TargetMoisture *float64  `json:"target_moisture"`
	TargetCNRatio  *float64  `json:"target_cn_ratio"`
	CreatedAt      time.Time `json:"created_at"`
}

// Ingredient is one feedstock entry of the reference table, keyed by its
// name. Contents are percentages.
type Ingredient struct {
	Name            string   `json:"name"`
	MoistureContent *float64 `json:"moisture_content"`
	NitrogenContent *float64 `json:"nitrogen_content"`
	CarbonContent   *float64 `json:"carbon_content"`
}

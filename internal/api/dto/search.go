package dto

import (
	"localfinder/internal/domain"
	"localfinder/internal/views"
)

type SearchResponse struct {
	Query    string             `json:"query"`
	Page     int                `json:"page"`
	Filter   domain.FilterState `json:"filter"`
	Selected string             `json:"selected,omitempty"`
	Location LocationResponse   `json:"location"`
	List     views.ListModel    `json:"list"`
	Map      views.MapModel     `json:"map"`
}

// SelectRequest is a card or marker click.
type SelectRequest struct {
	ID     string `json:"id"`
	Source string `json:"source"` // list | map
}

type HomeResponse struct {
	Location LocationResponse `json:"location"`

	QuickCategories []domain.Category `json:"quickCategories"`
	Categories      []domain.Category `json:"categories"`
	CategoriesError string            `json:"categoriesError,omitempty"`

	Featured      []PlaceResponse `json:"featured"`
	FeaturedError string          `json:"featuredError,omitempty"`
}

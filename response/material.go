package response

import (
	"time"

	"meditation-assistant-backend/model"
)

type MaterialResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CategoryID      uint      `json:"category_id"`
	DurationSeconds int       `json:"duration_seconds"`
	HasAudio        bool      `json:"has_audio"`
	IndexStatus     string    `json:"index_status"`
	CreatedAt       time.Time `json:"created_at"`
}

type GetMaterialsResponse struct {
	Materials []MaterialResponse `json:"materials"`
}

type CategoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	SortOrder int    `json:"sort_order"`
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type GetAudioLinkResponse struct {
	URL string `json:"url"`
}

func NewMaterialResponse(m model.Material) MaterialResponse {
	return MaterialResponse{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		CategoryID:      m.CategoryID,
		DurationSeconds: m.DurationSeconds,
		HasAudio:        m.AudioObjectName != "",
		IndexStatus:     string(m.IndexStatus),
		CreatedAt:       m.CreatedAt,
	}
}

func NewMaterialsResponse(materials []model.Material) GetMaterialsResponse {
	resp := GetMaterialsResponse{
		Materials: make([]MaterialResponse, 0, len(materials)),
	}
	for _, m := range materials {
		resp.Materials = append(resp.Materials, NewMaterialResponse(m))
	}
	return resp
}

func NewCategoriesResponse(categories []model.Category) GetCategoriesResponse {
	resp := GetCategoriesResponse{
		Categories: make([]CategoryResponse, 0, len(categories)),
	}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, NewCategoryResponse(c))
	}
	return resp
}

func NewCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Emoji:     c.Emoji,
		SortOrder: c.SortOrder,
	}
}

package dto

import (
	"github.com/google/uuid"

	"clinic/internal/domains/catalog/model"
	"clinic/shared"
	gDto "clinic/shared/dto"
	gModel "clinic/shared/model"
	"clinic/shared/timezone"
)

type CreateItemRequest struct {
	Name         string `json:"name"          validate:"required,max=100"`
	Price        int64  `json:"price"         validate:"gte=0"`
	DurationDays int    `json:"duration_days" validate:"gte=0"`
}

func (c *CreateItemRequest) ToModel(user string) model.CatalogItem {
	return model.CatalogItem{
		ID:           uuid.NewString(),
		Name:         c.Name,
		Price:        c.Price,
		DurationDays: c.DurationDays,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateItemRequest struct {
	Name         string `db:"name"          json:"name"          validate:"omitempty,max=100"`
	Price        *int64 `db:"price"         json:"price"         validate:"omitempty,gte=0"`
	DurationDays *int   `db:"duration_days" json:"duration_days" validate:"omitempty,gte=0"`
}

type ItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	DurationDays int    `json:"duration_days"`
	gDto.Metadata
}

func (r *ItemResponse) FromModel(model model.CatalogItem) {
	r.ID = model.ID
	r.Name = model.Name
	r.Price = model.Price
	r.DurationDays = model.DurationDays
	r.Metadata.FromModel(model.Metadata)
}

type GetItemsResponse struct {
	Items     []ItemResponse `json:"items"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetItemsResponse) FromModels(models []model.CatalogItem, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]ItemResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}

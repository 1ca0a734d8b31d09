package dto

import "coursemate_backend/internal/models"

// ======================
// Request DTOs
// ======================

type CreateItemRequest struct {
	Title       string   `json:"title" validate:"required,not-blank,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Images      []string `json:"images" validate:"max=10,dive,required"`
	SellerName  string   `json:"sellerName" validate:"required"`
	SellerEmail string   `json:"sellerEmail" validate:"omitempty,email"`
	SellerPhone string   `json:"sellerPhone"`
	Category    string   `json:"category" validate:"required,not-blank"`
	SellerID    string   `json:"sellerId" validate:"required,doc-id"`
	Price       float64  `json:"price" validate:"min=0"`
}

func (r *CreateItemRequest) ToModel() *models.Item {
	item := &models.Item{
		Title:       r.Title,
		Description: r.Description,
		Images:      r.Images,
		SellerName:  r.SellerName,
		SellerEmail: r.SellerEmail,
		SellerPhone: r.SellerPhone,
		Category:    r.Category,
		SellerID:    r.SellerID,
		Price:       r.Price,
	}
	item.Normalize()
	return item
}

type WishlistRequest struct {
	ItemID string `json:"itemId" validate:"required,doc-id"`
	UserID string `json:"userId" validate:"required,doc-id"`
}

type WishlistQuery struct {
	UserID string `form:"userId" validate:"required,doc-id"`
}

type ItemSearchQuery struct {
	SearchQuery string `form:"searchQuery"`
}

type RelatedItemsRequest struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

type ShowInterestRequest struct {
	UserID string `json:"userId" validate:"required,doc-id"`
	ItemID string `json:"itemId" validate:"required,doc-id"`
}

package models

import (
	"slices"
	"strings"
	"time"
)

// Item - объявление маркетплейса (market/{id}). После создания не меняется.
type Item struct {
	ID          string    `firestore:"-" json:"id"`
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description" json:"description"`
	Images      []string  `firestore:"images" json:"images"`
	SellerName  string    `firestore:"sellerName" json:"sellerName"`
	SellerEmail string    `firestore:"sellerEmail" json:"sellerEmail"`
	SellerPhone string    `firestore:"sellerPhone" json:"sellerPhone"`
	Category    string    `firestore:"category" json:"category"`
	SellerID    string    `firestore:"sellerId" json:"sellerId"`
	Price       float64   `firestore:"price" json:"price"`
	Keywords    []string  `firestore:"keywords" json:"keywords"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}

// Normalize выводит keywords из названия и приводит категорию к нижнему регистру
func (i *Item) Normalize() {
	i.Category = strings.ToLower(strings.TrimSpace(i.Category))
	i.Keywords = Keywords(i.Title)
	if i.Images == nil {
		i.Images = []string{}
	}
}

// WishlistEntry - денормализованная копия объявления в users/{userId}/wishlist/{itemId}
type WishlistEntry struct {
	Item
	AddedAt time.Time `firestore:"addedAt" json:"addedAt"`
}

// SortWishlist упорядочивает по addedAt; записи без даты идут первыми
func SortWishlist(entries []*WishlistEntry) {
	slices.SortStableFunc(entries, func(a, b *WishlistEntry) int {
		return a.AddedAt.Compare(b.AddedAt)
	})
}

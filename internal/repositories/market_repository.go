package repositories

import (
	"context"
	"time"

	"coursemate_backend/internal/models"

	"cloud.google.com/go/firestore"
)

type MarketRepositoryImpl struct {
	client *firestore.Client
}

func NewMarketRepository(client *firestore.Client) *MarketRepositoryImpl {
	return &MarketRepositoryImpl{client: client}
}

func setItemID(item *models.Item, doc *firestore.DocumentSnapshot) {
	item.ID = doc.Ref.ID
}

func (r *MarketRepositoryImpl) CreateItem(ctx context.Context, item *models.Item) (string, error) {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	ref, _, err := r.client.Collection(collectionMarket).Add(ctx, item)
	if err != nil {
		return "", mapStoreError(err)
	}
	item.ID = ref.ID
	return ref.ID, nil
}

func (r *MarketRepositoryImpl) FindAllItems(ctx context.Context) ([]*models.Item, error) {
	return queryDocs(ctx, r.client.Collection(collectionMarket).Query, setItemID)
}

func (r *MarketRepositoryImpl) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	doc, err := r.client.Collection(collectionMarket).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	var item models.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, err
	}
	item.ID = doc.Ref.ID
	return &item, nil
}

func (r *MarketRepositoryImpl) FindItemsByKeyword(ctx context.Context, keyword string) ([]*models.Item, error) {
	q := r.client.Collection(collectionMarket).Where("keywords", "array-contains", keyword)
	return queryDocs(ctx, q, setItemID)
}

func (r *MarketRepositoryImpl) FindItemsByCategory(ctx context.Context, category string) ([]*models.Item, error) {
	q := r.client.Collection(collectionMarket).Where("category", "==", category)
	return queryDocs(ctx, q, setItemID)
}

// --- Wishlist ---

type WishlistRepositoryImpl struct {
	client *firestore.Client
}

func NewWishlistRepository(client *firestore.Client) *WishlistRepositoryImpl {
	return &WishlistRepositoryImpl{client: client}
}

func (r *WishlistRepositoryImpl) wishlist(userID string) *firestore.CollectionRef {
	return r.client.Collection(collectionUsers).Doc(userID).Collection(collectionWishlist)
}

// AddWishlistEntry: id документа = id объявления, Create падает с AlreadyExists на повторе
func (r *WishlistRepositoryImpl) AddWishlistEntry(ctx context.Context, userID string, entry *models.WishlistEntry) error {
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	_, err := r.wishlist(userID).Doc(entry.ID).Create(ctx, entry)
	return mapStoreError(err)
}

func (r *WishlistRepositoryImpl) FindWishlistByUser(ctx context.Context, userID string) ([]*models.WishlistEntry, error) {
	// без OrderBy: Firestore отбрасывает документы, у которых нет поля сортировки
	list, err := queryDocs(ctx, r.wishlist(userID).Query, func(e *models.WishlistEntry, doc *firestore.DocumentSnapshot) {
		e.ID = doc.Ref.ID
	})
	if err != nil {
		return nil, err
	}
	models.SortWishlist(list)
	return list, nil
}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"coursemate_backend/internal/email"
	"coursemate_backend/internal/imageprocessor"
	"coursemate_backend/internal/logger"
	"coursemate_backend/internal/models"
	"coursemate_backend/internal/repositories"
	"coursemate_backend/internal/services/dto"
	"coursemate_backend/internal/storage"
	"coursemate_backend/pkg/apperrors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type MarketService interface {
	CreateItem(ctx context.Context, req *dto.CreateItemRequest) (string, error)
	ListItems(ctx context.Context) ([]*models.Item, error)
	AddToWishlist(ctx context.Context, req *dto.WishlistRequest) error
	GetWishlist(ctx context.Context, userID string) ([]*models.WishlistEntry, error)
	SearchItems(ctx context.Context, query string) ([]*models.Item, error)
	RelatedItems(ctx context.Context, req *dto.RelatedItemsRequest) ([]*models.Item, error)
	ShowInterest(ctx context.Context, req *dto.ShowInterestRequest) error
	UploadImage(ctx context.Context, r io.Reader) (string, error)
}

// UploadOptions - ограничения на картинки объявлений
type UploadOptions struct {
	MaxSize      int64
	AllowedTypes []string
}

type marketService struct {
	marketRepo    repositories.MarketRepository
	wishlistRepo  repositories.WishlistRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	mailer        email.Provider
	storage       storage.Storage
	images        *imageprocessor.Processor
	upload        UploadOptions
	now           func() time.Time
}

func NewMarketService(
	marketRepo repositories.MarketRepository,
	wishlistRepo repositories.WishlistRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	mailer email.Provider,
	storage storage.Storage,
	images *imageprocessor.Processor,
	upload UploadOptions,
) MarketService {
	if mailer == nil {
		mailer = email.NoopProvider{}
	}
	return &marketService{
		marketRepo:    marketRepo,
		wishlistRepo:  wishlistRepo,
		userRepo:      userRepo,
		notifications: notifications,
		mailer:        mailer,
		storage:       storage,
		images:        images,
		upload:        upload,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ---------------- Items ----------------

func (s *marketService) CreateItem(ctx context.Context, req *dto.CreateItemRequest) (string, error) {
	item := req.ToModel()
	item.CreatedAt = s.now()

	id, err := s.marketRepo.CreateItem(ctx, item)
	if err != nil {
		return "", apperrors.ErrDatabase(err, apperrors.DomainMarket)
	}
	logger.CtxInfo(ctx, "Item created", "item_id", id, "seller_id", item.SellerID)
	return id, nil
}

func (s *marketService) ListItems(ctx context.Context) ([]*models.Item, error) {
	items, err := s.marketRepo.FindAllItems(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, apperrors.DomainMarket)
	}
	return items, nil
}

// ---------------- Wishlist ----------------

func (s *marketService) AddToWishlist(ctx context.Context, req *dto.WishlistRequest) error {
	item, err := s.marketRepo.FindItemByID(ctx, req.ItemID)
	if err != nil {
		return storeError(err, apperrors.DomainMarket, apperrors.ErrItemNotFound)
	}

	entry := &models.WishlistEntry{Item: *item, AddedAt: s.now()}
	if err := s.wishlistRepo.AddWishlistEntry(ctx, req.UserID, entry); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return apperrors.ErrWishlistConflict.WithError(err)
		}
		return apperrors.ErrDatabase(err, apperrors.DomainMarket)
	}
	return nil
}

func (s *marketService) GetWishlist(ctx context.Context, userID string) ([]*models.WishlistEntry, error) {
	list, err := s.wishlistRepo.FindWishlistByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, apperrors.DomainMarket)
	}
	return list, nil
}

// ---------------- Search ----------------

func itemID(item *models.Item) string { return item.ID }

func (s *marketService) SearchItems(ctx context.Context, query string) ([]*models.Item, error) {
	found := newOrderedSet(itemID)
	for _, token := range Tokenize(query) {
		items, err := s.marketRepo.FindItemsByKeyword(ctx, token)
		if err != nil {
			return nil, apperrors.ErrDatabase(err, apperrors.DomainMarket)
		}
		found.AddAll(items)
	}
	return found.Items(), nil
}

// RelatedItems: для каждого ключевого слова параллельно ищем по слову и по
// категории, ждем оба запроса, затем добавляем сначала совпадения по слову.
// Исходное объявление в результат не попадает.
func (s *marketService) RelatedItems(ctx context.Context, req *dto.RelatedItemsRequest) ([]*models.Item, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))

	keywords := make([]string, 0, len(req.Keywords))
	for _, kw := range req.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		// категорию проверяем хотя бы один раз
		keywords = append(keywords, "")
	}

	found := newOrderedSet(itemID)
	if req.ID != "" {
		found.Exclude(req.ID)
	}

	for _, kw := range keywords {
		var byKeyword, byCategory []*models.Item

		g, gctx := errgroup.WithContext(ctx)
		if kw != "" {
			g.Go(func() error {
				items, err := s.marketRepo.FindItemsByKeyword(gctx, kw)
				byKeyword = items
				return err
			})
		}
		if category != "" {
			g.Go(func() error {
				items, err := s.marketRepo.FindItemsByCategory(gctx, category)
				byCategory = items
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, apperrors.ErrDatabase(err, apperrors.DomainMarket)
		}

		found.AddAll(byKeyword)
		found.AddAll(byCategory)
	}
	return found.Items(), nil
}

// ---------------- Show interest ----------------

func (s *marketService) ShowInterest(ctx context.Context, req *dto.ShowInterestRequest) error {
	item, err := s.marketRepo.FindItemByID(ctx, req.ItemID)
	if err != nil {
		return storeError(err, apperrors.DomainMarket, apperrors.ErrItemNotFound)
	}
	wisher, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		return storeError(err, apperrors.DomainMarket, apperrors.ErrWisherNotFound)
	}
	seller, err := s.userRepo.FindUserByID(ctx, item.SellerID)
	if err != nil {
		return storeError(err, apperrors.DomainMarket, apperrors.ErrSellerNotFound)
	}

	if token := seller.Token(); token != "" {
		_, err := s.notifications.Dispatch(ctx, &PushRequest{
			UserID: seller.ID,
			Token:  token,
			Kind:   models.PushKindItemInterest,
			Title:  "Interest in your item",
			Body:   fmt.Sprintf("%s(%s) is interested in your item %s", wisher.Name, wisher.Email, item.Title),
			Data:   map[string]string{"itemId": item.ID, "userId": wisher.ID},
		})
		if err != nil {
			return apperrors.ErrNotificationFailed(err, apperrors.DomainMarket)
		}
		return nil
	}

	sellerEmail := seller.Email
	if sellerEmail == "" {
		sellerEmail = item.SellerEmail
	}
	if !s.mailer.Enabled() || sellerEmail == "" {
		return apperrors.ErrNoContactChannel
	}
	return s.emailInterest(ctx, sellerEmail, item, seller, wisher)
}

func (s *marketService) emailInterest(ctx context.Context, to string, item *models.Item, seller, wisher *models.User) error {
	sellerName := seller.Name
	if sellerName == "" {
		sellerName = item.SellerName
	}
	html, err := email.Render(email.TemplateItemInterest, email.TemplateData{
		"SellerName":  sellerName,
		"WisherName":  wisher.Name,
		"WisherEmail": wisher.Email,
		"ItemTitle":   item.Title,
	})
	if err != nil {
		return apperrors.InternalError(err)
	}

	msg := &email.Email{
		To:       []string{to},
		ReplyTo:  wisher.Email,
		Subject:  "Interest in your item",
		Body:     fmt.Sprintf("%s(%s) is interested in your item %s", wisher.Name, wisher.Email, item.Title),
		HTMLBody: html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return apperrors.ErrNotificationFailed(err, apperrors.DomainMarket)
	}
	logger.CtxInfo(ctx, "Interest email sent", "item_id", item.ID, "seller_id", seller.ID)
	return nil
}

// ---------------- Images ----------------

func (s *marketService) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.upload.MaxSize+1))
	if err != nil {
		return "", apperrors.NewBadRequestError("Failed to read upload")
	}
	if int64(len(data)) > s.upload.MaxSize {
		return "", apperrors.ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	if len(s.upload.AllowedTypes) > 0 && !slices.Contains(s.upload.AllowedTypes, contentType) {
		return "", apperrors.ErrUnsupportedFile.WithDetails(map[string]string{"contentType": contentType})
	}

	img, err := s.images.Process(bytes.NewReader(data))
	if err != nil {
		return "", apperrors.ErrUnsupportedFile.WithError(err)
	}

	path := fmt.Sprintf("market/%s.%s", uuid.NewString(), img.Ext)
	if err := s.storage.Save(ctx, path, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, apperrors.DomainUploads, "Failed to store image", http.StatusBadRequest)
	}

	logger.CtxInfo(ctx, "Item image stored", "path", path, "width", img.Width, "height", img.Height)
	return s.storage.GetURL(path), nil
}

package integration_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"coursemate_backend/internal/email"
	"coursemate_backend/internal/models"
	"coursemate_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createItem(t *testing.T, ts *helpers.TestServer, title, category string) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/market/items", map[string]interface{}{
		"title":      title,
		"sellerName": "Sam",
		"category":   category,
		"sellerId":   "seller",
		"price":      12.5,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	_, body = ts.SendRequest(t, http.MethodGet, "/api/v1/market/items", nil)
	var items []models.Item
	helpers.DecodeJSON(t, body, &items)
	for _, item := range items {
		if item.Title == title {
			return item.ID
		}
	}
	t.Fatalf("Объявление %q не найдено в списке", title)
	return ""
}

func TestMarket_CreateAndSearch(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	seedUsers(ts)

	bookID := createItem(t, ts, "Calculus Textbook", "Books")
	_ = createItem(t, ts, "Desk Lamp", "Furniture")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/market/search?searchQuery=calculus%20lamp", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var found []models.Item
	helpers.DecodeJSON(t, body, &found)
	require.Len(t, found, 2)
	assert.Equal(t, bookID, found[0].ID, "порядок совпадает с порядком токенов запроса")
	assert.Equal(t, "books", found[0].Category)
	assert.Contains(t, found[0].Keywords, "calculus")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/market/search?searchQuery=", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `[]`, body)
}

func TestMarket_CreateItemValidation(t *testing.T) {
	t.Parallel()
	ts := newServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/market/items", map[string]interface{}{
		"title":    "   ",
		"category": "books",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var apiErr apiError
	helpers.DecodeJSON(t, body, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Error.Code)
}

func TestMarket_WishlistFlow(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	seedUsers(ts)
	itemID := createItem(t, ts, "Graphing Calculator", "electronics")

	req := map[string]string{"itemId": itemID, "userId": "buyer"}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/market/wishlist", req)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/market/wishlist", req)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, body, "WISHLIST_DUPLICATE")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/market/wishlist", map[string]string{"itemId": "missing", "userId": "buyer"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "ITEM_NOT_FOUND")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/market/wishlist?userId=buyer", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []models.WishlistEntry
	helpers.DecodeJSON(t, body, &list)
	require.Len(t, list, 1)
	assert.Equal(t, itemID, list[0].ID)
	assert.Equal(t, "Graphing Calculator", list[0].Title)
}

func TestMarket_RelatedItems(t *testing.T) {
	t.Parallel()
	ts := newServer(t)

	baseID := createItem(t, ts, "Organic Chemistry Notes", "books")
	notesID := createItem(t, ts, "Physics Notes", "stationery")
	sameCategoryID := createItem(t, ts, "Poetry Anthology", "books")
	_ = createItem(t, ts, "Office Chair", "furniture")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/market/related", map[string]interface{}{
		"id":       baseID,
		"category": "books",
		"keywords": []string{"organic", "chemistry", "notes"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var related []models.Item
	helpers.DecodeJSON(t, body, &related)
	ids := make([]string, 0, len(related))
	for _, item := range related {
		ids = append(ids, item.ID)
	}
	assert.NotContains(t, ids, baseID, "само объявление исключается")
	assert.ElementsMatch(t, []string{notesID, sameCategoryID}, ids)
}

func TestMarket_ShowInterest_Push(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	seedUsers(ts)
	itemID := createItem(t, ts, "Lab Coat", "clothing")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/market/interest", map[string]string{"userId": "buyer", "itemId": itemID})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	sent := ts.Sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, sellerToken, sent[0].To)
	assert.Equal(t, "Bea(bea@example.com) is interested in your item Lab Coat", sent[0].Body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/tickets?userId=seller", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var tickets []models.PushTicket
	helpers.DecodeJSON(t, body, &tickets)
	require.Len(t, tickets, 1)
	assert.Equal(t, models.PushKindItemInterest, tickets[0].Kind)
	assert.Equal(t, models.PushStatusOK, tickets[0].Status)
}

type recordingMailer struct {
	sent []*email.Email
}

func (m *recordingMailer) Send(ctx context.Context, e *email.Email) error {
	m.sent = append(m.sent, e)
	return nil
}

func (m *recordingMailer) Enabled() bool { return true }

func TestMarket_ShowInterest_EmailFallback(t *testing.T) {
	t.Parallel()
	mailer := &recordingMailer{}
	ts := helpers.NewTestServer(t, helpers.Options{Now: fixedNow, Mailer: mailer})
	ts.Store.PutUser(models.User{ID: "seller", Name: "Sam", Email: "sam@example.com"})
	ts.Store.PutUser(models.User{ID: "buyer", Name: "Bea", Email: "bea@example.com"})
	itemID := createItem(t, ts, "Microscope", "lab")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/market/interest", map[string]string{"userId": "buyer", "itemId": itemID})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	assert.Empty(t, ts.Sender.Sent())
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"sam@example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].HTMLBody, "Microscope")
}

func TestMarket_ShowInterest_NoChannel(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	ts.Store.PutUser(models.User{ID: "seller", Name: "Sam"})
	ts.Store.PutUser(models.User{ID: "buyer", Name: "Bea"})
	itemID := createItem(t, ts, "Stapler", "stationery")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/market/interest", map[string]string{"userId": "buyer", "itemId": itemID})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Seller cannot be notified")
}

func TestMarket_ShowInterest_RateLimited(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t, helpers.Options{Now: fixedNow, RequestsPerMinute: 1, Burst: 1})
	seedUsers(ts)
	itemID := createItem(t, ts, "Ruler", "stationery")

	req := map[string]string{"userId": "buyer", "itemId": itemID}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/market/interest", req)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/market/interest", req)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Len(t, ts.Sender.Sent(), 1)
}

func TestMarket_UploadImage(t *testing.T) {
	t.Parallel()
	ts := newServer(t)

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		img.Set(x, 50, color.RGBA{R: 255, A: 255})
	}
	var pngData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, img))

	res, body := uploadImage(t, ts, pngData.Bytes())
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var out struct {
		URL string `json:"url"`
	}
	helpers.DecodeJSON(t, body, &out)
	assert.True(t, strings.HasPrefix(out.URL, "/uploads/market/"), out.URL)
	assert.True(t, strings.HasSuffix(out.URL, ".png"), out.URL)

	// картинка раздается статикой
	res, _ = ts.SendRequest(t, http.MethodGet, out.URL, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body = uploadImage(t, ts, []byte("plain text is not an image"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "UNSUPPORTED_FILE")
}

func uploadImage(t *testing.T, ts *helpers.TestServer, data []byte) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/v1/market/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ts.Do(t, req)
}

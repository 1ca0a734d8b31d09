package integration_test

import (
	"testing"
	"time"

	"coursemate_backend/internal/models"
	"coursemate_backend/test/helpers"
)

const (
	sellerToken = "ExponentPushToken[seller-device]"
	ownerToken  = "ExponentPushToken[owner-device]"
)

// fixedNow - 2024-05-01 08:30 UTC, задачи на 09:00 попадают в окно в 1 час
var fixedNow = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func newServer(t *testing.T) *helpers.TestServer {
	t.Helper()
	return helpers.NewTestServer(t, helpers.Options{Now: fixedNow})
}

// seedUsers кладет продавца с push-токеном и покупателя без токена
func seedUsers(ts *helpers.TestServer) {
	ts.Store.PutUser(models.User{
		ID:        "seller",
		Name:      "Sam",
		Email:     "sam@example.com",
		Username:  "sam",
		PushToken: &models.PushToken{Type: "expo", Data: sellerToken},
	})
	ts.Store.PutUser(models.User{ID: "buyer", Name: "Bea", Email: "bea@example.com", Username: "bea"})
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Domain  string `json:"domain"`
		Message string `json:"message"`
	} `json:"error"`
}

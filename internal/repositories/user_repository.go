package repositories

import (
	"context"

	"coursemate_backend/internal/models"

	"cloud.google.com/go/firestore"
)

type UserRepositoryImpl struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepositoryImpl {
	return &UserRepositoryImpl{client: client}
}

func (r *UserRepositoryImpl) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.client.Collection(collectionUsers).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

// FindUsersWithPushToken - пользователи, которым вообще можно что-то отправить
func (r *UserRepositoryImpl) FindUsersWithPushToken(ctx context.Context) ([]*models.User, error) {
	q := r.client.Collection(collectionUsers).Where("pushToken.data", ">", "")
	return queryDocs(ctx, q, func(u *models.User, doc *firestore.DocumentSnapshot) {
		u.ID = doc.Ref.ID
	})
}

func (r *UserRepositoryImpl) SetTaskCount(ctx context.Context, userID string, count int) error {
	_, err := r.client.Collection(collectionUsers).Doc(userID).Set(ctx, map[string]interface{}{
		"tasks": count,
	}, firestore.MergeAll)
	return mapStoreError(err)
}

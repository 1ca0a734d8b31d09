package services

import (
	"errors"

	"coursemate_backend/internal/repositories"
	"coursemate_backend/pkg/apperrors"
)

// storeError переводит ошибку хранилища в AppError домена.
// notFound отдается, если документ не найден.
func storeError(err error, domain string, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, repositories.ErrNotFound) {
		return notFound.WithError(err)
	}
	return apperrors.ErrDatabase(err, domain)
}

package validator

import (
	"log"
	"strings"

	"coursemate_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	tagScheduleDate = "schedule-date"
	tagNotBlank     = "not-blank"
	tagDocID        = "doc-id"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'schedule-date': YYYY-MM-DD или RFC3339
	mustRegister(tagScheduleDate, validateScheduleDate)

	// 'not-blank': строка не состоит только из пробелов
	mustRegister(tagNotBlank, validateNotBlank)

	// 'doc-id': id документа Firestore, который подставляется в путь
	mustRegister(tagDocID, validateDocID)
}

func validateScheduleDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // для пустых есть 'required'
	}
	return models.ValidScheduleDate(value)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateDocID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidDocID(value)
}

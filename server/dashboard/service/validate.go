package service

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"schooldesk/server/dashboard/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(rewardInputValidation, RewardInput{})
	return v
}

// RewardInput is a reward/discipline record as entered in the rewards panel.
// The content-type enumeration depends on the record type, so the pair is
// checked as a struct-level rule before any network call.
type RewardInput struct {
	Type        domain.RecordType  `json:"type" validate:"required,oneof=reward discipline"`
	ContentType domain.ContentType `json:"content_type" validate:"required"`
	StudentID   int64              `json:"student_id" validate:"required,gt=0"`
	Content     string             `json:"content" validate:"required"`
	Date        time.Time          `json:"date" validate:"required"`
}

func rewardInputValidation(sl validator.StructLevel) {
	input := sl.Current().Interface().(RewardInput)
	if input.Type == "" || input.ContentType == "" {
		return
	}
	if !input.Type.Allows(input.ContentType) {
		sl.ReportError(input.ContentType, "ContentType", "content_type", "contenttypefortype", string(input.Type))
	}
}

func isStructValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

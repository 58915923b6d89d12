package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ValidationError reports a FeedbackEntry that breaks the store's contract.
type ValidationError struct {
	EntryID int64
	Fields  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid feedback entry %d: %s", e.EntryID, strings.Join(e.Fields, ", "))
}

type EntryValidator struct {
	validate *validator.Validate
}

func NewEntryValidator() *EntryValidator {
	return &EntryValidator{validate: validator.New()}
}

func (v *EntryValidator) Validate(e FeedbackEntry) error {
	err := v.validate.Struct(e)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{EntryID: e.ID}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return verr
}

// Sanitize clamps the rating into range so a malformed entry can still be analyzed.
func Sanitize(e FeedbackEntry) FeedbackEntry {
	if e.Rating < MinRating {
		e.Rating = MinRating
	}
	if e.Rating > MaxRating {
		e.Rating = MaxRating
	}
	return e
}

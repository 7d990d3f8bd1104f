// Package schemas validates user input before it is submitted to the
// backend. A rejected form never reaches the transport.
package schemas

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dmitrijs2005/flashcards/internal/client/models"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

const (
	MinPasswordLength = 8
	MaxCategoryName   = 50
	MaxQuestionLength = 500
	MaxAnswerLength   = 1000
)

var (
	emailRules = []validation.Rule{
		validation.Required.Error("email is required"),
		is.EmailFormat.Error("invalid email address"),
	}
	passwordRules = []validation.Rule{
		validation.Required.Error("password is required"),
		validation.RuneLength(MinPasswordLength, 0).Error(fmt.Sprintf("password must be at least %d characters", MinPasswordLength)),
	}
)

// LoginForm holds the login credentials.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	return wrap(validation.ValidateStruct(&f,
		validation.Field(&f.Email, emailRules...),
		validation.Field(&f.Password, passwordRules...),
	))
}

// RegisterForm holds the account creation input. ConfirmPassword is checked
// locally and never sent.
type RegisterForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (f RegisterForm) Validate() error {
	return wrap(validation.ValidateStruct(&f,
		validation.Field(&f.Email, emailRules...),
		validation.Field(&f.Password, passwordRules...),
		validation.Field(&f.ConfirmPassword,
			validation.Required.Error("please confirm your password"),
			validation.By(func(value any) error {
				if value.(string) != f.Password {
					return errors.New("passwords do not match")
				}
				return nil
			}),
		),
	))
}

// CategoryForm holds a category name.
type CategoryForm struct {
	Name string `json:"name"`
}

func (f CategoryForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	return wrap(validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(0, MaxCategoryName).Error(fmt.Sprintf("name must be at most %d characters", MaxCategoryName)),
		),
	))
}

// Input returns the trimmed request body.
func (f CategoryForm) Input() models.CategoryInput {
	return models.CategoryInput{Name: strings.TrimSpace(f.Name)}
}

// FlashcardForm holds a flashcard's editable fields.
type FlashcardForm struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	CategoryID int64  `json:"category_id"`
}

func (f FlashcardForm) Validate() error {
	f.Question = strings.TrimSpace(f.Question)
	f.Answer = strings.TrimSpace(f.Answer)
	return wrap(validation.ValidateStruct(&f,
		validation.Field(&f.Question,
			validation.Required.Error("question is required"),
			validation.RuneLength(0, MaxQuestionLength).Error(fmt.Sprintf("question must be at most %d characters", MaxQuestionLength)),
		),
		validation.Field(&f.Answer,
			validation.Required.Error("answer is required"),
			validation.RuneLength(0, MaxAnswerLength).Error(fmt.Sprintf("answer must be at most %d characters", MaxAnswerLength)),
		),
		validation.Field(&f.CategoryID,
			validation.Required.Error("please select a category"),
			validation.Min(int64(1)).Error("please select a category"),
		),
	))
}

// Input returns the trimmed request body.
func (f FlashcardForm) Input() models.FlashcardInput {
	return models.FlashcardInput{
		Question:   strings.TrimSpace(f.Question),
		Answer:     strings.TrimSpace(f.Answer),
		CategoryID: f.CategoryID,
	}
}

// FieldErrors returns the per-field messages carried by a validation error,
// keyed by the field's json name. It returns nil for other errors.
func FieldErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, e := range verrs {
		out[field] = e.Error()
	}
	return out
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

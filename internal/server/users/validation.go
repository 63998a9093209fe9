package users

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/kuba1e/food-delivery/internal/common"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer passwords.
	maxPasswordLength = 72
)

var (
	nameRequired     = validation.Required.Error("Name is required.")
	emailRequired    = validation.Required.Error("Email is required.")
	emailFormat      = is.Email.Error("Email is invalid")
	passwordRequired = validation.Required.Error("Password is required")
	phoneRequired    = validation.Required.Error("Phone is required.")
	addressRequired  = validation.Required.Error("Address is required.")
)

// RegisterInput is a sign-up request as received from the transport.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber int64  `json:"phone_number"`
	Address     string `json:"address"`
}

func (r RegisterInput) normalized() RegisterInput {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Address = strings.TrimSpace(r.Address)
	return r
}

func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, nameRequired),
		validation.Field(&r.Email, emailRequired, emailFormat),
		validation.Field(&r.Password, passwordRequired,
			validation.Length(minPasswordLength, 0).Error("Password does not match minimum length rule."),
			validation.Length(0, maxPasswordLength).Error("Password must not exceed 72 bytes."),
		),
		validation.Field(&r.PhoneNumber, phoneRequired, validation.Min(int64(1)).Error("Phone number is invalid")),
		validation.Field(&r.Address, addressRequired),
	)
}

// ActivateInput pairs an activation token with the emailed code.
type ActivateInput struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

func (a ActivateInput) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ActivationToken, validation.Required),
		validation.Field(&a.ActivationCode, validation.Required),
	)
}

// LoginInput only checks shape; password strength is not re-validated so a
// wrong short password is reported as a credential mismatch.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l LoginInput) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Email, emailRequired, emailFormat),
		validation.Field(&l.Password, passwordRequired),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// badInput exposes the per-field messages, ordered by field, as the public
// message.
func badInput(err error) error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return common.WithMessage(common.ErrBadInput, err.Error())
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, key := range keys {
		msgs = append(msgs, fields[key].Error())
	}
	return common.WithMessage(common.ErrBadInput, strings.Join(msgs, "; "))
}

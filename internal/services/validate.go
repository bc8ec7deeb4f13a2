// Package services holds the registration, admin query, and auth workflows.
package services

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"EventRegistration/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report JSON names so messages line up with the request body
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// fieldLabels are the messages the registration form shows for a missing value.
var fieldLabels = map[string]string{
	"name":        "Name is required",
	"phone":       "Phone number is required",
	"job":         "Job is required",
	"jobLocation": "Job location is required",
	"address":     "Address is required",
	"circle":      "Circle is required",
	"paymentId":   "Payment ID is required",
	"username":    "Username is required",
	"password":    "Password is required",
}

// validateStruct runs the tag rules on v and converts failures to a *models.ValidationError.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &models.ValidationError{}
	for _, fe := range verrs {
		msg, ok := fieldLabels[fe.Field()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out.Fields = append(out.Fields, models.FieldError{Field: fe.Field(), Msg: msg})
	}
	return out
}

// trimRegistration trims every text field in place. Validation runs on the trimmed values.
func trimRegistration(r *models.RegistrationRequest) {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Job = strings.TrimSpace(r.Job)
	r.JobLocation = strings.TrimSpace(r.JobLocation)
	r.Address = strings.TrimSpace(r.Address)
	r.Circle = strings.TrimSpace(r.Circle)
	r.PaymentID = strings.TrimSpace(r.PaymentID)
	if r.PaymentScreenshot != nil && strings.TrimSpace(*r.PaymentScreenshot) == "" {
		r.PaymentScreenshot = nil
	}
}

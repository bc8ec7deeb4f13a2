package services

import (
	"context"
	"strings"
	"time"

	"EventRegistration/internal/config"
	"EventRegistration/internal/log"
	"EventRegistration/internal/models"
)

// RegistrationRepository is the storage the registration workflow writes through.
type RegistrationRepository interface {
	Insert(ctx context.Context, r *models.Registration) error
	PaymentExists(ctx context.Context, paymentID string) (bool, error)
}

// Registration validates and stores public submissions.
type Registration struct {
	repo   RegistrationRepository
	policy string
	now    func() time.Time
}

// NewRegistration builds the workflow. policy is config.PaymentPolicyAllow or
// config.PaymentPolicyReject.
func NewRegistration(repo RegistrationRepository, policy string) *Registration {
	return &Registration{repo: repo, policy: policy, now: time.Now}
}

// Submit validates req and persists it as a new registration.
// Nothing is written unless every required field is present.
func (s *Registration) Submit(ctx context.Context, req models.RegistrationRequest) (*models.SubmitResult, error) {
	trimRegistration(&req)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if s.policy == config.PaymentPolicyReject {
		exists, err := s.repo.PaymentExists(ctx, req.PaymentID)
		if err != nil {
			log.ErrorErr(log.CatRegistration, "duplicate check failed", err)
			return nil, models.NewServiceError("Error submitting registration", err)
		}
		if exists {
			return nil, models.NewValidationError("paymentId", "Payment ID already registered")
		}
	}

	reg := models.Registration{
		Name:              req.Name,
		Phone:             req.Phone,
		Job:               req.Job,
		JobLocation:       req.JobLocation,
		Address:           req.Address,
		Circle:            req.Circle,
		PaymentID:         req.PaymentID,
		PaymentScreenshot: req.PaymentScreenshot,
		SubmittedAt:       s.now().Truncate(time.Millisecond),
	}
	if err := s.repo.Insert(ctx, &reg); err != nil {
		log.ErrorErr(log.CatRegistration, "insert failed", err, "paymentId", reg.PaymentID)
		return nil, models.NewServiceError("Error submitting registration", err)
	}

	log.Info(log.CatRegistration, "registration submitted", "id", reg.ID, "circle", reg.Circle)
	return &models.SubmitResult{ID: reg.ID, Name: reg.Name, SubmittedAt: reg.SubmittedAt}, nil
}

// CheckPaymentExists is the advisory duplicate check used before submitting.
func (s *Registration) CheckPaymentExists(ctx context.Context, paymentID string) (bool, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return false, nil
	}
	exists, err := s.repo.PaymentExists(ctx, paymentID)
	if err != nil {
		log.ErrorErr(log.CatRegistration, "payment lookup failed", err)
		return false, models.NewServiceError("Error verifying payment", err)
	}
	return exists, nil
}

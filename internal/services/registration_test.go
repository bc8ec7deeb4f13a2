package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"EventRegistration/internal/config"
	"EventRegistration/internal/models"
	"EventRegistration/internal/store"
	"EventRegistration/internal/testutil"
)

func validRequest() models.RegistrationRequest {
	return models.RegistrationRequest{
		Name:        "Anu Joseph",
		Phone:       "9847012345",
		Job:         "Teacher",
		JobLocation: "Kochi",
		Address:     "12 Market Road",
		Circle:      "Kannur",
		PaymentID:   "UPI-778899",
	}
}

func TestRegistration_SubmitStoresTrimmedFields(t *testing.T) {
	d := testutil.NewDB(t)
	repo := store.NewRegistrations(d)
	svc := NewRegistration(repo, config.PaymentPolicyAllow)
	fixed := time.Date(2025, 6, 1, 10, 30, 0, 123456789, time.UTC)
	svc.now = func() time.Time { return fixed }

	req := validRequest()
	req.Name = "  Anu Joseph  "
	blank := "   "
	req.PaymentScreenshot = &blank

	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Anu Joseph", res.Name)
	assert.True(t, res.SubmittedAt.Equal(fixed.Truncate(time.Millisecond)))

	got, err := repo.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anu Joseph", got.Name)
	assert.Nil(t, got.PaymentScreenshot, "blank screenshot is stored as null")
	assert.True(t, got.SubmittedAt.Equal(res.SubmittedAt))
}

func TestRegistration_SubmitRoundTrip(t *testing.T) {
	d := testutil.NewDB(t)
	repo := store.NewRegistrations(d)
	svc := NewRegistration(repo, config.PaymentPolicyAllow)
	text := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ,./-]{0,30}[A-Za-z0-9]`)

	rapid.Check(t, func(rt *rapid.T) {
		req := models.RegistrationRequest{
			Name:        text.Draw(rt, "name"),
			Phone:       rapid.StringMatching(`[0-9]{10}`).Draw(rt, "phone"),
			Job:         text.Draw(rt, "job"),
			JobLocation: text.Draw(rt, "jobLocation"),
			Address:     text.Draw(rt, "address"),
			Circle:      text.Draw(rt, "circle"),
			PaymentID:   text.Draw(rt, "paymentId"),
		}
		if rapid.Bool().Draw(rt, "withShot") {
			shot := "data:image/png;base64," + rapid.StringMatching(`[A-Za-z0-9+/]{4,40}`).Draw(rt, "shot")
			req.PaymentScreenshot = &shot
		}

		res, err := svc.Submit(context.Background(), req)
		if err != nil {
			rt.Fatalf("submit: %v", err)
		}
		got, err := repo.Get(context.Background(), res.ID)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		if got.Name != req.Name || got.Phone != req.Phone || got.Job != req.Job ||
			got.JobLocation != req.JobLocation || got.Address != req.Address ||
			got.Circle != req.Circle || got.PaymentID != req.PaymentID {
			rt.Fatalf("stored %+v does not match %+v", got, req)
		}
		if (req.PaymentScreenshot == nil) != (got.PaymentScreenshot == nil) {
			rt.Fatalf("screenshot presence mismatch")
		}
		if req.PaymentScreenshot != nil && *req.PaymentScreenshot != *got.PaymentScreenshot {
			rt.Fatalf("screenshot mismatch")
		}
	})
}

func TestRegistration_MissingFieldRejected(t *testing.T) {
	d := testutil.NewDB(t)
	svc := NewRegistration(store.NewRegistrations(d), config.PaymentPolicyAllow)

	blankers := map[string]func(*models.RegistrationRequest){
		"name":        func(r *models.RegistrationRequest) { r.Name = "" },
		"phone":       func(r *models.RegistrationRequest) { r.Phone = "  " },
		"job":         func(r *models.RegistrationRequest) { r.Job = "" },
		"jobLocation": func(r *models.RegistrationRequest) { r.JobLocation = "\t" },
		"address":     func(r *models.RegistrationRequest) { r.Address = "" },
		"circle":      func(r *models.RegistrationRequest) { r.Circle = "" },
		"paymentId":   func(r *models.RegistrationRequest) { r.PaymentID = " " },
	}

	for field, blank := range blankers {
		t.Run(field, func(t *testing.T) {
			before := testutil.CountRows(t, d)
			req := validRequest()
			blank(&req)

			_, err := svc.Submit(context.Background(), req)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, field, verr.Fields[0].Field)
			assert.Equal(t, fieldLabels[field], verr.Fields[0].Msg)
			assert.Equal(t, before, testutil.CountRows(t, d), "nothing may be stored")
		})
	}
}

func TestRegistration_AllFieldsMissingReportsEach(t *testing.T) {
	svc := NewRegistration(store.NewRegistrations(testutil.NewDB(t)), config.PaymentPolicyAllow)

	_, err := svc.Submit(context.Background(), models.RegistrationRequest{})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 7)
}

func TestRegistration_DuplicatePaymentPolicy(t *testing.T) {
	t.Run("allow", func(t *testing.T) {
		d := testutil.NewDB(t)
		svc := NewRegistration(store.NewRegistrations(d), config.PaymentPolicyAllow)
		_, err := svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)
		_, err = svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, 2, testutil.CountRows(t, d))
	})

	t.Run("reject", func(t *testing.T) {
		d := testutil.NewDB(t)
		svc := NewRegistration(store.NewRegistrations(d), config.PaymentPolicyReject)
		_, err := svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), validRequest())
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "paymentId", verr.Fields[0].Field)
		assert.Equal(t, 1, testutil.CountRows(t, d))
	})
}

func TestRegistration_CheckPaymentExists(t *testing.T) {
	svc := NewRegistration(store.NewRegistrations(testutil.NewDB(t)), config.PaymentPolicyAllow)
	ctx := context.Background()

	exists, err := svc.CheckPaymentExists(ctx, "UPI-778899")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Submit(ctx, validRequest())
	require.NoError(t, err)

	exists, err = svc.CheckPaymentExists(ctx, " UPI-778899 ")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckPaymentExists(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

type failingRepo struct{}

var errDown = errors.New("database is down")

func (failingRepo) Insert(context.Context, *models.Registration) error { return errDown }
func (failingRepo) PaymentExists(context.Context, string) (bool, error) {
	return false, errDown
}

func TestRegistration_StorageFailureIsServiceError(t *testing.T) {
	svc := NewRegistration(failingRepo{}, config.PaymentPolicyAllow)

	_, err := svc.Submit(context.Background(), validRequest())
	var serr *models.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Error submitting registration", serr.Message)
	assert.ErrorIs(t, err, errDown)

	_, err = svc.CheckPaymentExists(context.Background(), "X")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Error verifying payment", serr.Message)
}

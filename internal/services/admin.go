package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"EventRegistration/internal/log"
	"EventRegistration/internal/models"
	"EventRegistration/internal/store"
)

// RegistrationReader is the storage behind the admin dashboard.
type RegistrationReader interface {
	Count(ctx context.Context, f *store.Filter) (int, error)
	List(ctx context.Context, f *store.Filter, limit, offset int) ([]models.Registration, error)
	Get(ctx context.Context, id int64) (*models.Registration, error)
	CountByCircle(ctx context.Context) ([]models.CircleCount, error)
	Delete(ctx context.Context, id int64) (*models.DeletedRegistration, error)
}

// Admin serves filtered listings, statistics, and deletions.
type Admin struct {
	repo RegistrationReader
	loc  *time.Location
	now  func() time.Time
}

// NewAdmin builds the admin query service. loc decides where "today" and
// whole-day date bounds begin and end; nil means the server's local zone.
func NewAdmin(repo RegistrationReader, loc *time.Location) *Admin {
	if loc == nil {
		loc = time.Local
	}
	return &Admin{repo: repo, loc: loc, now: time.Now}
}

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD (midnight in loc) or RFC3339.
func (s *Admin) parseDate(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.ParseInLocation(dateLayout, v, s.loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// endOfDay moves t to 23:59:59.999 of its calendar day in loc.
func endOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// BuildFilter turns the raw query into a storage filter. Every part is optional and
// the parts combine with AND. A search term only applies with searchBy name or phone.
func (s *Admin) BuildFilter(q models.ListQuery) (*store.Filter, error) {
	f := store.NewFilter()

	search := strings.TrimSpace(q.Search)
	switch strings.ToLower(strings.TrimSpace(q.SearchBy)) {
	case models.SearchByName:
		f.Contains(store.ColName, search)
	case models.SearchByPhone:
		f.Contains(store.ColPhone, search)
	}
	f.Contains(store.ColCircle, strings.TrimSpace(q.Circle))

	var verr models.ValidationError
	if from, ok, err := s.parseDate(q.DateFrom); err != nil {
		verr.Fields = append(verr.Fields, models.FieldError{Field: "dateFrom", Msg: "Invalid date"})
	} else if ok {
		f.Since(from)
	}
	if to, ok, err := s.parseDate(q.DateTo); err != nil {
		verr.Fields = append(verr.Fields, models.FieldError{Field: "dateTo", Msg: "Invalid date"})
	} else if ok {
		f.Until(endOfDay(to, s.loc))
	}
	if len(verr.Fields) > 0 {
		return nil, &verr
	}
	return f, nil
}

// pageCount is ceil(total/limit) without overflowing for very large limits.
func pageCount(total, limit int) int {
	n := total / limit
	if total%limit != 0 {
		n++
	}
	return n
}

// ListRegistrations returns one page of matching registrations, newest first,
// with the total match count taken before pagination.
func (s *Admin) ListRegistrations(ctx context.Context, q models.ListQuery) (*models.ListResult, error) {
	f, err := s.BuildFilter(q)
	if err != nil {
		return nil, err
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = models.DefaultPage
	}
	if limit < 1 {
		limit = models.DefaultPageSize
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		log.ErrorErr(log.CatAdmin, "count failed", err)
		return nil, models.NewServiceError("Error fetching registration forms", err)
	}
	pages := pageCount(total, limit)

	// pages past the end are empty; this also keeps (page-1)*limit below total
	data := []models.Registration{}
	if page <= pages {
		data, err = s.repo.List(ctx, f, limit, (page-1)*limit)
		if err != nil {
			log.ErrorErr(log.CatAdmin, "list failed", err)
			return nil, models.NewServiceError("Error fetching registration forms", err)
		}
	}

	return &models.ListResult{
		Count: len(data),
		Total: total,
		Page:  page,
		Pages: pages,
		Data:  data,
	}, nil
}

// GetStats returns the overall total, today's count since local midnight, and the
// per-circle breakdown sorted by count descending.
func (s *Admin) GetStats(ctx context.Context) (*models.Stats, error) {
	total, err := s.repo.Count(ctx, store.NewFilter())
	if err != nil {
		log.ErrorErr(log.CatAdmin, "stats total failed", err)
		return nil, models.NewServiceError("Error fetching statistics", err)
	}
	today, err := s.repo.Count(ctx, store.NewFilter().Since(startOfDay(s.now(), s.loc)))
	if err != nil {
		log.ErrorErr(log.CatAdmin, "stats today failed", err)
		return nil, models.NewServiceError("Error fetching statistics", err)
	}
	byCircle, err := s.repo.CountByCircle(ctx)
	if err != nil {
		log.ErrorErr(log.CatAdmin, "stats by circle failed", err)
		return nil, models.NewServiceError("Error fetching statistics", err)
	}
	return &models.Stats{Total: total, Today: today, ByCircle: byCircle}, nil
}

// GetRegistration loads one registration for the detail/print view.
func (s *Admin) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	r, err := s.repo.Get(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		log.ErrorErr(log.CatAdmin, "get failed", err, "id", id)
		return nil, models.NewServiceError("Error fetching registration", err)
	}
	return r, nil
}

// DeleteRegistration hard-deletes one registration.
func (s *Admin) DeleteRegistration(ctx context.Context, id int64) (*models.DeletedRegistration, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		log.ErrorErr(log.CatAdmin, "delete failed", err, "id", id)
		return nil, models.NewServiceError("Error deleting registration", err)
	}
	log.Info(log.CatAdmin, "registration deleted", "id", deleted.ID, "paymentId", deleted.PaymentID)
	return deleted, nil
}

package accesslog

import (
	"context"
	"fmt"

	"stockscope/internal/domain/filter"
)

// DefaultPageSize is used when a query does not set one.
const DefaultPageSize = 5

// Query selects entries. Empty fields do not filter.
type Query struct {
	Tenant     string
	ObjectID   string
	Username   string
	ObjectType string
	SupplierID string
	CustomerID string
	Page       filter.Page
}

// rawMaterialTypes are the object types recorded for raw material calls:
// the URL segment and the response body key.
var rawMaterialTypes = map[string]bool{"rawMaterials": true, "rawMaterial": true}

// Matches reports whether e satisfies every filter of q.
func (q Query) Matches(e *Entry) bool {
	if q.Tenant != "" && e.Tenant != q.Tenant {
		return false
	}
	if q.ObjectID != "" && deref(e.ObjectID) != q.ObjectID {
		return false
	}
	if q.Username != "" && e.User != q.Username {
		return false
	}
	if q.ObjectType != "" && deref(e.ObjectType) != q.ObjectType {
		return false
	}
	if q.SupplierID != "" && !q.matchesSupplier(e) {
		return false
	}
	if q.CustomerID != "" && !q.matchesCustomer(e) {
		return false
	}
	return true
}

func (q Query) matchesSupplier(e *Entry) bool {
	if !rawMaterialTypes[deref(e.ObjectType)] {
		return false
	}
	return bodyString(e.RequestBody, "supplier") == q.SupplierID ||
		bodyString(e.RequestBody, "supplierCode") == q.SupplierID
}

func (q Query) matchesCustomer(e *Entry) bool {
	if bodyString(e.RequestBody, "customerId") == q.CustomerID {
		return true
	}
	return deref(e.ObjectType) == "customers" && deref(e.ObjectID) == q.CustomerID
}

// Result is one page of entries.
type Result struct {
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalLogs  int64   `json:"totalLogs"`
	TotalPages int     `json:"totalPages"`
	Data       []Entry `json:"data"`
}

func newResult(items []Entry, total int64, p filter.Page) Result {
	if items == nil {
		items = []Entry{}
	}
	return Result{
		Page:       p.Number,
		PageSize:   p.Size,
		TotalLogs:  total,
		TotalPages: filter.TotalPages(total, p.Size),
		Data:       items,
	}
}

// Service answers entry queries against the live sink and the archive.
type Service struct {
	sink  Sink
	store Store
}

// NewService creates a Service. store may be nil when no archive is wired.
func NewService(sink Sink, store Store) *Service {
	return &Service{sink: sink, store: store}
}

// Filter scans the live entries and returns the requested page.
func (s *Service) Filter(ctx context.Context, q Query) (Result, error) {
	all, err := s.sink.ReadAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read access log: %w", err)
	}
	matched := make([]Entry, 0, len(all))
	for i := range all {
		if q.Matches(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	return newResult(filter.Slice(matched, q.Page), int64(len(matched)), q.Page), nil
}

// Archived runs q against the archive of the current tenant.
func (s *Service) Archived(ctx context.Context, q Query) (Result, error) {
	if s.store == nil {
		return newResult(nil, 0, q.Page), nil
	}
	items, total, err := s.store.Search(ctx, q)
	if err != nil {
		return Result{}, err
	}
	return newResult(items, total, q.Page), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func bodyString(body map[string]any, key string) string {
	if v, ok := body[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nimburion/zipcodes/pkg/config"
	"github.com/nimburion/zipcodes/pkg/observability/logger"
	ginrouter "github.com/nimburion/zipcodes/pkg/server/router/gin"
	"github.com/nimburion/zipcodes/pkg/zipcode"
)

// stubService records the arguments the controller passes down and returns
// canned results, so the tests can assert the HTTP-to-domain translation.
type stubService struct {
	lastFilter zipcode.FilterSpec
	lastSort   zipcode.SortSpec
	lastPage   zipcode.PageRequest
	lastRecord zipcode.Record
	lastID     string

	paginateResult zipcode.PageResult
	findResult     *zipcode.Record
	err            error
}

func (s *stubService) Paginate(_ context.Context, filter zipcode.FilterSpec, sort zipcode.SortSpec, page zipcode.PageRequest) (zipcode.PageResult, error) {
	s.lastFilter, s.lastSort, s.lastPage = filter, sort, page
	return s.paginateResult, s.err
}

func (s *stubService) FindByID(_ context.Context, id string) (*zipcode.Record, error) {
	s.lastID = id
	return s.findResult, s.err
}

func (s *stubService) Create(_ context.Context, record zipcode.Record) error {
	s.lastRecord = record
	return s.err
}

func (s *stubService) Update(_ context.Context, record zipcode.Record) error {
	s.lastRecord = record
	return s.err
}

func (s *stubService) Delete(_ context.Context, id string) error {
	s.lastID = id
	return s.err
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                      {}
func (nopLogger) Info(string, ...any)                       {}
func (nopLogger) Warn(string, ...any)                       {}
func (nopLogger) Error(string, ...any)                      {}
func (n nopLogger) With(...any) logger.Logger               { return n }
func (n nopLogger) WithContext(context.Context) logger.Logger { return n }

func newTestRig(t *testing.T, service *stubService) *ginrouter.GinRouter {
	t.Helper()
	ctrl, err := NewZipCodes(service, config.PaginationConfig{DefaultPerPage: 30, MaxPerPage: 100}, nopLogger{})
	if err != nil {
		t.Fatalf("NewZipCodes: %v", err)
	}
	r := ginrouter.NewRouter()
	ctrl.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestList_TranslatesQueryParameters(t *testing.T) {
	service := &stubService{paginateResult: zipcode.PageResult{Items: []zipcode.Record{}, Page: 2, PerPage: 5}}
	r := newTestRig(t, service)

	rec := doJSON(t, r, http.MethodGet, "/zipcodes?city=CHICAGO&state=IL&sort=population:-1,city&page=2&per_page=5&utm_source=x", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if service.lastFilter != (zipcode.FilterSpec{City: "CHICAGO", State: "IL"}) {
		t.Errorf("filter = %+v", service.lastFilter)
	}
	wantSort := zipcode.SortSpec{{Field: "pop", Order: zipcode.Descending}, {Field: "city", Order: zipcode.Ascending}}
	if len(service.lastSort) != len(wantSort) {
		t.Fatalf("sort = %+v, want %+v", service.lastSort, wantSort)
	}
	for i := range wantSort {
		if service.lastSort[i] != wantSort[i] {
			t.Errorf("sort[%d] = %+v, want %+v", i, service.lastSort[i], wantSort[i])
		}
	}
	if service.lastPage != (zipcode.PageRequest{Page: 2, PerPage: 5}) {
		t.Errorf("page = %+v", service.lastPage)
	}
}

func TestList_DefaultsAndCamelCasePerPage(t *testing.T) {
	service := &stubService{}
	r := newTestRig(t, service)

	doJSON(t, r, http.MethodGet, "/zipcodes", nil)
	if service.lastPage != (zipcode.PageRequest{Page: 1, PerPage: 30}) {
		t.Errorf("default page = %+v", service.lastPage)
	}

	doJSON(t, r, http.MethodGet, "/zipcodes?perPage=12", nil)
	if service.lastPage.PerPage != 12 {
		t.Errorf("perPage alias ignored: %+v", service.lastPage)
	}
}

func TestList_ClampsPerPageToConfiguredMaximum(t *testing.T) {
	service := &stubService{}
	r := newTestRig(t, service)

	doJSON(t, r, http.MethodGet, "/zipcodes?per_page=5000", nil)

	if service.lastPage.PerPage != 100 {
		t.Errorf("PerPage = %d, want 100", service.lastPage.PerPage)
	}
}

func TestList_ServiceFailure(t *testing.T) {
	service := &stubService{err: errors.New("boom")}
	r := newTestRig(t, service)

	rec := doJSON(t, r, http.MethodGet, "/zipcodes", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if resp.Error != "internal_server_error" {
		t.Errorf("error category = %q", resp.Error)
	}
}

func TestGet_Found(t *testing.T) {
	record := zipcode.Record{ID: "60601", City: "CHICAGO", State: "IL", Population: 2185}
	service := &stubService{findResult: &record}
	r := newTestRig(t, service)

	rec := doJSON(t, r, http.MethodGet, "/zipcodes/60601", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if service.lastID != "60601" {
		t.Errorf("id passed to service = %q", service.lastID)
	}

	var resp struct {
		Data zipcode.Record `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if resp.Data != record {
		t.Errorf("data = %+v, want %+v", resp.Data, record)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := newTestRig(t, &stubService{})

	rec := doJSON(t, r, http.MethodGet, "/zipcodes/00000", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreate(t *testing.T) {
	service := &stubService{}
	r := newTestRig(t, service)

	rec := doJSON(t, r, http.MethodPost, "/zipcodes", map[string]interface{}{
		"id": "90210", "city": "BEVERLY HILLS", "state": "CA", "population": 33784,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	want := zipcode.Record{ID: "90210", City: "BEVERLY HILLS", State: "CA", Population: 33784}
	if service.lastRecord != want {
		t.Errorf("record = %+v, want %+v", service.lastRecord, want)
	}
}

func TestCreate_MissingID(t *testing.T) {
	r := newTestRig(t, &stubService{})

	rec := doJSON(t, r, http.MethodPost, "/zipcodes", map[string]interface{}{"city": "NOWHERE"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	r := newTestRig(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/zipcodes", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	r := newTestRig(t, &stubService{err: zipcode.ErrDuplicateID})

	rec := doJSON(t, r, http.MethodPost, "/zipcodes", map[string]interface{}{"id": "10001"})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestUpdate_PathIDWinsOverBody(t *testing.T) {
	service := &stubService{}
	r := newTestRig(t, service)

	rec := doJSON(t, r, http.MethodPut, "/zipcodes/60601", map[string]interface{}{
		"id": "99999", "city": "CHICAGO", "state": "IL", "population": 3000,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if service.lastRecord.ID != "60601" {
		t.Errorf("record ID = %q, want the path parameter", service.lastRecord.ID)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	r := newTestRig(t, &stubService{err: zipcode.ErrNotFound})

	rec := doJSON(t, r, http.MethodPut, "/zipcodes/00000", map[string]interface{}{"city": "X"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	service := &stubService{}
	r := newTestRig(t, service)

	rec := doJSON(t, r, http.MethodDelete, "/zipcodes/60601", nil)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("204 response must have no body, got %q", rec.Body.String())
	}
	if service.lastID != "60601" {
		t.Errorf("id passed to service = %q", service.lastID)
	}
}

func TestDelete_NotFound(t *testing.T) {
	r := newTestRig(t, &stubService{err: zipcode.ErrNotFound})

	rec := doJSON(t, r, http.MethodDelete, "/zipcodes/00000", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMapError_UnknownErrorIsOpaque(t *testing.T) {
	status, resp := MapError(context.Background(), errors.New("pq: connection refused"))

	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if resp.Message != "an unexpected error occurred" {
		t.Errorf("message leaks detail: %q", resp.Message)
	}
}

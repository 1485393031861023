package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"recommendationService/business/recommendation"
	"recommendationService/domain"
	"recommendationService/internal/middleware"
	"recommendationService/internal/repository/memory"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

const validBody = `{"product_id": 3, "customer_id": 2, "recommend_type": "upsell", "recommend_product_id": 4}`

func newTestEcho(svc RecommendationService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.JSONSerializer = JSONSerializer{}

	h := NewRecommendationHandler(svc, 0)
	e.GET("/recommendations", h.ListRecommendations)
	e.POST("/recommendations", h.CreateRecommendation)
	e.DELETE("/recommendations/reset", h.ResetRecommendations)
	e.GET("/recommendations/:id", h.GetRecommendation)
	e.PUT("/recommendations/:id", h.UpdateRecommendation)
	e.PUT("/recommendations/:id/success", h.IncrementSuccess)
	e.DELETE("/recommendations/:id", h.DeleteRecommendation)

	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeWire(t *testing.T, rec *httptest.ResponseRecorder) domain.RecommendationWire {
	t.Helper()

	var w domain.RecommendationWire
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return w
}

func TestCreateAndGet(t *testing.T) {
	e := newTestEcho(recommendation.NewRecommendationService(memory.NewRecommendationRepository()))

	rec := doRequest(e, http.MethodPost, "/recommendations", validBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body.String())
	}

	created := decodeWire(t, rec)
	if created.ID == nil {
		t.Fatal("created recommendation has no id")
	}
	if created.RecSuccess != 0 {
		t.Errorf("rec_success = %d, want 0", created.RecSuccess)
	}

	wantLocation := fmt.Sprintf("http://example.com/recommendations/%d", *created.ID)
	if got := rec.Header().Get(echo.HeaderLocation); got != wantLocation {
		t.Errorf("Location = %q, want %q", got, wantLocation)
	}

	rec = doRequest(e, http.MethodGet, fmt.Sprintf("/recommendations/%d", *created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	if got := decodeWire(t, rec); *got.ID != *created.ID || got.RecommendType != "upsell" {
		t.Errorf("GET returned %+v", got)
	}
}

func TestGetRecommendation_BadIDs(t *testing.T) {
	e := newTestEcho(recommendation.NewRecommendationService(memory.NewRecommendationRepository()))

	paths := []string{
		"/recommendations/0",
		"/recommendations/-1",
		"/recommendations/abc",
		"/recommendations/7",
		"/recommendations/9223372036854775808",
		"/recommendations/18446744073709551615",
		"/recommendations/99999999999999999999",
	}
	for _, path := range paths {
		rec := doRequest(e, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
		rec = doRequest(e, http.MethodPut, path+"/success", "{}")
		if rec.Code != http.StatusNotFound {
			t.Errorf("PUT %s/success status = %d, want 404", path, rec.Code)
		}
	}

	rec := doRequest(e, http.MethodGet, "/recommendations/7", "")
	if !strings.Contains(rec.Body.String(), "recommendation with id 7 was not found") {
		t.Errorf("unexpected 404 body: %s", rec.Body.String())
	}
}

func TestUpdateRecommendation_CheckOrder(t *testing.T) {
	e := newTestEcho(recommendation.NewRecommendationService(memory.NewRecommendationRepository()))

	// absent row with a bad body reports 404 first
	rec := doRequest(e, http.MethodPut, "/recommendations/5", `{"product_id": "x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	created := decodeWire(t, doRequest(e, http.MethodPost, "/recommendations", validBody))
	path := fmt.Sprintf("/recommendations/%d", *created.ID)

	rec = doRequest(e, http.MethodPut, path, `{"product_id": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doRequest(e, http.MethodPut, path, `{"id": 99, "product_id": 9, "customer_id": 2, "recommend_type": "downsell", "recommend_product_id": 4, "rec_success": 40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := decodeWire(t, rec)
	if *updated.ID != *created.ID || updated.ProductID != 9 || updated.RecommendType != "downsell" || updated.RecSuccess != 0 {
		t.Errorf("unexpected update result %+v", updated)
	}
}

func TestIncrementSuccess(t *testing.T) {
	e := newTestEcho(recommendation.NewRecommendationService(memory.NewRecommendationRepository()))

	created := decodeWire(t, doRequest(e, http.MethodPost, "/recommendations", validBody))
	path := fmt.Sprintf("/recommendations/%d/success", *created.ID)

	for want := int64(1); want <= 2; want++ {
		rec := doRequest(e, http.MethodPut, path, "{}")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := decodeWire(t, rec); got.RecSuccess != want {
			t.Errorf("rec_success = %d, want %d", got.RecSuccess, want)
		}
	}

	if rec := doRequest(e, http.MethodPut, "/recommendations/999/success", "{}"); rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}
}

func TestListRecommendations_QueryParams(t *testing.T) {
	e := newTestEcho(recommendation.NewRecommendationService(memory.NewRecommendationRepository()))

	if rec := doRequest(e, http.MethodGet, "/recommendations", ""); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty store: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	doRequest(e, http.MethodPost, "/recommendations", validBody)
	doRequest(e, http.MethodPost, "/recommendations", `{"product_id": 6, "customer_id": 5, "recommend_type": "downsell", "recommend_product_id": 1}`)

	tests := []struct {
		query      string
		wantStatus int
		wantCount  int
	}{
		{"", http.StatusOK, 2},
		{"?product_id=3", http.StatusOK, 1},
		{"?product-id=6&customer-id=5", http.StatusOK, 1},
		{"?product_id=6&product-id=3", http.StatusOK, 1},
		{"?recommend-type=downsell", http.StatusOK, 1},
		{"?recommend_type=unknown", http.StatusNotFound, 0},
		{"?product_id=abc", http.StatusBadRequest, 0},
		{"?customer_id=1.5", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := doRequest(e, http.MethodGet, "/recommendations"+tt.query, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got []domain.RecommendationWire
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("got %d rows, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestDeleteAndReset(t *testing.T) {
	e := newTestEcho(recommendation.NewRecommendationService(memory.NewRecommendationRepository()))

	created := decodeWire(t, doRequest(e, http.MethodPost, "/recommendations", validBody))
	path := fmt.Sprintf("/recommendations/%d", *created.ID)

	for i := 0; i < 2; i++ {
		rec := doRequest(e, http.MethodDelete, path, "")
		if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
			t.Errorf("DELETE #%d: status = %d, body = %q", i+1, rec.Code, rec.Body.String())
		}
	}

	for _, big := range []string{"9223372036854775808", "18446744073709551615", "99999999999999999999"} {
		if rec := doRequest(e, http.MethodDelete, "/recommendations/"+big, ""); rec.Code != http.StatusNoContent {
			t.Errorf("DELETE %s status = %d, want 204", big, rec.Code)
		}
	}
	if rec := doRequest(e, http.MethodDelete, "/recommendations/abc", ""); rec.Code != http.StatusNotFound {
		t.Errorf("DELETE abc status = %d, want 404", rec.Code)
	}

	doRequest(e, http.MethodPost, "/recommendations", validBody)
	if rec := doRequest(e, http.MethodDelete, "/recommendations/reset", ""); rec.Code != http.StatusNoContent {
		t.Errorf("reset status = %d", rec.Code)
	}
	if rec := doRequest(e, http.MethodGet, "/recommendations", ""); strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("rows left after reset: %s", rec.Body.String())
	}
}

type brokenService struct {
	RecommendationService
	err error
}

func (b brokenService) ListRecommendations(context.Context, domain.RecommendationFilter) ([]domain.Recommendation, error) {
	return nil, b.err
}

func (b brokenService) CreateRecommendation(context.Context, domain.RecommendationInput) (domain.Recommendation, error) {
	return domain.Recommendation{}, b.err
}

func TestPersistenceFailureIs500(t *testing.T) {
	svc := brokenService{err: fmt.Errorf("failed to find recommendations: %w: %w", domain.ErrPersistence, errors.New("dial tcp: refused"))}
	e := newTestEcho(svc)

	for _, r := range []struct{ method, body string }{{http.MethodGet, ""}, {http.MethodPost, validBody}} {
		rec := doRequest(e, r.method, "/recommendations", r.body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", r.method, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "refused") {
			t.Errorf("%s leaked driver error: %s", r.method, rec.Body.String())
		}
	}
}

type failingBody struct {
	err error
}

func (b failingBody) Read([]byte) (int, error) { return 0, b.err }

func TestCreateRecommendation_BodyReadErrors(t *testing.T) {
	e := newTestEcho(recommendation.NewRecommendationService(memory.NewRecommendationRepository()))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"body too large", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge},
		{"connection reset", errors.New("connection reset by peer"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/recommendations", failingBody{err: tt.err})
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

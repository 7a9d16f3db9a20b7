package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/auth"
)

func newTestMux(t *testing.T) (*http.ServeMux, *Service) {
	t.Helper()

	svc := newTestService(t)
	handler := NewHandlers(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/reports", handler.HandleCreate)
	mux.HandleFunc("GET /v1/reports", handler.HandleList)
	mux.HandleFunc("GET /v1/reports/{id}/download", handler.HandleDownload)
	mux.HandleFunc("DELETE /v1/reports/{id}", handler.HandleDelete)
	return mux, svc
}

func doRequest(mux *http.ServeMux, method, target, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body: %s)", err, rec.Body.String())
	}
	return envelope.Error.Code
}

func TestHandleCreateLocalCSV(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodPost, "/v1/reports",
		`{"meal_plan_id":"1","format":"csv","year":2024,"month":3}`, testUser)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ReportDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Format != FormatCSV || resp.Year != 2024 || resp.Month != 3 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Status != StatusReady || resp.SizeBytes == 0 {
		t.Errorf("status = %q, size = %d", resp.Status, resp.SizeBytes)
	}
	if !strings.Contains(resp.DownloadURL, "/v1/reports/"+resp.ID.String()+"/download") {
		t.Errorf("download URL = %q", resp.DownloadURL)
	}
}

func TestHandleCreateStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		userID     string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unauthorized",
			body:       `{"meal_plan_id":"1","format":"csv","year":2024,"month":3}`,
			userID:     "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "invalid json",
			body:       `{`,
			userID:     testUser,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "unknown format",
			body:       `{"meal_plan_id":"1","format":"docx","year":2024,"month":3}`,
			userID:     testUser,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_format",
		},
		{
			name:       "month out of range",
			body:       `{"meal_plan_id":"1","format":"csv","year":2024,"month":13}`,
			userID:     testUser,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_period",
		},
		{
			name:       "unknown plan",
			body:       `{"meal_plan_id":"999","format":"csv","year":2024,"month":3}`,
			userID:     testUser,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "foreign plan",
			body:       `{"meal_plan_id":"1","format":"csv","year":2024,"month":3}`,
			userID:     "intruder",
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newTestMux(t)
			rec := doRequest(mux, http.MethodPost, "/v1/reports", tt.body, tt.userID)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestHandleCreateReportLimit(t *testing.T) {
	mux, svc := newTestMux(t)
	svc.maxPerPlan = 1

	body := `{"meal_plan_id":"1","format":"csv","year":2024,"month":3}`
	if rec := doRequest(mux, http.MethodPost, "/v1/reports", body, testUser); rec.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d", rec.Code)
	}

	rec := doRequest(mux, http.MethodPost, "/v1/reports", body, testUser)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if code := errorCode(t, rec); code != "too_many_reports" {
		t.Errorf("error code = %q", code)
	}
}

func TestHandleListReports(t *testing.T) {
	mux, svc := newTestMux(t)

	created, err := svc.CreateReport(context.Background(), CreateReportRequest{
		MealPlanID: "1", Format: FormatCSV, Year: 2024, Month: 3,
	}, testUser)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	rec := doRequest(mux, http.MethodGet, "/v1/reports?meal_plan_id=1", "", testUser)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ReportsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Reports) != 1 || resp.Reports[0].ID != created.ID {
		t.Errorf("reports = %+v", resp.Reports)
	}
	if resp.Reports[0].DownloadURL == "" {
		t.Error("expected download URL in list entry")
	}
}

func TestHandleListRejections(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/v1/reports", "", testUser)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without meal_plan_id", rec.Code)
	}
	if code := errorCode(t, rec); code != "missing_meal_plan_id" {
		t.Errorf("error code = %q", code)
	}

	rec = doRequest(mux, http.MethodGet, "/v1/reports?meal_plan_id=1", "", "intruder")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for foreign plan", rec.Code)
	}
}

func TestHandleDownloadLocalMode(t *testing.T) {
	mux, svc := newTestMux(t)

	created, err := svc.CreateReport(context.Background(), CreateReportRequest{
		MealPlanID: "1", Format: FormatCSV, Year: 2024, Month: 3,
	}, testUser)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	rec := doRequest(mux, http.MethodGet, "/v1/reports/"+created.ID.String()+"/download", "", testUser)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=meal_plan_1_2024-03.csv" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "date,breakfast,lunch,dinner,snack,dessert,total") {
		t.Errorf("body starts with %q", rec.Body.String()[:min(60, rec.Body.Len())])
	}
}

func TestHandleDownloadRejections(t *testing.T) {
	mux, svc := newTestMux(t)

	created, err := svc.CreateReport(context.Background(), CreateReportRequest{
		MealPlanID: "1", Format: FormatCSV, Year: 2024, Month: 3,
	}, testUser)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	rec := doRequest(mux, http.MethodGet, "/v1/reports/not-a-uuid/download", "", testUser)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed id", rec.Code)
	}

	rec = doRequest(mux, http.MethodGet, "/v1/reports/"+created.ID.String()+"/download", "", "intruder")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for foreign report", rec.Code)
	}

	rec = doRequest(mux, http.MethodGet, "/v1/reports/"+created.ID.String()+"/download", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without user", rec.Code)
	}
}

func TestHandleDeleteReport(t *testing.T) {
	mux, svc := newTestMux(t)

	created, err := svc.CreateReport(context.Background(), CreateReportRequest{
		MealPlanID: "1", Format: FormatCSV, Year: 2024, Month: 3,
	}, testUser)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	rec := doRequest(mux, http.MethodDelete, "/v1/reports/"+created.ID.String(), "", testUser)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doRequest(mux, http.MethodGet, "/v1/reports/"+created.ID.String()+"/download", "", testUser)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after delete", rec.Code)
	}
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adam2504/devevent/internal/db"
	"github.com/adam2504/devevent/internal/domain/event"
	"github.com/adam2504/devevent/internal/http/handlers"
	"github.com/adam2504/devevent/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeEventsService struct {
	createFn    func(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	updateFn    func(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error)
	getFn       func(ctx context.Context, id string) (event.Event, error)
	getBySlugFn func(ctx context.Context, slug string) (event.Event, error)
	listFn      func(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error)
	deleteFn    func(ctx context.Context, id string) error
}

func (f *fakeEventsService) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return event.Event{}, nil
}

func (f *fakeEventsService) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return event.Event{}, nil
}

func (f *fakeEventsService) Get(ctx context.Context, id string) (event.Event, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return event.Event{}, nil
}

func (f *fakeEventsService) GetBySlug(ctx context.Context, slug string) (event.Event, error) {
	if f.getBySlugFn != nil {
		return f.getBySlugFn(ctx, slug)
	}
	return event.Event{}, nil
}

func (f *fakeEventsService) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeEventsService) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

// small helper which mounts one handler per test
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, h)
	return r
}

func doJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Details struct {
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error body: %v body=%s", err, w.Body.String())
	}
	return resp
}

const validEventBody = `{
	"title": "React Conf 2026",
	"description": "The React conference",
	"overview": "Two days of talks",
	"image": "/images/event1.png",
	"venue": "Hall A",
	"location": "Henderson, NV",
	"date": "May 15, 2026",
	"time": "9:00",
	"mode": "hybrid",
	"audience": "Frontend developers",
	"agenda": ["Keynote", "Talks"],
	"organizer": "Meta",
	"tags": ["react", "frontend"]
}`

func TestCreateEventHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		svcSetUp       func(*fakeEventsService)
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "success",
			body: validEventBody,
			svcSetUp: func(f *fakeEventsService) {
				f.createFn = func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
					return event.Event{
						ID:        uuid.NewString(),
						Title:     req.Title,
						Slug:      "react-conf-2026",
						CreatedAt: now,
						UpdatedAt: now,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing fields",
			body:           `{"title": "React Conf 2026"}`,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       "invalid_request",
		},
		{
			name: "validation failure",
			body: validEventBody,
			svcSetUp: func(f *fakeEventsService) {
				f.createFn = func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
					return event.Event{}, validation.Errors{{Field: "mode", Err: validation.ErrInvalidEnumValue}}
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantCode:       "invalid_request",
		},
		{
			name: "duplicate slug",
			body: validEventBody,
			svcSetUp: func(f *fakeEventsService) {
				f.createFn = func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
					return event.Event{}, event.ErrDuplicateSlug
				}
			},
			wantStatusCode: http.StatusConflict,
			wantCode:       "duplicate_slug",
		},
		{
			name: "store down",
			body: validEventBody,
			svcSetUp: func(f *fakeEventsService) {
				f.createFn = func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
					return event.Event{}, fmt.Errorf("acquire: %w", db.ErrConnectionFailure)
				}
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantCode:       "store_unavailable",
		},
		{
			name: "store connect outlives request deadline",
			body: validEventBody,
			svcSetUp: func(f *fakeEventsService) {
				f.createFn = func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
					return event.Event{}, fmt.Errorf("%w: %w", db.ErrConnectionFailure, context.DeadlineExceeded)
				}
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantCode:       "store_unavailable",
		},
		{
			name: "unexpected error",
			body: validEventBody,
			svcSetUp: func(f *fakeEventsService) {
				f.createFn = func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
					return event.Event{}, errors.New("boom")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantCode:       "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventsService{}
			if tt.svcSetUp != nil {
				tt.svcSetUp(svc)
			}

			h := handlers.NewEventsHandler(svc)
			r := setupRouter(http.MethodPost, "/events", h.CreateEvent)

			w := doJSON(r, http.MethodPost, "/events", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("expected status %d, got %d, body=%s", tt.wantStatusCode, w.Code, w.Body.String())
			}

			if tt.wantCode != "" {
				if got := decodeError(t, w).Error.Code; got != tt.wantCode {
					t.Fatalf("expected error code %q, got %q", tt.wantCode, got)
				}
			}
		})
	}
}

func TestCreateEventHandler_FieldDetails(t *testing.T) {
	svc := &fakeEventsService{
		createFn: func(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
			return event.Event{}, validation.Errors{
				{Field: "time", Err: validation.ErrInvalidTimeValues},
				{Field: "agenda", Err: validation.ErrEmptyCollection},
			}
		},
	}

	h := handlers.NewEventsHandler(svc)
	r := setupRouter(http.MethodPost, "/events", h.CreateEvent)
	w := doJSON(r, http.MethodPost, "/events", validEventBody)

	resp := decodeError(t, w)
	if len(resp.Error.Details.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", resp.Error.Details.Fields)
	}

	if f := resp.Error.Details.Fields[0]; f.Field != "time" || f.Rule != "time_range" {
		t.Fatalf("unexpected first field error: %+v", f)
	}
	if f := resp.Error.Details.Fields[1]; f.Field != "agenda" || f.Rule != "min_items" {
		t.Fatalf("unexpected second field error: %+v", f)
	}
}

func TestGetEventByIdHandler(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name           string
		id             string
		getFn          func(ctx context.Context, id string) (event.Event, error)
		wantStatusCode int
	}{
		{
			name: "found",
			id:   id,
			getFn: func(ctx context.Context, got string) (event.Event, error) {
				return event.Event{ID: got, Title: "Go Meetup"}, nil
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "malformed id",
			id:             "not-a-uuid",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "not found",
			id:   id,
			getFn: func(ctx context.Context, got string) (event.Event, error) {
				return event.Event{}, event.ErrNotFound
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewEventsHandler(&fakeEventsService{getFn: tt.getFn})
			r := setupRouter(http.MethodGet, "/events/:id", h.GetEventById)

			w := doJSON(r, http.MethodGet, "/events/"+tt.id, "")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("expected status %d, got %d, body=%s", tt.wantStatusCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetEventBySlugHandler_ETag(t *testing.T) {
	svc := &fakeEventsService{
		getBySlugFn: func(ctx context.Context, slug string) (event.Event, error) {
			if slug != "react-conf-2026" {
				return event.Event{}, event.ErrNotFound
			}
			return event.Event{ID: "a", Slug: slug}, nil
		},
	}

	h := handlers.NewEventsHandler(svc)
	r := setupRouter(http.MethodGet, "/events/slug/:slug", h.GetEventBySlug)

	first := doJSON(r, http.MethodGet, "/events/slug/react-conf-2026", "")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/events/slug/react-conf-2026", nil)
	req.Header.Set("If-None-Match", etag)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}

	missing := doJSON(r, http.MethodGet, "/events/slug/nope", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
}

func TestListEventsHandler(t *testing.T) {
	var gotFilter event.ListEventsFilter

	svc := &fakeEventsService{
		listFn: func(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
			gotFilter = filter
			return []event.Event{{ID: "a"}, {ID: "b"}}, 7, nil
		},
	}

	h := handlers.NewEventsHandler(svc)
	r := setupRouter(http.MethodGet, "/events", h.ListEvents)

	t.Run("paging", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/events?limit=2&offset=4", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
		}

		if gotFilter.Limit != 2 || gotFilter.Offset != 4 {
			t.Fatalf("unexpected filter: %+v", gotFilter)
		}

		var body struct {
			Items []event.Event `json:"items"`
			Total int           `json:"total"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(body.Items) != 2 || body.Total != 7 {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/events", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotFilter.Limit != 20 || gotFilter.Offset != 0 {
			t.Fatalf("unexpected default filter: %+v", gotFilter)
		}
	})

	for _, q := range []string{"limit=0", "limit=101", "limit=abc", "offset=-1"} {
		t.Run("bad "+q, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/events?"+q, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestUpdateEventHandler(t *testing.T) {
	id := uuid.NewString()

	svc := &fakeEventsService{
		updateFn: func(ctx context.Context, got string, req event.UpdateEventRequest) (event.Event, error) {
			if got != id {
				return event.Event{}, event.ErrNotFound
			}
			return event.Event{ID: got, Title: req.Title}, nil
		},
	}

	h := handlers.NewEventsHandler(svc)
	r := setupRouter(http.MethodPut, "/events/:id", h.UpdateEvent)

	if w := doJSON(r, http.MethodPut, "/events/"+id, validEventBody); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(r, http.MethodPut, "/events/"+uuid.NewString(), validEventBody); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	if w := doJSON(r, http.MethodPut, "/events/123", validEventBody); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeleteEventHandler(t *testing.T) {
	id := uuid.NewString()
	deleted := ""

	svc := &fakeEventsService{
		deleteFn: func(ctx context.Context, got string) error {
			if got != id {
				return event.ErrNotFound
			}
			deleted = got
			return nil
		},
	}

	h := handlers.NewEventsHandler(svc)
	r := setupRouter(http.MethodDelete, "/events/:id", h.DeleteEvent)

	if w := doJSON(r, http.MethodDelete, "/events/"+id, ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if deleted != id {
		t.Fatalf("delete was not forwarded")
	}

	if w := doJSON(r, http.MethodDelete, "/events/"+uuid.NewString(), ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

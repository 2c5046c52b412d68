package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgvcc/agenda/internal/domain"
	"github.com/pgvcc/agenda/internal/handler"
	"github.com/pgvcc/agenda/internal/service"
)

// mockVisitServicer is a test double for handler.VisitServicer.
// Set only the method fields your test needs.
type mockVisitServicer struct {
	create    func(ctx context.Context, c service.Candidate) (domain.ScheduledVisit, error)
	update    func(ctx context.Context, c service.Candidate) (domain.ScheduledVisit, error)
	move      func(ctx context.Context, id, dateKey string, hour int) (domain.ScheduledVisit, error)
	moveToDay func(ctx context.Context, id, dateKey string) (domain.ScheduledVisit, error)
	delete    func(ctx context.Context, id string) error
	get       func(id string) (domain.ScheduledVisit, error)
	list      func(p domain.PaginationParams) ([]domain.ScheduledVisit, int)
	all       func() []domain.ScheduledVisit
	importFn  func(ctx context.Context, raw []byte) ([]domain.ScheduledVisit, int, error)
}

func (m *mockVisitServicer) Create(ctx context.Context, c service.Candidate) (domain.ScheduledVisit, error) {
	return m.create(ctx, c)
}
func (m *mockVisitServicer) Update(ctx context.Context, c service.Candidate) (domain.ScheduledVisit, error) {
	return m.update(ctx, c)
}
func (m *mockVisitServicer) Move(ctx context.Context, id, dateKey string, hour int) (domain.ScheduledVisit, error) {
	return m.move(ctx, id, dateKey, hour)
}
func (m *mockVisitServicer) MoveToDay(ctx context.Context, id, dateKey string) (domain.ScheduledVisit, error) {
	return m.moveToDay(ctx, id, dateKey)
}
func (m *mockVisitServicer) Delete(ctx context.Context, id string) error { return m.delete(ctx, id) }
func (m *mockVisitServicer) Get(id string) (domain.ScheduledVisit, error) {
	return m.get(id)
}
func (m *mockVisitServicer) List(p domain.PaginationParams) ([]domain.ScheduledVisit, int) {
	return m.list(p)
}
func (m *mockVisitServicer) All() []domain.ScheduledVisit { return m.all() }
func (m *mockVisitServicer) Import(ctx context.Context, raw []byte) ([]domain.ScheduledVisit, int, error) {
	return m.importFn(ctx, raw)
}

// compile-time check: mockVisitServicer must satisfy handler.VisitServicer.
var _ handler.VisitServicer = (*mockVisitServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mock into its router,
// mirroring how main.go wires it in production.
func newHTTPHandler(svc handler.VisitServicer) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(svc, log).Routes()
}

func visitFixture() domain.ScheduledVisit {
	return domain.ScheduledVisit{
		ID:            "e3b10a1c",
		SiteID:        4,
		SiteTitle:     "Monte Albán",
		Date:          "2025-12-20",
		TimeSlot:      "10:00 - 11:00",
		Type:          "Escolar",
		Status:        domain.StatusPending,
		RequesterName: "Usuario Web",
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ---- tests -----------------------------------------------------------------

func TestCreateVisit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		fixture := visitFixture()
		svc := &mockVisitServicer{
			create: func(_ context.Context, c service.Candidate) (domain.ScheduledVisit, error) {
				assert.Equal(t, "Visita guiada", c.Title)
				assert.Equal(t, "2025-12-20", c.DateKey)
				assert.Equal(t, "10:00", c.StartTime)
				return fixture, nil
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodPost, "/visits", map[string]any{
			"title":     "Visita guiada",
			"siteId":    4,
			"siteTitle": "Monte Albán",
			"date":      "2025-12-20",
			"startTime": "10:00",
			"endTime":   "11:00",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got domain.ScheduledVisit
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, fixture.ID, got.ID)
	})

	t.Run("conflict is 422 with reason code", func(t *testing.T) {
		svc := &mockVisitServicer{
			create: func(_ context.Context, _ service.Candidate) (domain.ScheduledVisit, error) {
				return domain.ScheduledVisit{}, domain.Reject(domain.ReasonConflict)
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodPost, "/visits", map[string]any{"title": "x"})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "conflict", body.Error.Code)
		assert.Equal(t, "Ya existe un evento que se empalma en ese horario.", body.Error.Message)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		svc := &mockVisitServicer{}
		req := httptest.NewRequest(http.MethodPost, "/visits", bytes.NewBufferString("{no json"))
		rec := httptest.NewRecorder()
		newHTTPHandler(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", decodeError(t, rec).Error.Code)
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		svc := &mockVisitServicer{}
		rec := doJSON(t, newHTTPHandler(svc), http.MethodPost, "/visits", map[string]any{
			"title":  "x",
			"status": "Quizás",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListVisits(t *testing.T) {
	fixture := visitFixture()
	svc := &mockVisitServicer{
		list: func(p domain.PaginationParams) ([]domain.ScheduledVisit, int) {
			assert.Equal(t, 2, p.Page)
			assert.Equal(t, 5, p.Limit)
			return []domain.ScheduledVisit{fixture}, 11
		},
	}

	rec := doJSON(t, newHTTPHandler(svc), http.MethodGet, "/visits?page=2&limit=5", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data       []domain.ScheduledVisit `json:"data"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, fixture.ID, body.Data[0].ID)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 11, body.Pagination.Total)
}

func TestGetVisit(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		fixture := visitFixture()
		svc := &mockVisitServicer{
			get: func(id string) (domain.ScheduledVisit, error) {
				assert.Equal(t, fixture.ID, id)
				return fixture, nil
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodGet, "/visits/"+fixture.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing is 404", func(t *testing.T) {
		svc := &mockVisitServicer{
			get: func(string) (domain.ScheduledVisit, error) {
				return domain.ScheduledVisit{}, domain.ErrNotFound
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodGet, "/visits/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
	})
}

func TestUpdateVisit(t *testing.T) {
	fixture := visitFixture()
	svc := &mockVisitServicer{
		update: func(_ context.Context, c service.Candidate) (domain.ScheduledVisit, error) {
			// The path id wins over anything in the body.
			assert.Equal(t, fixture.ID, c.VisitID)
			return fixture, nil
		},
	}

	rec := doJSON(t, newHTTPHandler(svc), http.MethodPut, "/visits/"+fixture.ID, map[string]any{
		"title":     "Cambio",
		"date":      "2025-12-21",
		"startTime": "09:00",
		"endTime":   "10:00",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteVisit(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		called := false
		svc := &mockVisitServicer{
			delete: func(_ context.Context, id string) error {
				called = true
				assert.Equal(t, "v1", id)
				return nil
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodDelete, "/visits/v1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, called)
	})

	t.Run("missing is 404", func(t *testing.T) {
		svc := &mockVisitServicer{
			delete: func(context.Context, string) error { return domain.ErrNotFound },
		}
		rec := doJSON(t, newHTTPHandler(svc), http.MethodDelete, "/visits/v1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMoveVisit(t *testing.T) {
	fixture := visitFixture()

	t.Run("with hour", func(t *testing.T) {
		svc := &mockVisitServicer{
			move: func(_ context.Context, id, dateKey string, hour int) (domain.ScheduledVisit, error) {
				assert.Equal(t, "v1", id)
				assert.Equal(t, "2025-12-21", dateKey)
				assert.Equal(t, 14, hour)
				return fixture, nil
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodPost, "/visits/v1/move", map[string]any{
			"date": "2025-12-21",
			"hour": 14,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("without hour moves day only", func(t *testing.T) {
		svc := &mockVisitServicer{
			moveToDay: func(_ context.Context, id, dateKey string) (domain.ScheduledVisit, error) {
				assert.Equal(t, "2025-12-21", dateKey)
				return fixture, nil
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodPost, "/visits/v1/move", map[string]any{
			"date": "2025-12-21",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("past date is 422", func(t *testing.T) {
		svc := &mockVisitServicer{
			move: func(_ context.Context, _, _ string, _ int) (domain.ScheduledVisit, error) {
				return domain.ScheduledVisit{}, domain.Reject(domain.ReasonPastDate)
			},
		}

		rec := doJSON(t, newHTTPHandler(svc), http.MethodPost, "/visits/v1/move", map[string]any{
			"date": "2025-12-01",
			"hour": 10,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "pastdate", body.Error.Code)
		assert.Equal(t, "No es posible agendar en fechas pasadas.", body.Error.Message)
	})
}

func TestImportVisits(t *testing.T) {
	t.Run("replaces collection", func(t *testing.T) {
		fixture := visitFixture()
		svc := &mockVisitServicer{
			importFn: func(_ context.Context, raw []byte) ([]domain.ScheduledVisit, int, error) {
				assert.JSONEq(t, `[{"id":"x"}]`, string(raw))
				return []domain.ScheduledVisit{fixture}, 2, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/visits/import", bytes.NewBufferString(`[{"id":"x"}]`))
		rec := httptest.NewRecorder()
		newHTTPHandler(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body["imported"])
		assert.Equal(t, 2, body["dropped"])
	})

	t.Run("non-array payload is 422", func(t *testing.T) {
		svc := &mockVisitServicer{
			importFn: func(_ context.Context, _ []byte) ([]domain.ScheduledVisit, int, error) {
				return nil, 0, domain.Reject(domain.ReasonInvalidDate)
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/visits/import", bytes.NewBufferString(`"no"`))
		rec := httptest.NewRecorder()
		newHTTPHandler(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/99minutos/concert-booking/internal/api/handler"
	"github.com/99minutos/concert-booking/internal/core/domain"
)

type tokenTable map[string]domain.Identity

func (t tokenTable) VerifyToken(token string) (domain.Identity, error) {
	id, ok := t[token]
	if !ok {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return id, nil
}

type stubUsers struct{}

func (stubUsers) ListUsers(context.Context) ([]*domain.User, error) {
	return []*domain.User{}, nil
}

func newTestRouter() http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(Handlers{
		Auth:      handler.NewAuthHandler(nil),
		Concert:   handler.NewConcertHandler(nil),
		Booking:   handler.NewBookingHandler(nil),
		User:      handler.NewUserHandler(stubUsers{}),
		Health:    handler.NewHealthHandler(),
		Readiness: handler.NewHealthDependenciesHandler(map[string]handler.DependencyCheck{}),
	}, Options{
		Verifier: tokenTable{
			"admin-token": {SubjectID: "a1", Role: domain.RoleAdmin},
			"user-token":  {SubjectID: "u1", Role: domain.RoleUser},
		},
		Log:        zerolog.New(io.Discard),
		Registerer: reg,
		Gatherer:   reg,
	})
}

func serve(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RoleGates(t *testing.T) {
	r := newTestRouter()

	gated := []struct {
		method string
		path   string
		admin  bool
	}{
		{http.MethodPost, "/concerts", true},
		{http.MethodPut, "/update-concert/c1", true},
		{http.MethodDelete, "/delete-concert/c1", true},
		{http.MethodGet, "/Allusers", true},
		{http.MethodGet, "/user-booking/u1", true},
		{http.MethodPost, "/book-tickets", false},
		{http.MethodPut, "/update-booking/u1", false},
		{http.MethodDelete, "/delete-booking/b1", false},
	}

	for _, g := range gated {
		rec := serve(r, g.method, g.path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without token", g.method, g.path)

		rec = serve(r, g.method, g.path, "forged")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s with bad token", g.method, g.path)

		if g.admin {
			rec = serve(r, g.method, g.path, "user-token")
			assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s as user", g.method, g.path)
		}
	}
}

func TestRouter_AdminPassesGate(t *testing.T) {
	rec := serve(newTestRouter(), http.MethodGet, "/Allusers", "admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRouter_OpenRoutes(t *testing.T) {
	r := newTestRouter()

	rec := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to the Concert API")

	rec = serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/no-such-route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

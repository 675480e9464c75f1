package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

type stubUserService struct {
	users []*domain.User
}

func (s *stubUserService) ListUsers(context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func TestUserHandler_List(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/Allusers", nil), rec)

	stub := &stubUserService{users: []*domain.User{{ID: "u1", Email: "a@example.com", Role: domain.RoleUser, PasswordHash: "x"}}}
	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(users) != 1 || users[0]["_id"] != "u1" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
	if _, ok := users[0]["password"]; ok {
		t.Fatalf("password rendered: %s", rec.Body.String())
	}
}

func TestHome(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := Home(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "{\"message\":\"Welcome to the Concert API\"}\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

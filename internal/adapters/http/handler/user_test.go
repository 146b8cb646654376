package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/core/auth"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
)

type stubUserUseCase struct {
	registerFn     func(ctx context.Context, in user.RegisterInput) (*user.User, error)
	authenticateFn func(ctx context.Context, username, password string) (*user.User, error)
	listFn         func(ctx context.Context) ([]*user.User, error)
	getFn          func(ctx context.Context, username string) (*user.Detail, error)
	updateFn       func(ctx context.Context, username string, in user.UpdateUserInput) (*user.User, error)
	deleteFn       func(ctx context.Context, username string) error
	applyFn        func(ctx context.Context, username string, jobID int64) (*user.Application, error)
}

func (s *stubUserUseCase) Register(ctx context.Context, in user.RegisterInput) (*user.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserUseCase) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubUserUseCase) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserUseCase) GetUser(ctx context.Context, username string) (*user.Detail, error) {
	return s.getFn(ctx, username)
}

func (s *stubUserUseCase) UpdateUser(ctx context.Context, username string, in user.UpdateUserInput) (*user.User, error) {
	return s.updateFn(ctx, username, in)
}

func (s *stubUserUseCase) DeleteUser(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func (s *stubUserUseCase) ApplyToJob(ctx context.Context, username string, jobID int64) (*user.Application, error) {
	return s.applyFn(ctx, username, jobID)
}

func testCodec() *auth.TokenCodec {
	return auth.NewTokenCodec("test-key", time.Hour)
}

func TestUserHandler_Create_ReturnsUserAndToken(t *testing.T) {
	t.Parallel()

	uc := &stubUserUseCase{
		registerFn: func(ctx context.Context, in user.RegisterInput) (*user.User, error) {
			return &user.User{
				Username:  in.Username,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
				IsAdmin:   in.IsAdmin,
			}, nil
		},
	}
	h := NewUserHandler(uc, testCodec())

	c, rec := newTestContext(t, http.MethodPost, "/users",
		`{"username":"u1","password":"secret","firstName":"First","lastName":"Last","email":"u1@example.com","isAdmin":true}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	created, ok := body["user"].(map[string]any)
	if !ok || created["username"] != "u1" {
		t.Fatalf("expected user envelope, got %v", body)
	}
	if _, ok := created["password"]; ok {
		t.Fatal("password must never appear in responses")
	}

	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatal("expected issued token")
	}
	claims, err := testCodec().Verify(token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.Username != "u1" || !claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	t.Parallel()

	h := NewUserHandler(&stubUserUseCase{}, testCodec())

	c, _ := newTestContext(t, http.MethodPost, "/users",
		`{"username":"u1","password":"pw","firstName":"First","lastName":"Last","email":"u1@example.com"}`)
	err := h.Create(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Get_WithJobsApplied(t *testing.T) {
	t.Parallel()

	uc := &stubUserUseCase{
		getFn: func(ctx context.Context, username string) (*user.Detail, error) {
			return &user.Detail{
				User:        user.User{Username: username, FirstName: "First", LastName: "Last", Email: "u1@example.com"},
				JobsApplied: []int64{1, 3},
			}, nil
		},
	}
	h := NewUserHandler(uc, testCodec())

	c, rec := newTestContext(t, http.MethodGet, "/users/u1", "")
	c.SetParamNames("username")
	c.SetParamValues("u1")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	found := decodeBody(t, rec)["user"].(map[string]any)
	jobsApplied, ok := found["jobsApplied"].([]any)
	if !ok || len(jobsApplied) != 2 {
		t.Fatalf("expected 2 applied jobs, got %v", found["jobsApplied"])
	}
}

func TestUserHandler_Get_NoApplications(t *testing.T) {
	t.Parallel()

	uc := &stubUserUseCase{
		getFn: func(ctx context.Context, username string) (*user.Detail, error) {
			return &user.Detail{User: user.User{Username: username}}, nil
		},
	}
	h := NewUserHandler(uc, testCodec())

	c, rec := newTestContext(t, http.MethodGet, "/users/u1", "")
	c.SetParamNames("username")
	c.SetParamValues("u1")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	found := decodeBody(t, rec)["user"].(map[string]any)
	jobsApplied, ok := found["jobsApplied"].([]any)
	if !ok || len(jobsApplied) != 0 {
		t.Fatalf("expected empty jobsApplied array, got %v", found["jobsApplied"])
	}
}

func TestUserHandler_Update_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	h := NewUserHandler(&stubUserUseCase{}, testCodec())

	c, _ := newTestContext(t, http.MethodPatch, "/users/u1", `{"username":"renamed"}`)
	c.SetParamNames("username")
	c.SetParamValues("u1")

	err := h.Update(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %v", err)
	}
}

func TestUserHandler_Update_PartialFields(t *testing.T) {
	t.Parallel()

	uc := &stubUserUseCase{
		updateFn: func(ctx context.Context, username string, in user.UpdateUserInput) (*user.User, error) {
			if in.FirstName == nil || *in.FirstName != "Updated" {
				t.Fatalf("unexpected firstName: %+v", in.FirstName)
			}
			if in.Password == nil || *in.Password != "newsecret" {
				t.Fatalf("unexpected password: %+v", in.Password)
			}
			return &user.User{Username: username, FirstName: *in.FirstName}, nil
		},
	}
	h := NewUserHandler(uc, testCodec())

	c, rec := newTestContext(t, http.MethodPatch, "/users/u1", `{"firstName":"Updated","password":"newsecret"}`)
	c.SetParamNames("username")
	c.SetParamValues("u1")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_Accepted(t *testing.T) {
	t.Parallel()

	uc := &stubUserUseCase{
		deleteFn: func(ctx context.Context, username string) error {
			return nil
		},
	}
	h := NewUserHandler(uc, testCodec())

	c, rec := newTestContext(t, http.MethodDelete, "/users/u1", "")
	c.SetParamNames("username")
	c.SetParamValues("u1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestUserHandler_Apply(t *testing.T) {
	t.Parallel()

	uc := &stubUserUseCase{
		applyFn: func(ctx context.Context, username string, jobID int64) (*user.Application, error) {
			if username != "u1" || jobID != 7 {
				t.Fatalf("unexpected arguments: %s, %d", username, jobID)
			}
			return &user.Application{Username: username, JobID: jobID}, nil
		},
	}
	h := NewUserHandler(uc, testCodec())

	c, rec := newTestContext(t, http.MethodPost, "/users/u1/jobs/7", "")
	c.SetParamNames("username", "id")
	c.SetParamValues("u1", "7")

	if err := h.Apply(c); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if decodeBody(t, rec)["applied"] != float64(7) {
		t.Fatalf("expected applied envelope with job id")
	}
}

func TestUserHandler_Apply_InvalidJobID(t *testing.T) {
	t.Parallel()

	h := NewUserHandler(&stubUserUseCase{}, testCodec())

	c, _ := newTestContext(t, http.MethodPost, "/users/u1/jobs/abc", "")
	c.SetParamNames("username", "id")
	c.SetParamValues("u1", "abc")

	if err := h.Apply(c); !errors.Is(err, user.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

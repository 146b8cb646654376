package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/core/auth"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
)

// UserHandler はユーザーリソースの HTTP ハンドラです。
type UserHandler struct {
	users user.UseCase
	codec *auth.TokenCodec
}

// NewUserHandler は UserHandler を生成します。
func NewUserHandler(users user.UseCase, codec *auth.TokenCodec) *UserHandler {
	return &UserHandler{users: users, codec: codec}
}

type createUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=5"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	IsAdmin   bool   `json:"isAdmin"`
}

type userResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

type userDetailResponse struct {
	userResponse
	JobsApplied []int64 `json:"jobsApplied"`
}

var userUpdateFields = map[string]struct{}{
	"firstName": {},
	"lastName":  {},
	"email":     {},
	"password":  {},
	"isAdmin":   {},
}

// Create は POST /users を処理します。管理者による登録のため、発行した
// トークンもあわせて返します。
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.users.Register(c.Request().Context(), user.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		return err
	}

	token, err := h.codec.Issue(created.Username, created.IsAdmin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":  toUserResponse(created),
		"token": token,
	})
}

// List は GET /users を処理します。
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	responses := make([]userResponse, 0, len(users))
	for _, found := range users {
		responses = append(responses, toUserResponse(found))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": responses})
}

// Get は GET /users/:username を処理します。
func (h *UserHandler) Get(c echo.Context) error {
	detail, err := h.users.GetUser(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}

	jobsApplied := detail.JobsApplied
	if jobsApplied == nil {
		jobsApplied = []int64{}
	}

	return c.JSON(http.StatusOK, echo.Map{"user": userDetailResponse{
		userResponse: toUserResponse(&detail.User),
		JobsApplied:  jobsApplied,
	}})
}

// Update は PATCH /users/:username を処理します。
func (h *UserHandler) Update(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	for key := range body {
		if _, ok := userUpdateFields[key]; !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown field: "+key)
		}
	}

	var input user.UpdateUserInput
	if value, ok := body["firstName"]; ok {
		first, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "firstName must be a string")
		}
		input.FirstName = &first
	}
	if value, ok := body["lastName"]; ok {
		last, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "lastName must be a string")
		}
		input.LastName = &last
	}
	if value, ok := body["email"]; ok {
		email, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "email must be a string")
		}
		input.Email = &email
	}
	if value, ok := body["password"]; ok {
		password, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "password must be a string")
		}
		input.Password = &password
	}
	if value, ok := body["isAdmin"]; ok {
		isAdmin, ok := value.(bool)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "isAdmin must be a boolean")
		}
		input.IsAdmin = &isAdmin
	}

	updated, err := h.users.UpdateUser(c.Request().Context(), c.Param("username"), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"user": toUserResponse(updated)})
}

// Delete は DELETE /users/:username を処理します。
func (h *UserHandler) Delete(c echo.Context) error {
	username := c.Param("username")
	if err := h.users.DeleteUser(c.Request().Context(), username); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, echo.Map{"deleted": username})
}

// Apply は POST /users/:username/jobs/:id を処理します。
func (h *UserHandler) Apply(c echo.Context) error {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return user.ErrJobNotFound
	}

	application, err := h.users.ApplyToJob(c.Request().Context(), c.Param("username"), jobID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"applied": application.JobID})
}

func toUserResponse(found *user.User) userResponse {
	return userResponse{
		Username:  found.Username,
		FirstName: found.FirstName,
		LastName:  found.LastName,
		Email:     found.Email,
		IsAdmin:   found.IsAdmin,
	}
}

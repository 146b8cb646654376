package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/core/job"
)

// JobHandler は求人リソースの HTTP ハンドラです。
type JobHandler struct {
	jobs job.UseCase
}

// NewJobHandler は JobHandler を生成します。
func NewJobHandler(jobs job.UseCase) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type createJobRequest struct {
	Title         string  `json:"title" validate:"required"`
	Salary        *int    `json:"salary" validate:"omitempty,gte=0"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle" validate:"required"`
}

type jobResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
}

type jobListingResponse struct {
	jobResponse
	CompanyName string `json:"companyName"`
}

type jobCompanyResponse struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

type jobDetailResponse struct {
	ID      int64              `json:"id"`
	Title   string             `json:"title"`
	Salary  *int               `json:"salary"`
	Equity  *string            `json:"equity"`
	Company jobCompanyResponse `json:"company"`
}

// jobForbiddenFields に含まれるキーを PATCH で送信すると 403 になります。
// 求人の所属会社の付け替えはこの経路では許可しません。
var jobForbiddenFields = map[string]struct{}{
	"id":            {},
	"companyHandle": {},
}

var jobUpdateFields = map[string]struct{}{
	"title":  {},
	"salary": {},
	"equity": {},
}

// Create は POST /jobs を処理します。
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.jobs.CreateJob(c.Request().Context(), job.CreateJobInput{
		Title:         req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: req.CompanyHandle,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"job": toJobResponse(created)})
}

// List は GET /jobs を処理します。
func (h *JobHandler) List(c echo.Context) error {
	filter, err := parseJobFilter(c)
	if err != nil {
		return err
	}

	listings, err := h.jobs.ListJobs(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]jobListingResponse, 0, len(listings))
	for _, listing := range listings {
		responses = append(responses, jobListingResponse{
			jobResponse: toJobResponse(&listing.Job),
			CompanyName: listing.CompanyName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": responses})
}

// Get は GET /jobs/:id を処理します。
func (h *JobHandler) Get(c echo.Context) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}

	detail, err := h.jobs.GetJob(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"job": jobDetailResponse{
		ID:     detail.ID,
		Title:  detail.Title,
		Salary: detail.Salary,
		Equity: detail.Equity,
		Company: jobCompanyResponse{
			Handle:       detail.Company.Handle,
			Name:         detail.Company.Name,
			Description:  detail.Company.Description,
			NumEmployees: detail.Company.NumEmployees,
			LogoURL:      detail.Company.LogoURL,
		},
	}})
}

// Update は PATCH /jobs/:id を処理します。
func (h *JobHandler) Update(c echo.Context) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	for key := range body {
		if _, forbidden := jobForbiddenFields[key]; forbidden {
			return errForbidden
		}
		if _, ok := jobUpdateFields[key]; !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown field: "+key)
		}
	}

	var input job.UpdateInput
	if value, ok := body["title"]; ok {
		title, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "title must be a string")
		}
		input.Title = &title
	}
	if value, ok := body["salary"]; ok {
		salary, ok := toInt(value)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "salary must be an integer")
		}
		input.Salary = &salary
	}
	if value, ok := body["equity"]; ok {
		equity, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "equity must be a string")
		}
		input.Equity = &equity
	}

	updated, err := h.jobs.UpdateJob(c.Request().Context(), id, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"job": toJobResponse(updated)})
}

// Delete は DELETE /jobs/:id を処理します。
func (h *JobHandler) Delete(c echo.Context) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}

	if err := h.jobs.DeleteJob(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, echo.Map{"deleted": id})
}

func toJobResponse(found *job.Job) jobResponse {
	return jobResponse{
		ID:            found.ID,
		Title:         found.Title,
		Salary:        found.Salary,
		Equity:        found.Equity,
		CompanyHandle: found.CompanyHandle,
	}
}

func parseJobID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, job.ErrInvalidID
	}
	return id, nil
}

func parseJobFilter(c echo.Context) (job.ListFilter, error) {
	var filter job.ListFilter

	if title := c.QueryParam("title"); title != "" {
		filter.Title = &title
	}
	if raw := c.QueryParam("minSalary"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "minSalary must be an integer")
		}
		filter.MinSalary = &min
	}
	if raw := c.QueryParam("hasEquity"); raw != "" {
		hasEquity, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "hasEquity must be a boolean")
		}
		filter.HasEquity = hasEquity
	}

	return filter, nil
}

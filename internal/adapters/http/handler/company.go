package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/core/company"
)

// CompanyHandler は会社リソースの HTTP ハンドラです。
type CompanyHandler struct {
	companies company.UseCase
}

// NewCompanyHandler は CompanyHandler を生成します。
func NewCompanyHandler(companies company.UseCase) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

type createCompanyRequest struct {
	Handle       string  `json:"handle" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees" validate:"omitempty,gte=0"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

type companyResponse struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

type companyJobResponse struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Salary *int    `json:"salary"`
	Equity *string `json:"equity"`
}

type companyDetailResponse struct {
	companyResponse
	Jobs []companyJobResponse `json:"jobs"`
}

// companyUpdateFields は PATCH で受け付けるフィールドの一覧です。ここに
// 含まれないキーは 400 で拒否されます。
var companyUpdateFields = map[string]struct{}{
	"name":         {},
	"description":  {},
	"numEmployees": {},
	"logoUrl":      {},
}

// Create は POST /companies を処理します。
func (h *CompanyHandler) Create(c echo.Context) error {
	var req createCompanyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.companies.CreateCompany(c.Request().Context(), company.CreateCompanyInput{
		Handle:       req.Handle,
		Name:         req.Name,
		Description:  req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{"company": toCompanyResponse(created)})
}

// List は GET /companies を処理します。
func (h *CompanyHandler) List(c echo.Context) error {
	filter, err := parseCompanyFilter(c)
	if err != nil {
		return err
	}

	companies, err := h.companies.ListCompanies(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]companyResponse, 0, len(companies))
	for _, found := range companies {
		responses = append(responses, toCompanyResponse(found))
	}
	return c.JSON(http.StatusOK, echo.Map{"companies": responses})
}

// Get は GET /companies/:handle を処理します。
func (h *CompanyHandler) Get(c echo.Context) error {
	detail, err := h.companies.GetCompany(c.Request().Context(), c.Param("handle"))
	if err != nil {
		return err
	}

	jobs := make([]companyJobResponse, 0, len(detail.Jobs))
	for _, j := range detail.Jobs {
		jobs = append(jobs, companyJobResponse{
			ID:     j.ID,
			Title:  j.Title,
			Salary: j.Salary,
			Equity: j.Equity,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"company": companyDetailResponse{
		companyResponse: toCompanyResponse(&detail.Company),
		Jobs:            jobs,
	}})
}

// Update は PATCH /companies/:handle を処理します。
func (h *CompanyHandler) Update(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	for key := range body {
		if _, ok := companyUpdateFields[key]; !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown field: "+key)
		}
	}

	var input company.UpdateInput
	if value, ok := body["name"]; ok {
		name, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "name must be a string")
		}
		input.Name = &name
	}
	if value, ok := body["description"]; ok {
		description, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "description must be a string")
		}
		input.Description = &description
	}
	if value, ok := body["numEmployees"]; ok {
		num, ok := toInt(value)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "numEmployees must be an integer")
		}
		input.NumEmployees = &num
	}
	if value, ok := body["logoUrl"]; ok {
		logoURL, ok := value.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "logoUrl must be a string")
		}
		input.LogoURL = &logoURL
	}

	updated, err := h.companies.UpdateCompany(c.Request().Context(), c.Param("handle"), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"company": toCompanyResponse(updated)})
}

// Delete は DELETE /companies/:handle を処理します。
func (h *CompanyHandler) Delete(c echo.Context) error {
	handle := c.Param("handle")
	if err := h.companies.DeleteCompany(c.Request().Context(), handle); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": handle})
}

func toCompanyResponse(found *company.Company) companyResponse {
	return companyResponse{
		Handle:       found.Handle,
		Name:         found.Name,
		Description:  found.Description,
		NumEmployees: found.NumEmployees,
		LogoURL:      found.LogoURL,
	}
}

// companyFilterKeys は検索条件として受け付けるクエリキーの一覧です。
// ここに含まれないキーは 400 で拒否されます。
var companyFilterKeys = map[string]struct{}{
	"name":         {},
	"minEmployees": {},
	"maxEmployees": {},
}

func parseCompanyFilter(c echo.Context) (company.ListFilter, error) {
	var filter company.ListFilter

	for key := range c.QueryParams() {
		if _, ok := companyFilterKeys[key]; !ok {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "unknown filter: "+key)
		}
	}

	if name := c.QueryParam("name"); name != "" {
		filter.Name = &name
	}
	if raw := c.QueryParam("minEmployees"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "minEmployees must be an integer")
		}
		filter.MinEmployees = &min
	}
	if raw := c.QueryParam("maxEmployees"); raw != "" {
		max, err := strconv.Atoi(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "maxEmployees must be an integer")
		}
		filter.MaxEmployees = &max
	}

	return filter, nil
}

// toInt は JSON 数値を int へ変換します。小数部を持つ値は拒否します。
func toInt(value any) (int, bool) {
	number, ok := value.(float64)
	if !ok {
		return 0, false
	}
	if number != float64(int(number)) {
		return 0, false
	}
	return int(number), true
}

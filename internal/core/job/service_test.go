package job

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"
)

type fakeRepo struct {
	jobs      map[int64]*Job
	companies map[string]*CompanySnapshot
	seq       int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		jobs:      make(map[int64]*Job),
		companies: make(map[string]*CompanySnapshot),
	}
}

func (r *fakeRepo) Create(_ context.Context, j *Job) (*Job, error) {
	if _, ok := r.companies[j.CompanyHandle]; !ok {
		return nil, ErrCompanyNotFound
	}
	r.seq++
	clone := cloneJob(j)
	clone.ID = r.seq
	r.jobs[clone.ID] = clone
	return cloneJob(clone), nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]*Listing, error) {
	var result []*Listing
	for _, j := range r.jobs {
		if filter.Title != nil && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(*filter.Title)) {
			continue
		}
		if filter.MinSalary != nil && (j.Salary == nil || *j.Salary < *filter.MinSalary) {
			continue
		}
		if filter.HasEquity {
			if j.Equity == nil {
				continue
			}
			value, err := strconv.ParseFloat(*j.Equity, 64)
			if err != nil || value <= 0 {
				continue
			}
		}
		listing := &Listing{Job: *cloneJob(j)}
		if c, ok := r.companies[j.CompanyHandle]; ok {
			listing.CompanyName = c.Name
		}
		result = append(result, listing)
	}
	sort.Slice(result, func(i, k int) bool { return result[i].Title < result[k].Title })
	return result, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r *fakeRepo) FindCompany(_ context.Context, handle string) (*CompanySnapshot, error) {
	c, ok := r.companies[handle]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, in UpdateInput) (*Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	if in.Title != nil {
		j.Title = *in.Title
	}
	if in.Salary != nil {
		v := *in.Salary
		j.Salary = &v
	}
	if in.Equity != nil {
		v := *in.Equity
		j.Equity = &v
	}
	return cloneJob(j), nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.jobs[id]; !ok {
		return ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func cloneJob(j *Job) *Job {
	if j == nil {
		return nil
	}
	clone := *j
	if j.Salary != nil {
		v := *j.Salary
		clone.Salary = &v
	}
	if j.Equity != nil {
		v := *j.Equity
		clone.Equity = &v
	}
	return &clone
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func seedCompany(r *fakeRepo, handle, name string) {
	r.companies[handle] = &CompanySnapshot{Handle: handle, Name: name}
}

func TestService_CreateJob_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	seedCompany(repo, "acme", "Acme")
	svc := NewService(repo)

	created, err := svc.CreateJob(context.Background(), CreateJobInput{
		Title:         " Engineer ",
		Salary:        intPtr(90000),
		Equity:        strPtr("0.05"),
		CompanyHandle: "acme",
	})
	if err != nil {
		t.Fatalf("CreateJob returned error: %v", err)
	}

	if created.ID == 0 {
		t.Error("expected generated id")
	}

	if created.Title != "Engineer" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
}

func TestService_CreateJob_InvalidInput(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	seedCompany(repo, "acme", "Acme")
	svc := NewService(repo)

	if _, err := svc.CreateJob(context.Background(), CreateJobInput{Title: " ", CompanyHandle: "acme"}); !errors.Is(err, ErrInvalidTitle) {
		t.Errorf("expected ErrInvalidTitle, got %v", err)
	}

	if _, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "Engineer", Salary: intPtr(-1), CompanyHandle: "acme"}); !errors.Is(err, ErrInvalidSalary) {
		t.Errorf("expected ErrInvalidSalary, got %v", err)
	}

	if _, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "Engineer", Equity: strPtr("1.5"), CompanyHandle: "acme"}); !errors.Is(err, ErrInvalidEquity) {
		t.Errorf("expected ErrInvalidEquity for out of range, got %v", err)
	}

	if _, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "Engineer", Equity: strPtr("abc"), CompanyHandle: "acme"}); !errors.Is(err, ErrInvalidEquity) {
		t.Errorf("expected ErrInvalidEquity for non numeric, got %v", err)
	}

	if _, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "Engineer", CompanyHandle: "ghost"}); !errors.Is(err, ErrCompanyNotFound) {
		t.Errorf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestService_ListJobs_HasEquity(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	seedCompany(repo, "acme", "Acme")
	svc := NewService(repo)

	seed := []CreateJobInput{
		{Title: "Baker", Equity: strPtr("0"), CompanyHandle: "acme"},
		{Title: "Analyst", Equity: strPtr("0.1"), CompanyHandle: "acme"},
		{Title: "Chef", CompanyHandle: "acme"},
	}
	for _, in := range seed {
		if _, err := svc.CreateJob(context.Background(), in); err != nil {
			t.Fatalf("CreateJob returned error: %v", err)
		}
	}

	listings, err := svc.ListJobs(context.Background(), ListFilter{HasEquity: true})
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}

	if len(listings) != 1 || listings[0].Title != "Analyst" {
		t.Fatalf("expected only the job with positive equity, got %+v", listings)
	}

	if listings[0].CompanyName != "Acme" {
		t.Errorf("expected company name joined, got %q", listings[0].CompanyName)
	}
}

func TestService_GetJob_WithCompany(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	seedCompany(repo, "acme", "Acme")
	svc := NewService(repo)

	created, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "Engineer", CompanyHandle: "acme"})
	if err != nil {
		t.Fatalf("CreateJob returned error: %v", err)
	}

	detail, err := svc.GetJob(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}

	if detail.Company.Handle != "acme" || detail.Company.Name != "Acme" {
		t.Errorf("unexpected company snapshot: %+v", detail.Company)
	}
}

func TestService_GetJob_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())

	if _, err := svc.GetJob(context.Background(), 99); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestService_UpdateJob_Empty(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())

	if _, err := svc.UpdateJob(context.Background(), 1, UpdateInput{}); !errors.Is(err, ErrNoUpdateFields) {
		t.Fatalf("expected ErrNoUpdateFields, got %v", err)
	}
}

func TestService_DeleteJob_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo())

	if err := svc.DeleteJob(context.Background(), 42); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

package controller

import (
	"context"
	"errors"

	"github.com/nimburion/zipcodes/pkg/config"
	"github.com/nimburion/zipcodes/pkg/observability/logger"
	"github.com/nimburion/zipcodes/pkg/server/router"
	"github.com/nimburion/zipcodes/pkg/zipcode"
)

// ZipCodeService is the repository surface the controller depends on.
type ZipCodeService interface {
	Paginate(ctx context.Context, filter zipcode.FilterSpec, sort zipcode.SortSpec, page zipcode.PageRequest) (zipcode.PageResult, error)
	FindByID(ctx context.Context, id string) (*zipcode.Record, error)
	Create(ctx context.Context, record zipcode.Record) error
	Update(ctx context.Context, record zipcode.Record) error
	Delete(ctx context.Context, id string) error
}

// ZipCodes handles the /zipcodes resource.
type ZipCodes struct {
	service    ZipCodeService
	pagination config.PaginationConfig
	logger     logger.Logger
}

// NewZipCodes creates the zip code controller.
func NewZipCodes(service ZipCodeService, pagination config.PaginationConfig, log logger.Logger) (*ZipCodes, error) {
	if service == nil {
		return nil, errors.New("zipcode service is required")
	}
	return &ZipCodes{
		service:    service,
		pagination: pagination,
		logger:     log,
	}, nil
}

// RegisterRoutes mounts the zip code routes on the router.
func (z *ZipCodes) RegisterRoutes(r router.Router) {
	r.GET("/zipcodes", z.List)
	r.POST("/zipcodes", z.Create)
	r.GET("/zipcodes/:id", z.Get)
	r.PUT("/zipcodes/:id", z.Update)
	r.DELETE("/zipcodes/:id", z.Delete)
}

// zipCodePayload is the request body for create and update.
type zipCodePayload struct {
	ID         string `json:"id"`
	City       string `json:"city"`
	State      string `json:"state"`
	Population int    `json:"population"`
}

// List returns one page of zip code records. Filter parameters outside the
// filterable fields are dropped silently; malformed sort terms degrade to
// ascending rather than failing the request.
func (z *ZipCodes) List(c router.Context) error {
	params := map[string]string{}
	for key, values := range c.Request().URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	filter := zipcode.BuildFilter(params)
	sort := zipcode.ParseSort(c.Query("sort"))
	page := z.pageRequest(c)

	result, err := z.service.Paginate(c.Request().Context(), filter, sort, page)
	if err != nil {
		z.logger.WithContext(c.Request().Context()).Error("failed to list zip codes", "error", err)
		return Error(c, NewInternalError("failed to list zip codes", err))
	}

	return Success(c, result)
}

// Get returns one zip code record by its identifier.
func (z *ZipCodes) Get(c router.Context) error {
	id := c.Param("id")

	record, err := z.service.FindByID(c.Request().Context(), id)
	if err != nil {
		z.logger.WithContext(c.Request().Context()).Error("failed to fetch zip code", "id", id, "error", err)
		return Error(c, NewInternalError("failed to fetch zip code", err))
	}
	if record == nil {
		return Error(c, NewNotFoundError("zip code not found"))
	}

	return Success(c, record)
}

// Create stores a new zip code record.
func (z *ZipCodes) Create(c router.Context) error {
	var payload zipCodePayload
	if err := c.Bind(&payload); err != nil {
		return Error(c, NewValidationError("invalid request body", map[string]interface{}{
			"reason": err.Error(),
		}))
	}
	if payload.ID == "" {
		return Error(c, NewValidationError("id is required", nil))
	}

	record := zipcode.Record{
		ID:         payload.ID,
		City:       payload.City,
		State:      payload.State,
		Population: payload.Population,
	}

	if err := z.service.Create(c.Request().Context(), record); err != nil {
		if errors.Is(err, zipcode.ErrDuplicateID) {
			return Error(c, NewConflictError("zip code already exists", map[string]interface{}{
				"id": payload.ID,
			}))
		}
		z.logger.WithContext(c.Request().Context()).Error("failed to create zip code", "id", payload.ID, "error", err)
		return Error(c, NewInternalError("failed to create zip code", err))
	}

	return Created(c, record)
}

// Update replaces the mutable fields of an existing record. The identifier
// comes from the URL; an id in the body is ignored.
func (z *ZipCodes) Update(c router.Context) error {
	id := c.Param("id")

	var payload zipCodePayload
	if err := c.Bind(&payload); err != nil {
		return Error(c, NewValidationError("invalid request body", map[string]interface{}{
			"reason": err.Error(),
		}))
	}

	record := zipcode.Record{
		ID:         id,
		City:       payload.City,
		State:      payload.State,
		Population: payload.Population,
	}

	if err := z.service.Update(c.Request().Context(), record); err != nil {
		if errors.Is(err, zipcode.ErrNotFound) {
			return Error(c, NewNotFoundError("zip code not found"))
		}
		z.logger.WithContext(c.Request().Context()).Error("failed to update zip code", "id", id, "error", err)
		return Error(c, NewInternalError("failed to update zip code", err))
	}

	return Success(c, record)
}

// Delete removes a zip code record.
func (z *ZipCodes) Delete(c router.Context) error {
	id := c.Param("id")

	if err := z.service.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, zipcode.ErrNotFound) {
			return Error(c, NewNotFoundError("zip code not found"))
		}
		z.logger.WithContext(c.Request().Context()).Error("failed to delete zip code", "id", id, "error", err)
		return Error(c, NewInternalError("failed to delete zip code", err))
	}

	return NoContent(c)
}

// pageRequest resolves pagination parameters, accepting both per_page and
// perPage, applying the configured default and upper bound.
func (z *ZipCodes) pageRequest(c router.Context) zipcode.PageRequest {
	perPage := c.Query("per_page")
	if perPage == "" {
		perPage = c.Query("perPage")
	}

	page := zipcode.ParsePageRequest(c.Query("page"), perPage)
	if perPage == "" && z.pagination.DefaultPerPage > 0 {
		page.PerPage = z.pagination.DefaultPerPage
	}
	if z.pagination.MaxPerPage > 0 && page.PerPage > z.pagination.MaxPerPage {
		page.PerPage = z.pagination.MaxPerPage
	}
	return page
}

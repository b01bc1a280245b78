package handler

import (
	"strconv"
	"strings"

	"go-catalog-api/internal/repository"
	"go-catalog-api/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// parsePage reads skip (>= 0) and limit (1..1000) from the query string.
func parsePage(c *fiber.Ctx) (repository.Page, error) {
	page := repository.Page{Skip: 0, Limit: defaultLimit}
	var details []apperror.Detail

	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			details = append(details, queryDetail("skip", "Input should be a valid integer", "int_parsing"))
		case skip < 0:
			details = append(details, queryDetail("skip", "Input should be greater than or equal to 0", "greater_than_equal"))
		default:
			page.Skip = skip
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			details = append(details, queryDetail("limit", "Input should be a valid integer", "int_parsing"))
		case limit < 1:
			details = append(details, queryDetail("limit", "Input should be greater than or equal to 1", "greater_than_equal"))
		case limit > maxLimit:
			details = append(details, queryDetail("limit", "Input should be less than or equal to 1000", "less_than_equal"))
		default:
			page.Limit = limit
		}
	}

	if len(details) > 0 {
		return page, apperror.Validation(details...)
	}
	return page, nil
}

func queryDetail(name, msg, typ string) apperror.Detail {
	return apperror.Detail{Loc: []string{"query", name}, Msg: msg, Type: typ}
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(apperror.Detail{
			Loc:  []string{"path", name},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		})
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into req.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperror.Validation(apperror.Detail{
			Loc:  []string{"body"},
			Msg:  "Invalid JSON body",
			Type: "json_invalid",
		})
	}
	return nil
}

// query collects list filters and the errors found while parsing them.
type query struct {
	c       *fiber.Ctx
	details []apperror.Detail
}

func newQuery(c *fiber.Ctx) *query {
	return &query{c: c}
}

func (q *query) text(name string) *string {
	v := strings.TrimSpace(q.c.Query(name))
	if v == "" {
		return nil
	}
	return &v
}

func (q *query) id(name string) *uint {
	raw := q.c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		q.details = append(q.details, queryDetail(name, "Input should be a valid integer", "int_parsing"))
		return nil
	}
	u := uint(v)
	return &u
}

func (q *query) flag(name string) *bool {
	raw := q.c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.details = append(q.details, queryDetail(name, "Input should be a valid boolean", "bool_parsing"))
		return nil
	}
	return &v
}

// page parses skip/limit and reports every query error found so far.
func (q *query) page() (repository.Page, error) {
	page, err := parsePage(q.c)
	if appErr, ok := apperror.As(err); ok {
		q.details = append(q.details, appErr.Details...)
	}
	if len(q.details) > 0 {
		return page, apperror.Validation(q.details...)
	}
	return page, nil
}

package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/junaidjmomin/classroom/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.Ordering
}

// Bind reads the comma separated `ordering` query param; a `-` prefix sorts descending.
// Fields rejected by isSortable make it return a core.ValidationError.
func (ord *Ordering) Bind(ctx echo.Context, isSortable func(string) bool) error {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if !isSortable(field) {
			return core.NewValidationError(nil, core.FieldError{Field: orderingParam, Error: "cannot order by " + field})
		}
		ord.Orderings = append(ord.Orderings, core.Ordering{Field: field, Ascending: !descending})
	}
	return nil
}

// bindIDs reads every `id` query param, also splitting comma separated values.
func bindIDs(ctx echo.Context) []string {
	ids := make([]string, 0)
	for _, val := range ctx.QueryParams()["id"] {
		for _, id := range strings.Split(val, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

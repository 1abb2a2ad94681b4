package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/junaidjmomin/classroom/core"
	"github.com/junaidjmomin/classroom/core/task"
)

type (
	ParseRequest struct {
		Text string `json:"text" validate:"max=20000"`
	}

	PriorityResponse struct {
		Priority float64   `json:"priority"`
		Task     task.Task `json:"task"`
	}

	RecommendationsResponse struct {
		Recommendations []string `json:"recommendations"`
	}
)

type taskApi struct {
	svc      task.ServiceInterface
	validate *validator.Validate
}

func registerTaskAPI(g *echo.Group, svc task.ServiceInterface, validate *validator.Validate) {
	api := taskApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/tasks")
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.DELETE("", api.destroyMultiple)
	tg.POST("/parse", api.parse)
	tg.POST("/import", api.importCourseWork)
	tg.POST("/priority", api.computePriority)
	tg.GET("/recommendations", api.recommendations)

	// detail endpoints
	dg := tg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/complete", api.complete)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *taskApi) query(ctx echo.Context) error {
	filter := new(task.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	if err := ordering.Bind(ctx, task.IsSortable); err != nil {
		return err
	}

	tasks, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}

	tsk, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, tsk)
}

func (api *taskApi) parse(ctx echo.Context) error {
	var data ParseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ParseRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	tasks, err := api.svc.Parse(ctx.Request().Context(), data.Text)
	if err != nil {
		return errors.Wrap(err, "parsing tasks")
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) importCourseWork(ctx echo.Context) error {
	var data task.ImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tasks, err := api.svc.Import(ctx.Request().Context(), data.Courses)
	if err != nil {
		return errors.Wrap(err, "importing course work")
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) computePriority(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}

	tsk, err := api.svc.ComputePriority(data)
	if err != nil {
		return errors.Wrap(err, "computing priority")
	}
	return ctx.JSON(http.StatusOK, PriorityResponse{Priority: tsk.Score(), Task: tsk})
}

func (api *taskApi) recommendations(ctx echo.Context) error {
	recs, err := api.svc.Recommendations(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting recommendations")
	}
	return ctx.JSON(http.StatusOK, RecommendationsResponse{Recommendations: recs})
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	tsk, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) complete(ctx echo.Context) error {
	tsk, err := api.svc.Complete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := api.svc.Get(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "getting task")
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *taskApi) destroyMultiple(ctx echo.Context) error {
	ids := bindIDs(ctx)
	if len(ids) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "at least one id is required"})
	}
	if err := api.svc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return ctx.NoContent(http.StatusNoContent)
}

package in

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	sessiondto "studyplan/internal/modules/session/dto"
	sessionin "studyplan/internal/modules/session/port/in"
)

type HTTPHandler struct {
	usecase sessionin.Usecase
}

func NewHTTPHandler(usecase sessionin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

type linkRequest struct {
	Link string `json:"link"`
}

// Mount registers the JSON API under v1 and the share landing route on root.
func (h HTTPHandler) Mount(root *echo.Echo, v1 *echo.Group) {
	root.GET("/study-schedule", h.landing)

	sessions := v1.Group("/sessions")
	sessions.GET("", h.list)
	sessions.POST("", h.add)
	sessions.GET("/:id", h.get)
	sessions.PUT("/:id", h.edit)
	sessions.DELETE("/:id", h.delete)
	sessions.POST("/:id/lessons/:index/toggle", h.toggle)
	sessions.POST("/:id/postpone", h.postpone)

	v1.POST("/conflicts", h.conflicts)
	v1.POST("/share", h.share)
	v1.POST("/share/preview", h.preview)
	v1.POST("/share/import", h.importLink)
}

func (h HTTPHandler) list(c echo.Context) error {
	out, err := h.usecase.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) get(c echo.Context) error {
	out, err := h.usecase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) add(c echo.Context) error {
	input := sessiondto.SessionInput{}
	if err := c.Bind(&input); err != nil {
		return err
	}
	out, err := h.usecase.Add(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h HTTPHandler) edit(c echo.Context) error {
	input := sessiondto.SessionInput{}
	if err := c.Bind(&input); err != nil {
		return err
	}
	input.ID = c.Param("id")
	out, err := h.usecase.Edit(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) delete(c echo.Context) error {
	if err := h.usecase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h HTTPHandler) toggle(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid lesson index %q", c.Param("index")))
	}
	out, err := h.usecase.ToggleLesson(c.Request().Context(), sessiondto.ToggleInput{SessionID: c.Param("id"), LessonIndex: index})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) postpone(c echo.Context) error {
	out, err := h.usecase.Postpone(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) conflicts(c echo.Context) error {
	input := sessiondto.ConflictInput{}
	if err := c.Bind(&input); err != nil {
		return err
	}
	out, err := h.usecase.CheckConflict(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) share(c echo.Context) error {
	out, err := h.usecase.Share(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) preview(c echo.Context) error {
	req := linkRequest{}
	if err := c.Bind(&req); err != nil {
		return err
	}
	out, err := h.usecase.PreviewImport(c.Request().Context(), req.Link)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h HTTPHandler) importLink(c echo.Context) error {
	req := linkRequest{}
	if err := c.Bind(&req); err != nil {
		return err
	}
	out, err := h.usecase.Import(c.Request().Context(), req.Link)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// landing previews the payload of an opened share link.
func (h HTTPHandler) landing(c echo.Context) error {
	value := c.QueryParam("import")
	if value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing import parameter")
	}
	out, err := h.usecase.PreviewImport(c.Request().Context(), value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/lexico-users/internal/model"
	"github.com/maxviazov/lexico-users/internal/service"
	"github.com/maxviazov/lexico-users/pkg/response"
)

// defaultLimit applies when the client sends no limit.
const defaultLimit = 100

type RecordHandler struct {
	svc service.RecordService
}

func NewRecordHandler(svc service.RecordService) *RecordHandler { return &RecordHandler{svc: svc} }

func (h *RecordHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/users")
	{
		g.POST("", h.create)
		g.GET("", h.listAfter)
		g.GET("/page/:page", h.listPage)
		g.GET("/:key", h.getByKey)
	}
}

func (h *RecordHandler) create(c *gin.Context) {
	var req model.Record
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // parse details stay internal
		return
	}
	rec, err := h.svc.CreateRecord(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, rec)
}

func (h *RecordHandler) getByKey(c *gin.Context) {
	key, err := strconv.ParseInt(c.Param("key"), 10, 64)
	if err != nil {
		response.WriteError(c, invalidField("Clave_Cliente", "must be a valid integer"))
		return
	}
	rec, err := h.svc.GetRecord(c.Request.Context(), key)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, rec)
}

func (h *RecordHandler) listPage(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		response.WriteError(c, invalidField("page", "must be a valid integer"))
		return
	}
	limit, ok := intQuery(c, "limit", defaultLimit)
	if !ok {
		response.WriteError(c, invalidField("limit", "must be a valid integer"))
		return
	}
	items, info, err := h.svc.ListPage(c.Request.Context(), page, limit)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WritePage(c, items, info)
}

func (h *RecordHandler) listAfter(c *gin.Context) {
	after, ok := intQuery(c, "after", 0)
	if !ok {
		response.WriteError(c, invalidField("after", "must be a valid integer"))
		return
	}
	limit, ok := intQuery(c, "limit", defaultLimit)
	if !ok {
		response.WriteError(c, invalidField("limit", "must be a valid integer"))
		return
	}
	items, err := h.svc.ListAfter(c.Request.Context(), int64(after), limit)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, items)
}

// intQuery reads an optional integer query parameter; ok is false only for a present, malformed value.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}

func invalidField(field, msg string) error {
	return service.NewInvalidInputError([]service.FieldError{{Field: field, Message: msg}})
}

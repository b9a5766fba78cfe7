package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmess "github.com/messhall/backend/internal/application/mess"
	"github.com/messhall/backend/internal/interfaces/http/dto"
)

// MenuHandler handles weekly menu HTTP requests
type MenuHandler struct {
	BaseHandler
	menuService *appmess.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *appmess.MenuService) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
	}
}

// CreateMenuEntryRequest represents the request body for a new menu entry.
// Cost is an optional decimal string, e.g. "42.50".
type CreateMenuEntryRequest struct {
	Day      string `json:"day" binding:"required"`
	Meal     string `json:"meal" binding:"required"`
	Item     string `json:"item" binding:"required,max=200"`
	FoodType string `json:"food_type" binding:"required"`
	Cost     string `json:"cost" binding:"omitempty,max=20"`
}

// Create adds an entry to the weekly menu
func (h *MenuHandler) Create(c *gin.Context) {
	var req CreateMenuEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: day, meal, item and food_type are required")
		return
	}

	info, err := h.menuService.CreateEntry(c.Request.Context(), appmess.CreateMenuEntryInput{
		Day:      req.Day,
		Meal:     req.Meal,
		Item:     req.Item,
		FoodType: req.FoodType,
		Cost:     req.Cost,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// Delete removes a menu entry permanently
func (h *MenuHandler) Delete(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid menu entry ID")
		return
	}

	id, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid menu entry ID")
		return
	}

	if err := h.menuService.DeleteEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID returns a single menu entry
func (h *MenuHandler) GetByID(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid menu entry ID")
		return
	}

	id, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid menu entry ID")
		return
	}

	info, err := h.menuService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns the full weekly menu, optionally filtered by day via the
// "day" query parameter
func (h *MenuHandler) List(c *gin.Context) {
	day := c.Query("day")

	var (
		infos []appmess.MenuEntryInfo
		err   error
	)
	if day != "" {
		infos, err = h.menuService.ListByDay(c.Request.Context(), day)
	} else {
		infos, err = h.menuService.ListEntries(c.Request.Context())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, infos)
}

// Today returns the authenticated student's menu for today, with
// entries flagged for allergy conflicts
func (h *MenuHandler) Today(c *gin.Context) {
	studentID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.menuService.MenuForStudent(c.Request.Context(), studentID, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

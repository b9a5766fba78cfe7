package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmess "github.com/messhall/backend/internal/application/mess"
	"github.com/messhall/backend/internal/interfaces/http/dto"
)

// StudentHandler handles student roster HTTP requests
type StudentHandler struct {
	BaseHandler
	studentService *appmess.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *appmess.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// CreateStudentRequest represents the request body for creating a student.
// Username and password are optional but must be supplied together; a
// student without credentials cannot log in.
type CreateStudentRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Room      string `json:"room" binding:"max=50"`
	Allergies string `json:"allergies" binding:"max=500"`
	FoodType  string `json:"food_type" binding:"required"`
	Username  string `json:"username" binding:"omitempty,min=3,max=100"`
	Password  string `json:"password" binding:"omitempty,min=6,max=128"`
}

// UpdateStudentRequest represents the request body for updating a student
type UpdateStudentRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Room      string `json:"room" binding:"max=50"`
	Allergies string `json:"allergies" binding:"max=500"`
	FoodType  string `json:"food_type" binding:"required"`
	Username  string `json:"username" binding:"omitempty,min=3,max=100"`
	Password  string `json:"password" binding:"omitempty,min=6,max=128"`
}

// Create adds a student to the roster
func (h *StudentHandler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: name and food_type are required")
		return
	}

	info, err := h.studentService.CreateStudent(c.Request.Context(), appmess.CreateStudentInput{
		Name:      req.Name,
		Room:      req.Room,
		Allergies: req.Allergies,
		FoodType:  req.FoodType,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// Update replaces a student's roster fields
func (h *StudentHandler) Update(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: name and food_type are required")
		return
	}

	id, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	info, err := h.studentService.UpdateStudent(c.Request.Context(), appmess.UpdateStudentInput{
		ID:        id,
		Name:      req.Name,
		Room:      req.Room,
		Allergies: req.Allergies,
		FoodType:  req.FoodType,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Delete removes a student from the roster. The student row is
// soft-deleted so historical attendance stays attributable. An unknown
// id is a notice in a success response, unlike the menu delete.
func (h *StudentHandler) Delete(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	id, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	result, err := h.studentService.DeleteStudent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID returns a single student
func (h *StudentHandler) GetByID(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	id, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	info, err := h.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns the full student roster
func (h *StudentHandler) List(c *gin.Context) {
	infos, err := h.studentService.ListStudents(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, infos)
}

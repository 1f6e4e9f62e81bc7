package handler

import (
	"net/http"

	"catalog-service/internal/domains/book/model"
	"catalog-service/internal/domains/book/service"
	"catalog-service/internal/shared/middleware"
	"catalog-service/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Handler - HTTP Handler for /books
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog endpoints. Reads are public, writes
// require the employee role.
func (h *Handler) RegisterRoutes(r gin.IRouter, authenticate gin.HandlerFunc) {
	books := r.Group("/books")
	books.Use(authenticate)
	{
		books.GET("", h.ListBooks)
		books.GET("/:isbn", h.GetBook)

		employee := books.Group("", middleware.RequireRole(middleware.RoleEmployee))
		employee.POST("", h.CreateBook)
		employee.PUT("/:isbn", h.EditBook)
		employee.DELETE("/:isbn", h.DeleteBook)
	}
}

// ListBooks - GET /books
func (h *Handler) ListBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, model.ToResponseList(books), &response.Meta{
		Total: len(books),
	})
}

// GetBook - GET /books/:isbn
func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.service.GetBook(c.Request.Context(), c.Param("isbn"))
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, book.ToResponse())
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req.ToCandidate(), principalOf(c))
	if model.HandleBookError(c, err) {
		return
	}

	c.Header("Location", "/books/"+book.ISBN)
	response.Success(c, http.StatusCreated, book.ToResponse())
}

// EditBook - PUT /books/:isbn
// Updates the stored book, or creates it when the ISBN is unknown.
func (h *Handler) EditBook(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	book, err := h.service.EditBook(c.Request.Context(), c.Param("isbn"), req.ToCandidate(), principalOf(c))
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, book.ToResponse())
}

// DeleteBook - DELETE /books/:isbn
func (h *Handler) DeleteBook(c *gin.Context) {
	if model.HandleBookError(c, h.service.DeleteBook(c.Request.Context(), c.Param("isbn"))) {
		return
	}

	response.NoContent(c)
}

func principalOf(c *gin.Context) model.Principal {
	return model.Principal(middleware.GetUsername(c))
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learn-ease-backend/internal/config"
	"learn-ease-backend/middleware"
	"learn-ease-backend/models"
	"learn-ease-backend/services"
	"learn-ease-backend/utils"
)

func SetupBookRoutes(router *gin.Engine, auth *middleware.AuthMiddleware, bookService *services.BookService, cfg *config.Config) {
	books := router.Group("/books")
	books.Use(auth.RequireAuth())

	books.POST("/upload", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file uploaded", nil)
			return
		}
		if header.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c, "File exceeds the maximum allowed size", gin.H{"max_bytes": cfg.MaxFileSize})
			return
		}

		file, err := header.Open()
		if err != nil {
			utils.RespondWithBadRequest(c, "Could not read uploaded file", nil)
			return
		}
		defer file.Close()

		book, err := bookService.Ingest(c.Request.Context(), userID, services.UploadInput{
			Content:     file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Title:       c.PostForm("title"),
			CategoryID:  c.PostForm("category_id"),
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, book.Public())
	})

	books.GET("", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		list, err := bookService.ListBooks(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		public := make([]models.BookPublic, 0, len(list))
		for i := range list {
			public = append(public, list[i].Public())
		}
		c.JSON(http.StatusOK, public)
	})

	books.GET("/:book_id", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		book, err := bookService.GetBook(c.Request.Context(), userID, c.Param("book_id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, book.Public())
	})

	books.GET("/:book_id/pdf", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		path, filename, err := bookService.GetPDFPath(c.Request.Context(), userID, c.Param("book_id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.FileAttachment(path, filename)
	})

	books.GET("/:book_id/extracted-text", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		book, text, err := bookService.GetExtractedText(c.Request.Context(), userID, c.Param("book_id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.BookTextContent{
			ID:      book.ID.Hex(),
			Title:   book.Title,
			Content: text,
		})
	})

	books.PUT("/:book_id/category", func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Authentication required")
			return
		}

		var req models.BookCategoryUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		book, err := bookService.UpdateCategory(c.Request.Context(), userID, c.Param("book_id"), req.CategoryID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, book.Public())
	})
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"learn-ease-backend/internal/config"
	"learn-ease-backend/internal/storage"
	"learn-ease-backend/middleware"
	"learn-ease-backend/services"
)

type stubGenerator struct {
	output string
}

func (g *stubGenerator) Ready() bool { return true }

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.output, nil
}

type stubExtractor struct{}

func (stubExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	return "extracted text body", nil
}

func newTestServer(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiresIn:      "1h",
		BcryptCost:        bcrypt.MinCost,
		MaxFileSize:       1 << 20,
		SummaryMinChars:   20,
		FlashcardMinChars: 10,
		NotesMinChars:     20,
	}

	store, err := storage.NewFileStore(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	books := services.NewMemoryBookRepo()
	categories := services.NewMemoryCategoryRepo()
	users := services.NewMemoryUserRepo()

	bookService := services.NewBookService(books, categories, store, stubExtractor{})
	categoryService := services.NewCategoryService(categories, books)
	userService := services.NewUserService(users, cfg)
	aiService := services.NewAIService(&stubGenerator{output: `[{"front":"Q","back":"A"}]`}, nil, cfg)

	router := gin.New()
	auth := middleware.NewAuthMiddleware(cfg)
	SetupAuthRoutes(router, userService)
	SetupBookRoutes(router, auth, bookService, cfg)
	SetupCategoryRoutes(router, auth, categoryService)
	SetupAIRoutes(router, auth, nil, aiService)
	return router, cfg
}

func signupAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	signup := `{"firstname":"Test","lastname":"User","email":"` + email + `","password":"password123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(signup))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	login := `{"email":"` + email + `","password":"password123"}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(login))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("login returned empty access token")
	}
	return resp.AccessToken
}

func uploadBook(t *testing.T, router *gin.Engine, token, filename string) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("%PDF-1.4 body"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var book map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &book); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return book
}

func TestBookEndpointsRequireAuth(t *testing.T) {
	router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUploadAndFetchBook(t *testing.T) {
	router, _ := newTestServer(t)
	token := signupAndLogin(t, router, "reader@example.com")

	book := uploadBook(t, router, token, "thesis.pdf")
	if book["status"] != "ready" {
		t.Errorf("expected ready status, got %v", book["status"])
	}
	id, _ := book["id"].(string)
	if id == "" {
		t.Fatal("upload response missing id")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books/"+id+"/extracted-text", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("extracted-text: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "extracted text body") {
		t.Errorf("extracted-text response missing content: %s", w.Body.String())
	}
}

func TestForeignBookReads404(t *testing.T) {
	router, _ := newTestServer(t)
	ownerToken := signupAndLogin(t, router, "owner@example.com")
	otherToken := signupAndLogin(t, router, "other@example.com")

	book := uploadBook(t, router, ownerToken, "secret.pdf")
	id := book["id"].(string)

	for _, path := range []string{"/books/" + id, "/books/" + id + "/pdf", "/books/" + id + "/extracted-text"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+otherToken)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404 for foreign reader, got %d", path, w.Code)
		}
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	router, _ := newTestServer(t)
	token := signupAndLogin(t, router, "uploader@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "notes.txt")
	part.Write([]byte("plain text"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/books/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-PDF, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCategoryLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestServer(t)
	token := signupAndLogin(t, router, "cats@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Math"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var category map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &category)
	id := category["id"].(string)

	// Duplicate name, case-insensitive.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"math"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/categories/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
}

func TestFlashcardsEndpoint(t *testing.T) {
	router, _ := newTestServer(t)
	token := signupAndLogin(t, router, "cards@example.com")

	body := `{"text_to_generate_from":"a passage that is clearly long enough"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/generate-flashcards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Flashcards []struct {
			Front string `json:"front"`
			Back  string `json:"back"`
		} `json:"flashcards"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Flashcards) != 1 || resp.Flashcards[0].Front != "Q" {
		t.Errorf("unexpected flashcards %+v", resp.Flashcards)
	}
}

func TestSummarizeNotConfiguredReturns503(t *testing.T) {
	router, _ := newTestServer(t)
	token := signupAndLogin(t, router, "summary@example.com")

	body := `{"text_to_summarize":"a passage that is clearly long enough"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/summarize-text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when summarizer is unconfigured, got %d: %s", w.Code, w.Body.String())
	}
}

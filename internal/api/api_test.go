package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/api"
	"github.com/conduit-api/internal/config"
	"github.com/conduit-api/internal/mocks"
	"github.com/conduit-api/internal/service"
)

func setupTestRouter() (*gin.Engine, *mocks.MockArticleRepository) {
	gin.SetMode(gin.TestMode)

	users := mocks.NewMockUserRepository()
	articles := mocks.NewMockArticleRepository()
	comments := mocks.NewMockCommentRepository()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
	}

	services := service.NewServices(mocks.NewRepositories(users, articles, comments), cfg, zerolog.Nop())
	return api.NewRouter(services, zerolog.Nop()), articles
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/users", "", gin.H{"user": gin.H{
		"username": username,
		"email":    username + "@test.com",
		"password": "password123",
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("Register %s: expected 200, got %d: %s", username, w.Code, w.Body.String())
	}
	user := decode(t, w)["user"].(map[string]any)
	token, _ := user["token"].(string)
	if token == "" {
		t.Fatalf("Register %s returned no token", username)
	}
	return token
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	errs, ok := decode(t, w)["errors"].(map[string]any)
	if !ok {
		t.Fatalf("Response has no errors object: %s", w.Body.String())
	}
	body := errs["body"].([]any)
	return body[0].(string)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	response := decode(t, w)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

func TestRegisterValidation(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, "POST", "/api/users", "", gin.H{"user": gin.H{
		"email":    "john@test.com",
		"password": "password123",
	}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Username must be specified." {
		t.Errorf("Unexpected message: %s", msg)
	}

	w = doJSON(router, "POST", "/api/users", "", gin.H{"user": gin.H{
		"username": "john",
		"email":    "not-an-email",
		"password": "password123",
	}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for bad email, got %d", w.Code)
	}
}

func TestLoginFailuresAre422(t *testing.T) {
	router, _ := setupTestRouter()
	registerUser(t, router, "john")

	w := doJSON(router, "POST", "/api/users/login", "", gin.H{"user": gin.H{
		"email":    "john@test.com",
		"password": "wrong",
	}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Wrong password." {
		t.Errorf("Unexpected message: %s", msg)
	}

	w = doJSON(router, "POST", "/api/users/login", "", gin.H{"user": gin.H{
		"email":    "ghost@test.com",
		"password": "whatever",
	}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unknown email, got %d", w.Code)
	}
}

func TestAuthRequiredEndpoints(t *testing.T) {
	router, _ := setupTestRouter()

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/user"},
		{"PUT", "/api/user"},
		{"POST", "/api/articles"},
		{"GET", "/api/articles/feed"},
		{"POST", "/api/profiles/john/follow"},
		{"DELETE", "/api/articles/some-slug"},
	} {
		w := doJSON(router, tc.method, tc.path, "", nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s %s: expected 422, got %d", tc.method, tc.path, w.Code)
			continue
		}
		if msg := errorBody(t, w); msg != "Must be logged in" {
			t.Errorf("%s %s: unexpected message %s", tc.method, tc.path, msg)
		}
	}
}

func TestCurrentUserAndUpdate(t *testing.T) {
	router, _ := setupTestRouter()
	token := registerUser(t, router, "john")

	w := doJSON(router, "GET", "/api/user", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	user := decode(t, w)["user"].(map[string]any)
	if user["username"] != "john" || user["token"] != token {
		t.Errorf("Unexpected current user: %v", user)
	}

	w = doJSON(router, "PUT", "/api/user", token, gin.H{"user": gin.H{
		"bio":   "gopher",
		"image": "http://img.test/john.png",
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	user = decode(t, w)["user"].(map[string]any)
	if user["bio"] != "gopher" {
		t.Errorf("Bio not updated: %v", user)
	}
}

// The canonical walkthrough: john publishes a tagged article, jane
// reads, favorites, and comments on it.
func TestArticleWalkthrough(t *testing.T) {
	router, _ := setupTestRouter()
	johnToken := registerUser(t, router, "john")
	janeToken := registerUser(t, router, "jane")

	// john publishes
	w := doJSON(router, "POST", "/api/articles", johnToken, gin.H{"article": gin.H{
		"title":       "How to train your dragon",
		"description": "Ever wonder how?",
		"body":        "Very carefully.",
		"tagList":     []string{"dragons", "training"},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("Create article: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	article := decode(t, w)["article"].(map[string]any)
	slug := article["slug"].(string)
	if slug == "" {
		t.Fatal("Article has no slug")
	}
	if article["favorited"] != false || article["favoritesCount"].(float64) != 0 {
		t.Errorf("Fresh article should be unfavorited: %v", article)
	}

	// jane filters the listing by tag
	w = doJSON(router, "GET", "/api/articles?tag=dragons", janeToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List: expected 200, got %d", w.Code)
	}
	listing := decode(t, w)
	if listing["articlesCount"].(float64) != 1 {
		t.Fatalf("Expected 1 listed article, got %v", listing["articlesCount"])
	}

	// jane favorites
	w = doJSON(router, "POST", "/api/articles/"+slug+"/favorite", janeToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Favorite: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	article = decode(t, w)["article"].(map[string]any)
	if article["favorited"] != true || article["favoritesCount"].(float64) != 1 {
		t.Errorf("Expected favorited with count 1: %v", article)
	}

	// favorited filter now finds it for jane
	w = doJSON(router, "GET", "/api/articles?favorited=jane", "", nil)
	listing = decode(t, w)
	if listing["articlesCount"].(float64) != 1 {
		t.Errorf("Favorited filter missed the article: %v", listing)
	}

	// jane comments
	w = doJSON(router, "POST", "/api/articles/"+slug+"/comments", janeToken, gin.H{"comment": gin.H{
		"body": "Great read!",
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("Comment: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	comment := decode(t, w)["comment"].(map[string]any)
	commentID := comment["id"].(string)

	// anonymous comment listing
	w = doJSON(router, "GET", "/api/articles/"+slug+"/comments", "", nil)
	comments := decode(t, w)["comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(comments))
	}

	// john cannot delete jane's comment
	w = doJSON(router, "DELETE", "/api/articles/"+slug+"/comments/"+commentID, johnToken, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 deleting another user's comment, got %d", w.Code)
	}

	// jane can
	w = doJSON(router, "DELETE", "/api/articles/"+slug+"/comments/"+commentID, janeToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 deleting own comment, got %d: %s", w.Code, w.Body.String())
	}

	// tags include the article's tags
	w = doJSON(router, "GET", "/api/tags", "", nil)
	tags := decode(t, w)["tags"].([]any)
	if len(tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", tags)
	}
}

// Usernames may contain spaces; the slug and the author profile must
// still come back intact on a create-then-get round trip.
func TestCreateAndGetArticle(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, "POST", "/api/users", "", gin.H{"user": gin.H{
		"username": "john doe",
		"email":    "john.doe@test.com",
		"password": "password123",
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("Register: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	token := decode(t, w)["user"].(map[string]any)["token"].(string)

	w = doJSON(router, "POST", "/api/articles", token, gin.H{"article": gin.H{
		"title":       "title1",
		"description": "d",
		"body":        "b",
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("Create: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	slug := decode(t, w)["article"].(map[string]any)["slug"].(string)

	w = doJSON(router, "GET", "/api/articles/"+slug, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	article := decode(t, w)["article"].(map[string]any)
	if article["title"] != "title1" {
		t.Errorf("Expected title1, got %v", article["title"])
	}
	if article["favorited"] != false || article["favoritesCount"].(float64) != 0 {
		t.Errorf("Fresh article should be unfavorited with count 0: %v", article)
	}
	author := article["author"].(map[string]any)
	if author["username"] != "john doe" {
		t.Errorf("Expected author 'john doe', got %v", author["username"])
	}
}

func TestProfileAndFollow(t *testing.T) {
	router, _ := setupTestRouter()
	johnToken := registerUser(t, router, "john")
	registerUser(t, router, "jane")

	// anonymous profile view
	w := doJSON(router, "GET", "/api/profiles/jane", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Profile: expected 200, got %d", w.Code)
	}
	profile := decode(t, w)["profile"].(map[string]any)
	if profile["username"] != "jane" || profile["following"] != false {
		t.Errorf("Unexpected profile: %v", profile)
	}

	w = doJSON(router, "POST", "/api/profiles/jane/follow", johnToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Follow: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	profile = decode(t, w)["profile"].(map[string]any)
	if profile["following"] != true {
		t.Errorf("Expected following=true: %v", profile)
	}

	w = doJSON(router, "DELETE", "/api/profiles/jane/follow", johnToken, nil)
	profile = decode(t, w)["profile"].(map[string]any)
	if profile["following"] != false {
		t.Errorf("Expected following=false after unfollow: %v", profile)
	}

	w = doJSON(router, "GET", "/api/profiles/ghost", "", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unknown profile, got %d", w.Code)
	}
}

func TestFeedEndpoint(t *testing.T) {
	router, _ := setupTestRouter()
	johnToken := registerUser(t, router, "john")
	janeToken := registerUser(t, router, "jane")
	readerToken := registerUser(t, router, "reader")

	for _, pub := range []struct{ token, title string }{
		{johnToken, "From john"},
		{janeToken, "From jane"},
	} {
		w := doJSON(router, "POST", "/api/articles", pub.token, gin.H{"article": gin.H{
			"title":       pub.title,
			"description": "d",
			"body":        "b",
		}})
		if w.Code != http.StatusOK {
			t.Fatalf("Create %q: got %d: %s", pub.title, w.Code, w.Body.String())
		}
	}

	w := doJSON(router, "POST", "/api/profiles/john/follow", readerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Follow: got %d", w.Code)
	}

	w = doJSON(router, "GET", "/api/articles/feed", readerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Feed: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	feed := decode(t, w)
	if feed["articlesCount"].(float64) != 1 {
		t.Fatalf("Expected 1 feed article, got %v", feed["articlesCount"])
	}
	first := feed["articles"].([]any)[0].(map[string]any)
	if first["title"] != "From john" {
		t.Errorf("Unexpected feed article: %v", first)
	}
	author := first["author"].(map[string]any)
	if author["following"] != true {
		t.Errorf("Feed author should be followed: %v", author)
	}
}

func TestUnknownArticleIs422(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, "GET", "/api/articles/no-such-slug", "", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Article not found: no-such-slug" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestCombinedListFiltersRejected(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, "GET", "/api/articles?tag=go&author=john", "", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}
	if msg := errorBody(t, w); msg != "Use only one of tag, author, or favorited" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestMalformedBodyIs422(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("POST", "/api/users", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for malformed body, got %d", w.Code)
	}
}

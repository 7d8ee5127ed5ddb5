package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bloghub/dto"
	"bloghub/internal/controllers"
	repo "bloghub/internal/repository"
	"bloghub/internal/services"
	"bloghub/internal/storage"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t   *testing.T
	app *fiber.App
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithLimit(t, 4)
}

func newTestAPIWithLimit(t *testing.T, bodyLimitMB int) *testAPI {
	t.Helper()
	users := repo.NewMemoryUserRepo()
	images, err := storage.NewLocalImageStore(t.TempDir(), "http://test/uploads")
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    BodyLimit(bodyLimitMB),
		ErrorHandler: controllers.ErrorHandler,
	})
	Setup(app, Services{
		Auth:    services.NewAuthService(users, "test-secret", time.Hour).WithCost(bcrypt.MinCost),
		Posts:   services.NewPostService(repo.NewMemoryPostRepo(), users),
		Uploads: services.NewUploadService(images),
	})
	return &testAPI{t: t, app: app}
}

func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.send(req)
}

func (a *testAPI) send(req *http.Request) (int, map[string]any) {
	a.t.Helper()
	resp, err := a.app.Test(req, -1)
	if err != nil {
		a.t.Fatal(err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			a.t.Fatalf("%s %s: bad json %q", req.Method, req.URL.Path, raw)
		}
	}
	return resp.StatusCode, out
}

func (a *testAPI) register(name string) (token, id string) {
	a.t.Helper()
	code, out := a.do("POST", "/auth/register", "", dto.RegisterRequest{
		Name: name, Email: strings.ToLower(name) + "@example.com", Password: "secret123",
	})
	if code != fiber.StatusCreated {
		a.t.Fatalf("register %s: %d %v", name, code, out)
	}
	return out["token"].(string), out["id"].(string)
}

func (a *testAPI) createPost(token string, body map[string]any) map[string]any {
	a.t.Helper()
	code, out := a.do("POST", "/blogs", token, body)
	if code != fiber.StatusCreated {
		a.t.Fatalf("create: %d %v", code, out)
	}
	return out["data"].(map[string]any)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.register("Aiko")

	code, out := api.do("POST", "/api/auth/login", "", dto.LoginRequest{Email: "AIKO@example.com", Password: "secret123"})
	if code != 200 || out["id"] != id || out["token"] == "" {
		t.Fatalf("login: %d %v", code, out)
	}

	code, out = api.do("GET", "/auth/profile", token, nil)
	if code != 200 || out["email"] != "aiko@example.com" {
		t.Fatalf("profile: %d %v", code, out)
	}
	if _, ok := out["token"]; ok {
		t.Fatal("profile leaks token field")
	}

	code, out = api.do("POST", "/auth/register", "", dto.RegisterRequest{Name: "Aiko", Email: "aiko@example.com", Password: "secret123"})
	if code != 409 || out["success"] != false {
		t.Fatalf("duplicate: %d %v", code, out)
	}

	code, out = api.do("POST", "/auth/login", "", dto.LoginRequest{Email: "aiko@example.com", Password: "nope-nope"})
	if code != 401 || out["message"] != "Invalid email or password" {
		t.Fatalf("bad login: %d %v", code, out)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t)
	id := bson.NewObjectID().Hex()
	for _, r := range []struct{ method, path string }{
		{"POST", "/blogs"},
		{"PUT", "/blogs/" + id},
		{"DELETE", "/blogs/" + id},
		{"POST", "/blogs/" + id + "/like"},
		{"GET", "/blogs/user/my-blogs"},
		{"GET", "/blogs/user/stats"},
		{"GET", "/auth/profile"},
		{"POST", "/upload/image"},
		{"DELETE", "/api/upload/image/x"},
	} {
		code, out := api.do(r.method, r.path, "", nil)
		if code != 401 || out["success"] != false || out["message"] == "" {
			t.Errorf("%s %s: %d %v", r.method, r.path, code, out)
		}
	}

	if code, _ := api.do("GET", "/blogs", "garbage", nil); code != 401 {
		t.Fatalf("bad token on public route: %d", code)
	}
}

func TestCreateIgnoresClientAuthor(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.register("Aiko")
	_, otherID := api.register("Ben")

	post := api.createPost(token, map[string]any{
		"title":   "Trip to Kyoto",
		"content": "10+ chars of temples",
		"author":  otherID,
	})
	author := post["author"].(map[string]any)
	if author["id"] != id || author["name"] != "Aiko" {
		t.Fatalf("author = %v", author)
	}
	if post["status"] != "draft" || post["publishedAt"] != nil || post["likeCount"].(float64) != 0 {
		t.Fatalf("post = %v", post)
	}
}

func TestValidationEnvelope(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("Aiko")

	code, out := api.do("POST", "/blogs", token, map[string]any{"title": "x", "content": "short"})
	if code != 400 || out["success"] != false {
		t.Fatalf("create: %d %v", code, out)
	}
	errs := out["errors"].([]any)
	if len(errs) != 2 {
		t.Fatalf("errors = %v", errs)
	}
	first := errs[0].(map[string]any)
	if first["field"] != "title" || first["message"] == "" {
		t.Fatalf("first = %v", first)
	}

	for _, q := range []string{"page=0", "limit=abc", "sortBy=views", "status=archived"} {
		if code, out := api.do("GET", "/blogs?"+q, "", nil); code != 400 || out["errors"] == nil {
			t.Errorf("%s: %d %v", q, code, out)
		}
	}

	req := httptest.NewRequest("POST", "/blogs", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if code, out := api.send(req); code != 400 || out["message"] != "Invalid request body" {
		t.Fatalf("bad json: %d %v", code, out)
	}
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	a, _ := api.register("Aiko")
	b, bID := api.register("Ben")
	c, _ := api.register("Chie")

	post := api.createPost(a, map[string]any{"title": "Trip to Kyoto", "content": "10+ chars of temples", "status": "draft"})
	path := "/blogs/" + post["id"].(string)

	if code, _ := api.do("GET", path, "", nil); code != 404 {
		t.Fatalf("anonymous draft get: %d", code)
	}
	if code, _ := api.do("GET", path, a, nil); code != 200 {
		t.Fatalf("author draft get: %d", code)
	}

	code, out := api.do("PUT", path, a, map[string]any{"status": "published"})
	data := out["data"].(map[string]any)
	if code != 200 || data["publishedAt"] == nil || data["title"] != "Trip to Kyoto" {
		t.Fatalf("publish: %d %v", code, out)
	}

	code, out = api.do("POST", path+"/like", b, nil)
	like := out["data"].(map[string]any)
	if code != 200 || like["liked"] != true || like["likeCount"].(float64) != 1 || like["likes"].([]any)[0] != bID {
		t.Fatalf("like: %d %v", code, out)
	}
	_, out = api.do("POST", "/api"+path+"/like", b, nil)
	if like := out["data"].(map[string]any); like["liked"] != false || like["likeCount"].(float64) != 0 {
		t.Fatalf("unlike: %v", out)
	}

	code, out = api.do("PUT", path, c, map[string]any{"title": "Mine now"})
	if code != 403 || out["message"] != "You are not authorized to update this blog" {
		t.Fatalf("non-author update: %d %v", code, out)
	}
	if code, _ := api.do("DELETE", path, c, nil); code != 403 {
		t.Fatalf("non-author delete: %d", code)
	}

	code, out = api.do("GET", "/blogs", "", nil)
	pag := out["pagination"].(map[string]any)
	if code != 200 || pag["totalBlogs"].(float64) != 1 || pag["currentPage"].(float64) != 1 {
		t.Fatalf("list: %d %v", code, out)
	}

	code, out = api.do("DELETE", path, a, nil)
	if code != 200 || out["success"] != true || out["message"] != "Blog deleted successfully" {
		t.Fatalf("delete: %d %v", code, out)
	}
	if code, out := api.do("GET", path, a, nil); code != 404 || out["message"] != "Blog post not found" {
		t.Fatalf("after delete: %d %v", code, out)
	}
}

func TestMyBlogsAndStatsRoutes(t *testing.T) {
	api := newTestAPI(t)
	a, _ := api.register("Aiko")
	b, _ := api.register("Ben")
	api.createPost(a, map[string]any{"title": "Draft one", "content": "long enough content"})
	api.createPost(a, map[string]any{"title": "Published one", "content": "long enough content", "status": "published"})
	api.createPost(b, map[string]any{"title": "Ben's post", "content": "long enough content", "status": "published"})

	code, out := api.do("GET", "/blogs/user/my-blogs", a, nil)
	if code != 200 || len(out["data"].([]any)) != 2 {
		t.Fatalf("my-blogs: %d %v", code, out)
	}

	code, out = api.do("GET", "/blogs/user/stats", a, nil)
	stats := out["data"].([]any)
	if code != 200 || len(stats) != 2 {
		t.Fatalf("stats: %d %v", code, out)
	}
	if s := stats[0].(map[string]any); s["status"] != "draft" || s["count"].(float64) != 1 {
		t.Fatalf("stats[0] = %v", s)
	}
}

func uploadRequest(token, name string, size int) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", name)
	_, _ = fw.Write(bytes.Repeat([]byte{0xff}, size))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/upload/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestBodyLimitLeavesRoomForImages(t *testing.T) {
	for _, mb := range []int{0, 1, 10} {
		if got := BodyLimit(mb); got < services.MaxImageBytes+uploadOverhead {
			t.Errorf("BodyLimit(%d) = %d", mb, got)
		}
	}
	if got := BodyLimit(50); got != 50<<20 {
		t.Fatalf("BodyLimit(50) = %d", got)
	}
}

func TestUploadSizeLimitOverHTTP(t *testing.T) {
	api := newTestAPIWithLimit(t, 10)
	token, _ := api.register("Aiko")

	code, out := api.send(uploadRequest(token, "big.png", services.MaxImageBytes))
	if code != 200 || out["publicId"] == nil {
		t.Fatalf("10MB image: %d %v", code, out)
	}

	code, out = api.send(uploadRequest(token, "bigger.png", services.MaxImageBytes+1))
	if code != 400 {
		t.Fatalf("oversized image: %d %v", code, out)
	}
	errs, _ := out["errors"].([]any)
	if len(errs) != 1 || errs[0].(map[string]any)["field"] != "image" {
		t.Fatalf("oversized image errors = %v", out)
	}
}

func TestUploadRoutes(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("Aiko")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "cat.jpg")
	_, _ = fw.Write([]byte("jpeg bytes"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/upload/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	code, out := api.send(req)
	if code != 200 || !strings.HasPrefix(out["url"].(string), "http://test/uploads/blog-images/") {
		t.Fatalf("upload: %d %v", code, out)
	}

	publicID := strings.ReplaceAll(out["publicId"].(string), "/", "--")
	code, out = api.do("DELETE", "/upload/image/"+publicID, token, nil)
	if code != 200 || out["message"] != "Image deleted successfully" {
		t.Fatalf("delete: %d %v", code, out)
	}
	if code, _ := api.do("DELETE", "/upload/image/"+publicID, token, nil); code != 404 {
		t.Fatalf("second delete: %d", code)
	}

	req = httptest.NewRequest("POST", "/upload/image", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if code, out := api.send(req); code != 400 || out["message"] != "No file uploaded" {
		t.Fatalf("no file: %d %v", code, out)
	}
}

func TestListHugePageOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("Aiko")
	api.createPost(token, map[string]any{"title": "Trip to Kyoto", "content": "10+ chars of temples", "status": "published"})

	for _, q := range []string{
		"page=9223372036854775807&limit=100",
		"page=9223372036854775807&limit=1",
		"page=922337203685477581&limit=10",
	} {
		code, out := api.do("GET", "/blogs?"+q, "", nil)
		if code != 200 || len(out["data"].([]any)) != 0 {
			t.Fatalf("%s: %d %v", q, code, out)
		}
		if pag := out["pagination"].(map[string]any); pag["totalBlogs"].(float64) != 1 {
			t.Fatalf("%s: pagination %v", q, pag)
		}
	}

	if code, out := api.do("GET", "/blogs?page=9223372036854775808", "", nil); code != 400 || out["errors"] == nil {
		t.Fatalf("page beyond int64: %d %v", code, out)
	}
}

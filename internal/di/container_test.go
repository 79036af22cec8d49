package di_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-widgy/internal/di"
	"github.com/goliatone/go-cms-widgy/internal/identity"
	"github.com/goliatone/go-cms-widgy/internal/logging/gologger"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/permissions"
	"github.com/goliatone/go-cms-widgy/internal/runtimeconfig"
	"github.com/goliatone/go-cms-widgy/internal/seed"
	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
	"github.com/goliatone/go-cms-widgy/pkg/testsupport"
)

type staticResolver struct {
	principal interfaces.Principal
}

func (s staticResolver) CurrentPrincipal(context.Context) (interfaces.Principal, error) {
	return s.principal, nil
}

func templateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := "<h1>{{ page.Title }}</h1>"
	if err := os.WriteFile(filepath.Join(dir, "pages", "page.html"), []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return dir
}

func testConfig(t *testing.T) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Templates.Dir = templateDir(t)
	cfg.Logging.Level = "error"
	return cfg
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func previewPath(node *nodes.Node) string {
	return "/widgy/preview/" + node.ID.String() + "/"
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Preview.Policy = "nobody"
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrPreviewPolicyUnknown) {
		t.Fatalf("expected ErrPreviewPolicyUnknown, got %v", err)
	}
}

func TestNewContainerRequiresTemplateDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Templates.Dir = filepath.Join(t.TempDir(), "missing")
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatalf("expected error for missing template directory")
	}
}

func TestNewContainerSelectsGoLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"
	cfg.Logging.AddSource = true
	cfg.Logging.Focus = []string{" widgy.preview ", ""}

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if container.LoggerProvider().GetLogger("widgy.preview") == nil {
		t.Fatal("expected focused module logger")
	}
}

func TestContainerPreviewMemoryStorage(t *testing.T) {
	ctx := context.Background()
	container, err := di.NewContainer(testConfig(t),
		di.WithPrincipalResolver(staticResolver{principal: permissions.StaticPrincipal{Subject: "editor", Staff: true}}),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	demo, err := container.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := get(t, handler, previewPath(demo.PublishedRoot))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "<h1>About Us</h1>" {
		t.Fatalf("unexpected body %q", got)
	}

	rec = get(t, handler, previewPath(demo.OrphanRoot))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for orphan tree, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "<h1>restoring page</h1>" {
		t.Fatalf("unexpected orphan body %q", got)
	}

	if _, err := container.Seed(ctx); !errors.Is(err, seed.ErrAlreadySeeded) {
		t.Fatalf("expected ErrAlreadySeeded, got %v", err)
	}
}

func TestContainerPreviewDeniesAnonymous(t *testing.T) {
	container, err := di.NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	demo, err := container.Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := get(t, handler, previewPath(demo.PublishedRoot))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestContainerBunStorage(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)

	cfg := testConfig(t)
	cfg.Preview.Policy = runtimeconfig.PreviewPolicyPermission

	container, err := di.NewContainer(cfg,
		di.WithBunDB(db),
		di.WithPrincipalResolver(staticResolver{principal: permissions.StaticPrincipal{
			Subject:     "reviewer",
			Permissions: permissions.NewSet(permissions.PreviewPermission),
		}}),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if err := container.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	demo, err := container.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := get(t, handler, previewPath(demo.ContactForm))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "<h1>Contact</h1>" {
		t.Fatalf("unexpected body %q", got)
	}

	// the container must not close a database it was handed
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("expected injected db to stay open: %v", err)
	}
}

func TestContainerPreviewURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Links.BaseURL = "https://example.com"
	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	node := &nodes.Node{ID: identity.NodeUUID("docs", "root")}
	if got := container.PreviewURL(node); !strings.HasPrefix(got, "https://example.com/widgy/preview/"+node.ID.String()) {
		t.Fatalf("unexpected preview url %q", got)
	}
	if got := container.PreviewURL(nil); got != "" {
		t.Fatalf("expected empty url for nil node, got %q", got)
	}
}

func TestContainerFormRedirect(t *testing.T) {
	container, err := di.NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	demo, err := container.Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := get(t, handler, "/widgy/form/"+demo.AboutForm.ID.String()+"/?from=/about-us/")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/about-us/" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestContainerFormInvalidRedisplaysErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Templates.Dir = filepath.Join("..", "..", "templates")

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	demo, err := container.Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	form := url.Values{"message": {"hello"}}
	req := httptest.NewRequest(http.MethodPost, "/widgy/form/"+demo.AboutForm.ID.String()+"/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<h1>About Us</h1>",
		"Name is required",
		"Email is required",
		`name="email"`,
		">hello</textarea>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
	if got, _ := container.SubmissionStore().List(context.Background(), demo.AboutForm.ID); len(got) != 0 {
		t.Fatalf("invalid submission should not be recorded, got %d", len(got))
	}
}

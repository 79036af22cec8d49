package widgy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	widgy "github.com/goliatone/go-cms-widgy"
)

func TestModuleResolvesPlaceholderForOrphanTree(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pages", "page.html"), []byte("{{ page.Title }}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := widgy.DefaultConfig()
	cfg.Templates.Dir = dir
	cfg.Logging.Level = "error"

	module, err := widgy.New(cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	defer module.Close()

	ctx := context.Background()
	demo, err := module.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	page, err := module.ResolvePage(ctx, demo.OrphanRoot)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if page.Title != widgy.PlaceholderTitle || page.ContentModel != widgy.PlaceholderContentModel {
		t.Fatalf("expected placeholder page, got %+v", page)
	}

	page, err = module.ResolvePage(ctx, demo.AboutForm)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if page.Slug != "about-us" {
		t.Fatalf("expected about-us, got %q", page.Slug)
	}

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgy/preview/"+demo.OrphanRoot.ID.String()+"/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected anonymous preview to be forbidden, got %d", rec.Code)
	}
}

func TestNewRejectsInsecurePreviewPolicy(t *testing.T) {
	cfg := widgy.DefaultConfig()
	cfg.Preview.Policy = widgy.PreviewPolicyAllowAll
	if _, err := widgy.New(cfg); !errors.Is(err, widgy.ErrPreviewPolicyInsecure) {
		t.Fatalf("expected ErrPreviewPolicyInsecure, got %v", err)
	}
}

package links_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-widgy/internal/links"
	"github.com/google/uuid"
)

func TestBuilderRoutes(t *testing.T) {
	builder := links.NewBuilder(links.Config{BaseURL: "https://example.com", BasePath: "/widgy"})
	nodeID := uuid.MustParse("10000000-0000-0000-0000-000000000001")
	rootID := uuid.MustParse("10000000-0000-0000-0000-000000000002")

	preview, err := builder.Preview(nodeID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.HasPrefix(preview, "https://example.com/widgy/preview/"+nodeID.String()) {
		t.Fatalf("unexpected preview url %q", preview)
	}

	form, err := builder.Form(nodeID, "")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if !strings.Contains(form, "/widgy/form/"+nodeID.String()) {
		t.Fatalf("unexpected form url %q", form)
	}

	pinned, err := builder.FormWithRoot(nodeID, rootID, "/about/")
	if err != nil {
		t.Fatalf("form with root: %v", err)
	}
	if !strings.Contains(pinned, "/widgy/form/"+nodeID.String()+"/"+rootID.String()) {
		t.Fatalf("unexpected pinned form url %q", pinned)
	}
	if !strings.Contains(pinned, "from=") {
		t.Fatalf("expected from query in %q", pinned)
	}

	page, err := builder.Page("about-us")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.HasPrefix(page, "https://example.com/about-us") {
		t.Fatalf("unexpected page url %q", page)
	}
}

func TestBuilderPageRequiresSlug(t *testing.T) {
	builder := links.NewBuilder(links.Config{BaseURL: "https://example.com"})
	if _, err := builder.Page("  "); !errors.Is(err, links.ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
}

func TestRedirectPolicy(t *testing.T) {
	policy := links.NewRedirectPolicy([]string{"Example.com"})
	cases := []struct {
		target string
		want   error
	}{
		{target: "/thanks/", want: nil},
		{target: "/search?q=widgets", want: nil},
		{target: "https://example.com/thanks/", want: nil},
		{target: "http://EXAMPLE.com:8080/x", want: nil},
		{target: "", want: links.ErrRedirectMissing},
		{target: "   ", want: links.ErrRedirectMissing},
		{target: "//evil.test/", want: links.ErrRedirectNotAllowed},
		{target: "/\\evil.test", want: links.ErrRedirectNotAllowed},
		{target: "https://evil.test/", want: links.ErrRedirectNotAllowed},
		{target: "javascript:alert(1)", want: links.ErrRedirectNotAllowed},
		{target: "thanks", want: links.ErrRedirectNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			got, err := policy.Check(tc.target)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected %q to be allowed, got %v", tc.target, err)
				}
				if got != strings.TrimSpace(tc.target) {
					t.Fatalf("expected target %q, got %q", tc.target, got)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v for %q, got %v", tc.want, tc.target, err)
			}
		})
	}
}

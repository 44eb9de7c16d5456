package content

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Load(fstest.MapFS{
		"posts/first-post.md": &fstest.MapFile{Data: []byte(validPost)},
	}, "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return lib
}

func TestSitemap(t *testing.T) {
	body, err := Sitemap("https://www.westmarkadvisory.com/", testLibrary(t))
	if err != nil {
		t.Fatalf("Sitemap: %v", err)
	}
	s := string(body)

	for _, want := range []string{
		"<loc>https://www.westmarkadvisory.com/</loc>",
		"<loc>https://www.westmarkadvisory.com/services</loc>",
		"<loc>https://www.westmarkadvisory.com/blog/first-post</loc>",
		"<lastmod>2026-03-01</lastmod>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("sitemap missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, ".com//") {
		t.Error("double slash from trailing base URL slash")
	}
}

func TestFeed(t *testing.T) {
	body, err := Feed("https://www.westmarkadvisory.com", "Westmark Advisory", testLibrary(t))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	s := string(body)

	for _, want := range []string{
		`version="2.0"`,
		"<title>Westmark Advisory</title>",
		"<title>Test Post</title>",
		"<link>https://www.westmarkadvisory.com/blog/first-post</link>",
		"<category>Testing</category>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("feed missing %q:\n%s", want, s)
		}
	}
}

func TestSitemapHandler(t *testing.T) {
	h, err := SitemapHandler("https://example.com", testLibrary(t))
	if err != nil {
		t.Fatalf("SitemapHandler: %v", err)
	}
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "xml") {
		t.Errorf("Content-Type = %q", ct)
	}
}

package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/content"
)

const testPost = `---
title: "Insight One"
description: "The first insight."
date: "2026-05-01"
category: "Advisory"
readTime: "3 min read"
---

## A Section

Body text.
`

func testPages(t *testing.T) *Pages {
	t.Helper()
	lib, err := content.Load(fstest.MapFS{
		"posts/insight-one.md": &fstest.MapFile{Data: []byte(testPost)},
	}, "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewPages(lib, "Westmark Advisory", "https://example.com", zap.NewNop())
}

func get(t *testing.T, h http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHomePage(t *testing.T) {
	rec := get(t, testPages(t).Home, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"Westmark Advisory",
		"hero-slide active",   // carousel first slide visible
		"data-carousel",       // carousel root for the script
		"Insight One",         // latest posts on the landing page
		`href="/contact"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestServicesPage(t *testing.T) {
	rec := get(t, testPages(t).Services, "/services")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "What We Do") {
		t.Error("services page missing services grid")
	}
}

func TestBlogPage(t *testing.T) {
	rec := get(t, testPages(t).Blog, "/blog")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `href="/blog/insight-one"`) {
		t.Error("blog listing missing post link")
	}
	if !strings.Contains(body, "3 min read") {
		t.Error("blog listing missing read time")
	}
}

func TestBlogPostPage(t *testing.T) {
	p := testPages(t)
	h := p.BlogPost(func(r *http.Request) string {
		return strings.TrimPrefix(r.URL.Path, "/blog/")
	})

	rec := get(t, h, "/blog/insight-one")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "A Section") {
		t.Error("post body not rendered")
	}

	rec = get(t, h, "/blog/no-such-post")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown slug: status = %d, want 404", rec.Code)
	}
}

func TestContactPage(t *testing.T) {
	rec := get(t, testPages(t).Contact, "/contact")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`id="contact-form"`,
		`data-endpoint="/api/contact"`,
		`name="email"`,
		`name="message"`,
		`id="contact-reset"`, // reset control for the submitted state
	} {
		if !strings.Contains(body, want) {
			t.Errorf("contact page missing %q", want)
		}
	}
}

func TestStaticHandler(t *testing.T) {
	h := StaticHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("css: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/contact-form.js", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("js: status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, Health, "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}

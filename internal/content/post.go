// Package content loads blog posts from Markdown files with YAML front
// matter, renders them to HTML, and produces the sitemap and RSS feed.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/westmarkadvisory/website/internal/text"
)

// Post is one blog post, fully parsed and rendered.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Category    string
	ReadTime    string
	Tags        []string
	Author      string
	HTML        template.HTML
}

// frontMatter is the YAML header every post file must carry.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Category    string   `yaml:"category"`
	ReadTime    string   `yaml:"readTime"`
	Tags        []string `yaml:"tags"`
	Author      string   `yaml:"author"`
}

func (fm *frontMatter) validate(name string) error {
	var missing []string
	if strings.TrimSpace(fm.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(fm.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(fm.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(fm.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(fm.ReadTime) == "" {
		missing = append(missing, "readTime")
	}
	if len(missing) > 0 {
		return fmt.Errorf("content: %s: missing front matter fields: %s", name, strings.Join(missing, ", "))
	}
	return nil
}

const frontMatterDelim = "---"

// splitFrontMatter separates the YAML header from the Markdown body.
// The file must start with a "---" line and contain a closing "---" line.
func splitFrontMatter(name string, data []byte) (header, body []byte, err error) {
	s := string(data)
	if !strings.HasPrefix(s, frontMatterDelim+"\n") && !strings.HasPrefix(s, frontMatterDelim+"\r\n") {
		return nil, nil, fmt.Errorf("content: %s: file does not start with front matter", name)
	}
	rest := s[strings.Index(s, "\n")+1:]
	idx := strings.Index(rest, "\n"+frontMatterDelim)
	if idx < 0 {
		return nil, nil, fmt.Errorf("content: %s: unterminated front matter", name)
	}
	header = []byte(rest[:idx])
	after := rest[idx+1+len(frontMatterDelim):]
	if nl := strings.Index(after, "\n"); nl >= 0 {
		after = after[nl+1:]
	} else {
		after = ""
	}
	return header, []byte(after), nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
)

// parsePost parses one .md file into a Post. The slug is derived from the
// file name.
func parsePost(name string, data []byte) (*Post, error) {
	header, body, err := splitFrontMatter(name, data)
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return nil, fmt.Errorf("content: %s: parse front matter: %w", name, err)
	}
	if err := fm.validate(name); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(fm.Date))
	if err != nil {
		return nil, fmt.Errorf("content: %s: date must be YYYY-MM-DD: %w", name, err)
	}

	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))
	slug := text.Slugify(stem)
	if slug == "" {
		return nil, fmt.Errorf("content: %s: file name yields an empty slug", name)
	}

	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("content: %s: render markdown: %w", name, err)
	}

	return &Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        date,
		Category:    fm.Category,
		ReadTime:    fm.ReadTime,
		Tags:        fm.Tags,
		Author:      fm.Author,
		HTML:        template.HTML(buf.String()),
	}, nil
}

// Library holds all loaded posts, indexed by slug.
type Library struct {
	posts  []*Post // date descending
	bySlug map[string]*Post
}

// Load reads every .md file under dir in fsys. A file with invalid front
// matter fails the whole load; content errors should stop startup, not
// surface as broken pages.
func Load(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("content: read dir %s: %w", dir, err)
	}

	lib := &Library{bySlug: make(map[string]*Post)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", name, err)
		}
		post, err := parsePost(name, data)
		if err != nil {
			return nil, err
		}
		if prev, dup := lib.bySlug[post.Slug]; dup {
			return nil, fmt.Errorf("content: duplicate slug %q (%s and %s)", post.Slug, prev.Title, post.Title)
		}
		lib.bySlug[post.Slug] = post
		lib.posts = append(lib.posts, post)
	}

	sort.Slice(lib.posts, func(i, j int) bool {
		if !lib.posts[i].Date.Equal(lib.posts[j].Date) {
			return lib.posts[i].Date.After(lib.posts[j].Date)
		}
		return lib.posts[i].Slug < lib.posts[j].Slug
	})
	return lib, nil
}

// Posts returns all posts, newest first.
func (l *Library) Posts() []*Post { return l.posts }

// BySlug returns the post with the given slug, or nil.
func (l *Library) BySlug(slug string) *Post { return l.bySlug[slug] }

// Categories returns the distinct categories in alphabetical order.
func (l *Library) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range l.posts {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"fasika-cms/internal/models"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// SeedDocument is the full set of site content in one YAML file.
type SeedDocument struct {
	HeroSections []models.HeroSection  `yaml:"heroSections"`
	Global       *models.Global        `yaml:"global"`
	About        *models.AboutPage     `yaml:"about"`
	Admission    *models.AdmissionPage `yaml:"admission"`
	Services     *models.ServicePage   `yaml:"services"`
	Contact      *models.ContactInfo   `yaml:"contact"`
	Blogs        []models.BlogPost     `yaml:"blogs"`
}

// LoadSeed reads the seed at path, or the embedded default when path is empty.
func LoadSeed(path string) (*SeedDocument, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content.LoadSeed(%s): %w", path, err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*SeedDocument, error) {
	var doc SeedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content.ParseSeed: %w", err)
	}

	seen := make(map[string]bool, len(doc.Blogs))
	for i := range doc.Blogs {
		post := &doc.Blogs[i]
		if post.Slug == "" {
			post.Slug = Slugify(post.Title)
		}
		if post.Slug == "" {
			return nil, fmt.Errorf("content.ParseSeed: blog post %d has no title or slug", i)
		}
		if seen[post.Slug] {
			return nil, fmt.Errorf("content.ParseSeed: duplicate blog slug %q", post.Slug)
		}
		seen[post.Slug] = true
	}
	return &doc, nil
}

// Slugify converts a title into a URL-safe slug. Non-Latin scripts such as
// Ge'ez are transliterated to ASCII.
func Slugify(s string) string {
	return slug.Make(s)
}

// RenderMarkdown converts a blog body to HTML. Raw HTML in the input is
// omitted by goldmark's default renderer.
func RenderMarkdown(input string) string {
	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert([]byte(input), &buf); err != nil {
		return template.HTMLEscapeString(input)
	}
	return buf.String()
}

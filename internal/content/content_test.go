package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gosimple/slug"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Open day this Saturday":        "open-day-this-saturday",
		"  Healthy lunchboxes!  ":       "healthy-lunchboxes",
		"Why play-based learning works": "why-play-based-learning-works",
		"!!!":                           "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyTransliteratesAmharic(t *testing.T) {
	got := Slugify("የልጆች ቀን በዓል")
	if got == "" || !slug.IsSlug(got) {
		t.Fatalf("Slugify(Amharic title) = %q, want a non-empty ASCII slug", got)
	}
}

func TestParseSeedAcceptsAmharicTitle(t *testing.T) {
	doc, err := ParseSeed([]byte("blogs:\n  - title: \"የልጆች ቀን\"\n    body: \"ሰላም\"\n"))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(doc.Blogs) != 1 || doc.Blogs[0].Slug == "" {
		t.Fatalf("expected one post with a slug, got %+v", doc.Blogs)
	}
}

func TestLoadDefaultSeed(t *testing.T) {
	doc, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(doc.HeroSections) == 0 || doc.Global == nil || doc.About == nil ||
		doc.Admission == nil || doc.Services == nil || doc.Contact == nil {
		t.Fatalf("default seed is missing documents: %+v", doc)
	}
	if len(doc.Blogs) < 4 {
		t.Fatalf("expected at least 4 blog posts, got %d", len(doc.Blogs))
	}
	for _, post := range doc.Blogs {
		if post.Slug == "" || post.PublishedAt.IsZero() {
			t.Fatalf("blog post not normalized: %+v", post)
		}
	}
	if doc.Blogs[0].Slug != "welcome-to-our-new-ayat-center" {
		t.Fatalf("unexpected slug %q", doc.Blogs[0].Slug)
	}
}

func TestLoadSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := "blogs:\n  - title: First\n  - title: Second\n    slug: custom\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if doc.Blogs[0].Slug != "first" || doc.Blogs[1].Slug != "custom" {
		t.Fatalf("unexpected slugs: %q %q", doc.Blogs[0].Slug, doc.Blogs[1].Slug)
	}
}

func TestParseSeedRejectsDuplicateSlugs(t *testing.T) {
	_, err := ParseSeed([]byte("blogs:\n  - title: Same\n  - title: same\n"))
	if err == nil || !strings.Contains(err.Error(), "duplicate blog slug") {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}
}

func TestRenderMarkdownOmitsRawHTML(t *testing.T) {
	html := RenderMarkdown("Hello **families**\n\n<script>alert(1)</script>")
	if !strings.Contains(html, "<strong>families</strong>") {
		t.Fatalf("markdown not rendered: %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("raw HTML passed through: %s", html)
	}
}

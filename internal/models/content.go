package models

import "time"

// Document kinds, named after the REST collections the frontend queries.
const (
	KindHeroSections   = "hero-sections"
	KindGlobal         = "global"
	KindAboutPages     = "about-pages"
	KindAdmissionPages = "admission-pages"
	KindServicePages   = "service-pages"
	KindContactUses    = "contact-uses"
)

// DocumentKinds lists every single-document content kind.
var DocumentKinds = []string{
	KindHeroSections,
	KindGlobal,
	KindAboutPages,
	KindAdmissionPages,
	KindServicePages,
	KindContactUses,
}

type Media struct {
	URL             string `json:"url" yaml:"url"`
	AlternativeText string `json:"alternativeText,omitempty" yaml:"alternativeText"`
}

type Link struct {
	Href     string `json:"href" yaml:"href"`
	Text     string `json:"text" yaml:"text"`
	External bool   `json:"external" yaml:"external"`
}

type LogoLink struct {
	Href  string `json:"href" yaml:"href"`
	Text  string `json:"text" yaml:"text"`
	Image *Media `json:"image,omitempty" yaml:"image"`
}

// TopNav is the site navigation stored under the "global" document.
type TopNav struct {
	LogoLink LogoLink `json:"logoLink" yaml:"logoLink"`
	Links    []Link   `json:"link" yaml:"link"`
	CTA      *Link    `json:"cta,omitempty" yaml:"cta"`
}

type Global struct {
	TopNav TopNav `json:"topnav" yaml:"topnav"`
}

type Program struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Link        *Link  `json:"link,omitempty" yaml:"link"`
}

type CompanyInfo struct {
	Phones  []string `json:"phones" yaml:"phones"`
	Address string   `json:"address" yaml:"address"`
	Email   string   `json:"email" yaml:"email"`
}

type HeroSection struct {
	Title        string      `json:"title" yaml:"title"`
	Subtitle     string      `json:"subtitle" yaml:"subtitle"`
	Description  string      `json:"description" yaml:"description"`
	Welcome      string      `json:"welcome" yaml:"welcome"`
	About        string      `json:"about" yaml:"about"`
	Vision       string      `json:"vision" yaml:"vision"`
	Mission      string      `json:"mission" yaml:"mission"`
	Programs     []Program   `json:"programs" yaml:"programs"`
	Beliefs      string      `json:"beliefs" yaml:"beliefs"`
	Testimonials string      `json:"testimonials" yaml:"testimonials"`
	Newsletter   string      `json:"newsletter" yaml:"newsletter"`
	CompanyInfo  CompanyInfo `json:"companyInfo" yaml:"companyInfo"`
	CTAs         []Link      `json:"ctas" yaml:"ctas"`
	Image        *Media      `json:"image,omitempty" yaml:"image"`
}

type Pillar struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Additional  string `json:"additional,omitempty" yaml:"additional"`
}

type AboutPage struct {
	Motto       string   `json:"motto" yaml:"motto"`
	Genesis     string   `json:"genesis" yaml:"genesis"`
	GenesisDesc string   `json:"genesisDesc" yaml:"genesisDesc"`
	Mission     string   `json:"mission" yaml:"mission"`
	Vision      string   `json:"vision" yaml:"vision"`
	Values      string   `json:"values" yaml:"values"`
	Commitment  string   `json:"commitment" yaml:"commitment"`
	Pillars     []Pillar `json:"pillars" yaml:"pillars"`
	Background  *Media   `json:"background,omitempty" yaml:"background"`
}

type FAQ struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type AdmissionPage struct {
	Enroll          string   `json:"enroll" yaml:"enroll"`
	SimpleProcess   string   `json:"simpleProcess" yaml:"simpleProcess"`
	Registration    string   `json:"registration" yaml:"registration"`
	ItemsRequired   string   `json:"itemsRequired" yaml:"itemsRequired"`
	RequiredItems   []string `json:"requiredItems" yaml:"requiredItems"`
	FAQTitle        string   `json:"faqTitle" yaml:"faqTitle"`
	FAQIntro        string   `json:"faqIntro" yaml:"faqIntro"`
	FAQs            []FAQ    `json:"faqs" yaml:"faqs"`
	DownloadTitle   string   `json:"downloadTitle" yaml:"downloadTitle"`
	Downloads       []Media  `json:"downloads" yaml:"downloads"`
	EnrollmentImage *Media   `json:"enrollImage,omitempty" yaml:"enrollImage"`
}

type Service struct {
	Name       string   `json:"name" yaml:"name"`
	Subtitle   string   `json:"subtitle" yaml:"subtitle"`
	Highlights []string `json:"highlights" yaml:"highlights"`
	Image      *Media   `json:"image,omitempty" yaml:"image"`
}

type ServicePage struct {
	Title      string    `json:"title" yaml:"title"`
	Motto      string    `json:"motto" yaml:"motto"`
	Foundation string    `json:"foundation" yaml:"foundation"`
	Services   []Service `json:"services" yaml:"services"`
	Background *Media    `json:"background,omitempty" yaml:"background"`
}

type Location struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
}

type OpeningHours struct {
	Name  string `json:"name" yaml:"name"`
	Hours string `json:"hours" yaml:"hours"`
}

type ContactInfo struct {
	TrainingCenter string         `json:"trainingCenter" yaml:"trainingCenter"`
	WhereToFind    string         `json:"whereFind" yaml:"whereFind"`
	Locations      []Location     `json:"locations" yaml:"locations"`
	Hours          []OpeningHours `json:"hours" yaml:"hours"`
	Background     *Media         `json:"background,omitempty" yaml:"background"`
}

// BlogPost is stored with a markdown Body; BodyHTML is rendered on read.
type BlogPost struct {
	ID          string    `json:"id" yaml:"-"`
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	News        string    `json:"news" yaml:"news"`
	Summary     string    `json:"summary" yaml:"summary"`
	Body        string    `json:"body" yaml:"body"`
	BodyHTML    string    `json:"bodyHtml,omitempty" yaml:"-"`
	ReadTime    string    `json:"readTime" yaml:"readTime"`
	Cover       *Media    `json:"cover,omitempty" yaml:"cover"`
	Gallery     []Media   `json:"gallery" yaml:"gallery"`
	PublishedAt time.Time `json:"publishedAt" yaml:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-"`
}

// BlogQuery mirrors the pagination/filter parameters of GET /api/blogs.
type BlogQuery struct {
	Page      int
	PageSize  int
	Limit     int
	SlugEq    string
	SlugNe    string
	Ascending bool
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type BlogPage struct {
	Posts      []BlogPost
	Pagination Pagination
}

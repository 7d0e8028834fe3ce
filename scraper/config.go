package scraper

// ScraperConfig defines how to read articles from a blog: which elements of
// the listing page are articles and where each field lives on the listing
// and article pages.
type ScraperConfig struct {
	Listing ListingConfig `yaml:"listing" json:"listing"`
	Detail  DetailConfig  `yaml:"detail" json:"detail"`
}

// ListingConfig defines how to read article summaries from the listing page.
// Every selector other than ArticleSelector is evaluated inside a single
// article container and only its first match is used.
type ListingConfig struct {
	ArticleSelector string `yaml:"article_selector" json:"article_selector"`
	TitleSelector   string `yaml:"title_selector" json:"title_selector"`
	ExcerptSelector string `yaml:"excerpt_selector" json:"excerpt_selector"`
	AvatarSelector  string `yaml:"avatar_selector" json:"avatar_selector"`
	LinkSelector    string `yaml:"link_selector" json:"link_selector"`
}

// DetailConfig defines how to read metadata from an article page.
type DetailConfig struct {
	DateSelector   string `yaml:"date_selector" json:"date_selector"`
	AuthorSelector string `yaml:"author_selector" json:"author_selector"` // element whose content attribute holds "First Last"
	AvatarSelector string `yaml:"avatar_selector" json:"avatar_selector"`

	// StateVariable is the global the page stores its client-side cache in,
	// and StateKeyPrefix selects the entry holding the post counters.
	StateVariable  string `yaml:"state_variable" json:"state_variable"`
	StateKeyPrefix string `yaml:"state_key_prefix" json:"state_key_prefix"`
}

// DefaultScraperConfig returns selectors for Medium-hosted blogs.
func DefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		Listing: NewListingConfig("article"),
		Detail: DetailConfig{
			DateSelector:   "time",
			AuthorSelector: `meta[name="author"]`,
			AvatarSelector: "img",
			StateVariable:  "__APOLLO_STATE__",
			StateKeyPrefix: "Post:",
		},
	}
}

// NewListingConfig creates a listing configuration with default field
// selectors.
func NewListingConfig(articleSelector string) ListingConfig {
	return ListingConfig{
		ArticleSelector: articleSelector,
		TitleSelector:   "h2",
		ExcerptSelector: "p",
		AvatarSelector:  "img",
		LinkSelector:    "a",
	}
}

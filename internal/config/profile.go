package config

// SiteProfile groups the locale- and markup-specific constants the extraction
// heuristics depend on. The markers are tied to Idealista's Portuguese-localized
// rendering and can drift independently of the extraction logic, so they live
// here rather than hard-coded in the extractor.
type SiteProfile struct {
	// AllowedDomains are the hostnames (or suffixes) a listing URL must match
	// before any network I/O happens.
	AllowedDomains []string

	// StructuredDataGlobals are the page-global script variables carrying
	// structured listing data, in lookup order.
	MultimediaGlobal string
	ConfigGlobal     string

	// RentedMarker flags an already-rented listing when present in tag labels
	// or anywhere in the page text.
	RentedMarker string

	// AgentPlaceholder marks a generic advertiser label; candidate agent names
	// containing it are rejected.
	AgentPlaceholder string

	// DescriptionAnchor is the anchor text preceding the original-language
	// description block.
	DescriptionAnchor string

	// DescriptionKeywords qualify a long paragraph as a plausible description
	// when no anchored block exists.
	DescriptionKeywords []string

	// BathroomTermLocal and BathroomTermNormalized rewrite the pt-PT bathroom
	// term to the pt-BR one buyers expect.
	BathroomTermLocal      string
	BathroomTermNormalized string

	// TitleSiteSuffix is stripped from the end of the <title> tag.
	TitleSiteSuffix string

	// LocationMarker splits the locality out of a listing title
	// ("... à venda em Roma").
	LocationMarker string

	// ImageLowResSegment / ImageHighResSegment drive the gallery URL upgrade.
	// The substitution is idempotent: once upgraded, the low-res segment no
	// longer occurs.
	ImageLowResSegment  string
	ImageHighResSegment string

	// ImageMasterToken identifies CDN image URLs worth collecting when no
	// structured gallery is available.
	ImageMasterToken string
}

// DefaultSiteProfile returns the profile for Idealista's Portuguese rendering.
func DefaultSiteProfile() SiteProfile {
	return SiteProfile{
		AllowedDomains:   []string{"idealista.it", "idealista.pt"},
		MultimediaGlobal: "adMultimediasInfo",
		ConfigGlobal:     "config",
		RentedMarker:     "Arrendada",
		AgentPlaceholder: "Profissional",

		DescriptionAnchor: "Ver descrição no idioma original",
		DescriptionKeywords: []string{
			"apartamento", "appartamento", "moradia", "imóvel",
			"casa", "quarto", "propriedade",
		},

		BathroomTermLocal:      "casa de banho",
		BathroomTermNormalized: "banheiro",

		TitleSiteSuffix: "idealista",
		LocationMarker:  "venda em ",

		ImageLowResSegment:  "/blur/WEB_LISTING/",
		ImageHighResSegment: "/blur/WEB_DETAIL_TOP-XL-L/",
		ImageMasterToken:    "image.master",
	}
}

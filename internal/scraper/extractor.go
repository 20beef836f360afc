package scraper

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"casa-italia/internal/config"
	"casa-italia/internal/models"
)

// Selectors for the listing site's detail-page markup. Kept together so a
// markup change is a one-place fix.
const (
	selTitleMain        = "span.main-info__title-main"
	selTitleMinor       = "span.main-info__title-minor"
	selPrice            = ".info-data-price"
	selFeatureItems     = ".details-property_features li"
	selTags             = ".detail-info-tags span, span.tag"
	selProfessionalName = ".professional-name .name"
	selAdvertiserName   = ".advertiser-name"
	selUserNameInput    = `input[name="user-name"]`
)

// Structured-data feature tags used by the embedded multimedia object.
const (
	featureConstructedArea = "CONSTRUCTED_AREA"
	featureRoomNumber      = "ROOM_NUMBER"
)

var (
	priceCharsRe = regexp.MustCompile(`[^0-9.,]`)
	firstIntRe   = regexp.MustCompile(`\d+`)
	areaRe       = regexp.MustCompile(`(?i)(\d+)\s*m²\s*(?:de\s+)?área bruta`)
	bedroomsRe   = regexp.MustCompile(`(?i)(\d+)\s*quartos?\b`)
	bathroomsRe  = regexp.MustCompile(`(?i)(\d+)\s*casas?\s+de\s+banho`)
	centerRe     = regexp.MustCompile(`center=(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)
)

// Extractor derives a normalized Property from a parsed listing document.
// Every per-field routine walks a prioritized fallback chain (structured
// page data, then DOM selectors, then regex over the visible text) and is
// total: a miss yields the field's sentinel default, never an error.
type Extractor struct {
	profile config.SiteProfile
}

// NewExtractor creates an extractor for the given site profile.
func NewExtractor(profile config.SiteProfile) *Extractor {
	return &Extractor{profile: profile}
}

// ExtractProperty aggregates all field extractions into one record stamped
// with the original URL and the extraction time.
func (e *Extractor) ExtractProperty(doc Document, originalURL string) *models.Property {
	multimedia := doc.Global(e.profile.MultimediaGlobal)
	pageCfg := doc.Global(e.profile.ConfigGlobal)

	now := time.Now().UTC()
	title := e.extractTitle(doc, multimedia)
	lat, lng := e.extractCoordinates(pageCfg)

	return &models.Property{
		OriginalURL: originalURL,
		Title:       title,
		Description: e.extractDescription(doc),
		Price:       e.extractPrice(doc, multimedia),
		Location:    e.extractLocation(doc, title),
		Bedrooms:    e.extractBedrooms(doc, multimedia),
		Bathrooms:   e.extractBathrooms(doc),
		Area:        e.extractArea(doc, multimedia),
		Features:    e.extractFeatures(doc),
		Images:      e.extractImages(doc, multimedia),
		Latitude:    lat,
		Longitude:   lng,
		RealEstate:  e.extractAgentName(doc, pageCfg),
		IsRented:    e.extractIsRented(doc),
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (e *Extractor) extractTitle(doc Document, multimedia PageData) string {
	if t := multimedia.Field("title").Str(); t != "" {
		return cleanText(t)
	}
	if t := doc.Text(selTitleMain); t != "" {
		return t
	}
	if t := doc.Text("h1"); t != "" {
		return t
	}
	if t := doc.Title(); t != "" {
		return stripSiteSuffix(t, e.profile.TitleSiteSuffix)
	}
	return ""
}

func (e *Extractor) extractDescription(doc Document) string {
	if d := doc.SectionAfterAnchor(e.profile.DescriptionAnchor); d != "" {
		return d
	}
	for _, p := range doc.Texts("p") {
		if len(p) > 100 && containsAny(strings.ToLower(p), e.profile.DescriptionKeywords) {
			return p
		}
	}
	return cleanText(doc.MetaDescription())
}

func (e *Extractor) extractLocation(doc Document, title string) string {
	if l := doc.Text(selTitleMinor); l != "" {
		return l
	}
	if i := strings.Index(strings.ToLower(title), e.profile.LocationMarker); i >= 0 {
		loc := title[i+len(e.profile.LocationMarker):]
		if c := strings.IndexAny(loc, ",|"); c >= 0 {
			loc = loc[:c]
		}
		return cleanText(loc)
	}
	return ""
}

func (e *Extractor) extractPrice(doc Document, multimedia PageData) float64 {
	if f, ok := multimedia.Field("price").Float(); ok && f > 0 {
		return f
	}
	if s := multimedia.Field("price").Str(); s != "" {
		if p := normalizePrice(s); p > 0 {
			return p
		}
	}
	if s := doc.Text(selPrice); s != "" {
		return normalizePrice(s)
	}
	return 0
}

func (e *Extractor) extractArea(doc Document, multimedia PageData) int {
	if txt := featureText(multimedia, featureConstructedArea); txt != "" {
		if n := firstInt(txt); n > 0 {
			return n
		}
	}
	if m := areaRe.FindStringSubmatch(doc.FullText()); len(m) > 1 {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func (e *Extractor) extractBedrooms(doc Document, multimedia PageData) int {
	if txt := featureText(multimedia, featureRoomNumber); txt != "" {
		if n := firstInt(txt); n > 0 {
			return n
		}
	}
	if m := bedroomsRe.FindStringSubmatch(doc.FullText()); len(m) > 1 {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func (e *Extractor) extractBathrooms(doc Document) int {
	for _, item := range doc.Texts(selFeatureItems) {
		if m := bathroomsRe.FindStringSubmatch(item); len(m) > 1 {
			n, _ := strconv.Atoi(m[1])
			return n
		}
	}
	if m := bathroomsRe.FindStringSubmatch(doc.FullText()); len(m) > 1 {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// extractFeatures collects the feature list, rewriting the local bathroom
// term, lowercasing and deduplicating while keeping first-occurrence order.
// Entries of three characters or fewer are noise and dropped.
func (e *Extractor) extractFeatures(doc Document) []string {
	seen := make(map[string]struct{})
	features := []string{}
	for _, item := range doc.Texts(selFeatureItems) {
		f := strings.ToLower(item)
		f = strings.ReplaceAll(f, e.profile.BathroomTermLocal, e.profile.BathroomTermNormalized)
		f = strings.TrimSpace(f)
		if utf8.RuneCountInString(f) <= 2 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		features = append(features, f)
	}
	return features
}

func (e *Extractor) extractIsRented(doc Document) bool {
	for _, tag := range doc.Texts(selTags) {
		if strings.Contains(tag, e.profile.RentedMarker) {
			return true
		}
	}
	return strings.Contains(doc.FullText(), e.profile.RentedMarker)
}

// extractCoordinates decodes the "center=<lat>%2C<lng>" token from the
// map-widget URL nested somewhere in the page config. Latitude and longitude
// are both set or both nil.
func (e *Extractor) extractCoordinates(pageCfg PageData) (*float64, *float64) {
	mapURL := pageCfg.FindString(func(s string) bool {
		return strings.Contains(s, "center=")
	})
	if mapURL == "" {
		return nil, nil
	}
	decoded, err := url.QueryUnescape(mapURL)
	if err != nil {
		decoded = mapURL
	}
	m := centerRe.FindStringSubmatch(decoded)
	if len(m) < 3 {
		return nil, nil
	}
	lat, errLat := strconv.ParseFloat(m[1], 64)
	lng, errLng := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLng != nil {
		return nil, nil
	}
	return &lat, &lng
}

// extractAgentName walks the advertiser-name candidates in priority order.
// Candidates that are too short or carry the generic placeholder label are
// rejected and the chain continues.
func (e *Extractor) extractAgentName(doc Document, pageCfg PageData) string {
	candidates := []string{
		pageCfg.Field("adFirstName").Str(),
		pageCfg.Field("adCommercialName").Str(),
		doc.Text(selProfessionalName),
		doc.Text(selAdvertiserName),
		doc.Attr(selUserNameInput, "value"),
	}
	for _, c := range candidates {
		c = cleanText(c)
		if utf8.RuneCountInString(c) <= 3 {
			continue
		}
		if strings.Contains(c, e.profile.AgentPlaceholder) {
			continue
		}
		return c
	}
	return ""
}

// extractImages prefers the structured gallery (order preserved) and falls
// back to CDN image tags. Every URL is upgraded to the high-resolution tier;
// the substitution is idempotent.
func (e *Extractor) extractImages(doc Document, multimedia PageData) []string {
	seen := make(map[string]struct{})
	images := []string{}
	add := func(u string) {
		u = e.upgradeImageURL(strings.TrimSpace(u))
		if u == "" {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		images = append(images, u)
	}

	for _, key := range []string{"fullScreenGalleryPics", "gallery", "pics", "images"} {
		for _, item := range multimedia.Field(key).List() {
			if s := item.Str(); s != "" {
				add(s)
				continue
			}
			if s := item.FindString(isHTTPURL); s != "" {
				add(s)
			}
		}
		if len(images) > 0 {
			return images
		}
	}

	for _, src := range doc.Attrs("img", "src") {
		if strings.Contains(src, e.profile.ImageMasterToken) {
			add(src)
		}
	}
	return images
}

func (e *Extractor) upgradeImageURL(u string) string {
	return strings.ReplaceAll(u, e.profile.ImageLowResSegment, e.profile.ImageHighResSegment)
}

// normalizePrice strips currency symbols and normalizes the European
// "1.234,56" convention ("." thousands, "," decimal) to a float. Anything
// non-numeric yields the 0 sentinel.
func normalizePrice(s string) float64 {
	s = priceCharsRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func featureText(multimedia PageData, tag string) string {
	for _, f := range multimedia.Field("features").List() {
		if f.Field("featureName").Str() == tag {
			return f.Field("text").Str()
		}
	}
	return ""
}

func firstInt(s string) int {
	m := firstIntRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func stripSiteSuffix(title, site string) string {
	if site == "" {
		return cleanText(title)
	}
	re := regexp.MustCompile(`(?i)\s*[—–|-]\s*` + regexp.QuoteMeta(site) + `.*$`)
	return cleanText(re.ReplaceAllString(title, ""))
}

package seo

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"portfolio/pkg/models"
)

const (
	titleMinLength       = 30
	titleMaxLength       = 60
	descriptionMinLength = 120
	descriptionMaxLength = 160
	eagerImageCount      = 3
	minInternalLinks     = 3
	minSocialTags        = 4
	minTapTargetSize     = 44
	maxImageWidth        = 1920
	maxImageHeight       = 1080
	maxStylesheets       = 5
	maxExternalScripts   = 10
)

func (r *audit) checkTitle() {
	title := strings.TrimSpace(r.snap.Title)
	length := utf8.RuneCountInString(title)
	r.metrics.TitleLength = length

	if title == "" {
		r.issue(models.IssueCritical, "Title", "Page title is missing", "<title>",
			"Add a unique, descriptive title between 30 and 60 characters")
		return
	}
	if length < titleMinLength {
		r.issue(models.IssueWarning, "Title", fmt.Sprintf("Title is too short (%d characters)", length), "<title>",
			"Expand the title to at least 30 characters with relevant keywords")
	}
	if length > titleMaxLength {
		r.issue(models.IssueWarning, "Title", fmt.Sprintf("Title is too long (%d characters)", length), "<title>",
			"Shorten the title to 60 characters or less so it is not truncated in search results")
	}
	if r.rules.PlaceholderTitle != "" && title == r.rules.PlaceholderTitle {
		r.issue(models.IssueCritical, "Title", "Page uses the default template title", "<title>",
			"Replace the template title with one that describes this page")
	}
}

func (r *audit) checkMetaDescription() {
	content, ok := r.snap.MetaContent("description")
	content = strings.TrimSpace(content)
	length := utf8.RuneCountInString(content)
	r.metrics.DescriptionLength = length

	if !ok || content == "" {
		r.issue(models.IssueCritical, "Meta Description", "Meta description is missing", `meta[name="description"]`,
			"Add a meta description between 120 and 160 characters summarizing the page")
		return
	}
	if length < descriptionMinLength {
		r.issue(models.IssueWarning, "Meta Description", fmt.Sprintf("Meta description is too short (%d characters)", length),
			`meta[name="description"]`, "Expand the description to at least 120 characters")
	}
	if length > descriptionMaxLength {
		r.issue(models.IssueWarning, "Meta Description", fmt.Sprintf("Meta description is too long (%d characters)", length),
			`meta[name="description"]`, "Shorten the description to 160 characters or less")
	}
}

func (r *audit) checkImages() {
	r.metrics.ImageCount = len(r.snap.Images)

	for i, img := range r.snap.Images {
		element := imageLocator(img, i)

		if !img.HasAlt || strings.TrimSpace(img.Alt) == "" {
			r.metrics.ImagesWithoutAlt++
			r.issue(models.IssueWarning, "Images", "Image is missing alt text", element,
				"Add alt text describing the image content")
		} else if v := ValidateAltText(img.Alt, r.snap.Title); !v.Valid {
			recommendation := "Improve the alt text: " + strings.Join(v.Suggestions, "; ")
			if v.Improved != "" {
				recommendation += fmt.Sprintf(" (suggested: %q)", v.Improved)
			}
			r.issue(models.IssueInfo, "Images", fmt.Sprintf("Alt text quality is low (score %d)", v.Score), element,
				recommendation)
		}

		if strings.TrimSpace(img.Width) == "" || strings.TrimSpace(img.Height) == "" {
			r.issue(models.IssueInfo, "Images", "Image is missing explicit width and height", element,
				"Set width and height attributes to prevent layout shift")
		}

		if i >= eagerImageCount && !strings.EqualFold(img.Loading, "lazy") {
			r.issue(models.IssueInfo, "Images", "Image below the fold is not lazy loaded", element,
				`Add loading="lazy" to images that are not visible on first paint`)
		}
	}
}

func imageLocator(img Image, index int) string {
	if img.Src != "" {
		return fmt.Sprintf(`img[src="%s"]`, img.Src)
	}
	return fmt.Sprintf("img:nth-of-type(%d)", index+1)
}

func (r *audit) checkHeadings() {
	for _, h := range r.snap.Headings {
		r.metrics.HeadingStructure.Add(h.Level)
	}

	switch h1 := r.metrics.HeadingStructure.H1; {
	case h1 == 0:
		r.issue(models.IssueCritical, "Heading Structure", "Page has no H1 heading", "h1",
			"Add exactly one H1 describing the main topic of the page")
	case h1 > 1:
		r.issue(models.IssueWarning, "Heading Structure", fmt.Sprintf("Page has %d H1 headings", h1), "h1",
			"Use a single H1 and demote the others to H2")
	}

	for i := 1; i < len(r.snap.Headings); i++ {
		prev, cur := r.snap.Headings[i-1].Level, r.snap.Headings[i].Level
		if cur > prev+1 {
			r.issue(models.IssueInfo, "Heading Structure",
				fmt.Sprintf("Heading hierarchy skips from H%d to H%d", prev, cur),
				fmt.Sprintf("h%d: %s", cur, r.snap.Headings[i].Text),
				"Keep heading levels sequential without skipping levels")
		}
	}
}

type linkKind int

const (
	linkOther linkKind = iota
	linkInternal
	linkExternal
)

type classifiedLink struct {
	Anchor
	kind linkKind
	// path is the resolved path of an internal link.
	path  string
	query url.Values
}

// classifyLinks sorts anchors into internal and external links. Fragments,
// relative paths and links to the site's own host are internal; absolute
// http(s) links to other hosts are external; other schemes are ignored.
func (r *audit) classifyLinks() []classifiedLink {
	out := make([]classifiedLink, 0, len(r.snap.Anchors))
	for _, a := range r.snap.Anchors {
		link := classifiedLink{Anchor: a}
		href := strings.TrimSpace(a.Href)
		u, err := url.Parse(href)
		switch {
		case href == "" || err != nil:
		case strings.HasPrefix(href, "#"):
			link.kind = linkInternal
			link.path = r.snap.Path()
		case u.Scheme == "" && u.Host == "":
			link.kind = linkInternal
		case u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https":
		case r.isOwnHost(u.Host):
			link.kind = linkInternal
		default:
			link.kind = linkExternal
		}
		if link.kind == linkInternal && link.path == "" {
			resolved := u
			if r.snap.URL != nil {
				resolved = r.snap.URL.ResolveReference(u)
			}
			link.path = resolved.Path
			link.query = resolved.Query()
		}
		out = append(out, link)
	}
	return out
}

func (r *audit) isOwnHost(host string) bool {
	if sameHost(host, r.rules.SiteHost) {
		return true
	}
	return r.snap.URL != nil && sameHost(host, r.snap.URL.Host)
}

func (r *audit) checkLinks() {
	for _, link := range r.classifyLinks() {
		switch link.kind {
		case linkInternal:
			r.metrics.InternalLinks++
		case linkExternal:
			r.metrics.ExternalLinks++
			if !strings.EqualFold(link.Target, "_blank") && !hasSafeRel(link.Rel) {
				r.issue(models.IssueInfo, "Links", "External link opens in the same tab without rel attributes",
					link.Href, `Add target="_blank" with rel="noopener noreferrer" to external links`)
			}
		}
	}

	if r.metrics.InternalLinks < minInternalLinks {
		r.recommend(models.PriorityMedium, "Links", "Add more internal links",
			fmt.Sprintf("Only %d internal links were found", r.metrics.InternalLinks),
			"Link to related pages such as projects, articles and the about page")
	}
}

func hasSafeRel(rel string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == "noopener" || token == "noreferrer" {
			return true
		}
	}
	return false
}

func (r *audit) checkSocialTags() {
	for _, tag := range r.rules.SocialTags {
		if _, ok := r.snap.MetaContent(tag); ok {
			r.metrics.SocialTags++
		}
	}

	if r.metrics.SocialTags < minSocialTags {
		r.issue(models.IssueWarning, "Social Media", fmt.Sprintf("Only %d of %d social media tags present", r.metrics.SocialTags, len(r.rules.SocialTags)),
			"meta[property^=\"og:\"], meta[name^=\"twitter:\"]",
			"Add Open Graph and Twitter Card tags so shared links render a rich preview")
	}
	if _, ok := r.snap.MetaContent("og:image"); !ok {
		r.issue(models.IssueWarning, "Social Media", "Open Graph image is missing", `meta[property="og:image"]`,
			"Add an og:image of at least 1200x630 pixels")
	}
}

func (r *audit) checkStructuredData() {
	r.metrics.StructuredData = len(r.snap.StructuredData) > 0
	if !r.metrics.StructuredData {
		r.recommend(models.PriorityMedium, "Structured Data", "Add structured data",
			"No JSON-LD structured data was found on the page",
			`Add a <script type="application/ld+json"> block describing the page (Person, WebSite or BlogPosting)`)
		return
	}

	for i, raw := range r.snap.StructuredData {
		element := fmt.Sprintf(`script[type="application/ld+json"]:nth-of-type(%d)`, i+1)
		nodes, err := decodeJSONLD(raw)
		if err != nil {
			r.issue(models.IssueWarning, "Structured Data", "Structured data is not valid JSON", element,
				"Fix the JSON syntax of the structured data block")
			continue
		}
		for _, node := range nodes {
			if err := r.schema.Validate(node); err != nil {
				r.issue(models.IssueWarning, "Structured Data", "Structured data is missing @context or @type", element,
					`Include "@context": "https://schema.org" and an "@type" in every structured data object`)
				break
			}
		}
	}
}

func (r *audit) checkTechnical() {
	r.metrics.CanonicalURL = r.snap.HasLinkRel("canonical")
	_, r.metrics.MetaViewport = r.snap.MetaContent("viewport")

	if !r.metrics.CanonicalURL {
		r.recommend(models.PriorityLow, "Technical SEO", "Add a canonical URL",
			"No canonical link was found", `Add <link rel="canonical" href="..."> pointing at the preferred URL`)
	}
	if !r.metrics.MetaViewport {
		r.issue(models.IssueCritical, "Technical SEO", "Viewport meta tag is missing", `meta[name="viewport"]`,
			`Add <meta name="viewport" content="width=device-width, initial-scale=1">`)
	}
	if _, ok := r.snap.MetaContent("robots"); !ok {
		r.recommend(models.PriorityLow, "Technical SEO", "Add a robots meta tag",
			"No robots meta tag was found", `Add <meta name="robots" content="index, follow">`)
	}
	if u := r.snap.URL; u != nil && u.Scheme != "https" && !isLocalHost(u.Hostname()) {
		r.issue(models.IssueCritical, "Technical SEO", "Page is not served over HTTPS", u.String(),
			"Serve the site over HTTPS and redirect HTTP traffic")
	}
}

func isLocalHost(host string) bool {
	switch strings.ToLower(host) {
	case "localhost", "127.0.0.1", "::1", "":
		return true
	}
	return false
}

func (r *audit) checkMobile() {
	if _, ok := r.snap.MetaContent("viewport"); !ok {
		r.issue(models.IssueCritical, "Mobile", "Page is not mobile friendly: viewport meta tag is missing",
			`meta[name="viewport"]`, "Add a responsive viewport meta tag")
	}

	small := 0
	for _, t := range r.snap.TapTargets {
		if t.Width == 0 && t.Height == 0 {
			continue
		}
		if t.Width < minTapTargetSize || t.Height < minTapTargetSize {
			small++
		}
	}
	if small > 0 {
		r.recommend(models.PriorityMedium, "Mobile", "Enlarge touch targets",
			fmt.Sprintf("%d buttons or links are smaller than 44x44 pixels", small),
			"Give interactive elements at least 44x44 pixels of tappable area with padding or min-height")
	}
}

func (r *audit) checkPerformance() {
	if !r.snap.HasLinkRel("preload", "prefetch", "modulepreload") {
		r.recommend(models.PriorityLow, "Performance", "Add resource hints",
			"No preload or prefetch hints were found",
			`Preload critical fonts and hero images with <link rel="preload">`)
	}

	oversized := 0
	for _, img := range r.snap.Images {
		if img.NaturalWidth > maxImageWidth || img.NaturalHeight > maxImageHeight {
			oversized++
		}
	}
	if oversized > 0 {
		r.recommend(models.PriorityMedium, "Performance", "Resize large images",
			fmt.Sprintf("%d images are larger than 1920x1080", oversized),
			"Serve resized images with srcset and a modern format such as WebP or AVIF")
	}

	if r.snap.Stylesheets > maxStylesheets {
		r.recommend(models.PriorityLow, "Performance", "Reduce stylesheet count",
			fmt.Sprintf("%d stylesheets are loaded", r.snap.Stylesheets),
			"Bundle stylesheets and inline critical CSS")
	}
	if r.snap.ExternalScripts > maxExternalScripts {
		r.recommend(models.PriorityLow, "Performance", "Reduce external scripts",
			fmt.Sprintf("%d external scripts are loaded", r.snap.ExternalScripts),
			"Bundle scripts and defer the ones not needed for first render")
	}
}

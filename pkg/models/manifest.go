package models

import (
	"fmt"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
)

// Manifest lists the markdown sources that make up the blog and the slug
// each one is published under. Slugs are assigned here, never derived from
// frontmatter or file names.
type Manifest struct {
	Articles []ManifestEntry `yaml:"articles" json:"articles"`
}

// ManifestEntry maps one source file to its slug.
type ManifestEntry struct {
	Source string `yaml:"source" json:"source"`
	Slug   string `yaml:"slug" json:"slug"`
}

// Validate checks a single entry.
func (e ManifestEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Source, validation.Required, validation.By(func(value any) error {
			source, _ := value.(string)
			if path.Ext(source) != ".md" {
				return validation.NewError("manifest.source_extension", "source must be a .md file")
			}
			if strings.Contains(source, "..") {
				return validation.NewError("manifest.source_path", "source must stay inside the content root")
			}
			return nil
		})),
		validation.Field(&e.Slug, validation.Required, validation.By(func(value any) error {
			s, _ := value.(string)
			if !slug.IsValid(s) {
				return validation.NewError("manifest.slug_invalid", "slug is not url safe")
			}
			return nil
		})),
	)
}

// Validate checks every entry and rejects duplicate slugs.
func (m Manifest) Validate() error {
	seen := make(map[string]int, len(m.Articles))
	for i, entry := range m.Articles {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("manifest entry %d (%s): %w", i, entry.Source, err)
		}
		if prev, ok := seen[entry.Slug]; ok {
			return fmt.Errorf("manifest entry %d: slug %q already used by entry %d", i, entry.Slug, prev)
		}
		seen[entry.Slug] = i
	}
	return nil
}

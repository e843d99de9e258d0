package convert

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"rtc/config"
)

// OutputName derives the fragment file name from the source document name:
// slugged base name, html extension. Unlike heading slugs this is pure
// cosmetics, so the transliterating slugger is fine here.
func OutputName(src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	base = slug.Make(base)
	if base == "" {
		base = "document"
	}
	return config.CleanFileName(base) + ".html"
}

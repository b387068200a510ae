package html2book

import (
	"fmt"
	"strings"

	"github.com/alnah/go-html2book/internal/assets"
)

// buildEPUBCSS returns the package stylesheet: an @font-face for the
// packaged font followed by the template store's base rules. The base rules
// hide chrome such as .alert and .menu-toggle; the elements stay in the markup.
func buildEPUBCSS(loader assets.AssetLoader, family, fontPath string) (string, error) {
	base, err := loader.LoadStyle(assets.StyleEPUB)
	if err != nil {
		return "", &AssetError{Kind: "stylesheet", Path: assets.StyleEPUB, Err: err}
	}

	var sb strings.Builder
	if family != "" && fontPath != "" {
		fmt.Fprintf(&sb, "@font-face {\n  font-family: \"%s\";\n  font-style: normal;\n  font-weight: normal;\n  src: url(%s);\n}\n\n",
			cssString(family), cssURL(fontPath))
	}
	sb.WriteString(strings.TrimSpace(base))
	sb.WriteString("\n")
	return sb.String(), nil
}

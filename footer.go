package html2book

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/alnah/go-html2book/internal/assets"
)

// footerData fills the template store's footer fragment.
type footerData struct {
	Family  string
	Sources string // CSS src descriptor list
}

// renderFooter renders the footer fragment with the font fallback chain:
// each local name, then the remote URL.
func renderFooter(loader assets.AssetLoader, font FontAsset) (string, error) {
	src, err := loader.LoadTemplate(assets.TemplateFooter)
	if err != nil {
		return "", &AssetError{Kind: "footer template", Path: assets.TemplateFooter, Err: err}
	}

	tmpl, err := template.New(assets.TemplateFooter).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", &AssetError{Kind: "footer template", Path: assets.TemplateFooter, Err: err}
	}

	var buf bytes.Buffer
	data := footerData{Family: cssString(font.Family), Sources: fontSources(font)}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &AssetError{Kind: "footer template", Path: assets.TemplateFooter, Err: err}
	}
	return strings.TrimSpace(buf.String()), nil
}

// fontSources builds `local("A"), local("B"), url(U) format("woff2")`.
func fontSources(font FontAsset) string {
	var parts []string
	for _, name := range font.LocalNames {
		parts = append(parts, fmt.Sprintf(`local("%s")`, cssString(name)))
	}
	if font.URL != "" {
		u := fmt.Sprintf("url(%s)", cssURL(font.URL))
		if f := fontFormat(font.URL); f != "" {
			u += fmt.Sprintf(` format("%s")`, f)
		}
		parts = append(parts, u)
	}
	if len(parts) == 0 {
		// Keeps the @font-face valid; the declared serif fallback applies.
		parts = append(parts, fmt.Sprintf(`local("%s")`, cssString(font.Family)))
	}
	return strings.Join(parts, ", ")
}

func fontFormat(u string) string {
	switch strings.ToLower(path.Ext(u)) {
	case ".woff2":
		return "woff2"
	case ".woff":
		return "woff"
	case ".ttf":
		return "truetype"
	case ".otf":
		return "opentype"
	}
	return ""
}

// cssString escapes s for a double-quoted CSS string inside an HTML fragment.
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "<", `\3c `, ">", `\3e `, "\n", " ")
	return r.Replace(s)
}

// cssURL escapes the characters that would end an unquoted url().
func cssURL(s string) string {
	r := strings.NewReplacer(`(`, `\(`, `)`, `\)`, `"`, `\"`, `'`, `\'`, " ", `\ `, "<", "%3C", ">", "%3E")
	return r.Replace(s)
}

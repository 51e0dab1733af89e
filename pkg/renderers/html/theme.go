package html

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the manifest asset key the page links as its stylesheet.
const StylesheetAsset = "formsession.stylesheet"

type themeContext struct {
	Name       string
	Variant    string
	CSSVars    string
	Stylesheet string
}

// resolveTheme flattens a manifest and variant into what the page template
// needs. Variant tokens and assets override the base manifest.
func resolveTheme(manifest *theme.Manifest, variant string) (themeContext, error) {
	if manifest == nil {
		return themeContext{}, nil
	}

	tokens := copyStringMap(manifest.Tokens)
	files := copyStringMap(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	variant = strings.TrimSpace(variant)
	if variant != "" {
		overlay, ok := manifest.Variants[variant]
		if !ok {
			return themeContext{}, fmt.Errorf("html renderer: theme %q has no variant %q", manifest.Name, variant)
		}
		for key, value := range overlay.Tokens {
			tokens[key] = value
		}
		for key, value := range overlay.Assets.Files {
			files[key] = value
		}
		if overlay.Assets.Prefix != "" {
			prefix = overlay.Assets.Prefix
		}
	}

	ctx := themeContext{
		Name:    manifest.Name,
		Variant: variant,
		CSSVars: cssVarsStyle(cssVars(tokens)),
	}
	if file := strings.TrimSpace(files[StylesheetAsset]); file != "" {
		ctx.Stylesheet = assetURL(prefix, file)
	}
	return ctx, nil
}

func cssVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		out[name] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func assetURL(prefix, file string) string {
	if strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return file
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return file
	}
	return prefix + "/" + file
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

// DefaultTheme returns the built-in manifest with a light base palette and a
// "dark" variant.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    "formsession",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-background": "#ffffff",
			"color-text":       "#1f2933",
			"color-primary":    "#2563eb",
			"color-error":      "#b91c1c",
			"color-border":     "#d1d5db",
			"radius":           "4px",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-background": "#111827",
					"color-text":       "#f9fafb",
					"color-border":     "#374151",
				},
			},
		},
	}
}

package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

func parseStyle(raw string) ([]*css.Declaration, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return nil, err
	}
	for _, decl := range decls {
		decl.Property = strings.ToLower(strings.TrimSpace(decl.Property))
	}
	return decls, nil
}

func setDeclaration(decls []*css.Declaration, property, value string) []*css.Declaration {
	out := make([]*css.Declaration, 0, len(decls)+1)
	replaced := false
	for _, decl := range decls {
		if decl.Property != property {
			out = append(out, decl)
			continue
		}
		if value == "" || replaced {
			continue
		}
		out = append(out, &css.Declaration{Property: property, Value: value})
		replaced = true
	}
	if value != "" && !replaced {
		out = append(out, &css.Declaration{Property: property, Value: value})
	}
	return out
}

func formatStyle(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		part := decl.Property + ": " + decl.Value
		if decl.Important {
			part += " !important"
		}
		parts = append(parts, part+";")
	}
	return strings.Join(parts, " ")
}

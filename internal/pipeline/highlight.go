package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// classTokenTypes maps chroma CSS classes back to their token types.
var classTokenTypes = func() map[string]chroma.TokenType {
	m := make(map[string]chroma.TokenType, len(chroma.StandardTypes))
	for tt, class := range chroma.StandardTypes {
		if class != "" {
			m[class] = tt
		}
	}
	return m
}()

// Palette categories for specific token types, checked first.
var exactCategories = map[chroma.TokenType]string{
	chroma.KeywordType:          "type",
	chroma.KeywordConstant:      "literal",
	chroma.NameBuiltin:          "built_in",
	chroma.NameBuiltinPseudo:    "built_in",
	chroma.NameFunction:         "function",
	chroma.NameFunctionMagic:    "function",
	chroma.NameClass:            "title",
	chroma.NameNamespace:        "title",
	chroma.NameTag:              "name",
	chroma.NameAttribute:        "attr",
	chroma.NameConstant:         "literal",
	chroma.NameVariable:         "variable",
	chroma.NameVariableClass:    "variable",
	chroma.NameVariableGlobal:   "variable",
	chroma.NameVariableInstance: "variable",
	chroma.NameVariableMagic:    "template-variable",
	chroma.GenericHeading:       "section",
	chroma.GenericSubheading:    "section",
	chroma.GenericEmph:          "quote",
	chroma.LiteralStringDoc:     "comment",
}

// Palette categories for whole sub-categories and categories.
var groupCategories = map[chroma.TokenType]string{
	chroma.LiteralString: "string",
	chroma.LiteralNumber: "number",
	chroma.Comment:       "comment",
	chroma.Keyword:       "keyword",
	chroma.Literal:       "literal",
}

// tokenCategory resolves a span's class attribute to a palette category.
func tokenCategory(class string) (string, bool) {
	for _, c := range strings.Fields(class) {
		tt, ok := classTokenTypes[c]
		if !ok {
			continue
		}
		if cat, ok := exactCategories[tt]; ok {
			return cat, true
		}
		if cat, ok := groupCategories[tt.SubCategory()]; ok {
			return cat, true
		}
		if cat, ok := groupCategories[tt.Category()]; ok {
			return cat, true
		}
	}
	return "", false
}

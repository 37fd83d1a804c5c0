package model

import "github.com/gobuffalo/flect"

// NameVariants carries the derived naming forms of a table name for
// downstream emission.
type NameVariants struct {
	Singular       string `json:"singular"`
	Plural         string `json:"plural"`
	CamelSingular  string `json:"camel_singular"`
	CamelPlural    string `json:"camel_plural"`
	PascalSingular string `json:"pascal_singular"`
	PascalPlural   string `json:"pascal_plural"`
}

func deriveNames(name string) NameVariants {
	singular := flect.Singularize(name)
	plural := flect.Pluralize(name)

	return NameVariants{
		Singular:       singular,
		Plural:         plural,
		CamelSingular:  flect.Camelize(singular),
		CamelPlural:    flect.Camelize(plural),
		PascalSingular: flect.Pascalize(singular),
		PascalPlural:   flect.Pascalize(plural),
	}
}

package domain

// Brand is one entry of the pricing catalog's top level.
type Brand struct {
	Code string
	Name string
}

// Model belongs to a Brand.
type Model struct {
	Code string
	Name string
}

// YearVariant belongs to a Model. Label encodes a 4-digit year plus a
// fuel/trim suffix, e.g. "2014 Gasolina".
type YearVariant struct {
	Code  string
	Label string
}

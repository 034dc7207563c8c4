package domain

// RawAd is one classifieds listing as produced by an ad source.
// URL is the identity of an ad; sources must not emit two ads with the
// same URL in one batch.
type RawAd struct {
	Title     string
	PriceText string
	Price     *int // asking price in whole reais; nil when missing/unparseable
	BrandText string
	ModelText string
	YearText  string
	Mileage   string
	Location  string
	URL       string
}

// EstimatedAd is a RawAd with its resolved reference value attached.
type EstimatedAd struct {
	RawAd
	ReferencePrice *int // nil when no estimate could be made
}

// RankedAd is an EstimatedAd scored against the search targets.
// Margin is ReferencePrice − Price and stays nil when either side is
// missing; the distances are always set (sentinel for missing margin so
// those ads sort last).
type RankedAd struct {
	EstimatedAd
	Margin         *int
	PriceDistance  int
	MarginDistance int
}

package core

// Field is the value/status/hint triple attached to every SEO route field.
type Field struct {
	Value  string     `json:"value"`
	Status FieldState `json:"status"`
	Hint   string     `json:"hint,omitempty"`
}

// OK builds a field with FieldOK status.
func OK(value string) Field {
	return Field{Value: value, Status: FieldOK}
}

// Warn builds a field with FieldWarn status and a hint.
func Warn(value, hint string) Field {
	return Field{Value: value, Status: FieldWarn, Hint: hint}
}

// Missing builds an empty field with FieldMissing status and a hint.
func Missing(hint string) Field {
	return Field{Status: FieldMissing, Hint: hint}
}

// Route is the SEO metadata of a single site route.
type Route struct {
	Path          string   `json:"path"`
	Plane         SEOPlane `json:"plane"`
	Title         Field    `json:"title"`
	Description   Field    `json:"description"`
	Canonical     Field    `json:"canonical"`
	OGTitle       Field    `json:"og_title"`
	OGDescription Field    `json:"og_description"`
	OGImage       Field    `json:"og_image"`
	TwitterCard   Field    `json:"twitter_card"`
	Indexable     Field    `json:"indexable"`
	InSitemap     Field    `json:"in_sitemap"`
}

// IsIndexable reports whether the route allows indexing.
func (r *Route) IsIndexable() bool {
	return r.Indexable.Value != "noindex"
}

// Fields returns the route's fields keyed by name. Callers that display them
// pick their own order.
func (r *Route) Fields() map[string]Field {
	return map[string]Field{
		"title":          r.Title,
		"description":    r.Description,
		"canonical":      r.Canonical,
		"og_title":       r.OGTitle,
		"og_description": r.OGDescription,
		"og_image":       r.OGImage,
		"twitter_card":   r.TwitterCard,
		"indexable":      r.Indexable,
		"in_sitemap":     r.InSitemap,
	}
}

// GateResult is the outcome of one SEO gate.
type GateResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Plane       SEOPlane `json:"plane"`
	Description string   `json:"description"`
	Verdict     Verdict  `json:"verdict"`
	Details     []string `json:"details,omitempty"`
}

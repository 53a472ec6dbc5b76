package model

// WebsiteType classifies the kind of site a page belongs to, used by the
// website-type rule engine to pick structural expectations.
type WebsiteType string

const (
	SiteTypeEcommerce     WebsiteType = "ecommerce"
	SiteTypeSaaS          WebsiteType = "saas"
	SiteTypeB2B           WebsiteType = "b2b"
	SiteTypeBlog          WebsiteType = "blog"
	SiteTypeLocalBusiness WebsiteType = "local_business"
)

// FetchMetrics carries transport-level measurements from the fetching
// collaborator, consumed by the cost-of-retrieval auditor.
type FetchMetrics struct {
	TTFBMillis      int    `json:"ttfb_ms"`                    // Time to first byte
	ContentEncoding string `json:"content_encoding,omitempty"` // e.g. "gzip", "br"
}

// EntityMention is a precomputed occurrence of the central entity.
type EntityMention struct {
	Offset int  `json:"offset"` // Byte offset into the main content
	InH1   bool `json:"in_h1"`  // Whether the mention sits inside the H1
}

// StructuralInfo is optional precomputed structural analysis of a page.
// When present, validators that have a richer structural check substitute
// it for their text-based fallback.
type StructuralInfo struct {
	EntityMentions   []EntityMention `json:"entity_mentions,omitempty"`
	MainContentBytes int             `json:"main_content_bytes,omitempty"`
	TotalNodes       int             `json:"total_nodes,omitempty"`
	ContentNodes     int             `json:"content_nodes,omitempty"`
}

// AuditInput is everything a single audit run may consume. Validators read
// only the fields they need and never mutate any of them.
type AuditInput struct {
	Text string `json:"text,omitempty"` // Plain text of the content
	HTML string `json:"html,omitempty"` // Raw markup, when available

	Language      string      `json:"language,omitempty"`       // BCP-47-ish code, e.g. "en", "de"
	CentralEntity string      `json:"central_entity,omitempty"` // Primary subject of the page
	Attributes    []string    `json:"attributes,omitempty"`     // Expected topical attributes
	Predicates    []string    `json:"predicates,omitempty"`     // Expected topical relations
	WebsiteType   WebsiteType `json:"website_type,omitempty"`

	Metrics    *FetchMetrics   `json:"metrics,omitempty"`
	Structural *StructuralInfo `json:"structural,omitempty"`
}

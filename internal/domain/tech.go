package domain

// TechMatch is one technology record hit returned by the search engine.
// Fields is the full original CSV row; anything beyond the name column is
// optional and source-dependent.
type TechMatch struct {
	Id     string            `json:"id"` // source tag + ordinal, e.g. "tech1:42"
	Name   string            `json:"name"`
	Source string            `json:"source"`
	Fields map[string]string `json:"fields"`
}

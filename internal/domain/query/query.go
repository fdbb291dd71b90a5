package query

import "fmt"

// MaxTextLength is the maximum allowed query text length.
const MaxTextLength = 4096

// Query is a parsed user need: free text plus optional categorical filters,
// with the embedding computed once per request by the embedding provider.
type Query struct {
	rawText       string
	requestedType string
	modules       []string
	envTags       []string
	vector        []float32
}

// New validates and creates a query.
func New(
	rawText, requestedType string,
	modules, envTags []string,
	vector []float32,
) (Query, error) {
	if rawText == "" {
		return Query{}, fmt.Errorf("query text is required")
	}
	if len(rawText) > MaxTextLength {
		return Query{}, fmt.Errorf("query text too long (max %d chars)", MaxTextLength)
	}
	return Query{
		rawText:       rawText,
		requestedType: requestedType,
		modules:       modules,
		envTags:       envTags,
		vector:        vector,
	}, nil
}

// RawText returns the free-text user need.
func (q *Query) RawText() string { return q.rawText }

// RequestedType returns the optional sensor type filter. Empty means no preference.
func (q *Query) RequestedType() string { return q.requestedType }

// Modules returns the requested application scenario tags. Empty means no preference.
func (q *Query) Modules() []string { return q.modules }

// EnvTags returns the requested operating condition tags. Empty means no preference.
func (q *Query) EnvTags() []string { return q.envTags }

// Vector returns the query embedding.
func (q *Query) Vector() []float32 { return q.vector }

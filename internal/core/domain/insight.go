// internal/core/domain/insight.go
package domain

// InsightType represents the tone of an insight
type InsightType string

// Insight type constants
const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
	InsightTip     InsightType = "tip"
)

// Insight is an ephemeral recommendation derived from the current
// inventory snapshot. Insights are recomputed on every analytics pass
// and never persisted.
type Insight struct {
	ID       string      `json:"id"`
	Type     InsightType `json:"type"`
	Icon     string      `json:"icon"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Priority int         `json:"priority"`
	Target   string      `json:"target,omitempty"`
}

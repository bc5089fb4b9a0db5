package narrative

import (
	"encoding/json"
	"strings"
	"time"
)

// Report statuses. A report produced from a valid model response carries no
// status marker; the two fallback variants each carry their own so the three
// analyzer outcomes stay distinguishable in the persisted artifact.
const (
	// StatusRawSignalsOnly marks a fallback produced without a usable model
	// response (no credential, transport failure, or timeout). The report
	// carries the digest so the signals are still readable by a human.
	StatusRawSignalsOnly = "raw_signals_only"

	// StatusUnparsed marks a fallback produced from a response that was
	// received but could not be parsed. The report carries the raw response
	// text instead of the digest so the content can be recovered.
	StatusUnparsed = "unparsed_response"
)

// Categories enumerates the narrative categories the prompt contract allows.
var Categories = []string{
	"DeFi", "Infrastructure", "Consumer", "AI", "DePIN", "Gaming", "Payments", "Social",
}

// Report is the structured output of one analysis run.
type Report struct {
	AnalysisDate     string      `json:"analysis_date"`
	Period           string      `json:"period"`
	ExecutiveSummary string      `json:"executive_summary"`
	Narratives       []Narrative `json:"narratives"`
	RawDigest        string      `json:"raw_digest,omitempty"`
	RawResponse      string      `json:"raw_response,omitempty"`
	Meta             Meta        `json:"meta"`
}

// Degraded reports whether this is a fallback variant rather than a report
// built from a valid model response.
func (r Report) Degraded() bool {
	return r.Meta.Status != ""
}

// Meta carries bookkeeping about how the report was produced.
// SignalsAnalyzed always comes from the aggregator, never from the model.
type Meta struct {
	SignalsAnalyzed int      `json:"signals_analyzed"`
	DataSources     []string `json:"data_sources,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// Narrative is one identified ecosystem trend.
type Narrative struct {
	ID             int         `json:"id"`
	Title          string      `json:"title"`
	SignalStrength int         `json:"signal_strength"`
	Category       string      `json:"category"`
	Summary        string      `json:"summary"`
	Evidence       []string    `json:"evidence"`
	SignalTypes    []string    `json:"signal_types"`
	BuildIdeas     []BuildIdea `json:"build_ideas"`
	KeyProjects    []string    `json:"key_projects"`
	RiskFactors    []string    `json:"risk_factors"`
}

// BuildIdea is a concrete product suggestion attached to a narrative.
type BuildIdea struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Complexity      string `json:"complexity"`       // low|medium|high
	PotentialImpact string `json:"potential_impact"` // low|medium|high
}

var dataSources = []string{"DeFiLlama", "GitHub", "CoinGecko", "RSS Feeds", "Solana RPC"}

// rawSignalsReport is the fallback for the no-response case. It embeds the
// digest so the collected signals remain readable without the model.
func rawSignalsReport(digest string, total int, now time.Time) Report {
	return Report{
		AnalysisDate:     now.Format(time.RFC3339),
		Period:           "Current fortnight",
		ExecutiveSummary: "Analysis pending — raw signals collected successfully.",
		Narratives:       []Narrative{},
		RawDigest:        digest,
		Meta: Meta{
			SignalsAnalyzed: total,
			DataSources:     dataSources,
			Status:          StatusRawSignalsOnly,
		},
	}
}

// unparsedReport is the fallback for a received but unusable response. It
// embeds the original response text, not the digest, so nothing the model
// said is lost.
func unparsedReport(raw string, total int, now time.Time) Report {
	return Report{
		AnalysisDate:     now.Format(time.RFC3339),
		Period:           "Current fortnight",
		ExecutiveSummary: "Analysis pending — model response could not be parsed.",
		Narratives:       []Narrative{},
		RawResponse:      raw,
		Meta: Meta{
			SignalsAnalyzed: total,
			DataSources:     dataSources,
			Status:          StatusUnparsed,
		},
	}
}

// extractBlock pulls the structured block out of a model response: a fenced
// block marked json if present, else the first fenced block, else the text
// itself.
func extractBlock(text string) string {
	if _, after, found := strings.Cut(text, "```json"); found {
		block, _, _ := strings.Cut(after, "```")
		return block
	}
	if _, after, found := strings.Cut(text, "```"); found {
		block, _, _ := strings.Cut(after, "```")
		return block
	}
	return text
}

// parseReport decodes a model response into a Report. The response is
// accepted only when its structured block is valid JSON containing a
// narratives key. Content validation stays shallow beyond that; the model
// is trusted for narrative content but never for derived counts.
func parseReport(text string) (Report, bool) {
	block := extractBlock(text)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(block), &probe); err != nil {
		return Report{}, false
	}
	if _, found := probe["narratives"]; !found {
		return Report{}, false
	}

	var report Report
	if err := json.Unmarshal([]byte(block), &report); err != nil {
		return Report{}, false
	}
	return report, true
}

package narrative

import (
	"fmt"
	"time"
)

// maxAnalysisTokens bounds the reasoning-service response. A full report
// with 8 narratives and build ideas fits comfortably.
const maxAnalysisTokens = 8000

// systemPrompt is the fixed instruction contract for the reasoning service.
// It fixes the task, the narrative count target, and the output schema.
const systemPrompt = `You are an expert Solana ecosystem analyst. You analyze raw data signals from
onchain metrics, developer activity, market data, and social/news sources to identify emerging
narratives in the Solana ecosystem.

Your job is to identify 5-8 emerging or accelerating narratives for the current fortnight.
Prioritize NOVELTY and SIGNAL QUALITY over volume. Focus on trends that are:
- Genuinely emerging (not already obvious/mainstream)
- Supported by multiple signal types (onchain + dev + social)
- Actionable for builders

For each narrative, provide:
1. A clear, concise title
2. A signal strength score (1-10)
3. A 2-3 sentence explanation of WHY this is emerging
4. The key evidence/signals that support it
5. 3-5 concrete product ideas that could be built around this narrative
6. Which signal types support it (onchain/developer/market/social)

Output valid JSON matching this schema:
{
  "analysis_date": "ISO date",
  "period": "Feb 1-14, 2026",
  "executive_summary": "2-3 sentence overview of the Solana ecosystem state",
  "narratives": [
    {
      "id": 1,
      "title": "Narrative Title",
      "signal_strength": 8,
      "category": "DeFi|Infrastructure|Consumer|AI|DePIN|Gaming|Payments|Social",
      "summary": "2-3 sentences explaining the narrative",
      "evidence": ["signal 1", "signal 2", "signal 3"],
      "signal_types": ["onchain", "developer", "market"],
      "build_ideas": [
        {
          "title": "Product Idea",
          "description": "1-2 sentence description",
          "complexity": "low|medium|high",
          "potential_impact": "low|medium|high"
        }
      ],
      "key_projects": ["project1", "project2"],
      "risk_factors": ["risk 1"]
    }
  ],
  "meta": {
    "signals_analyzed": 0,
    "data_sources": ["DeFiLlama", "GitHub", "CoinGecko", "RSS Feeds", "Solana RPC"]
  }
}`

// userMessage embeds the current date and the digest into the analysis
// request.
func userMessage(now time.Time, digest string) string {
	return fmt.Sprintf(
		"Analyze these Solana ecosystem signals from the past fortnight and identify emerging narratives. Today's date is %s.\n\n%s",
		now.Format("2006-01-02"), digest)
}

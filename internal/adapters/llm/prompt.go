package llm

import (
	"fmt"
	"strings"

	"github.com/wandererfin/wanderer/internal/domain"
)

const systemPrompt = `You are an intraday equity analyst. Given today's context
for a single stock (previous close, recent news with sentiment labels, and
recent insider transactions), decide whether the stock is more likely to beat
or trail the S&P 500 today.

Answer with a single JSON object and nothing else:
{"action": "BUY" | "HOLD", "explanation": "<one or two sentences>"}

BUY means you expect the stock to outperform the index today. HOLD means you
expect it to underperform or you see no edge. Never answer SELL.`

// buildUserPrompt renders the gathered stock context for the model.
func buildUserPrompt(input domain.StockContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ticker: %s\n", input.Ticker)
	fmt.Fprintf(&b, "Date: %s\n", input.Date.Format(domain.DateFormat))
	fmt.Fprintf(&b, "Previous close: %.2f\n", input.PreviousClose)

	if len(input.News) > 0 {
		b.WriteString("\nRecent news:\n")
		for _, n := range input.News {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", n.Sentiment, n.Title, n.Summary)
		}
	} else {
		b.WriteString("\nRecent news: none\n")
	}

	if len(input.Insiders) > 0 {
		b.WriteString("\nInsider transactions (last 30 days):\n")
		for _, tx := range input.Insiders {
			verb := "bought"
			if tx.Type == "D" {
				verb = "sold"
			}
			fmt.Fprintf(&b, "- %s %s (%s) %s %.0f shares at %.2f\n",
				tx.Date.Format(domain.DateFormat), tx.Executive, tx.Title, verb, tx.Shares, tx.SharePrice)
		}
	} else {
		b.WriteString("\nInsider transactions (last 30 days): none\n")
	}

	return b.String()
}

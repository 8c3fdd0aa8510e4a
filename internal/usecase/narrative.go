package usecase

import (
	"fmt"
	"log"
	"strings"

	"upbit-gem-screener/internal/domain"
)

// How many candidates the commentary prompt covers.
const narrativeTopN = 3

// attachCommentary asks the narrator to summarize the top candidates
// and stores the text on the report. Any failure leaves Commentary
// empty; the report is complete without it.
func (uc *ScreenerUsecase) attachCommentary(report *domain.Report) {
	if uc.narrator == nil || !uc.narrator.IsEnabled() || len(report.Candidates) == 0 {
		return
	}

	text, err := uc.narrator.Generate(buildNarrativePrompt(report))
	if err != nil {
		log.Printf("Error generating commentary: %v", err)
		return
	}
	report.Commentary = strings.TrimSpace(text)
}

func buildNarrativePrompt(report *domain.Report) string {
	var b strings.Builder

	b.WriteString("You are a cryptocurrency market analyst. The screener below ranked Upbit KRW altcoins by technical criteria.\n")
	b.WriteString("Write a short, plain-language commentary (max 3 paragraphs) on the top candidates: what the indicators suggest and what risks stand out.\n")
	b.WriteString("Do not give financial advice or price targets.\n\n")

	n := len(report.Candidates)
	if n > narrativeTopN {
		n = narrativeTopN
	}
	for i := 0; i < n; i++ {
		c := report.Candidates[i]
		fmt.Fprintf(&b, "%d. %s (%s) score=%.1f tier=%s\n", i+1, c.Name, c.Symbol, c.Score, c.Tier)
		fmt.Fprintf(&b, "   price=%.2f KRW, avg daily volume=%.0f KRW, decline from high=%.1f%%\n",
			c.CurrentPrice, c.VolumeKRW, c.ATHDecline)
		fmt.Fprintf(&b, "   volatility=%.1f%%, CCI=%.1f, RSI=%.1f, volume growth=%.1f%%\n",
			c.Volatility, c.CCI, c.RSI, c.VolumeGrowth)
	}

	return b.String()
}

package usecase

import (
	"fmt"
	"log"
	"strings"
	"time"

	"upbit-gem-screener/internal/domain"
)

// notifyTopCandidates pushes FCM alerts for candidates in the top two
// tiers, with a per-symbol cooldown so repeated cycles do not spam
// devices.
func (uc *ScreenerUsecase) notifyTopCandidates(candidates []domain.Candidate) {
	if uc.fcmClient == nil || !uc.fcmClient.IsEnabled() || uc.tokenRepo == nil {
		return
	}

	tokens := uc.tokenRepo.Tokens()
	if len(tokens) == 0 {
		return
	}

	now := time.Now()

	for _, candidate := range candidates {
		if candidate.Tier != domain.TierHighlyRecommended && candidate.Tier != domain.TierRecommended {
			continue
		}

		uc.mu.Lock()
		lastNotified, seen := uc.notified[candidate.Symbol]
		uc.mu.Unlock()
		if seen && now.Sub(lastNotified) < uc.notifyCooldown {
			continue
		}

		display := strings.TrimPrefix(candidate.Symbol, "KRW-")
		var title string
		if candidate.Tier == domain.TierHighlyRecommended {
			title = fmt.Sprintf("%s — highly recommended gem", display)
		} else {
			title = fmt.Sprintf("%s — recommended gem", display)
		}

		body := fmt.Sprintf("Score: %.0f | Price: %.2f KRW | %s",
			candidate.Score, candidate.CurrentPrice, candidate.Reason)

		data := map[string]string{
			"symbol": candidate.Symbol,
			"score":  fmt.Sprintf("%.2f", candidate.Score),
			"price":  fmt.Sprintf("%.2f", candidate.CurrentPrice),
			"tier":   candidate.Tier,
		}

		if err := uc.fcmClient.SendMulticast(tokens, title, body, data); err != nil {
			log.Printf("Error sending notification for %s: %v", candidate.Symbol, err)
			continue
		}

		log.Printf("Sent notification for %s to %d devices", candidate.Symbol, len(tokens))
		uc.mu.Lock()
		uc.notified[candidate.Symbol] = now
		uc.mu.Unlock()
	}

	// Drop stale cooldown entries.
	uc.mu.Lock()
	for symbol, ts := range uc.notified {
		if now.Sub(ts) > uc.notifyCooldown*2 {
			delete(uc.notified, symbol)
		}
	}
	uc.mu.Unlock()
}

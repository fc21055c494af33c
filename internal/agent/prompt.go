package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
)

// BuildSystemPrompt composes the system message for a reply: the
// assistant's capabilities plus a context section weighted toward the
// conversation's mode.
func BuildSystemPrompt(mode domain.ChatMode, modeContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are Sona, a cryptocurrency portfolio assistant.
Current date: %s

You have the following capabilities:
1. Check wallet balances for SOL, USDC, and SONIC tokens
2. Set price alerts for tokens
3. Recommend staking pools
4. Swap tokens
5. Lend and borrow tokens
6. Explain cryptocurrency concepts

When asked about balances or portfolio information, use the most recent data.
When explaining concepts, be clear, concise, and accurate.
When making recommendations, explain your reasoning.

Focus on Solana (SOL), USDC, and Sonic ($SONIC) tokens.

$SONIC is the native token of Sonic SVM, a Solana Layer 2 designed for gaming
and applications.
`, time.Now().Format("January 2, 2006"))

	if modeContext != "" {
		fmt.Fprintf(&b, "\nConversation mode: %s\n%s\n", mode, modeContext)
	}
	return b.String()
}

// balance-intent keywords from the chat surface; any hit triggers a
// balance refresh before composing the reply.
var refreshKeywords = []string{
	"balance", "portfolio", "wallet", "tokens", "holdings", "sonic", "sol", "usdc",
}

// subset of the above for which the reply gets the raw balance summary
// appended after the model's text.
var summaryKeywords = []string{
	"balance", "portfolio", "wallet", "holdings",
}

func matchesAny(utterance string, keywords []string) bool {
	lower := strings.ToLower(utterance)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

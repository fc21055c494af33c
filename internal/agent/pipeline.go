package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ENuel20/sona-crypto-chat/internal/domain"
	"github.com/ENuel20/sona-crypto-chat/internal/llm"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
	historyWindow      = 20
)

// Pipeline turns a user utterance into an assistant reply. It is bound
// to one wallet and holds that wallet's peer subsystem handles; the
// conversation manager treats it as an opaque responder.
type Pipeline struct {
	router   *llm.Router
	peers    Peers
	wallet   string
	provider string
	model    string
}

// NewPipeline creates a pipeline for one wallet. Empty provider/model
// select the router's default provider and that provider's default
// model.
func NewPipeline(router *llm.Router, peers Peers, wallet, provider, model string) *Pipeline {
	return &Pipeline{
		router:   router,
		peers:    peers,
		wallet:   wallet,
		provider: provider,
		model:    model,
	}
}

// Respond composes a reply for the utterance. conv is the conversation
// after the user message was appended; its tail is the utterance itself.
// Balance-related utterances refresh the balance snapshot first, and get
// the raw balance summary appended to the model's reply.
func (p *Pipeline) Respond(ctx context.Context, utterance string, conv domain.Conversation) (string, error) {
	if matchesAny(utterance, refreshKeywords) {
		if err := p.peers.Balances.Refresh(ctx, p.wallet); err != nil {
			return "", fmt.Errorf("failed to refresh balances: %w", err)
		}
	}

	provider, err := p.router.GetProvider(p.provider)
	if err != nil {
		return "", fmt.Errorf("failed to get LLM provider: %w", err)
	}

	system := BuildSystemPrompt(conv.Mode, p.modeContext(ctx, conv.Mode))

	messages := conv.Messages
	if len(messages) > historyWindow {
		messages = messages[len(messages)-historyWindow:]
	}
	history := make([]llm.Turn, 0, len(messages))
	for _, msg := range messages {
		history = append(history, llm.Turn{Role: string(msg.Role), Content: msg.Content})
	}

	resp, err := provider.Complete(ctx, llm.Request{
		System:      system,
		History:     history,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}, p.model)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	text := resp.Text
	if matchesAny(utterance, summaryKeywords) {
		text = text + "\n\n" + p.peers.Balances.SummaryText(p.wallet)
	}
	return text, nil
}

// modeContext summarizes the peer subsystem the conversation's mode
// weights most heavily, giving the model current numbers to ground its
// reply in.
func (p *Pipeline) modeContext(ctx context.Context, mode domain.ChatMode) string {
	switch mode {
	case domain.ModeStaking:
		return fmt.Sprintf("The user currently has $%.2f staked with $%.2f in accumulated rewards.",
			p.peers.Staking.TotalStakedValue(ctx, p.wallet),
			p.peers.Staking.TotalRewards(ctx, p.wallet))
	case domain.ModeLending:
		return fmt.Sprintf("The user currently supplies $%.2f and borrows $%.2f across lending markets.",
			p.peers.Lending.TotalSupplied(ctx, p.wallet),
			p.peers.Lending.TotalBorrowed(ctx, p.wallet))
	case domain.ModeTrading:
		history := p.peers.Swap.History(ctx, p.wallet)
		if len(history) == 0 {
			return "The user has no recorded swaps yet."
		}
		last := history[0]
		return fmt.Sprintf("The user has %d recorded swaps; most recently %g %s to %g %s.",
			len(history), last.InputAmount, last.InputToken, last.OutputAmount, last.OutputToken)
	case domain.ModeMarket:
		var lines []string
		for _, symbol := range []string{"SOL", "USDC", "SONIC"} {
			if snap, ok := p.peers.Balances.Lookup(p.wallet, symbol); ok {
				lines = append(lines, fmt.Sprintf("%s: $%.2f (%+.2f%% 24h)", snap.Symbol, snap.Price, snap.Change24h))
			}
		}
		alerts := p.peers.Alerts.Active(ctx, p.wallet)
		if len(alerts) > 0 {
			lines = append(lines, fmt.Sprintf("The user has %d active price alerts.", len(alerts)))
		}
		if len(lines) == 0 {
			return ""
		}
		return "Current market snapshot:\n" + strings.Join(lines, "\n")
	default:
		return ""
	}
}

package assistant

import (
	"fmt"
	"strings"

	"github.com/goncalo-araujo/babyshower/internal/util"
)

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const responderSystem = `You are the friendly assistant of a baby shower gift registry.
Guests chat with you to pick a gift and pledge money toward it, or to cancel a pledge they made earlier.
Payment is settled later by bank transfer; you only help record the pledge.

Talk naturally and keep answers short. Your goal is to collect, over the conversation:
- for a contribution: which gift, the guest's display name, and the amount;
- for a cancellation: which of the guest's own pledges to cancel.
A personal message to the parents is optional.

Never claim a pledge or cancellation has been made. The guest always confirms it
separately in the interface. Only discuss the gifts listed below; politely decline
anything else.`

const extractorSystem = `You read a conversation between a gift-registry assistant and a guest
and decide whether the guest has fully specified an action.

Respond with exactly one JSON object and nothing else:
- {"action":"contribute","item_id":<id>,"name":"<guest name>","amount":<euros>,"message":"<optional>"}
  only when gift, name and amount are all explicit in the conversation.
- {"action":"cancel","contribution_id":<id>}
  only when the guest clearly asked to cancel one of their own listed pledges.
- {"action":"none"} in every other case.

Use only ids from the lists given. Never invent values.`

func formatEuro(cents int64) string {
	return fmt.Sprintf("%.2f", util.CentToEuro(cents))
}

func buildRegistryContext(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("Gifts in the registry today:\n")
	for _, it := range snap.Items {
		if it.IsGeneric {
			fmt.Fprintf(&b, "- id=%d %q: general donation fund, %s EUR raised. %s\n",
				it.ID, it.Title, formatEuro(it.PriceRaised), it.Description)
			continue
		}
		status := "open"
		if it.IsFunded {
			status = "fully funded, no further pledges possible"
		}
		fmt.Fprintf(&b, "- id=%d %q: price %s EUR, raised %s EUR, %s. %s\n",
			it.ID, it.Title, formatEuro(it.PriceTotal), formatEuro(it.PriceRaised), status, it.Description)
	}

	if len(snap.Mine) == 0 {
		b.WriteString("\nThis guest has no pledges yet.\n")
		return b.String()
	}
	b.WriteString("\nThis guest's own pledges:\n")
	for _, c := range snap.Mine {
		fmt.Fprintf(&b, "- pledge id=%d: %s EUR toward %q as %q\n",
			c.ID, formatEuro(c.Amount), c.ItemTitle, c.Name)
	}
	return b.String()
}

func buildTranscript(history []Turn, message, reply string) string {
	var b strings.Builder
	for _, t := range history {
		role := "Guest"
		if t.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, t.Content)
	}
	fmt.Fprintf(&b, "Guest: %s\n", message)
	if reply != "" {
		fmt.Fprintf(&b, "Assistant: %s\n", reply)
	}
	return b.String()
}

func buildResponderPrompt(snap Snapshot, history []Turn, message string) string {
	var b strings.Builder
	b.WriteString(buildRegistryContext(snap))
	b.WriteString("\nConversation so far:\n")
	b.WriteString(buildTranscript(history, message, ""))
	b.WriteString("\nReply to the guest's last message.")
	return b.String()
}

func buildExtractorPrompt(snap Snapshot, history []Turn, message, reply string) string {
	var b strings.Builder

	ids := make([]string, 0, len(snap.Items))
	for _, it := range snap.Items {
		ids = append(ids, fmt.Sprintf("%d", it.ID))
	}
	fmt.Fprintf(&b, "Valid gift ids: [%s]\n", strings.Join(ids, ", "))

	mine := make([]string, 0, len(snap.Mine))
	for _, c := range snap.Mine {
		mine = append(mine, fmt.Sprintf("%d", c.ID))
	}
	fmt.Fprintf(&b, "Guest's pledge ids: [%s]\n", strings.Join(mine, ", "))

	b.WriteString("\nConversation:\n")
	b.WriteString(buildTranscript(history, message, reply))
	b.WriteString("\nJSON:")
	return b.String()
}

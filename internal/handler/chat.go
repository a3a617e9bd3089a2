package handler

import (
	"errors"
	"net/http"

	"github.com/goncalo-araujo/babyshower/internal/assistant"
	"github.com/goncalo-araujo/babyshower/internal/guard"
	"github.com/goncalo-araujo/babyshower/internal/ledger"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"github.com/gin-gonic/gin"
)

// ChatHandler runs one assistant turn per request. The pipeline only ever
// proposes actions; confirming them goes through the regular contribution
// endpoints.
type ChatHandler struct {
	Ledger   *ledger.Ledger
	Pipeline *assistant.Pipeline
	Guard    *guard.Guard
}

func NewChatHandler(l *ledger.Ledger, p *assistant.Pipeline, g *guard.Guard) *ChatHandler {
	return &ChatHandler{Ledger: l, Pipeline: p, Guard: g}
}

type chatReq struct {
	Message string           `json:"message" binding:"required"`
	History []assistant.Turn `json:"history"`
}

// Chat handles POST /chat. Guest or admin. Model trouble never becomes an
// HTTP error; only the guard cases are.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	message := util.Sanitize(req.Message, util.MaxMessageLen)
	if message == "" {
		util.Error(c, http.StatusBadRequest, "message is required")
		return
	}

	identity := c.ClientIP()
	if err := h.Guard.AllowChat(identity); err != nil {
		if errors.Is(err, guard.ErrRateLimited) {
			util.Error(c, http.StatusTooManyRequests, "daily message limit reached")
			return
		}
		respondError(c, err)
		return
	}

	snap, err := h.snapshot(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	history := make([]assistant.Turn, 0, len(req.History))
	for _, t := range req.History {
		content := util.Sanitize(t.Content, util.MaxMessageLen)
		if content == "" {
			continue
		}
		role := "user"
		if t.Role == "assistant" {
			role = "assistant"
		}
		history = append(history, assistant.Turn{Role: role, Content: content})
	}

	res := h.Pipeline.Run(c.Request.Context(), snap, history, message)

	c.JSON(http.StatusOK, gin.H{
		"reply":                res.Reply,
		"contribution_pending": res.Contribution,
		"cancellation_pending": res.Cancellation,
	})
}

// snapshot captures the registry and the caller's own pledges once per turn,
// so the responder, the extractor and the validation all see the same state.
func (h *ChatHandler) snapshot(identity string) (assistant.Snapshot, error) {
	items, err := h.Ledger.ListItems()
	if err != nil {
		return assistant.Snapshot{}, err
	}
	mine, err := h.Ledger.ContributionsByIdentity(identity)
	if err != nil {
		return assistant.Snapshot{}, err
	}

	snap := assistant.Snapshot{
		Items: make([]assistant.ItemSnapshot, 0, len(items)),
		Mine:  make([]assistant.OwnContribution, 0, len(mine)),
	}
	for _, it := range items {
		snap.Items = append(snap.Items, assistant.ItemSnapshot{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			PriceTotal:  it.PriceTotal,
			PriceRaised: it.PriceRaised,
			IsFunded:    it.IsFunded,
			IsGeneric:   it.IsGeneric,
		})
	}
	for _, m := range mine {
		snap.Mine = append(snap.Mine, assistant.OwnContribution{
			ID:        m.ID,
			ItemID:    m.ItemID,
			ItemTitle: m.ItemTitle,
			Name:      m.Name,
			Amount:    m.Amount,
		})
	}
	return snap, nil
}

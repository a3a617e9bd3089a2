package handler

import (
	"net/http"
	"time"

	"github.com/goncalo-araujo/babyshower/internal/ledger"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"github.com/gin-gonic/gin"
)

// ContributionHandler serves pledge creation, listing and cancellation.
type ContributionHandler struct {
	Ledger *ledger.Ledger
}

func NewContributionHandler(l *ledger.Ledger) *ContributionHandler {
	return &ContributionHandler{Ledger: l}
}

type contributionResp struct {
	ID        uint      `json:"id"`
	ItemID    uint      `json:"item_id"`
	ItemTitle string    `json:"item_title"`
	Name      string    `json:"contributor_name"`
	Amount    float64   `json:"amount"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toContributionResp(rows []ledger.ContributionWithItem) []contributionResp {
	out := make([]contributionResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, contributionResp{
			ID:        r.ID,
			ItemID:    r.ItemID,
			ItemTitle: r.ItemTitle,
			Name:      r.Name,
			Amount:    util.CentToEuro(r.Amount),
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// List returns every contribution joined with its item title. Admin only.
func (h *ContributionHandler) List(c *gin.Context) {
	rows, err := h.Ledger.ListContributions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContributionResp(rows))
}

type createContributionReq struct {
	ItemID  uint    `json:"item_id" binding:"required"`
	Name    string  `json:"contributor_name" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	Message string  `json:"message"`
}

// Create records a pledge. Guest or admin. The caller is told the applied
// amount, which may be less than requested when clipped to the remainder.
func (h *ContributionHandler) Create(c *gin.Context) {
	var req createContributionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	name := util.Sanitize(req.Name, util.MaxNameLen)
	if name == "" {
		util.Error(c, http.StatusBadRequest, "contributor name is required")
		return
	}
	if req.Amount > util.MaxAmountEuro {
		util.Error(c, http.StatusBadRequest, "amount out of range")
		return
	}
	amount := util.EuroToCent(req.Amount)
	if amount <= 0 {
		util.Error(c, http.StatusBadRequest, "amount must be positive")
		return
	}

	res, err := h.Ledger.AddContribution(
		req.ItemID,
		name,
		util.Sanitize(req.Message, util.MaxMessageLen),
		c.ClientIP(),
		amount,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applied_amount": util.CentToEuro(res.AppliedAmount),
		"new_raised":     util.CentToEuro(res.NewRaised),
		"is_funded":      res.IsFunded,
	})
}

// Delete cancels any contribution. Admin only.
func (h *ContributionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Ledger.CancelContribution(id, "", ledger.AuthorityAdmin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMine returns the caller's own contributions, matched by identity token.
func (h *ContributionHandler) ListMine(c *gin.Context) {
	rows, err := h.Ledger.ContributionsByIdentity(c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContributionResp(rows))
}

// DeleteMine cancels one of the caller's own contributions. A pledge that
// belongs to someone else looks exactly like a missing one.
func (h *ContributionHandler) DeleteMine(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Ledger.CancelContribution(id, c.ClientIP(), ledger.AuthorityOwner); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

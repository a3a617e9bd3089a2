package handler

import (
	"net/http"
	"time"

	"github.com/goncalo-araujo/babyshower/internal/ledger"
	"github.com/goncalo-araujo/babyshower/internal/models"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"github.com/gin-gonic/gin"
)

// ItemHandler serves the registry item endpoints.
type ItemHandler struct {
	Ledger *ledger.Ledger
}

func NewItemHandler(l *ledger.Ledger) *ItemHandler {
	return &ItemHandler{Ledger: l}
}

type itemResp struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	ProductURL  string    `json:"product_url"`
	PriceTotal  float64   `json:"price_total"`
	PriceRaised float64   `json:"price_raised"`
	IsFunded    bool      `json:"is_funded"`
	IsGeneric   bool      `json:"is_generic"`
	SortKey     int       `json:"sort_key"`
	CreatedAt   time.Time `json:"created_at"`
}

func toItemResp(it *models.Item) itemResp {
	return itemResp{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		ImageURL:    it.ImageURL,
		ProductURL:  it.ProductURL,
		PriceTotal:  util.CentToEuro(it.PriceTotal),
		PriceRaised: util.CentToEuro(it.PriceRaised),
		IsFunded:    it.IsFunded,
		IsGeneric:   it.IsGeneric,
		SortKey:     it.SortKey,
		CreatedAt:   it.CreatedAt,
	}
}

// List returns all items in display order. Public.
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.Ledger.ListItems()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]itemResp, 0, len(items))
	for i := range items {
		out = append(out, toItemResp(&items[i]))
	}
	c.JSON(http.StatusOK, out)
}

type createItemReq struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	ProductURL  string  `json:"product_url"`
	PriceTotal  float64 `json:"price_total"`
	SortKey     int     `json:"sort_key"`
	IsGeneric   bool    `json:"is_generic"`
}

// Create adds a registry item. Admin only.
func (h *ItemHandler) Create(c *gin.Context) {
	var req createItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	title := util.Sanitize(req.Title, util.MaxTextLen)
	if title == "" {
		util.Error(c, http.StatusBadRequest, "title is required")
		return
	}
	if req.PriceTotal < 0 || req.PriceTotal > util.MaxAmountEuro {
		util.Error(c, http.StatusBadRequest, "price out of range")
		return
	}

	id, err := h.Ledger.CreateItem(ledger.CreateItemInput{
		Title:       title,
		Description: util.Sanitize(req.Description, util.MaxTextLen),
		ImageURL:    util.Sanitize(req.ImageURL, util.MaxTextLen),
		ProductURL:  util.Sanitize(req.ProductURL, util.MaxTextLen),
		PriceTotal:  util.EuroToCent(req.PriceTotal),
		SortKey:     req.SortKey,
		IsGeneric:   req.IsGeneric,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

type updateItemReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ProductURL  string   `json:"product_url"`
	PriceTotal  *float64 `json:"price_total"`
	PriceRaised *float64 `json:"price_raised"`
	SortKey     *int     `json:"sort_key"`
	IsGeneric   *bool    `json:"is_generic"`
}

// Update applies a partial edit; blank/absent fields keep their current
// value. Admin only.
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := ledger.ItemPatch{
		Title:       util.Sanitize(req.Title, util.MaxTextLen),
		Description: util.Sanitize(req.Description, util.MaxTextLen),
		ImageURL:    util.Sanitize(req.ImageURL, util.MaxTextLen),
		ProductURL:  util.Sanitize(req.ProductURL, util.MaxTextLen),
		SortKey:     req.SortKey,
		IsGeneric:   req.IsGeneric,
	}
	if req.PriceTotal != nil {
		if *req.PriceTotal < 0 || *req.PriceTotal > util.MaxAmountEuro {
			util.Error(c, http.StatusBadRequest, "price out of range")
			return
		}
		v := util.EuroToCent(*req.PriceTotal)
		patch.PriceTotal = &v
	}
	if req.PriceRaised != nil {
		if *req.PriceRaised < 0 || *req.PriceRaised > util.MaxAmountEuro {
			util.Error(c, http.StatusBadRequest, "price out of range")
			return
		}
		v := util.EuroToCent(*req.PriceRaised)
		patch.PriceRaised = &v
	}

	if err := h.Ledger.UpdateItem(id, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete removes an item and all of its contributions. Admin only.
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Ledger.DeleteItem(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

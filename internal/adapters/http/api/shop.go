package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/mindarcade/internal/app"
	"github.com/okian/mindarcade/internal/domain/shop"
)

type shopItem struct {
	shop.Item
	Owned      bool `json:"owned"`
	Affordable bool `json:"affordable"`
}

// purchaseRequest mirrors the OpenAPI schema for POST /shop/purchase.
// price defaults to the catalog price and must match it for catalog items.
type purchaseRequest struct {
	ItemID string `json:"itemId"`
	Price  *int64 `json:"price,omitempty"`
}

// handleGetShop handles GET /shop.
func (s *Server) handleGetShop(w http.ResponseWriter, _ *http.Request) {
	p := s.engine.Snapshot()
	items := shop.Catalog()
	out := make([]shopItem, 0, len(items))
	for _, it := range items {
		out = append(out, shopItem{
			Item:       it,
			Owned:      !it.Consumable() && p.Owns(it.ID),
			Affordable: p.TotalScore >= it.Price,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePurchase handles POST /shop/purchase.
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	const op = "api.purchase"
	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req.ItemID = strings.TrimSpace(req.ItemID)

	var price int64
	if req.Price != nil {
		price = *req.Price
	} else {
		item, ok := shop.Lookup(req.ItemID)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown_item", NewKind(op, ErrUnknownItem))
			return
		}
		price = item.Price
	}

	out, err := s.engine.OnPurchase(r.Context(), req.ItemID, price)
	var funds *app.InsufficientFundsError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, out)
	case errors.As(err, &funds):
		writeError(w, http.StatusPaymentRequired, "insufficient_funds", Wrap(op, err))
	case errors.Is(err, app.ErrAlreadyOwned):
		writeError(w, http.StatusConflict, "already_owned", Wrap(op, err))
	case errors.Is(err, app.ErrInvalidPrice), errors.Is(err, app.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

package main

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clladder/clladder/core"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chainView struct {
	ChainID       int64    `json:"chain_id"`
	Label         string   `json:"label"`
	WrappedNative string   `json:"wrapped_native"`
	Stablecoins   []string `json:"stablecoins"`
	Protocols     []string `json:"protocols"`
}

func (s *serverState) listChainsHandler(w http.ResponseWriter, _ *http.Request) {
	out := make([]chainView, 0, len(s.cfg.Registry))
	for _, e := range s.cfg.Registry {
		protocols := make([]string, 0, len(e.Protocols))
		for name := range e.Protocols {
			protocols = append(protocols, name)
		}
		out = append(out, chainView{
			ChainID:       e.ChainID,
			Label:         e.Label,
			WrappedNative: e.WrappedNative,
			Stablecoins:   e.Stablecoins,
			Protocols:     protocols,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type poolStateView struct {
	Pool         string `json:"pool"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Tick         int32  `json:"tick"`
	Liquidity    string `json:"liquidity"`
	Initialized  bool   `json:"initialized"`
	BlockNumber  uint64 `json:"block_number"`
}

func (s *serverState) poolStateHandler(w http.ResponseWriter, r *http.Request) {
	chainID, err := strconv.ParseInt(chi.URLParam(r, "chainID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pool, err := core.ParseAddress(chi.URLParam(r, "pool"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	bundle, err := s.bundleFor(r.Context(), chainID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	state, err := bundle.reader.ReadPoolState(r.Context(), pool)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	view := poolStateView{
		Pool:        pool.Hex(),
		Tick:        state.Tick,
		Initialized: state.Initialized,
		BlockNumber: state.BlockNumber,
	}
	if state.SqrtPriceX96 != nil {
		view.SqrtPriceX96 = state.SqrtPriceX96.String()
	}
	if state.Liquidity != nil {
		view.Liquidity = state.Liquidity.String()
	}
	writeJSON(w, http.StatusOK, view)
}

// planRequest mirrors cmd/ladderctl's plan flags for programmatic
// callers that want a preview without shelling out to the CLI.
type planRequest struct {
	CurrentPrice float64 `json:"current_price"`
	LimitPrice   float64 `json:"limit_price"`
	TotalUSDWei  string  `json:"total_usd_wei"`
	N            int     `json:"n"`
	Fee          uint32  `json:"fee"`
	Shape        string  `json:"shape"`
	InvertPrice  bool    `json:"invert_price"`
}

func (s *serverState) planHandler(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	totalUSD, ok := new(big.Int).SetString(req.TotalUSDWei, 10)
	if !ok {
		writeError(w, http.StatusBadRequest, &core.InvalidRangeError{Reason: "total_usd_wei must be a base-10 integer"})
		return
	}

	shape, err := core.ParseDistributionShape(req.Shape)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	spacing, err := core.GetTickSpacing(req.Fee, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	positions, err := core.PlanLadder(core.LadderPlanInput{
		CurrentPrice:        req.CurrentPrice,
		LimitPrice:          req.LimitPrice,
		TotalUSDWei:         totalUSD,
		N:                   req.N,
		Fee:                 req.Fee,
		Shape:               shape,
		InvertPrice:         req.InvertPrice,
		TickSpacingOverride: &spacing,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, positions)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alephwallet/walletcore/internal/chain"
	"github.com/alephwallet/walletcore/internal/client"
	"github.com/alephwallet/walletcore/internal/keystore"
	"github.com/alephwallet/walletcore/internal/model"
	"github.com/alephwallet/walletcore/internal/signer"
	"github.com/alephwallet/walletcore/wallet"
)

// BalanceFunc returns the formatted native balance of an address.
type BalanceFunc func(ctx context.Context, address string) (string, error)

// WalletHandler exposes the wallet core over HTTP. All secrets arrive in
// request bodies and are zeroed after use; nothing secret is ever written to
// a response except the one-time seed phrase at generation.
type WalletHandler struct {
	flow     *wallet.Flow
	store    *keystore.Store
	session  *keystore.SessionCache
	signer   *signer.Signer
	balances map[chain.Kind]BalanceFunc
	rates    *client.CoinGeckoClient
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(flow *wallet.Flow, store *keystore.Store, session *keystore.SessionCache, sgn *signer.Signer, balances map[chain.Kind]BalanceFunc, rates *client.CoinGeckoClient) *WalletHandler {
	return &WalletHandler{
		flow:     flow,
		store:    store,
		session:  session,
		signer:   sgn,
		balances: balances,
		rates:    rates,
	}
}

// Generate handles POST /wallet/generate
// @Summary      Generate new wallet
// @Description  Generates a fresh seed phrase and address; nothing is persisted until /wallet/confirm
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  true  "Target network"
// @Success      200      {object}  model.GenerateResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	result, err := h.flow.Generate(r.Context(), req.Network)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success:    true,
		Message:    "Wallet generated. Back up the seed phrase before confirming.",
		Address:    result.Address,
		SeedPhrase: result.SeedPhrase,
		QR:         result.QR,
	})
}

// Confirm handles POST /wallet/confirm
// @Summary      Confirm and persist a wallet
// @Description  Encrypts the seed phrase under the password and writes the envelope; called after the backup quiz
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportRequest  true  "Seed phrase and password"
// @Success      200      {object}  model.ImportResponse
// @Router       /wallet/confirm [post]
func (h *WalletHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.persist(w, r)
}

// Import handles POST /wallet/import
// @Summary      Import existing wallet
// @Description  Validates an existing seed phrase, encrypts it and persists the envelope
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportRequest  true  "Seed phrase and password"
// @Success      200      {object}  model.ImportResponse
// @Router       /wallet/import [post]
func (h *WalletHandler) Import(w http.ResponseWriter, r *http.Request) {
	h.persist(w, r)
}

func (h *WalletHandler) persist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	if h.store.HasActiveWallet() && !req.Overwrite {
		writeError(w, &model.WalletExistsError{Message: "wallet already exists; set overwrite to replace it"})
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	if err := h.flow.ConfirmAndPersist(r.Context(), req.SeedPhrase, req.Network, password); err != nil {
		writeError(w, err)
		return
	}

	meta, err := h.store.Metadata()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ImportResponse{Success: true, Address: meta.Address})
}

// Status handles GET /wallet/status
// @Summary      Wallet status
// @Description  Reports envelope presence, lock state and non-secret metadata
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp := model.StatusResponse{
		HasWallet: h.store.HasActiveWallet(),
		Unlocked:  h.session.Active(),
	}
	if resp.HasWallet {
		meta, err := h.store.Metadata()
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Metadata = meta
	}

	writeJSON(w, http.StatusOK, resp)
}

// Unlock handles POST /wallet/unlock
// @Summary      Unlock wallet
// @Description  Decrypts the envelope and opens a bounded signing session
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body  model.UnlockRequest  true  "Wallet password"
// @Success      204
// @Router       /wallet/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	seed, err := h.flow.UnlockWithPassword(password)
	if err != nil {
		writeError(w, err)
		return
	}
	clear(seed)

	w.WriteHeader(http.StatusNoContent)
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Clears the in-memory session secret; the envelope stays
// @Tags         wallet
// @Success      204
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.flow.Lock()
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /wallet
// @Summary      Delete wallet
// @Description  Irreversibly removes the encrypted envelope and clears the session
// @Tags         wallet
// @Success      204
// @Router       /wallet [delete]
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed. Should be DELETE", http.StatusMethodNotAllowed)
		return
	}

	if err := h.flow.Delete(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Send handles POST /wallet/send
// @Summary      Send a transfer
// @Description  Signs and broadcasts a transfer; uses the open session or the supplied password
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Transfer data"
// @Success      200      {object}  model.SendResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	meta, err := h.store.Metadata()
	if err != nil {
		writeError(w, err)
		return
	}

	phrase := h.session.Get()
	if phrase == nil {
		if req.Password == "" {
			writeError(w, model.ErrIncorrectPassword)
			return
		}
		password := []byte(req.Password)
		defer clear(password)

		phrase, err = h.flow.UnlockWithPassword(password)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		// Signing counts as user activity: keep the live window open.
		h.session.Extend()
	}
	defer clear(phrase)

	seed := chain.SeedFromMnemonic(string(phrase))
	defer clear(seed)

	intent := model.TransactionIntent{
		Recipient: req.ToAddress,
		Amount:    req.Amount,
		Network:   meta.Network,
		Memo:      req.Memo,
		FeeTier:   model.FeeTier(req.FeeTier),
	}

	result, err := h.signer.Sign(r.Context(), seed, intent)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SendResponse{
		TxHash: result.TxHash,
		Status: string(result.Status),
	})
}

// Balance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Native balance of the active wallet with a USD rate
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	meta, err := h.store.Metadata()
	if err != nil {
		writeError(w, err)
		return
	}

	kind, err := chain.Parse(meta.Network)
	if err != nil {
		writeError(w, err)
		return
	}

	balanceFn, ok := h.balances[kind]
	if !ok {
		writeError(w, model.ErrNetworkUnavailable)
		return
	}

	balance, err := balanceFn(r.Context(), meta.Address)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := model.BalanceResponse{
		Address: meta.Address,
		Network: meta.Network,
		Balance: balance,
		Symbol:  chain.Get(kind).Symbol,
	}

	// Rate is best effort; balance is still useful without it
	if h.rates != nil {
		if rate, err := h.rates.GetUSDRate(r.Context(), chain.Get(kind).CoinGeckoID); err == nil {
			resp.RateUSD = rate
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Receive handles GET /wallet/receive
// @Summary      Receive address
// @Description  Returns the wallet address with a QR code
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ReceiveResponse
// @Router       /wallet/receive [get]
func (h *WalletHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	meta, err := h.store.Metadata()
	if err != nil {
		writeError(w, err)
		return
	}

	qr, err := wallet.QRCode(meta.Address)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ReceiveResponse{Address: meta.Address, QR: qr})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps core errors to HTTP statuses. Error text never contains
// secret material; the core guarantees that.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := ""

	switch {
	case model.IsWalletExistsError(err):
		status = http.StatusConflict
		code = "WALLET_EXISTS"
	case errors.Is(err, model.ErrInvalidAddress):
		status = http.StatusBadRequest
		code = "INVALID_ADDRESS"
	case errors.Is(err, model.ErrInvalidSeedPhrase):
		status = http.StatusBadRequest
		code = "INVALID_SEED_PHRASE"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		code = "INVALID_INPUT"
	case errors.Is(err, model.ErrIncorrectPassword):
		status = http.StatusUnauthorized
		code = "INCORRECT_PASSWORD"
	case errors.Is(err, model.ErrNoWallet):
		status = http.StatusNotFound
		code = "NO_WALLET"
	case errors.Is(err, model.ErrBroadcastRejected):
		status = http.StatusUnprocessableEntity
		code = "BROADCAST_REJECTED"
	case errors.Is(err, model.ErrNetworkUnavailable):
		status = http.StatusBadGateway
		code = "NETWORK_UNAVAILABLE"
	}

	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

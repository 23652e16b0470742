package model

// GenerateRequest represents request for POST /wallet/generate
type GenerateRequest struct {
	Network string `json:"network" binding:"required"`
}

// GenerateResponse represents response for POST /wallet/generate
type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
	// SeedPhrase is returned exactly once, at generation time, for the user
	// to back up. It is never persisted in plaintext.
	SeedPhrase string `json:"seedPhrase,omitempty"`
	QR         string `json:"qr,omitempty"`
}

// ImportRequest represents request for POST /wallet/import and
// POST /wallet/confirm. For generate-then-confirm the seed phrase is the one
// returned by /wallet/generate, echoed back after the user passed the backup
// quiz; nothing is persisted before this call.
type ImportRequest struct {
	Network    string `json:"network" binding:"required"`
	SeedPhrase string `json:"seedPhrase" binding:"required"`
	Password   string `json:"password" binding:"required"`
	// Overwrite must be set to replace an existing wallet envelope.
	Overwrite bool `json:"overwrite,omitempty"`
}

// ImportResponse represents response for POST /wallet/import
type ImportResponse struct {
	Success bool   `json:"success"`
	Address string `json:"address,omitempty"`
}

// UnlockRequest represents request for POST /wallet/unlock
type UnlockRequest struct {
	Password string `json:"password" binding:"required"`
}

// StatusResponse represents response for GET /wallet/status
type StatusResponse struct {
	HasWallet bool      `json:"hasWallet"`
	Unlocked  bool      `json:"unlocked"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Memo      string `json:"memo,omitempty"`
	FeeTier   string `json:"feeTier,omitempty"`
	// Password may be omitted when the session cache still holds the seed.
	Password string `json:"password,omitempty"`
}

// SendResponse represents response for POST /wallet/send
type SendResponse struct {
	TxHash string `json:"txHash"`
	Status string `json:"status"`
}

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
	Balance string `json:"balance"`
	Symbol  string `json:"symbol"`
	RateUSD string `json:"rateUsd,omitempty"`
	USD     string `json:"balance_in_usd,omitempty"`
}

// ReceiveResponse represents response for GET /wallet/receive
type ReceiveResponse struct {
	Address string `json:"address"`
	QR      string `json:"qr"` // base64 PNG
}

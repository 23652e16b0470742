package model

// Metadata is the plaintext, non-secret part of the persisted envelope.
// Readable without a password.
type Metadata struct {
	Address     string `json:"address"`
	Network     string `json:"network"`
	NetworkType string `json:"networkType"`
	CreatedAt   string `json:"createdAt"` // ISO 8601
}

// TxStatus is the outcome of a signing attempt after the confirmation wait.
type TxStatus string

const (
	// TxStatusSuccess - at least one confirmation observed
	TxStatusSuccess TxStatus = "success"
	// TxStatusFailed - the chain rejected or reverted the transaction
	TxStatusFailed TxStatus = "failed"
	// TxStatusPending - confirmation wait timed out; the transaction may still land
	TxStatusPending TxStatus = "pending"
)

// FeeTier selects a fee/speed tradeoff for a transfer.
type FeeTier string

const (
	FeeTierSlow   FeeTier = "slow"
	FeeTierNormal FeeTier = "normal"
	FeeTierFast   FeeTier = "fast"
)

// TransactionIntent describes a transfer the user wants signed. Constructed by
// the UI layer, consumed by the signer.
type TransactionIntent struct {
	Recipient string  `json:"toAddress"`
	Amount    string  `json:"amount"` // decimal string in network-native units
	Network   string  `json:"network"`
	Memo      string  `json:"memo,omitempty"`
	FeeTier   FeeTier `json:"feeTier,omitempty"`
}

// SignedTransactionResult is produced once per successful sign and handed to
// the caller; never retained beyond reporting to the UI.
type SignedTransactionResult struct {
	TxHash     string   `json:"txHash"`
	RawPayload []byte   `json:"rawPayload,omitempty"`
	Sender     string   `json:"senderAddress"`
	Status     TxStatus `json:"status"`
}

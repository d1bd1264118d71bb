package domain

import "time"

// Transaction types recorded in the ledger's audit trail.
const (
	TxTypeROISweep      = "roi_sweep"
	TxTypeSweepBonus    = "sweep_bonus"
	TxTypePurchaseBonus = "purchase_bonus"
	TxTypeWithdrawal    = "withdrawal"
	TxTypeTransferIn    = "transfer_in"
	TxTypeTransferOut   = "transfer_out"
)

type Transaction struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      string         `json:"type"`
	Amount    float64        `json:"amount"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

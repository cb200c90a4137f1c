package domain

import "time"

// Business represents a marketplace business with its prepaid commission wallet
type Business struct {
	ID             int64
	OwnerID        int64
	Name           string
	WalletBalance  Money
	CommissionRate float64 // fraction in [0, 1]
	AcceptsCash    bool
	Timezone       string // IANA name, empty - service default
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOwner returns true if the user owns the business
func (b *Business) IsOwner(userID int64) bool {
	return b.OwnerID == userID
}

// CanCoverFee returns true if the wallet can pay the commission
func (b *Business) CanCoverFee(fee Money) bool {
	return b.WalletBalance >= fee
}

// WalletTransactionKind kind of wallet movement
type WalletTransactionKind string

const (
	WalletCommissionDebit  WalletTransactionKind = "commission_debit"
	WalletCommissionRefund WalletTransactionKind = "commission_refund"
	WalletTopUp            WalletTransactionKind = "top_up"
)

// WalletTransaction is a ledger entry of the business wallet.
// Amount is signed: debits are negative.
type WalletTransaction struct {
	ID         int64
	BusinessID int64
	BookingID  *int64
	Amount     Money
	Kind       WalletTransactionKind
	CreatedAt  time.Time
}

package models

// TopUpRequest запрос на зачисление подтвержденного пополнения.
// Amount в минимальных единицах валюты.
type TopUpRequest struct {
	UserID     int64 `json:"-"`
	BusinessID int64 `json:"-"`
	Amount     int64 `json:"amount"`
}

// TopUpResponse баланс кошелька после пополнения
type TopUpResponse struct {
	BusinessID    int64 `json:"businessId"`
	Amount        int64 `json:"amount"`
	WalletBalance int64 `json:"walletBalance"`
}

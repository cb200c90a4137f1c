package domain

// Service represents a bookable service offered by a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           Money
	SalePrice       *Money
	IsOnSale        bool
}

// EffectivePrice returns the sale price when the service is on sale
func (s *Service) EffectivePrice() Money {
	if s.IsOnSale && s.SalePrice != nil {
		return *s.SalePrice
	}
	return s.Price
}

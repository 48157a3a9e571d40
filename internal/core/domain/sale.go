package domain

import "time"

// Sale records Quantity units of a product sold by a seller. Stock is not
// decremented when a sale is recorded.
type Sale struct {
	ID        uint
	ProductID uint
	SellerID  uint
	Quantity  int
	SoldAt    time.Time
}

package domain

type Seller struct {
	ID     uint
	Name   string
	Region string
}

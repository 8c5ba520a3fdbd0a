package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDirection = errors.New("order direction must be either bid or ask")
	ErrInvalidOrderType = errors.New("order type must be either limit or market")
)

// OrderDirection is the side of the book an order rests on:
// 	- bid -> buying the base asset with the quote asset
//	- ask -> selling the base asset for the quote asset
type OrderDirection string

const (
	Bid OrderDirection = "bid"
	Ask OrderDirection = "ask"
)

func ParseOrderDirection(s string) (OrderDirection, error) {
	switch OrderDirection(strings.ToLower(strings.TrimSpace(s))) {
	case Bid:
		return Bid, nil
	case Ask:
		return Ask, nil
	}
	return "", ErrInvalidDirection
}

func (d OrderDirection) Opposite() OrderDirection {
	if d == Ask {
		return Bid
	}
	return Ask
}

// OrderType is what the user asked for. The order may still be executed as a
// market order, see IsMarket.
type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
)

func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(strings.ToLower(strings.TrimSpace(s))) {
	case Limit:
		return Limit, nil
	case Market:
		return Market, nil
	}
	return "", ErrInvalidOrderType
}

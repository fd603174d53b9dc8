package order

import (
	"encoding/json"

	"github.com/nivanov045/gamestore/internal/catalog"
)

// Order is the payload handed to the bot. It is built at submit time and
// never stored.
type Order struct {
	Server   string `json:"server"`
	PlayerID string `json:"player_id"`
	Amount   string `json:"amount"` // bundle code
	Price    int64  `json:"price"`
}

// New takes the price from the bundle, never from the caller.
func New(server string, playerID string, bundle catalog.Bundle) Order {
	return Order{
		Server:   server,
		PlayerID: playerID,
		Amount:   bundle.Code,
		Price:    bundle.Price,
	}
}

func (o Order) Payload() (string, error) {
	marshal, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(marshal), nil
}

func Parse(payload string) (Order, error) {
	var o Order
	err := json.Unmarshal([]byte(payload), &o)
	return o, err
}

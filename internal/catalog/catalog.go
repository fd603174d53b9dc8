package catalog

import (
	"strconv"
)

// Bundle is a purchasable amount of in-game currency.
type Bundle struct {
	Code   string `json:"code" yaml:"code"`
	Amount string `json:"amount" yaml:"amount"` // display amount, e.g. "5,000,000"
	Price  int64  `json:"price" yaml:"price"`   // whole rubles
}

// Catalog is the fixed price table and server list shown by the storefront.
// It is never mutated after New returns.
type Catalog struct {
	currency string
	servers  []string
	bundles  []Bundle
	index    map[string]int
}

const DefaultCurrency = "₽"

var (
	defaultServers = []string{"Saturn", "Mars", "Pluto", "Jupiter"}
	defaultBundles = []Bundle{
		{Code: "1kk", Amount: "1,000,000", Price: 50},
		{Code: "5kk", Amount: "5,000,000", Price: 200},
		{Code: "10kk", Amount: "10,000,000", Price: 350},
		{Code: "50kk", Amount: "50,000,000", Price: 1500},
	}
)

// Default returns the reference price table.
func Default() *Catalog {
	c, err := New(DefaultCurrency, defaultServers, defaultBundles)
	if err != nil {
		panic(err)
	}
	return c
}

// New validates and copies the given table. Order of servers and bundles is kept.
func New(currency string, servers []string, bundles []Bundle) (*Catalog, error) {
	if len(servers) == 0 {
		return nil, NewInvalidError("servers", "", "no servers")
	}
	if len(bundles) == 0 {
		return nil, NewInvalidError("bundles", "", "no bundles")
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	seenServers := make(map[string]struct{}, len(servers))
	for _, s := range servers {
		if s == "" {
			return nil, NewInvalidError("servers", s, "empty server name")
		}
		if _, ok := seenServers[s]; ok {
			return nil, NewInvalidError("servers", s, "duplicate server")
		}
		seenServers[s] = struct{}{}
	}

	index := make(map[string]int, len(bundles))
	for i, b := range bundles {
		if b.Code == "" {
			return nil, NewInvalidError("bundles", b.Code, "empty bundle code")
		}
		if _, ok := index[b.Code]; ok {
			return nil, NewInvalidError("bundles", b.Code, "duplicate bundle code")
		}
		if b.Price <= 0 {
			return nil, NewInvalidError("bundles", b.Code, "price must be positive")
		}
		index[b.Code] = i
	}

	return &Catalog{
		currency: currency,
		servers:  append([]string(nil), servers...),
		bundles:  append([]Bundle(nil), bundles...),
		index:    index,
	}, nil
}

func (c *Catalog) Currency() string {
	return c.currency
}

func (c *Catalog) Servers() []string {
	return append([]string(nil), c.servers...)
}

func (c *Catalog) Bundles() []Bundle {
	return append([]Bundle(nil), c.bundles...)
}

func (c *Catalog) HasServer(name string) bool {
	for _, s := range c.servers {
		if s == name {
			return true
		}
	}
	return false
}

func (c *Catalog) Lookup(code string) (Bundle, bool) {
	i, ok := c.index[code]
	if !ok {
		return Bundle{}, false
	}
	return c.bundles[i], true
}

// Price is the only source of order prices.
func (c *Catalog) Price(code string) (int64, bool) {
	b, ok := c.Lookup(code)
	return b.Price, ok
}

// FormatPrice renders a price the way the storefront shows it, e.g. "200₽".
func (c *Catalog) FormatPrice(price int64) string {
	return strconv.FormatInt(price, 10) + c.currency
}

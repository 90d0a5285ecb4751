package geo

// Catalog is an ordered, read-only set of countries. The first entry is the
// default selection.
type Catalog struct {
	items []Country
	index map[string]int
}

// NewCatalog keeps the given order. Entries with a malformed ISO2 code are
// skipped; for duplicate codes the first entry wins.
func NewCatalog(countries []Country) *Catalog {
	c := &Catalog{
		items: make([]Country, 0, len(countries)),
		index: make(map[string]int, len(countries)),
	}
	for _, country := range countries {
		code, ok := NormalizeISO2(country.ISO2)
		if !ok {
			continue
		}
		if _, dup := c.index[code]; dup {
			continue
		}
		country.ISO2 = code
		c.index[code] = len(c.items)
		c.items = append(c.items, country)
	}
	return c
}

// ByCode looks up a country by a two-letter code in any case.
func (c *Catalog) ByCode(code string) (Country, bool) {
	if c == nil {
		return Country{}, false
	}
	norm, ok := NormalizeISO2(code)
	if !ok {
		return Country{}, false
	}
	i, ok := c.index[norm]
	if !ok {
		return Country{}, false
	}
	return c.items[i], true
}

// First returns the default country.
func (c *Catalog) First() (Country, bool) {
	if c == nil || len(c.items) == 0 {
		return Country{}, false
	}
	return c.items[0], true
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// All returns a copy of the entries in catalog order.
func (c *Catalog) All() []Country {
	if c == nil {
		return nil
	}
	return append([]Country(nil), c.items...)
}

package entity

// Item is a single record of the mapping feed. Limit is the GE buy limit;
// zero means the feed carried no limit.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Members  bool   `json:"members"`
	Limit    int    `json:"limit,omitempty"`
	Value    int64  `json:"value,omitempty"`
	LowAlch  int64  `json:"lowalch,omitempty"`
	HighAlch int64  `json:"highalch,omitempty"`
	Examine  string `json:"examine,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// Tradable reports whether the item can be bought on the exchange.
func (i Item) Tradable() bool {
	return i.Limit > 0
}

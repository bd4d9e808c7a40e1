package models

// Quote is one instrument in the static market catalog. Bonds carry a
// duration, equities a sector and funds a fund type; the other fields stay
// empty and are omitted on the wire.
type Quote struct {
	Instrument string  `json:"instrument"`
	Rate       float64 `json:"rate"`
	Risk       string  `json:"risk"`
	Duration   string  `json:"duration,omitempty"`
	Sector     string  `json:"sector,omitempty"`
	Type       string  `json:"type,omitempty"`
	UpdatedAt  int64   `json:"updatedAt"`
}

package analytics

import (
	"time"

	"github.com/google/uuid"
)

// ViewEvent is one public card view. IPAddress is anonymized before the
// event is constructed; the raw client address is never buffered or stored.
type ViewEvent struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CardID    uuid.UUID `db:"card_id" json:"card_id"`
	ViewedAt  time.Time `db:"viewed_at" json:"viewed_at"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	Referrer  string    `db:"referrer" json:"referrer"`
}

// TrackRequest is the tracker's input; everything but CardID is optional.
type TrackRequest struct {
	CardID    uuid.UUID
	IPAddress string
	UserAgent string
	Referrer  string
}

// CardViewSummary is the per-card aggregate for the owner dashboard.
type CardViewSummary struct {
	CardID     uuid.UUID  `db:"card_id" json:"card_id"`
	CardName   string     `db:"card_name" json:"card_name"`
	TotalViews int64      `db:"total_views" json:"total_views"`
	LastViewAt *time.Time `db:"last_view_at" json:"last_view_at,omitempty"`
}

// DailyViewCount is one row of the pre-aggregated daily rollup.
type DailyViewCount struct {
	CardID uuid.UUID `db:"card_id" json:"card_id"`
	Day    time.Time `db:"day" json:"day"`
	Views  int64     `db:"views" json:"views"`
}

// Summary is the GET /analytics/summary payload.
type Summary struct {
	Cards       []CardViewSummary `json:"cards"`
	RecentViews []ViewEvent       `json:"recent_views"`
}

package domain

import "time"

// RefreshToken is the persisted half of a token pair.
//
// Security notes:
//   - Token is an opaque random string, unique across all issuances.
//   - JwtID binds the record to the jti claim of the access token it was
//     issued alongside; refresh rejects a pair that doesn't match.
//   - A record is deleted when redeemed (rotation) or revoked at signout.
//     Expired records are left stale and rejected on next use.
type RefreshToken struct {
	ID         int64     `json:"id"`
	Token      string    `json:"-"`
	JwtID      string    `json:"jwt_id"`
	UserID     int64     `json:"user_id"`
	IsUsed     bool      `json:"is_used"`
	IsRevoked  bool      `json:"is_revoked"`
	AddedDate  time.Time `json:"added_date"`
	ExpiryDate time.Time `json:"expiry_date"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiryDate)
}

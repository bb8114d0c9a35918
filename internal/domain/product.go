package domain

import "time"

// Product is a catalog entry reachable from the factory-floor QR codes.
type Product struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageKey    string    `json:"image_key,omitempty"`
	QRCode      string    `json:"qr_code"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

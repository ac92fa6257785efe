package review_eligibility

// EligibilityResponse HTTP response model
type EligibilityResponse struct {
	BookingID string `json:"bookingId"`
	Eligible  bool   `json:"eligible"`
}

package dto

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	City        string `json:"city"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"`
}

type EventResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	City          string `json:"city,omitempty"`
	Location      string `json:"location,omitempty"`
	StartsAt      string `json:"starts_at"`
	AttendeeCount int    `json:"attendee_count"`
	ViewerJoined  bool   `json:"viewer_joined"`
}

type EventsResponse struct {
	Items []EventResponse `json:"items"`
}

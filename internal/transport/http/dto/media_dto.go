package dto

type MediaPhotoResponse struct {
	ID          int64  `json:"id"`
	ContentType string `json:"content_type"`
	URL         string `json:"url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type MediaPhotosListResponse struct {
	Items []MediaPhotoResponse `json:"items"`
}

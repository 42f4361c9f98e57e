package entity

// Business is one match returned by the search collaborator. It is a
// read-only view of the API payload; the bot never mutates it.
type Business struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ImageURL    string  `json:"image_url"`
	URL         string  `json:"url,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
	Address     string  `json:"address,omitempty"`
}

// SearchQuery carries the two fields the search collaborator needs.
type SearchQuery struct {
	Term     string `json:"term"`
	Location string `json:"location"`
}

// Attachment is the rich-content block attached to a chat message.
type Attachment struct {
	Fallback string `json:"fallback"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

package dto

// CommentRequest carries the comment text plus the article URL, which lets
// the comment gesture resolve a still-transient article's identity.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
	URL  string `json:"url"`
}

type CategoryRequest struct {
	Label string `json:"label" validate:"required,max=64"`
	Value string `json:"value" validate:"required,max=64"`
}

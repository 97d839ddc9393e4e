package posts

type CreatePostRequest struct {
	Text     string  `json:"text"`
	MediaURL *string `json:"mediaUrl"`
}

// CreatePostInput is a request that already passed validation.
type CreatePostInput struct {
	Text     string
	MediaURL *string
}

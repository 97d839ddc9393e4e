package social

type MessageResponse struct {
	Message string `json:"message"`
}

package api

// MessageResponse is returned by endpoints without a payload
type MessageResponse struct {
	Message string `json:"message"`
}

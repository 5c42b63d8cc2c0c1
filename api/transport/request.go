package transport

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	SessionID string `json:"session_id"`
}

type ActivityCreateRequest struct {
	Label   string `json:"label"`
	DueDate string `json:"due_date"`
}

type ProfileUpdateRequest struct {
	Username string `json:"username"`
}

package dto

// Data Transfer Objects for authentication requests and responses

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse: response payload after successful authentication
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userID"`
}

// AuthSessionRequest: payload for silent re-authentication with a stored token
type AuthSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthSessionResponse: response payload after successful silent re-authentication
type AuthSessionResponse struct {
	UserID string `json:"userId"`
}

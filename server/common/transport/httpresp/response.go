package httpresp

const (
	ErrLoginRequired      = "login is required"
	ErrSessionExpired     = "session expired, log in again"
	ErrInvalidPayload     = "invalid request payload"
	ErrBackendUnreachable = "could not reach the school backend"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type SessionResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

func NewOKResponse() OKResponse {
	return OKResponse{OK: true}
}

func NewIDResponse(id int64) IDResponse {
	return IDResponse{ID: id}
}

func NewSessionResponse(userID int64, username, role string) SessionResponse {
	return SessionResponse{UserID: userID, Username: username, Role: role}
}

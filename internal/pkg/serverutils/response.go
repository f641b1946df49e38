package serverutils

// Envelope is the uniform success body: {status, message, data}.
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Status: "success", Message: message, Data: data}
}

// ErrorBody is the uniform failure body. Details carries extra fields such
// as a replacement session id on ownership conflicts.
type ErrorBody struct {
	Status    string                 `json:"status"`
	Error     string                 `json:"error"`
	ErrorCode string                 `json:"error_code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

func ErrorResponse(errorCode, message string) ErrorBody {
	return ErrorBody{Status: "error", Error: message, ErrorCode: errorCode}
}

// RedirectBody tells the client to send the user elsewhere (profile
// completion) instead of rendering an assistant reply.
type RedirectBody struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url"`
}

func RedirectResponse(message, redirectURL string) RedirectBody {
	return RedirectBody{Status: "redirect", Message: message, RedirectURL: redirectURL}
}

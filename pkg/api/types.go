package api

// TokenResponse is the body returned by POST /token on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UploadResponse is the body returned by POST /upload/ on success.
type UploadResponse struct {
	Filename string `json:"filename"`
	Outcome  string `json:"outcome"`
	ID       uint64 `json:"id"`
}

// AnswerResponse is the body returned by GET /search/{prompt}.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// HomeResponse is the body returned by GET /.
type HomeResponse struct {
	Service string `json:"service"`
	Message string `json:"message"`
}

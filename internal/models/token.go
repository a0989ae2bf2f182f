package models

// Token is the login response carrying a bearer access token.
// swagger:model Token
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
}

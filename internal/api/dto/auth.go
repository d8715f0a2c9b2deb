package dto

const (
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
)

// TokenRequest carries username/password for the password grant and
// client_id/client_secret for the client_credentials grant.
type TokenRequest struct {
	GrantType    string `json:"grant_type" binding:"required"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

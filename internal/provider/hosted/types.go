package hosted

// tokenResponse is the hosted auth service's password-grant response.
type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int        `json:"expires_in"`
	User        hostedUser `json:"user"`
}

type hostedUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	ConfirmedAt string `json:"confirmed_at"`
}

// signUpRequest carries the profile metadata under "data", the way the
// hosted service stores account metadata at registration time.
type signUpRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// apiError covers the hosted service's error body variants; whichever field
// is set becomes the verbatim user-facing message.
type apiError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return e.Error
	}
}

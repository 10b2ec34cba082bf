package user

// User is the account record stored at users/{username}.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"` // hash, never plaintext
}

type Credentials struct {
	Username string `json:"username" binding:"required,nonul"`
	Password string `json:"password" binding:"required,nonul"`
}

// Account is checked against the registration rules once the username is known to be free.
type Account struct {
	Username string `json:"username" binding:"username"`
	Password string `json:"password" binding:"password"`
}

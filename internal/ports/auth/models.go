package auth

// Claims representa la información extraída del token.
// Token se conserva para reenviarlo al backend de Double Paws.
type Claims struct {
	UserID string
	Email  string
	Role   string
	Token  string
}

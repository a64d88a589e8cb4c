package user

// User provides display fields for report rows. Identity management is
// out of scope; the engine only reads these.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

package dto

// ContactRequest is the body of POST /api/contact.
// @Description Contact form submission
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

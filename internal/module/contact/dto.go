package contact

// SubmitRequest is the contact form as posted by the site, JSON or form encoded.
type SubmitRequest struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Company     string `json:"company" form:"company" binding:"max=200"`
	Email       string `json:"email" form:"email" binding:"required,email,max=255"`
	Phone       string `json:"phone" form:"phone" binding:"max=50"`
	ServiceType string `json:"serviceType" form:"serviceType" binding:"required,oneof=seo geo social other"`
	Message     string `json:"message" form:"message" binding:"required,max=5000"`
	Source      string `json:"source" form:"source" binding:"max=500"`
}

package transport

type SignupRequest struct {
	Username  string `json:"username" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"min=6,max=72"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmailsRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1,dive,email"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	NewPassword     string `json:"new_password" validate:"min=6,max=72"`
	ConfirmPassword string `json:"confirm_new_password" validate:"eqfield=NewPassword"`
}

type CreateBookRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Author        string `json:"author" validate:"required,max=255"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	PageCount     int    `json:"page_count" validate:"min=0"`
	Language      string `json:"language"`
}

type PatchBookRequest struct {
	Title         *string `json:"title" validate:"omitnil,min=1,max=255"`
	Author        *string `json:"author"`
	Publisher     *string `json:"publisher"`
	PublishedDate *string `json:"published_date"`
	PageCount     *int    `json:"page_count" validate:"omitnil,min=0"`
	Language      *string `json:"language"`
}

type CreateReviewRequest struct {
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	ReviewText string `json:"review_text" validate:"required"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type TagsRequest struct {
	Tags []TagRequest `json:"tags"`
}

package dto

type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Nickname string `json:"nickname" validate:"required,min=1,max=15"`
}

type CredentialDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

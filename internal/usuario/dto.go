package usuario

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type CriarUsuarioRequest struct {
	Nome    string `json:"nome" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Senha   string `json:"senha" validate:"required,min=6"`
	IsAdmin bool   `json:"is_admin"`
}

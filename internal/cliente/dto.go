package cliente

// ClienteDTO é o corpo aceito em POST e PUT /clientes.
type ClienteDTO struct {
	Nome      string `json:"nome" validate:"required,max=150"`
	Documento string `json:"documento" validate:"omitempty,cpfcnpj"`
	Telefone  string `json:"telefone" validate:"omitempty,max=20"`
	Email     string `json:"email" validate:"omitempty,email"`
	Endereco  string `json:"endereco"`
}

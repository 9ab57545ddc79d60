package models

// Address is a row of the Endereco table.
type Address struct {
	ID           string `json:"id_endereco" db:"id_endereco"`
	Street       string `json:"rua" db:"rua" validate:"required"`
	Number       string `json:"numero" db:"numero" validate:"required"`
	Neighborhood string `json:"bairro" db:"bairro" validate:"required"`
	City         string `json:"cidade" db:"cidade" validate:"required"`
	// State is the two-letter UF code, stored upper case.
	State string `json:"estado" db:"estado" validate:"required,uf"`
	// ZipCode is the CEP in 99999-999 form.
	ZipCode string `json:"cep" db:"cep" validate:"required,cep"`
}

// Client is a row of the Cliente table.
type Client struct {
	ID    string `json:"id_cliente" db:"id_cliente"`
	Name  string `json:"nome" db:"nome" validate:"required"`
	Phone string `json:"telefone" db:"telefone" validate:"required,phone"`
	// CPF is stored as 11 bare digits and is unique across clients.
	CPF       string `json:"cpf" db:"cpf" validate:"required,cpf"`
	AddressID string `json:"id_endereco" db:"id_endereco" validate:"required"`
}

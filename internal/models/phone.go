package models

import "time"

// Phone is a main-stock phone. Nome, Quantidade and Valor are the legacy
// shape kept for older records; they are never derived from the new fields.
type Phone struct {
	Base `bson:",inline"`

	Marca         string     `bson:"marca" json:"marca" validate:"required" label:"Marca"`
	Modelo        string     `bson:"modelo" json:"modelo" validate:"required" label:"Modelo"`
	IMEI          string     `bson:"imei" json:"imei" validate:"required" label:"IMEI"`
	Armazenamento string     `bson:"armazenamento,omitempty" json:"armazenamento,omitempty"`
	RAM           string     `bson:"ram,omitempty" json:"ram,omitempty"`
	Cor           string     `bson:"cor,omitempty" json:"cor,omitempty"`
	Observacoes   string     `bson:"observacoes,omitempty" json:"observacoes,omitempty"`
	ValorCompra   *float64   `bson:"valorCompra,omitempty" json:"valorCompra,omitempty" validate:"required,min=0" label:"Valor de compra"`
	DataCompra    *time.Time `bson:"dataCompra,omitempty" json:"dataCompra,omitempty"`

	Nome       string  `bson:"nome,omitempty" json:"nome,omitempty"`
	Quantidade int     `bson:"quantidade" json:"quantidade" validate:"min=0" label:"Quantidade"`
	Valor      float64 `bson:"valor" json:"valor" validate:"min=0" label:"Valor"`
}

func (p *Phone) Normalize() {
	trim(&p.Marca, &p.Modelo, &p.IMEI, &p.Armazenamento, &p.RAM, &p.Cor, &p.Observacoes, &p.Nome)
}

// Label is the display name used in activity entries.
func (p *Phone) Label() string {
	return brandModel(p.Marca, p.Modelo, p.Nome, "Celular sem nome")
}

type PhoneInput struct {
	Marca         Optional[string]  `json:"marca"`
	Modelo        Optional[string]  `json:"modelo"`
	IMEI          Optional[string]  `json:"imei"`
	Armazenamento Optional[string]  `json:"armazenamento"`
	RAM           Optional[string]  `json:"ram"`
	Cor           Optional[string]  `json:"cor"`
	Observacoes   Optional[string]  `json:"observacoes"`
	ValorCompra   Optional[float64] `json:"valorCompra"`
	DataCompra    Optional[Date]    `json:"dataCompra"`
	Nome          Optional[string]  `json:"nome"`
	Quantidade    Optional[int]     `json:"quantidade"`
	Valor         Optional[float64] `json:"valor"`
}

// Apply merges the present keys into p.
func (in PhoneInput) Apply(p *Phone) {
	in.Marca.Apply(&p.Marca)
	in.Modelo.Apply(&p.Modelo)
	in.IMEI.Apply(&p.IMEI)
	in.Armazenamento.Apply(&p.Armazenamento)
	in.RAM.Apply(&p.RAM)
	in.Cor.Apply(&p.Cor)
	in.Observacoes.Apply(&p.Observacoes)
	ApplyPtr(in.ValorCompra, &p.ValorCompra)
	ApplyDate(in.DataCompra, &p.DataCompra)
	in.Nome.Apply(&p.Nome)
	in.Quantidade.Apply(&p.Quantidade)
	in.Valor.Apply(&p.Valor)
}

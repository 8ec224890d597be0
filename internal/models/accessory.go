package models

import "time"

// Accessory is a main-stock accessory; Nome, Cor, Quantidade and Valor are legacy.
type Accessory struct {
	Base `bson:",inline"`

	Marca        string     `bson:"marca" json:"marca" validate:"required" label:"Marca"`
	Modelo       string     `bson:"modelo" json:"modelo" validate:"required" label:"Modelo"`
	Tipo         string     `bson:"tipo,omitempty" json:"tipo,omitempty"`
	ValorProduto *float64   `bson:"valorProduto,omitempty" json:"valorProduto,omitempty" validate:"required,min=0" label:"Valor do produto"`
	Observacoes  string     `bson:"observacoes,omitempty" json:"observacoes,omitempty"`
	DataCompra   *time.Time `bson:"dataCompra,omitempty" json:"dataCompra,omitempty"`

	Nome       string  `bson:"nome,omitempty" json:"nome,omitempty"`
	Cor        string  `bson:"cor,omitempty" json:"cor,omitempty"`
	Quantidade int     `bson:"quantidade" json:"quantidade" validate:"min=0" label:"Quantidade"`
	Valor      float64 `bson:"valor" json:"valor" validate:"min=0" label:"Valor"`
}

func (a *Accessory) Normalize() {
	trim(&a.Marca, &a.Modelo, &a.Tipo, &a.Observacoes, &a.Nome, &a.Cor)
}

func (a *Accessory) Label() string {
	return brandModel(a.Marca, a.Modelo, a.Nome, "Acessório sem nome")
}

type AccessoryInput struct {
	Marca        Optional[string]  `json:"marca"`
	Modelo       Optional[string]  `json:"modelo"`
	Tipo         Optional[string]  `json:"tipo"`
	ValorProduto Optional[float64] `json:"valorProduto"`
	Observacoes  Optional[string]  `json:"observacoes"`
	DataCompra   Optional[Date]    `json:"dataCompra"`
	Nome         Optional[string]  `json:"nome"`
	Cor          Optional[string]  `json:"cor"`
	Quantidade   Optional[int]     `json:"quantidade"`
	Valor        Optional[float64] `json:"valor"`
}

func (in AccessoryInput) Apply(a *Accessory) {
	in.Marca.Apply(&a.Marca)
	in.Modelo.Apply(&a.Modelo)
	in.Tipo.Apply(&a.Tipo)
	ApplyPtr(in.ValorProduto, &a.ValorProduto)
	in.Observacoes.Apply(&a.Observacoes)
	ApplyDate(in.DataCompra, &a.DataCompra)
	in.Nome.Apply(&a.Nome)
	in.Cor.Apply(&a.Cor)
	in.Quantidade.Apply(&a.Quantidade)
	in.Valor.Apply(&a.Valor)
}

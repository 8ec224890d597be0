package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CondicaoNovo       = "Novo"
	CondicaoSeminovo   = "Seminovo"
	CondicaoUsado      = "Usado"
	CondicaoDanificado = "Danificado"
)

const (
	CategoriaFone       = "Fone de ouvido"
	CategoriaCarregador = "Carregador"
	CategoriaCapa       = "Capa"
	CategoriaPelicula   = "Película"
	CategoriaCaboUSB    = "Cabo USB"
	CategoriaOutro      = "Outro"
)

// Stock holds the sale and ownership fields shared by both Vivo entities.
type Stock struct {
	ValorCompra *float64           `bson:"valorCompra,omitempty" json:"valorCompra,omitempty" validate:"required,min=0" label:"Valor de compra"`
	PrecoVenda  *float64           `bson:"precoVenda,omitempty" json:"precoVenda,omitempty" validate:"omitempty,min=0" label:"Preço de venda"`
	DataCompra  *time.Time         `bson:"dataCompra,omitempty" json:"dataCompra,omitempty"`
	DataVenda   *time.Time         `bson:"dataVenda,omitempty" json:"dataVenda,omitempty"`
	Quantidade  int                `bson:"quantidade" json:"quantidade" validate:"min=0" label:"Quantidade"`
	Vendido     bool               `bson:"vendido" json:"vendido"`
	Observacoes string             `bson:"observacoes,omitempty" json:"observacoes,omitempty"`
	Cliente     *Cliente           `bson:"cliente,omitempty" json:"cliente,omitempty"`
	Usuario     primitive.ObjectID `bson:"usuario,omitempty" json:"usuario,omitempty"`
}

func (s *Stock) OwnerID() primitive.ObjectID { return s.Usuario }

func (s *Stock) SetOwner(id primitive.ObjectID) { s.Usuario = id }

func (s *Stock) IsSold() bool { return s.Vendido }

// SaleInfo returns the sale price and date, stamping DataVenda with now when
// the item is sold without one.
func (s *Stock) SaleInfo(now time.Time) (float64, time.Time) {
	if s.DataVenda == nil {
		t := now
		s.DataVenda = &t
	}
	var price float64
	if s.PrecoVenda != nil {
		price = *s.PrecoVenda
	}
	return price, *s.DataVenda
}

func (s *Stock) normalize() {
	trim(&s.Observacoes)
	s.Cliente.normalize()
}

type StockInput struct {
	ValorCompra Optional[float64] `json:"valorCompra"`
	PrecoVenda  Optional[float64] `json:"precoVenda"`
	DataCompra  Optional[Date]    `json:"dataCompra"`
	DataVenda   Optional[Date]    `json:"dataVenda"`
	Quantidade  Optional[int]     `json:"quantidade"`
	Vendido     Optional[bool]    `json:"vendido"`
	Observacoes Optional[string]  `json:"observacoes"`
	Cliente     Optional[Cliente] `json:"cliente"`
}

func (in StockInput) apply(s *Stock) {
	ApplyPtr(in.ValorCompra, &s.ValorCompra)
	ApplyPtr(in.PrecoVenda, &s.PrecoVenda)
	ApplyDate(in.DataCompra, &s.DataCompra)
	ApplyDate(in.DataVenda, &s.DataVenda)
	in.Quantidade.Apply(&s.Quantidade)
	in.Vendido.Apply(&s.Vendido)
	in.Observacoes.Apply(&s.Observacoes)
	ApplyPtr(in.Cliente, &s.Cliente)
}

// VivoPhone is a phone in the Vivo line, owned by the user who created it.
type VivoPhone struct {
	Base  `bson:",inline"`
	Stock `bson:",inline"`

	Marca                string `bson:"marca" json:"marca" validate:"required" label:"Marca"`
	Modelo               string `bson:"modelo" json:"modelo" validate:"required" label:"Modelo"`
	IMEI                 string `bson:"imei" json:"imei" validate:"required" label:"IMEI"`
	Armazenamento        string `bson:"armazenamento" json:"armazenamento" validate:"required" label:"Armazenamento"`
	RAM                  string `bson:"ram" json:"ram" validate:"required" label:"Memória RAM"`
	Cor                  string `bson:"cor,omitempty" json:"cor,omitempty"`
	Condicao             string `bson:"condicao" json:"condicao" validate:"oneof=Novo Seminovo Usado Danificado" label:"Condição"`
	AcessoriosVinculados string `bson:"acessoriosVinculados,omitempty" json:"acessoriosVinculados,omitempty"`
}

// NewVivoPhone returns a phone with the schema defaults applied.
func NewVivoPhone() *VivoPhone {
	return &VivoPhone{
		Stock:    Stock{Quantidade: 1},
		Condicao: CondicaoNovo,
	}
}

func (p *VivoPhone) Normalize() {
	trim(&p.Marca, &p.Modelo, &p.IMEI, &p.Armazenamento, &p.RAM, &p.Cor, &p.Condicao, &p.AcessoriosVinculados)
	p.Stock.normalize()
}

func (p *VivoPhone) Label() string {
	return brandModel(p.Marca, p.Modelo, "", "Celular Vivo")
}

type VivoPhoneInput struct {
	StockInput

	Marca                Optional[string] `json:"marca"`
	Modelo               Optional[string] `json:"modelo"`
	IMEI                 Optional[string] `json:"imei"`
	Armazenamento        Optional[string] `json:"armazenamento"`
	RAM                  Optional[string] `json:"ram"`
	Cor                  Optional[string] `json:"cor"`
	Condicao             Optional[string] `json:"condicao"`
	AcessoriosVinculados Optional[string] `json:"acessoriosVinculados"`
}

func (in VivoPhoneInput) Apply(p *VivoPhone) {
	in.StockInput.apply(&p.Stock)
	in.Marca.Apply(&p.Marca)
	in.Modelo.Apply(&p.Modelo)
	in.IMEI.Apply(&p.IMEI)
	in.Armazenamento.Apply(&p.Armazenamento)
	in.RAM.Apply(&p.RAM)
	in.Cor.Apply(&p.Cor)
	in.Condicao.Apply(&p.Condicao)
	in.AcessoriosVinculados.Apply(&p.AcessoriosVinculados)
}

// MissingRequired lists the create-time fields that were not supplied.
func (in VivoPhoneInput) MissingRequired() []string {
	return missing(map[string]bool{
		"marca":       blank(in.Marca),
		"modelo":      blank(in.Modelo),
		"imei":        blank(in.IMEI),
		"valorCompra": !in.ValorCompra.Set || in.ValorCompra.Null,
	}, "marca", "modelo", "imei", "valorCompra")
}

// VivoAccessory is an accessory in the Vivo line.
type VivoAccessory struct {
	Base  `bson:",inline"`
	Stock `bson:",inline"`

	Marca     string `bson:"marca" json:"marca" validate:"required" label:"Marca"`
	Modelo    string `bson:"modelo" json:"modelo" validate:"required" label:"Modelo"`
	Categoria string `bson:"categoria" json:"categoria" validate:"required,oneof='Fone de ouvido' Carregador Capa Película 'Cabo USB' Outro" label:"Categoria"`
	Cor       string `bson:"cor,omitempty" json:"cor,omitempty"`
	Material  string `bson:"material,omitempty" json:"material,omitempty"`
}

func NewVivoAccessory() *VivoAccessory {
	return &VivoAccessory{Stock: Stock{Quantidade: 1}}
}

func (a *VivoAccessory) Normalize() {
	trim(&a.Marca, &a.Modelo, &a.Categoria, &a.Cor, &a.Material)
	a.Stock.normalize()
}

func (a *VivoAccessory) Label() string {
	return brandModel(a.Marca, a.Modelo, "", "Acessório Vivo")
}

type VivoAccessoryInput struct {
	StockInput

	Marca     Optional[string] `json:"marca"`
	Modelo    Optional[string] `json:"modelo"`
	Categoria Optional[string] `json:"categoria"`
	Cor       Optional[string] `json:"cor"`
	Material  Optional[string] `json:"material"`
}

func (in VivoAccessoryInput) Apply(a *VivoAccessory) {
	in.StockInput.apply(&a.Stock)
	in.Marca.Apply(&a.Marca)
	in.Modelo.Apply(&a.Modelo)
	in.Categoria.Apply(&a.Categoria)
	in.Cor.Apply(&a.Cor)
	in.Material.Apply(&a.Material)
}

func (in VivoAccessoryInput) MissingRequired() []string {
	return missing(map[string]bool{
		"marca":       blank(in.Marca),
		"modelo":      blank(in.Modelo),
		"categoria":   blank(in.Categoria),
		"valorCompra": !in.ValorCompra.Set || in.ValorCompra.Null,
	}, "marca", "modelo", "categoria", "valorCompra")
}

func blank(o Optional[string]) bool {
	if !o.Set || o.Null {
		return true
	}
	v := o.Value
	trim(&v)
	return v == ""
}

func missing(flags map[string]bool, order ...string) []string {
	var out []string
	for _, name := range order {
		if flags[name] {
			out = append(out, name)
		}
	}
	return out
}

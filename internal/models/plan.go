package models

// Plan is a service plan. Nome is unique (index created at startup).
type Plan struct {
	Base `bson:",inline"`

	Nome  string   `bson:"nome" json:"nome" validate:"required" label:"Nome"`
	Valor *float64 `bson:"valor,omitempty" json:"valor,omitempty" validate:"required,min=0" label:"Valor"`
}

func (p *Plan) Normalize() {
	trim(&p.Nome)
}

func (p *Plan) Label() string {
	if p.Nome == "" {
		return "Plano sem nome"
	}
	return p.Nome
}

type PlanInput struct {
	Nome  Optional[string]  `json:"nome"`
	Valor Optional[float64] `json:"valor"`
}

func (in PlanInput) Apply(p *Plan) {
	in.Nome.Apply(&p.Nome)
	ApplyPtr(in.Valor, &p.Valor)
}

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityType string

const (
	ActivityPhone     ActivityType = "phone"
	ActivityAccessory ActivityType = "accessory"
	ActivityPlan      ActivityType = "plan"
	ActivityUser      ActivityType = "user"
)

// SystemActor names activities recorded without an authenticated user.
const SystemActor = "System"

// Activity is one entry of the audit feed shown on the dashboard.
type Activity struct {
	Base `bson:",inline"`

	Acao        string              `bson:"acao" json:"acao" validate:"required" label:"Ação"`
	Item        string              `bson:"item" json:"item" validate:"required" label:"Item"`
	ItemID      *primitive.ObjectID `bson:"itemId,omitempty" json:"itemId,omitempty"`
	Tipo        ActivityType        `bson:"tipo" json:"tipo" validate:"required,oneof=phone accessory plan user" label:"Tipo"`
	Usuario     *primitive.ObjectID `bson:"usuario,omitempty" json:"usuario,omitempty"`
	UsuarioNome string              `bson:"usuarioNome" json:"usuarioNome"`
}

func (a *Activity) Normalize() {
	trim(&a.Acao, &a.Item, &a.UsuarioNome)
	if a.UsuarioNome == "" {
		a.UsuarioNome = SystemActor
	}
}

// MarshalJSON adds the derived tempoRelativo field.
func (a Activity) MarshalJSON() ([]byte, error) {
	type plain Activity
	return json.Marshal(struct {
		plain
		TempoRelativo string `json:"tempoRelativo"`
	}{
		plain:         plain(a),
		TempoRelativo: RelativeTime(a.CreatedAt, time.Now()),
	})
}

// RelativeTime renders how long ago t was, switching to a dd/mm/yyyy date
// after a week.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "agora mesmo"
	case d < time.Hour:
		return ago(int(d/time.Minute), "minuto", "minutos")
	case d < 24*time.Hour:
		return ago(int(d/time.Hour), "hora", "horas")
	case d < 7*24*time.Hour:
		return ago(int(d/(24*time.Hour)), "dia", "dias")
	default:
		return t.In(now.Location()).Format("02/01/2006")
	}
}

func ago(n int, singular, plural string) string {
	if n == 1 {
		return "há 1 " + singular
	}
	return fmt.Sprintf("há %d %s", n, plural)
}

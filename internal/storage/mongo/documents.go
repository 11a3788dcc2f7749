package mongo

import (
	"time"

	"github.com/mcoot/battingstats/internal/model"
)

type accountDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type playerDoc struct {
	ID        string     `bson:"_id"`
	Seq       int64      `bson:"seq"`
	UserID    string     `bson:"userId"`
	Name      string     `bson:"name"`
	Position  string     `bson:"position"`
	AVG       float64    `bson:"avg"`
	OBP       float64    `bson:"obp"`
	SLG       float64    `bson:"slg"`
	OPS       float64    `bson:"ops"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (d *accountDoc) toModel() *model.Account {
	return &model.Account{
		ID:           model.AccountID(d.ID),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func (d *playerDoc) toModel() *model.PlayerRecord {
	r := &model.PlayerRecord{
		ID:        model.PlayerRecordID(d.ID),
		OwnerID:   model.AccountID(d.UserID),
		Name:      d.Name,
		Position:  model.Position(d.Position),
		AVG:       d.AVG,
		OBP:       d.OBP,
		SLG:       d.SLG,
		OPS:       d.OPS,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.UpdatedAt != nil {
		t := d.UpdatedAt.UTC()
		r.UpdatedAt = &t
	}
	return r
}

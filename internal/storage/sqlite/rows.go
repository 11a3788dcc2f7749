package sqlite

import (
	"time"

	"github.com/mcoot/battingstats/internal/model"
)

type accountRow struct {
	ID           string    `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (accountRow) TableName() string {
	return "accounts"
}

// playerRow is ordered by Seq, which preserves insertion order per owner.
// LastUpdated is deliberately not named UpdatedAt so gorm does not stamp it
// on insert.
type playerRow struct {
	Seq         uint       `gorm:"primaryKey;autoIncrement"`
	ID          string     `gorm:"uniqueIndex;not null"`
	OwnerID     string     `gorm:"index;not null"`
	Name        string     `gorm:"not null"`
	Position    string     `gorm:"not null"`
	AVG         float64    `gorm:"column:avg"`
	OBP         float64    `gorm:"column:obp"`
	SLG         float64    `gorm:"column:slg"`
	OPS         float64    `gorm:"column:ops"`
	CreatedAt   time.Time  `gorm:"not null"`
	LastUpdated *time.Time `gorm:"column:updated_at"`
}

func (playerRow) TableName() string {
	return "player_records"
}

func accountToRow(a *model.Account) *accountRow {
	return &accountRow{
		ID:           string(a.ID),
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt.UTC(),
	}
}

func (r *accountRow) toModel() *model.Account {
	return &model.Account{
		ID:           model.AccountID(r.ID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func playerToRow(p *model.PlayerRecord) *playerRow {
	row := &playerRow{
		ID:        string(p.ID),
		OwnerID:   string(p.OwnerID),
		Name:      p.Name,
		Position:  string(p.Position),
		AVG:       p.AVG,
		OBP:       p.OBP,
		SLG:       p.SLG,
		OPS:       p.OPS,
		CreatedAt: p.CreatedAt.UTC(),
	}
	if p.UpdatedAt != nil {
		t := p.UpdatedAt.UTC()
		row.LastUpdated = &t
	}
	return row
}

func (r *playerRow) toModel() *model.PlayerRecord {
	p := &model.PlayerRecord{
		ID:        model.PlayerRecordID(r.ID),
		OwnerID:   model.AccountID(r.OwnerID),
		Name:      r.Name,
		Position:  model.Position(r.Position),
		AVG:       r.AVG,
		OBP:       r.OBP,
		SLG:       r.SLG,
		OPS:       r.OPS,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.LastUpdated != nil {
		t := r.LastUpdated.UTC()
		p.UpdatedAt = &t
	}
	return p
}

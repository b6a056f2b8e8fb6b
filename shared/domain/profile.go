package domain

import (
	"database/sql"
	"time"
)

// Profile is the durable user record: identity, donor attributes and the
// moderation flags. IsVerified and IsAdmin are nullable in the store.
type Profile struct {
	Id               UserId    `json:"id"`
	Name             string    `json:"name"`
	Email            Email     `json:"email"`
	BloodType        BloodType `json:"blood_type"`
	City             string    `json:"city"`
	Region           string    `json:"region"`
	IsAvailable      bool      `json:"is_available"`
	IsVerified       *bool     `json:"is_verified"`
	IsAdmin          *bool     `json:"is_admin"`
	Phone            *string   `json:"phone,omitempty"`
	Age              *int      `json:"age,omitempty"`
	FamilyCardNumber *string   `json:"family_card_number,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *Profile) Status() Status {
	return DeriveStatus(p.IsVerified, p.IsAvailable)
}

// Status is the moderation state shown in the admin console.
type Status string

const (
	StatusVerified Status = "verified"
	StatusPending  Status = "pending"
	StatusBanned   Status = "banned"
)

func (s Status) Valid() bool {
	return s == StatusVerified || s == StatusPending || s == StatusBanned
}

// DeriveStatus classifies a profile. Order matters: verified wins, then an
// explicit false/false pair is a ban, everything else waits for review.
func DeriveStatus(isVerified *bool, isAvailable bool) Status {
	if isVerified != nil && *isVerified {
		return StatusVerified
	}
	if isVerified != nil && !*isVerified && !isAvailable {
		return StatusBanned
	}
	return StatusPending
}

// ProfileRow mirrors the profiles table column by column.
type ProfileRow struct {
	Id               UserId
	Name             sql.NullString
	Email            string
	BloodType        sql.NullString
	City             sql.NullString
	Region           sql.NullString
	IsAvailable      sql.NullBool
	IsVerified       sql.NullBool
	IsAdmin          sql.NullBool
	Phone            sql.NullString
	Age              sql.NullInt32
	FamilyCardNumber sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MapProfileRow is the only place a raw store row becomes a Profile.
func MapProfileRow(row ProfileRow) Profile {
	p := Profile{
		Id:          row.Id,
		Name:        row.Name.String,
		Email:       row.Email,
		City:        row.City.String,
		Region:      row.Region.String,
		IsAvailable: row.IsAvailable.Valid && row.IsAvailable.Bool,
		IsVerified:  nullBool(row.IsVerified),
		IsAdmin:     nullBool(row.IsAdmin),
		Phone:       nullString(row.Phone),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if bt, ok := ParseBloodType(row.BloodType.String); ok {
		p.BloodType = bt
	}
	if row.Age.Valid {
		age := int(row.Age.Int32)
		p.Age = &age
	}
	p.FamilyCardNumber = nullString(row.FamilyCardNumber)
	return p
}

func nullBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// ProfileUpdate carries the self-service fields a user may change.
type ProfileUpdate struct {
	Name             string
	BloodType        BloodType
	City             string
	Region           string
	IsAvailable      bool
	Phone            *string
	Age              *int
	FamilyCardNumber *string
}

// Moderation is an admin-side change of the verification and availability flags.
type Moderation struct {
	IsVerified  *bool
	IsAvailable *bool
}

func Bool(b bool) *bool { return &b }

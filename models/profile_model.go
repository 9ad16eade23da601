package models

import (
	"time"

	"github.com/anjiri1684/tutor_match/schedule"
)

// Participant roles.
const (
	RoleStudent = "STUDENT"
	RoleTutor   = "TUTOR"
	RoleUnknown = "UNKNOWN"
)

// Subjects form a closed enumeration; SubjectNone is the sentinel.
const (
	SubjectNone        = "NONE"
	SubjectAlgebra     = "ALGEBRA"
	SubjectAnalysis    = "ANALYSIS"
	SubjectGeometry    = "GEOMETRY"
	SubjectPhysics     = "PHYSICS"
	SubjectChemistry   = "CHEMISTRY"
	SubjectBiology     = "BIOLOGY"
	SubjectInformatics = "INFORMATICS"
	SubjectEnglish     = "ENGLISH"
	SubjectFrench      = "FRENCH"
	SubjectGerman      = "GERMAN"
	SubjectHistory     = "HISTORY"
)

// Subjects lists every valid subject, sentinel excluded.
func Subjects() []string {
	return []string{
		SubjectAlgebra, SubjectAnalysis, SubjectGeometry, SubjectPhysics,
		SubjectChemistry, SubjectBiology, SubjectInformatics,
		SubjectEnglish, SubjectFrench, SubjectGerman, SubjectHistory,
	}
}

func ValidSubject(s string) bool {
	if s == SubjectNone {
		return true
	}
	for _, known := range Subjects() {
		if s == known {
			return true
		}
	}
	return false
}

// Spoken languages, also a closed enumeration.
const (
	LanguageEnglish = "ENGLISH"
	LanguageFrench  = "FRENCH"
	LanguageGerman  = "GERMAN"
	LanguageItalian = "ITALIAN"
	LanguageSpanish = "SPANISH"
)

// Academic sections and levels, informational filters only.
const (
	SectionNone = "NONE"
	SectionIN   = "IN"
	SectionSV   = "SV"
	SectionMA   = "MA"
	SectionPH   = "PH"
	SectionGM   = "GM"
	SectionAR   = "AR"
)

const (
	LevelNone = "NONE"
	LevelBA1  = "BA1"
	LevelBA2  = "BA2"
	LevelBA3  = "BA3"
	LevelBA4  = "BA4"
	LevelBA5  = "BA5"
	LevelBA6  = "BA6"
	LevelMA1  = "MA1"
	LevelMA2  = "MA2"
)

// AcademicLevelRank orders levels for the level-based sort mode. Unknown
// levels rank lowest.
func AcademicLevelRank(level string) int {
	switch level {
	case LevelBA1:
		return 1
	case LevelBA2:
		return 2
	case LevelBA3:
		return 3
	case LevelBA4:
		return 4
	case LevelBA5:
		return 5
	case LevelBA6:
		return 6
	case LevelMA1:
		return 7
	case LevelMA2:
		return 8
	default:
		return 0
	}
}

type Profile struct {
	ID          string `gorm:"type:uuid;primary_key" json:"id"`
	AuthID      string `gorm:"size:255;unique" json:"auth_id"`
	Email       string `gorm:"size:255;not null;unique" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `gorm:"size:255;not null" json:"display_name"`
	Role        string `gorm:"size:20;not null;default:'UNKNOWN'" json:"role"`

	Section       string `gorm:"size:20;not null;default:'NONE'" json:"section"`
	AcademicLevel string `gorm:"size:20;not null;default:'NONE'" json:"academic_level"`

	// Tutor-only attributes. The matching engine never consults them on a
	// non-tutor profile.
	Subjects    []string      `gorm:"serializer:json" json:"subjects"`
	Languages   []string      `gorm:"serializer:json" json:"languages"`
	Price       float64       `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Description string        `gorm:"type:text" json:"description"`
	Verified    bool          `gorm:"default:false" json:"verified"`
	Schedule    schedule.Grid `gorm:"serializer:json" json:"schedule"`

	// Last device location reported by the client, (0, 0) when unset. Only
	// instant matching reads it.
	LastLatitude  float64 `gorm:"default:0" json:"last_latitude"`
	LastLongitude float64 `gorm:"default:0" json:"last_longitude"`

	// Student-only.
	FavoriteTutors []string `gorm:"serializer:json" json:"favorite_tutors"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) IsTutor() bool {
	return p.Role == RoleTutor
}

func (p *Profile) TeachesSubject(subject string) bool {
	for _, s := range p.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

func (p *Profile) HasFavorite(tutorUID string) bool {
	for _, id := range p.FavoriteTutors {
		if id == tutorUID {
			return true
		}
	}
	return false
}

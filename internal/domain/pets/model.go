package pets

import "time"

// PetType define los tipos de mascota que acepta la plataforma.
// @Enum dog, cat, bird, rabbit, reptile, other
type PetType string

const (
	PetTypeDog     PetType = "dog"
	PetTypeCat     PetType = "cat"
	PetTypeBird    PetType = "bird"
	PetTypeRabbit  PetType = "rabbit"
	PetTypeReptile PetType = "reptile"
	PetTypeOther   PetType = "other"
)

// PetTypesOneOf es el valor para tags `validate:"oneof=..."`.
const PetTypesOneOf = "dog cat bird rabbit reptile other"

// PetSize define el tamaño de la mascota (por peso).
// @Enum small, medium, large, giant
type PetSize string

const (
	PetSizeSmall  PetSize = "small"  // 0-7 kg
	PetSizeMedium PetSize = "medium" // 7-18 kg
	PetSizeLarge  PetSize = "large"  // 18-45 kg
	PetSizeGiant  PetSize = "giant"  // 45+ kg
)

const PetSizesOneOf = "small medium large giant"

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet es la mascota de un dueño tal como la guarda el backend (PetData).
type Pet struct {
	ID          string `json:"id"`
	OwnerUserID string `json:"ownerId"`

	Name  string  `json:"name"`
	Type  PetType `json:"type"`
	Breed string  `json:"breed"`
	Size  PetSize `json:"size"`
	Sex   Sex     `json:"sex"`

	BirthDate *time.Time `json:"birthDate,omitempty"`
	WeightKg  float64    `json:"weightKg,omitempty"`

	// Info que el sitter necesita durante la estancia.
	Notes          string `json:"notes"`
	Medications    string `json:"medications,omitempty"`
	FeedingNotes   string `json:"feedingNotes,omitempty"`
	IsVaccinated   bool   `json:"isVaccinated"`
	IsSpayedNeuter bool   `json:"isSpayedNeutered"`

	ImageURL string `json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// SizeForWeight clasifica por peso cuando el dueño no eligió tamaño.
func SizeForWeight(kg float64) PetSize {
	switch {
	case kg <= 0:
		return ""
	case kg < 7:
		return PetSizeSmall
	case kg < 18:
		return PetSizeMedium
	case kg < 45:
		return PetSizeLarge
	default:
		return PetSizeGiant
	}
}

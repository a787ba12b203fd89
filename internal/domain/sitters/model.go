package sitters

import "time"

// ServiceType identifica un servicio que ofrece el sitter.
// @Enum boarding, house_sitting, drop_in_visits, doggy_day_care, dog_walking
type ServiceType string

const (
	ServiceBoarding     ServiceType = "boarding"
	ServiceHouseSitting ServiceType = "house_sitting"
	ServiceDropIn       ServiceType = "drop_in_visits"
	ServiceDayCare      ServiceType = "doggy_day_care"
	ServiceDogWalking   ServiceType = "dog_walking"
)

// ServiceTypesOneOf es el valor para tags `validate:"oneof=..."`.
const ServiceTypesOneOf = "boarding house_sitting drop_in_visits doggy_day_care dog_walking"

// AllServiceTypes en el orden en que el wizard los muestra.
var AllServiceTypes = []ServiceType{
	ServiceBoarding,
	ServiceHouseSitting,
	ServiceDropIn,
	ServiceDayCare,
	ServiceDogWalking,
}

// Sitter es el perfil público que devuelve el backend.
type Sitter struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Name            string `json:"name"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`

	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Rates            map[ServiceType]float64 `json:"rates"`
	AcceptedPetTypes []string                `json:"acceptedPetTypes"`
	AcceptedPetSizes []string                `json:"acceptedPetSizes"`

	GeneralAvailability []string `json:"generalAvailability"`

	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

type Review struct {
	ID         string    `json:"id"`
	SitterID   string    `json:"sitterId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"` // 1..5
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SearchFilter son los filtros de la pantalla de búsqueda. Campos vacíos no filtran.
type SearchFilter struct {
	Query     string
	Service   ServiceType
	PetType   string
	PetSize   string
	Latitude  *float64
	Longitude *float64
	RadiusKm  float64
}

// Profile es la vista de perfil: sitter + reviews.
type Profile struct {
	Sitter        Sitter   `json:"sitter"`
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
}

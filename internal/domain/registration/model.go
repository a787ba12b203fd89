package registration

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"double-paws/internal/domain/availability"
	"double-paws/internal/domain/pets"
	"double-paws/internal/domain/sitters"
)

// Step es un paso del wizard de registro de sitter.
// @Enum identity, services, preferences, housing, experience, availability, banking
type Step int

const (
	StepIdentity Step = iota
	StepServices
	StepPreferences
	StepHousing
	StepExperience
	StepAvailability
	StepBanking
)

var stepNames = [...]string{
	StepIdentity:     "identity",
	StepServices:     "services",
	StepPreferences:  "preferences",
	StepHousing:      "housing",
	StepExperience:   "experience",
	StepAvailability: "availability",
	StepBanking:      "banking",
}

// StepsOneOf es el valor para tags `validate:"oneof=..."`.
const StepsOneOf = "identity services preferences housing experience availability banking"

func (s Step) Valid() bool {
	return s >= StepIdentity && s <= StepBanking
}

func (s Step) String() string {
	if !s.Valid() {
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
	return stepNames[s]
}

// ParseStep acepta el nombre ("services") o el índice ("1").
func ParseStep(raw string) (Step, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, name := range stepNames {
		if name == raw {
			return Step(i), nil
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && Step(n).Valid() {
		return Step(n), nil
	}
	return 0, fmt.Errorf("%w: unknown step %q", ErrInvalidInput, raw)
}

func (s Step) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid step %d", int(s))
	}
	return []byte(stepNames[s]), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	v, err := ParseStep(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AllSteps en orden de navegación.
func AllSteps() []Step {
	out := make([]Step, 0, len(stepNames))
	for i := range stepNames {
		out = append(out, Step(i))
	}
	return out
}

// ServiceRate es el toggle + tarifa de un servicio en el paso Services.
type ServiceRate struct {
	Active bool    `json:"active"`
	Rate   float64 `json:"rate"`
}

// Draft es el registro plano que el wizard va llenando (SitterRegistrationData).
// Se envía completo al backend en el último paso.
type Draft struct {
	// Identity
	Phone       string   `json:"phone"`
	DateOfBirth string   `json:"dateOfBirth"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Bio         string   `json:"bio"`

	// Services
	Services map[sitters.ServiceType]ServiceRate `json:"services"`

	// Preferences
	AcceptedPetTypes []pets.PetType `json:"acceptedPetTypes"`
	AcceptedPetSizes []pets.PetSize `json:"acceptedPetSizes"`

	// Housing
	HomeType        string `json:"homeType"`
	HasYard         bool   `json:"hasYard"`
	HasFencedYard   bool   `json:"hasFencedYard"`
	HasChildren     bool   `json:"hasChildren"`
	HasOtherPets    bool   `json:"hasOtherPets"`
	IsSmokeFree     bool   `json:"isSmokeFree"`
	PetsOnFurniture bool   `json:"petsAllowedOnFurniture"`

	// Experience
	YearsExperience      int      `json:"yearsExperience"`
	ExperienceDetails    string   `json:"experienceDescription"`
	Certifications       []string `json:"certifications"`
	CanGiveMedication    bool     `json:"canAdministerMedication"`
	CanCareSpecialNeeds  bool     `json:"canCareSpecialNeeds"`
	EmergencyContactName string   `json:"emergencyContactName"`

	// Availability
	GeneralAvailability []availability.Token `json:"generalAvailability"`

	// Banking
	AccountHolderName string `json:"accountHolderName"`
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	RoutingNumber     string `json:"routingNumber"`
}

// DefaultDraft es el estado con el que arranca el wizard: todos los servicios apagados.
func DefaultDraft() Draft {
	svc := make(map[sitters.ServiceType]ServiceRate, len(sitters.AllServiceTypes))
	for _, st := range sitters.AllServiceTypes {
		svc[st] = ServiceRate{}
	}
	return Draft{
		Services:            svc,
		AcceptedPetTypes:    []pets.PetType{},
		AcceptedPetSizes:    []pets.PetSize{},
		Certifications:      []string{},
		GeneralAvailability: []availability.Token{},
	}
}

// HasCoordinates: la dirección fue resuelta por el geocoder.
func (d Draft) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// ActiveServices devuelve los servicios encendidos con tarifa > 0.
func (d Draft) ActiveServices() map[sitters.ServiceType]float64 {
	out := map[sitters.ServiceType]float64{}
	for st, sr := range d.Services {
		if sr.Active && sr.Rate > 0 {
			out[st] = sr.Rate
		}
	}
	return out
}

func (d Draft) clone() Draft {
	c := d
	if d.Latitude != nil {
		v := *d.Latitude
		c.Latitude = &v
	}
	if d.Longitude != nil {
		v := *d.Longitude
		c.Longitude = &v
	}
	if d.Services != nil {
		c.Services = make(map[sitters.ServiceType]ServiceRate, len(d.Services))
		for k, v := range d.Services {
			c.Services[k] = v
		}
	}
	c.AcceptedPetTypes = slices.Clone(d.AcceptedPetTypes)
	c.AcceptedPetSizes = slices.Clone(d.AcceptedPetSizes)
	c.Certifications = slices.Clone(d.Certifications)
	c.GeneralAvailability = slices.Clone(d.GeneralAvailability)
	return c
}

// Status del wizard.
// @Enum in_progress, submitted, exited
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusExited     Status = "exited"
)

// StepError es el mensaje visible del paso actual. Se oculta solo al expirar.
type StepError struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SubmittedEvent se publica cuando el backend aceptó el registro.
type SubmittedEvent struct {
	SessionID   string                          `json:"sessionId"`
	OwnerUserID string                          `json:"userId"`
	SitterID    string                          `json:"sitterId"`
	City        string                          `json:"city"`
	Services    map[sitters.ServiceType]float64 `json:"services"`
	Available   []availability.Token            `json:"generalAvailability"`
	SubmittedAt time.Time                       `json:"submittedAt"`
}

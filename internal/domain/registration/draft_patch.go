package registration

import (
	"strings"

	"double-paws/internal/domain/availability"
	"double-paws/internal/domain/pets"
	"double-paws/internal/domain/sitters"
)

// DraftPatch es el cambio campo a campo que manda el cliente mientras llena un paso.
// nil = no tocar. Para slices, nil = no tocar y [] = vaciar.
type DraftPatch struct {
	Phone       *string  `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth *string  `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address     *string  `json:"address" validate:"omitempty,max=200"`
	City        *string  `json:"city" validate:"omitempty,max=100"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Bio         *string  `json:"bio" validate:"omitempty,max=2000"`

	// Merge por servicio: solo se pisan las claves que vienen.
	Services map[sitters.ServiceType]ServiceRatePatch `json:"services" validate:"omitempty,dive,keys,oneof=boarding house_sitting drop_in_visits doggy_day_care dog_walking,endkeys"`

	AcceptedPetTypes []pets.PetType `json:"acceptedPetTypes" validate:"omitempty,dive,oneof=dog cat bird rabbit reptile other"`
	AcceptedPetSizes []pets.PetSize `json:"acceptedPetSizes" validate:"omitempty,dive,oneof=small medium large giant"`

	HomeType        *string `json:"homeType" validate:"omitempty,oneof=house apartment condo farm other"`
	HasYard         *bool   `json:"hasYard"`
	HasFencedYard   *bool   `json:"hasFencedYard"`
	HasChildren     *bool   `json:"hasChildren"`
	HasOtherPets    *bool   `json:"hasOtherPets"`
	IsSmokeFree     *bool   `json:"isSmokeFree"`
	PetsOnFurniture *bool   `json:"petsAllowedOnFurniture"`

	YearsExperience      *int     `json:"yearsExperience" validate:"omitempty,gte=0,lte=80"`
	ExperienceDetails    *string  `json:"experienceDescription" validate:"omitempty,max=2000"`
	Certifications       []string `json:"certifications" validate:"omitempty,dive,max=100"`
	CanGiveMedication    *bool    `json:"canAdministerMedication"`
	CanCareSpecialNeeds  *bool    `json:"canCareSpecialNeeds"`
	EmergencyContactName *string  `json:"emergencyContactName" validate:"omitempty,max=100"`

	GeneralAvailability []availability.Token `json:"generalAvailability" validate:"omitempty,dive,oneof=Weekdays Weekends Holidays Full-Time Sun Mon Tue Wed Thu Fri Sat"`

	AccountHolderName *string `json:"accountHolderName" validate:"omitempty,max=100"`
	BankName          *string `json:"bankName" validate:"omitempty,max=100"`
	AccountNumber     *string `json:"accountNumber" validate:"omitempty,numeric,max=34"`
	RoutingNumber     *string `json:"routingNumber" validate:"omitempty,numeric,max=20"`
}

type ServiceRatePatch struct {
	Active *bool    `json:"active"`
	Rate   *float64 `json:"rate" validate:"omitempty,gte=0,lte=10000"`
}

// Apply escribe el patch sobre d. Cambiar el texto de la dirección sin
// coordenadas nuevas invalida las que había.
func (p DraftPatch) Apply(d *Draft) {
	setString(&d.Phone, p.Phone)
	setString(&d.DateOfBirth, p.DateOfBirth)
	setString(&d.City, p.City)
	setString(&d.Bio, p.Bio)

	if p.Address != nil {
		addr := strings.TrimSpace(*p.Address)
		if addr != d.Address && p.Latitude == nil {
			d.Latitude, d.Longitude = nil, nil
		}
		d.Address = addr
	}
	if p.Latitude != nil && p.Longitude != nil {
		lat, lng := *p.Latitude, *p.Longitude
		d.Latitude, d.Longitude = &lat, &lng
	}

	if len(p.Services) > 0 && d.Services == nil {
		d.Services = map[sitters.ServiceType]ServiceRate{}
	}
	for st, sp := range p.Services {
		cur := d.Services[st]
		if sp.Active != nil {
			cur.Active = *sp.Active
		}
		if sp.Rate != nil {
			cur.Rate = *sp.Rate
		}
		d.Services[st] = cur
	}

	if p.AcceptedPetTypes != nil {
		d.AcceptedPetTypes = dedupe(p.AcceptedPetTypes)
	}
	if p.AcceptedPetSizes != nil {
		d.AcceptedPetSizes = dedupe(p.AcceptedPetSizes)
	}

	setString(&d.HomeType, p.HomeType)
	setBool(&d.HasYard, p.HasYard)
	setBool(&d.HasFencedYard, p.HasFencedYard)
	setBool(&d.HasChildren, p.HasChildren)
	setBool(&d.HasOtherPets, p.HasOtherPets)
	setBool(&d.IsSmokeFree, p.IsSmokeFree)
	setBool(&d.PetsOnFurniture, p.PetsOnFurniture)

	if p.YearsExperience != nil {
		d.YearsExperience = *p.YearsExperience
	}
	setString(&d.ExperienceDetails, p.ExperienceDetails)
	if p.Certifications != nil {
		d.Certifications = dedupe(p.Certifications)
	}
	setBool(&d.CanGiveMedication, p.CanGiveMedication)
	setBool(&d.CanCareSpecialNeeds, p.CanCareSpecialNeeds)
	setString(&d.EmergencyContactName, p.EmergencyContactName)

	if p.GeneralAvailability != nil {
		d.GeneralAvailability = dedupe(p.GeneralAvailability)
	}

	setString(&d.AccountHolderName, p.AccountHolderName)
	setString(&d.BankName, p.BankName)
	setString(&d.AccountNumber, p.AccountNumber)
	setString(&d.RoutingNumber, p.RoutingNumber)
}

// coordsPaired: lat y lng vienen juntas o no vienen.
func (p DraftPatch) coordsPaired() bool {
	return (p.Latitude == nil) == (p.Longitude == nil)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func dedupe[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	seen := make(map[T]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

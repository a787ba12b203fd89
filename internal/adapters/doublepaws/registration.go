package doublepaws

import (
	"context"
	"fmt"
	"strings"

	"double-paws/internal/domain/registration"
)

// sitterRegistrationDTO es el payload de POST /sitters (SitterRegistrationData).
type sitterRegistrationDTO struct {
	Phone       string  `json:"phone"`
	DateOfBirth string  `json:"dateOfBirth"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Bio         string  `json:"bio"`

	Services map[string]serviceDTO `json:"services"`

	AcceptedPetTypes []string `json:"acceptedPetTypes"`
	AcceptedPetSizes []string `json:"acceptedPetSizes"`

	HomeType               string `json:"homeType"`
	HasYard                bool   `json:"hasYard"`
	HasFencedYard          bool   `json:"hasFencedYard"`
	HasChildren            bool   `json:"hasChildren"`
	HasOtherPets           bool   `json:"hasOtherPets"`
	IsSmokeFree            bool   `json:"isSmokeFree"`
	PetsAllowedOnFurniture bool   `json:"petsAllowedOnFurniture"`

	YearsExperience         int      `json:"yearsExperience"`
	ExperienceDescription   string   `json:"experienceDescription"`
	Certifications          []string `json:"certifications"`
	CanAdministerMedication bool     `json:"canAdministerMedication"`
	CanCareSpecialNeeds     bool     `json:"canCareSpecialNeeds"`
	EmergencyContactName    string   `json:"emergencyContactName"`

	GeneralAvailability []string `json:"generalAvailability"`

	AccountHolderName string `json:"accountHolderName"`
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	RoutingNumber     string `json:"routingNumber"`
}

type createdSitterDTO struct {
	ID string `json:"id"`
}

// CreateSitter implementa registration.SitterCreator.
func (c *Client) CreateSitter(ctx context.Context, token string, d registration.Draft) (string, error) {
	if !d.HasCoordinates() {
		return "", fmt.Errorf("%w: draft without coordinates", registration.ErrInvalidInput)
	}

	var out createdSitterDTO
	if err := c.post(ctx, token, "/sitters", toRegistrationDTO(d), &out); err != nil {
		return "", mapErr(err, nil, ErrUpstream)
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", fmt.Errorf("%w: create sitter response without id", ErrMalformed)
	}
	return out.ID, nil
}

func toRegistrationDTO(d registration.Draft) sitterRegistrationDTO {
	services := make(map[string]serviceDTO, len(d.Services))
	for st, sr := range d.Services {
		services[string(st)] = serviceDTO{Active: sr.Active, Rate: sr.Rate}
	}
	petTypes := make([]string, 0, len(d.AcceptedPetTypes))
	for _, pt := range d.AcceptedPetTypes {
		petTypes = append(petTypes, string(pt))
	}
	petSizes := make([]string, 0, len(d.AcceptedPetSizes))
	for _, ps := range d.AcceptedPetSizes {
		petSizes = append(petSizes, string(ps))
	}
	avail := make([]string, 0, len(d.GeneralAvailability))
	for _, t := range d.GeneralAvailability {
		avail = append(avail, string(t))
	}

	return sitterRegistrationDTO{
		Phone:       d.Phone,
		DateOfBirth: d.DateOfBirth,
		Address:     d.Address,
		City:        d.City,
		Latitude:    *d.Latitude,
		Longitude:   *d.Longitude,
		Bio:         d.Bio,

		Services: services,

		AcceptedPetTypes: petTypes,
		AcceptedPetSizes: petSizes,

		HomeType:               d.HomeType,
		HasYard:                d.HasYard,
		HasFencedYard:          d.HasFencedYard,
		HasChildren:            d.HasChildren,
		HasOtherPets:           d.HasOtherPets,
		IsSmokeFree:            d.IsSmokeFree,
		PetsAllowedOnFurniture: d.PetsOnFurniture,

		YearsExperience:         d.YearsExperience,
		ExperienceDescription:   d.ExperienceDetails,
		Certifications:          nonNil(d.Certifications),
		CanAdministerMedication: d.CanGiveMedication,
		CanCareSpecialNeeds:     d.CanCareSpecialNeeds,
		EmergencyContactName:    d.EmergencyContactName,

		GeneralAvailability: avail,

		AccountHolderName: d.AccountHolderName,
		BankName:          d.BankName,
		AccountNumber:     d.AccountNumber,
		RoutingNumber:     d.RoutingNumber,
	}
}

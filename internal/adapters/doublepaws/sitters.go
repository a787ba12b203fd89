package doublepaws

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"double-paws/internal/domain/availability"
	"double-paws/internal/domain/sitters"
)

// Formato de /sitters en el backend.
type sitterDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`

	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Services map[string]serviceDTO `json:"services"`

	AcceptedPetTypes    []string `json:"acceptedPetTypes"`
	AcceptedPetSizes    []string `json:"acceptedPetSizes"`
	GeneralAvailability []string `json:"generalAvailability"`
	BlockedDates        []string `json:"blockedDates"`

	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

type serviceDTO struct {
	Active bool    `json:"active"`
	Rate   float64 `json:"rate"`
}

type bookingDTO struct {
	ID        string `json:"id"`
	SitterID  string `json:"sitterId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

type reviewDTO struct {
	ID           string `json:"id"`
	SitterID     string `json:"sitterId"`
	ReviewerID   string `json:"reviewerId"`
	ReviewerName string `json:"reviewerName"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"createdAt"`
}

// Solo estas reservas ocupan el calendario.
var blockingStatuses = map[string]bool{
	"accepted": true,
	"pending":  true,
}

func (c *Client) Search(ctx context.Context, token string, f sitters.SearchFilter) ([]sitters.Sitter, error) {
	q := url.Values{}
	if s := strings.TrimSpace(f.Query); s != "" {
		q.Set("q", s)
	}
	if f.Service != "" {
		q.Set("service", string(f.Service))
	}
	if f.PetType != "" {
		q.Set("petType", f.PetType)
	}
	if f.PetSize != "" {
		q.Set("petSize", f.PetSize)
	}
	if f.Latitude != nil && f.Longitude != nil {
		q.Set("lat", strconv.FormatFloat(*f.Latitude, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(*f.Longitude, 'f', -1, 64))
	}
	if f.RadiusKm > 0 {
		q.Set("radius", strconv.FormatFloat(f.RadiusKm, 'f', -1, 64))
	}

	var raw []sitterDTO
	if err := c.get(ctx, token, "/sitters/search", q, &raw); err != nil {
		return nil, mapErr(err, nil, sitters.ErrUnavailable)
	}
	out := make([]sitters.Sitter, 0, len(raw))
	for _, d := range raw {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) GetByID(ctx context.Context, token, sitterID string) (sitters.Sitter, error) {
	d, err := c.sitter(ctx, token, sitterID)
	if err != nil {
		return sitters.Sitter{}, err
	}
	return d.toDomain(), nil
}

func (c *Client) Me(ctx context.Context, token string) (sitters.Sitter, error) {
	var d sitterDTO
	if err := c.get(ctx, token, "/sitters/me", nil, &d); err != nil {
		return sitters.Sitter{}, mapErr(err, sitters.ErrNotFound, sitters.ErrUnavailable)
	}
	return d.toDomain(), nil
}

func (c *Client) ListReviews(ctx context.Context, token, sitterID string) ([]sitters.Review, error) {
	var raw []reviewDTO
	q := url.Values{"sitterId": []string{sitterID}}
	if err := c.get(ctx, token, "/reviews", q, &raw); err != nil {
		return nil, mapErr(err, nil, sitters.ErrUnavailable)
	}

	out := make([]sitters.Review, 0, len(raw))
	for _, r := range raw {
		rv := sitters.Review{
			ID:         r.ID,
			SitterID:   r.SitterID,
			AuthorID:   r.ReviewerID,
			AuthorName: r.ReviewerName,
			Rating:     r.Rating,
			Comment:    r.Comment,
		}
		// Una review sin fecha legible se muestra igual, sin fecha.
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(r.CreatedAt)); err == nil {
			rv.CreatedAt = t
		}
		out = append(out, rv)
	}
	return out, nil
}

// AvailabilityInput junta preferencias + bloqueos del sitter y sus reservas
// vigentes. Fechas mal formadas se rechazan aquí, no en el calculador.
func (c *Client) AvailabilityInput(ctx context.Context, token, sitterID string) (availability.Input, error) {
	d, err := c.sitter(ctx, token, sitterID)
	if err != nil {
		return availability.Input{}, err
	}

	var raw []bookingDTO
	if err := c.get(ctx, token, "/sitters/"+url.PathEscape(sitterID)+"/bookings", nil, &raw); err != nil {
		return availability.Input{}, mapErr(err, sitters.ErrNotFound, sitters.ErrUnavailable)
	}

	blocked, err := parseDates(d.BlockedDates)
	if err != nil {
		return availability.Input{}, mapErr(err, nil, sitters.ErrUnavailable)
	}

	bookings := make([]availability.Booking, 0, len(raw))
	for _, b := range raw {
		if !blockingStatuses[strings.ToLower(strings.TrimSpace(b.Status))] {
			continue
		}
		start, err := parseDate(b.StartDate)
		if err != nil {
			return availability.Input{}, mapErr(err, nil, sitters.ErrUnavailable)
		}
		end, err := parseDate(b.EndDate)
		if err != nil {
			return availability.Input{}, mapErr(err, nil, sitters.ErrUnavailable)
		}
		bookings = append(bookings, availability.Booking{Start: start, End: end})
	}

	// Tokens desconocidos se conservan: cuentan como regla y no abren días.
	rules := make([]availability.Token, 0, len(d.GeneralAvailability))
	for _, s := range d.GeneralAvailability {
		if tok, ok := availability.ParseToken(s); ok {
			rules = append(rules, tok)
			continue
		}
		rules = append(rules, availability.Token(strings.TrimSpace(s)))
	}

	return availability.Input{
		GeneralAvailability: rules,
		BlockedDates:        blocked,
		Bookings:            bookings,
	}, nil
}

func (c *Client) sitter(ctx context.Context, token, sitterID string) (sitterDTO, error) {
	var d sitterDTO
	if err := c.get(ctx, token, "/sitters/"+url.PathEscape(sitterID), nil, &d); err != nil {
		return sitterDTO{}, mapErr(err, sitters.ErrNotFound, sitters.ErrUnavailable)
	}
	return d, nil
}

func (d sitterDTO) toDomain() sitters.Sitter {
	rates := make(map[sitters.ServiceType]float64, len(d.Services))
	for name, svc := range d.Services {
		if svc.Active && svc.Rate > 0 {
			rates[sitters.ServiceType(name)] = svc.Rate
		}
	}
	return sitters.Sitter{
		ID:                  d.ID,
		UserID:              d.UserID,
		Name:                d.Name,
		Bio:                 d.Bio,
		ProfileImageURL:     d.ProfileImage,
		City:                d.City,
		Latitude:            d.Latitude,
		Longitude:           d.Longitude,
		Rates:               rates,
		AcceptedPetTypes:    nonNil(d.AcceptedPetTypes),
		AcceptedPetSizes:    nonNil(d.AcceptedPetSizes),
		GeneralAvailability: nonNil(d.GeneralAvailability),
		Rating:              d.Rating,
		ReviewCount:         d.ReviewCount,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

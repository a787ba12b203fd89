package nominatim

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"double-paws/internal/domain/geocoding"
	"double-paws/internal/platform/httpclient"

	"golang.org/x/time/rate"
)

// Client habla con Nominatim (OpenStreetMap). El tier gratis pide 1 req/s
// y un User-Agent identificable; sin API key.
type Client struct {
	http    *httpclient.Client
	limiter *rate.Limiter
}

// NewClient: perSecond <= 0 deja el cliente sin límite (tests).
func NewClient(hc *httpclient.Client, perSecond float64) *Client {
	lim := rate.NewLimiter(rate.Inf, 0)
	if perSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Client{http: hc, limiter: lim}
}

type placeDTO struct {
	Lat         string     `json:"lat"`
	Lon         string     `json:"lon"`
	DisplayName string     `json:"display_name"`
	Address     addressDTO `json:"address"`
	Error       string     `json:"error"`
}

type addressDTO struct {
	City     string `json:"city"`
	Town     string `json:"town"`
	Village  string `json:"village"`
	County   string `json:"county"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]geocoding.Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var raw []placeDTO
	if err := c.do(ctx, "/search", q, &raw); err != nil {
		return nil, err
	}

	out := make([]geocoding.Place, 0, len(raw))
	for _, p := range raw {
		place, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, place)
	}
	return out, nil
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (geocoding.Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")

	var raw placeDTO
	if err := c.do(ctx, "/reverse", q, &raw); err != nil {
		return geocoding.Place{}, err
	}
	// Nominatim responde 200 con {"error": "..."} cuando no hay nada.
	if raw.Error != "" {
		return geocoding.Place{}, fmt.Errorf("%w: %s", geocoding.ErrNotFound, raw.Error)
	}
	return raw.toDomain()
}

func (c *Client) do(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	err := c.http.DoJSON(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  q,
	}, out)
	if err != nil {
		return fmt.Errorf("%w: %w", geocoding.ErrUpstream, err)
	}
	return nil
}

// lat/lon llegan como strings.
func (p placeDTO) toDomain() (geocoding.Place, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return geocoding.Place{}, fmt.Errorf("%w: bad lat %q", geocoding.ErrUpstream, p.Lat)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return geocoding.Place{}, fmt.Errorf("%w: bad lon %q", geocoding.ErrUpstream, p.Lon)
	}

	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}

	return geocoding.Place{
		DisplayName: p.DisplayName,
		City:        city,
		State:       p.Address.State,
		Country:     p.Address.Country,
		PostalCode:  p.Address.Postcode,
		Latitude:    lat,
		Longitude:   lng,
	}, nil
}

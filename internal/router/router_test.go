package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"double-paws/internal/domain/geocoding"
	"double-paws/internal/platform/httpclient"
	"double-paws/internal/router"
)

// fakeBackend imita las rutas del API de Double Paws que usa el router.
type fakeBackend struct {
	mu      sync.Mutex
	created []map[string]any
	failing bool
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sitters/s-1", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, map[string]any{
			"id":                  "s-1",
			"name":                "Ana",
			"city":                "Portland",
			"services":            map[string]any{"boarding": map[string]any{"active": true, "rate": 40}},
			"generalAvailability": []string{"Weekdays", "Weekends"},
			"blockedDates":        []string{},
		})
	})
	mux.HandleFunc("GET /sitters/s-1/bookings", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /sitters/broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /pets", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("POST /sitters", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failing {
			http.Error(w, "db down", http.StatusServiceUnavailable)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.created = append(b.created, body)
		writeBody(w, http.StatusCreated, map[string]any{"id": "sitter-9"})
	})
	return mux
}

func (b *fakeBackend) setFailing(v bool) {
	b.mu.Lock()
	b.failing = v
	b.mu.Unlock()
}

func fakeNominatim() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, []map[string]any{{
			"lat":          "45.5152",
			"lon":          "-122.6784",
			"display_name": "123 Main St, Portland, Oregon",
			"address":      map[string]any{"city": "Portland", "state": "Oregon", "country": "United States"},
		}})
	})
	mux.HandleFunc("GET /reverse", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, map[string]any{"error": "Unable to geocode"})
	})
	return mux
}

func writeBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T) (*httptest.Server, *fakeBackend) {
	t.Helper()

	backend := &fakeBackend{}
	api := httptest.NewServer(backend.handler())
	t.Cleanup(api.Close)
	geo := httptest.NewServer(fakeNominatim())
	t.Cleanup(geo.Close)

	apiClient, err := httpclient.NewWithBaseURL(api.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	geoClient, err := httpclient.NewWithBaseURL(geo.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("geo client: %v", err)
	}
	geoClient.UserAgent = "double-paws-test"

	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier:    nil,
		API:             apiClient,
		GeocodingClient: geoClient,
		Geocoding:       geocoding.Options{Debounce: time.Millisecond},
		AllowedOrigins:  []string{"https://app.doublepaws.test"},
	}))
	t.Cleanup(ts.Close)
	return ts, backend
}

func TestHTTP_Health(t *testing.T) {
	ts, _ := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d body=%s", st, string(body))
	}
}

func TestHTTP_Availability(t *testing.T) {
	ts, _ := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/sitters/s-1/availability?monthOffset=1", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	var m struct {
		SitterID      string `json:"sitterId"`
		DaysInMonth   int    `json:"daysInMonth"`
		AvailableDays []int  `json:"availableDays"`
	}
	mustUnmarshal(t, body, &m)
	if m.SitterID != "s-1" || m.DaysInMonth < 28 {
		t.Fatalf("unexpected month: %+v", m)
	}
	// Weekdays + Weekends, sin reservas ni bloqueos: todo el mes siguiente libre.
	if len(m.AvailableDays) != m.DaysInMonth {
		t.Fatalf("expected every day available, got %d of %d", len(m.AvailableDays), m.DaysInMonth)
	}

	st, _ = doReq(t, ts.URL, "GET", "/sitters/s-1/availability?monthOffset=x", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad offset, got %d", st)
	}
}

func TestHTTP_BackendFailureIsGeneric(t *testing.T) {
	ts, _ := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/sitters/broken/availability", "", nil)
	if st != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", st, string(body))
	}
	var e struct {
		Error string `json:"error"`
	}
	mustUnmarshal(t, body, &e)
	if e.Error != "Something went wrong, please try again" {
		t.Fatalf("unexpected error message %q", e.Error)
	}
}

func TestHTTP_PetsRequireUser(t *testing.T) {
	ts, _ := newServer(t)

	if st, _ := doReq(t, ts.URL, "GET", "/pets", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}
	st, body := doReq(t, ts.URL, "GET", "/pets", "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
}

func TestHTTP_GeocodeSearch(t *testing.T) {
	ts, _ := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/geocode/search?q=123+Main", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	var places []geocoding.Place
	mustUnmarshal(t, body, &places)
	if len(places) != 1 || places[0].City != "Portland" {
		t.Fatalf("unexpected places: %+v", places)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/geocode/reverse?lat=0&lng=0", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for empty reverse, got %d", st)
	}
}

func TestHTTP_CORSPreflight(t *testing.T) {
	ts, _ := newServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/registrations", nil)
	req.Header.Set("Origin", "https://app.doublepaws.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.doublepaws.test" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestHTTP_EndToEnd_Registration(t *testing.T) {
	ts, backend := newServer(t)
	owner := "sitter-user-1"

	// 1) Empieza el wizard
	st, body := doReq(t, ts.URL, "POST", "/registrations", owner, nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 start, got %d body=%s", st, string(body))
	}
	wz := decodeWizard(t, body)
	id := wz.ID
	path := "/registrations/" + id

	// 2) Otro usuario no ve la sesión
	if st, _ := doReq(t, ts.URL, "GET", path, "intruder", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for other user, got %d", st)
	}

	// 3) Next sin dirección resuelta: 422 con el mensaje visible
	st, body = doReq(t, ts.URL, "POST", path+"/next", owner, nil)
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", st, string(body))
	}
	if wz = decodeWizard(t, body); wz.Error == "" || wz.CurrentStep != "identity" {
		t.Fatalf("expected identity error, got %+v", wz)
	}

	// 4) Saltar hacia adelante está bloqueado
	if st, _ := doReq(t, ts.URL, "POST", path+"/jump", owner, map[string]any{"step": "banking"}); st != http.StatusConflict {
		t.Fatalf("expected 409 jump ahead, got %d", st)
	}

	// 5) Identity: dirección + teléfono + fecha
	st, body = doReq(t, ts.URL, "POST", path+"/address", owner, map[string]any{"query": "123 Main St"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 address, got %d body=%s", st, string(body))
	}
	if wz = decodeWizard(t, body); wz.Draft.City != "Portland" || wz.Draft.Latitude == nil {
		t.Fatalf("address not resolved: %+v", wz.Draft)
	}
	patchDraft(t, ts.URL, path, owner, map[string]any{"phone": "555-0100", "dateOfBirth": "1990-04-02"})
	next(t, ts.URL, path, owner, "services")

	// 6) Services: activo con tarifa 0 no alcanza
	patchDraft(t, ts.URL, path, owner, map[string]any{"services": map[string]any{"dog_walking": map[string]any{"active": true, "rate": 0}}})
	if st, _ := doReq(t, ts.URL, "POST", path+"/next", owner, nil); st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 with zero rate, got %d", st)
	}
	patchDraft(t, ts.URL, path, owner, map[string]any{"services": map[string]any{"dog_walking": map[string]any{"rate": 25}}})
	next(t, ts.URL, path, owner, "preferences")

	// 7) Preferences
	patchDraft(t, ts.URL, path, owner, map[string]any{"acceptedPetTypes": []string{"dog"}, "acceptedPetSizes": []string{"small", "medium"}})
	next(t, ts.URL, path, owner, "housing")

	// 8) Volver y saltar a un paso completado
	st, body = doReq(t, ts.URL, "POST", path+"/back", owner, nil)
	if st != http.StatusOK || decodeWizard(t, body).CurrentStep != "preferences" {
		t.Fatalf("expected back to preferences, got %d body=%s", st, string(body))
	}
	st, body = doReq(t, ts.URL, "POST", path+"/jump", owner, map[string]any{"step": "identity"})
	if st != http.StatusOK || decodeWizard(t, body).CurrentStep != "identity" {
		t.Fatalf("expected jump to identity, got %d body=%s", st, string(body))
	}
	st, body = doReq(t, ts.URL, "POST", path+"/jump", owner, map[string]any{"step": "preferences"})
	if st != http.StatusOK || decodeWizard(t, body).CurrentStep != "preferences" {
		t.Fatalf("expected jump to preferences, got %d body=%s", st, string(body))
	}
	next(t, ts.URL, path, owner, "housing")

	// 9) Housing y Experience no validan
	next(t, ts.URL, path, owner, "experience")
	next(t, ts.URL, path, owner, "availability")

	// 10) Availability
	patchDraft(t, ts.URL, path, owner, map[string]any{"generalAvailability": []string{"Weekends"}})
	next(t, ts.URL, path, owner, "banking")

	// 11) Submit con backend caído: 502 genérico y el wizard sigue
	backend.setFailing(true)
	st, body = doReq(t, ts.URL, "POST", path+"/next", owner, nil)
	if st != http.StatusBadGateway {
		t.Fatalf("expected 502 on submit failure, got %d body=%s", st, string(body))
	}
	if wz = decodeWizard(t, body); wz.Error != "Something went wrong, please try again" || wz.CurrentStep != "banking" {
		t.Fatalf("unexpected wizard after failed submit: %+v", wz)
	}

	// 12) Reintento OK
	backend.setFailing(false)
	st, body = doReq(t, ts.URL, "POST", path+"/next", owner, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 submit, got %d body=%s", st, string(body))
	}
	if wz = decodeWizard(t, body); wz.Status != "submitted" || wz.SitterID != "sitter-9" {
		t.Fatalf("unexpected wizard after submit: %+v", wz)
	}

	backend.mu.Lock()
	created := backend.created
	backend.mu.Unlock()
	if len(created) != 1 {
		t.Fatalf("expected one sitter created, got %d", len(created))
	}
	if created[0]["phone"] != "555-0100" || created[0]["city"] != "Portland" {
		t.Fatalf("unexpected payload: %+v", created[0])
	}

	// 13) La sesión ya no existe
	if st, _ := doReq(t, ts.URL, "GET", path, owner, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after submit, got %d", st)
	}
}

func TestHTTP_RegistrationBackFromIdentityExits(t *testing.T) {
	ts, _ := newServer(t)
	owner := "sitter-user-2"

	_, body := doReq(t, ts.URL, "POST", "/registrations", owner, nil)
	path := "/registrations/" + decodeWizard(t, body).ID

	st, body := doReq(t, ts.URL, "POST", path+"/back", owner, nil)
	if st != http.StatusOK || decodeWizard(t, body).Status != "exited" {
		t.Fatalf("expected exited, got %d body=%s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "GET", path, owner, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after exit, got %d", st)
	}
}

// --- helpers ---

type wizardView struct {
	ID          string `json:"id"`
	CurrentStep string `json:"currentStep"`
	Error       string `json:"error"`
	Status      string `json:"status"`
	SitterID    string `json:"sitterId"`
	Draft       struct {
		City      string   `json:"city"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"draft"`
}

func decodeWizard(t *testing.T, body []byte) wizardView {
	t.Helper()
	var v wizardView
	mustUnmarshal(t, body, &v)
	return v
}

func patchDraft(t *testing.T, baseURL, path, userID string, patch map[string]any) {
	t.Helper()
	st, body := doReq(t, baseURL, "PATCH", path+"/draft", userID, patch)
	if st != http.StatusOK {
		t.Fatalf("expected 200 patch draft, got %d body=%s", st, string(body))
	}
}

func next(t *testing.T, baseURL, path, userID, wantStep string) {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", path+"/next", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 next, got %d body=%s", st, string(body))
	}
	if got := decodeWizard(t, body).CurrentStep; got != wantStep {
		t.Fatalf("expected step %s, got %s", wantStep, got)
	}
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

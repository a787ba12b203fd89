package registration

import "strings"

// Mensajes que ve el usuario cuando un paso no pasa validación.
const (
	msgAddressNotResolved = "Please select your address from the suggestions"
	msgPhoneRequired      = "Phone number is required"
	msgBirthDateRequired  = "Date of birth is required"
	msgNoActiveService    = "Select at least one service and set a rate greater than 0"
	msgNoPetType          = "Select at least one pet type"
	msgNoPetSize          = "Select at least one pet size"
	msgNoAvailability     = "Select at least one availability option"
)

// stepValidator devuelve "" si el draft puede avanzar, o el mensaje a mostrar.
type stepValidator func(d Draft) string

// Housing, Experience y Banking no validan: siempre pasan.
var validators = map[Step]stepValidator{
	StepIdentity:     validateIdentity,
	StepServices:     validateServices,
	StepPreferences:  validatePreferences,
	StepAvailability: validateAvailability,
}

// ValidateStep corre el validador del paso sobre el draft.
func ValidateStep(step Step, d Draft) string {
	fn, ok := validators[step]
	if !ok {
		return ""
	}
	return fn(d)
}

func validateIdentity(d Draft) string {
	if !d.HasCoordinates() {
		return msgAddressNotResolved
	}
	if strings.TrimSpace(d.Phone) == "" {
		return msgPhoneRequired
	}
	if strings.TrimSpace(d.DateOfBirth) == "" {
		return msgBirthDateRequired
	}
	return ""
}

// Un servicio activo con tarifa 0 no cuenta.
func validateServices(d Draft) string {
	for _, sr := range d.Services {
		if sr.Active && sr.Rate > 0 {
			return ""
		}
	}
	return msgNoActiveService
}

func validatePreferences(d Draft) string {
	if len(d.AcceptedPetTypes) == 0 {
		return msgNoPetType
	}
	if len(d.AcceptedPetSizes) == 0 {
		return msgNoPetSize
	}
	return ""
}

func validateAvailability(d Draft) string {
	if len(d.GeneralAvailability) == 0 {
		return msgNoAvailability
	}
	return ""
}

package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhone номер не распознан или не существует в регионе
var ErrInvalidPhone = errors.New("phone: invalid phone number")

// Normalize проверяет номер для региона по умолчанию и приводит его к E.164.
// Номер в международном формате (+...) принимается для любого региона.
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidPhone, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

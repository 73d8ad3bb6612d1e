package validator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "UA"

var (
	ErrPhoneFormat    = errors.New("Неверный формат номера телефона")
	ErrPhoneRegion    = errors.New("Номер телефона должен быть украинским")
	ErrPhoneNotExist  = errors.New("Такой номер телефона не существует")
	ErrPhoneNotMobile = errors.New("Номер телефона должен быть мобильным")
)

// +380XXXXXXXXX, 380XXXXXXXXX или 0XXXXXXXXX
var uaPhonePattern = regexp.MustCompile(`^(?:\+?38)?0\d{9}$`)

// ValidatePhone проверяет украинский мобильный номер и возвращает его в формате E.164.
func ValidatePhone(input string) (string, error) {
	phone := strings.TrimSpace(input)

	if !uaPhonePattern.MatchString(phone) {
		return "", ErrPhoneFormat
	}

	num, err := phonenumbers.Parse(toInternational(phone), DefaultRegion)
	if err != nil {
		return "", ErrPhoneFormat
	}

	if phonenumbers.GetRegionCodeForNumber(num) != DefaultRegion {
		return "", ErrPhoneRegion
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", ErrPhoneNotExist
	}

	if phonenumbers.GetNumberType(num) != phonenumbers.MOBILE {
		return "", ErrPhoneNotMobile
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizePhone приводит номер к E.164 без проверки типа номера.
// Используется для сравнения и при отправке SMS.
func NormalizePhone(input string, region string) (string, error) {
	phone := strings.TrimSpace(input)
	if uaPhonePattern.MatchString(phone) {
		phone = toInternational(phone)
	}

	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", ErrPhoneNotExist
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func toInternational(phone string) string {
	switch {
	case strings.HasPrefix(phone, "+"):
		return phone
	case strings.HasPrefix(phone, "38"):
		return "+" + phone
	default:
		return "+38" + phone
	}
}

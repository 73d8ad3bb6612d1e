package validator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"strings"
)

var (
	ErrEmailFormat        = errors.New("Неверный формат email")
	ErrEmailDomain        = errors.New("Домен email не существует")
	ErrEmailUndeliverable = errors.New("Домен не принимает почту (нет MX, A или AAAA записей)")
)

// Resolver - DNS-запросы, нужные для проверки доставляемости почты.
// *net.Resolver удовлетворяет интерфейсу.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Email проверяет синтаксис адреса и наличие у домена MX- или A/AAAA-записей.
type Email struct {
	resolver Resolver
}

func NewEmail(resolver Resolver) *Email {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Email{resolver: resolver}
}

// Validate возвращает нормализованный (в нижнем регистре) адрес.
func (e *Email) Validate(ctx context.Context, input string) (string, error) {
	address, err := ParseEmail(input)
	if err != nil {
		return "", err
	}

	domain := address[strings.LastIndexByte(address, '@')+1:]

	mx, mxErr := e.resolver.LookupMX(ctx, domain)
	if mxErr == nil && len(mx) > 0 {
		return address, nil
	}

	hosts, hostErr := e.resolver.LookupHost(ctx, domain)
	if hostErr == nil && len(hosts) > 0 {
		return address, nil
	}

	if isNotFound(mxErr) && isNotFound(hostErr) {
		return "", ErrEmailDomain
	}

	if mxErr != nil && !isNotFound(mxErr) {
		return "", fmt.Errorf("Ошибка при проверке домена email: %w", mxErr)
	}

	return "", ErrEmailUndeliverable
}

// ParseEmail проверяет только синтаксис адреса.
func ParseEmail(input string) (string, error) {
	raw := strings.TrimSpace(input)

	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || addr.Name != "" {
		return "", ErrEmailFormat
	}

	at := strings.LastIndexByte(raw, '@')
	if at <= 0 || !strings.Contains(raw[at+1:], ".") {
		return "", ErrEmailFormat
	}

	return strings.ToLower(raw), nil
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsNotFound
	}
	return false
}

package verification

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const CodeLength = 6

// Generator выдает случайные числовые коды подтверждения.
type Generator struct {
	random io.Reader
	length int
}

func NewGenerator() *Generator {
	return &Generator{random: rand.Reader, length: CodeLength}
}

// Generate генерирует код из 6 цифр; цифры могут повторяться, ведущий ноль допустим.
func (g *Generator) Generate() (string, error) {
	const digits = "0123456789"

	code := make([]byte, g.length)
	for i := range code {
		num, err := rand.Int(g.random, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		code[i] = digits[num.Int64()]
	}

	return string(code), nil
}

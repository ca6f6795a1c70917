// Package password hashea y verifica contraseñas con bcrypt y genera contraseñas temporales.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TemporaryLength longitud de las contraseñas generadas por Generate.
const TemporaryLength = 10

// ErrMismatch la contraseña no corresponde al hash.
var ErrMismatch = errors.New("password: no coincide")

// Hasher hashea con el costo configurado. Costo fuera de rango usa bcrypt.DefaultCost.
type Hasher struct {
	cost int
}

// NewHasher construye un Hasher.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash devuelve el hash bcrypt de plain.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(b), nil
}

// Compare devuelve ErrMismatch si plain no corresponde a hash.
func (h *Hasher) Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("password: compare: %w", err)
	}
	return nil
}

// Generate produce una contraseña alfanumérica aleatoria de TemporaryLength caracteres.
func Generate() (string, error) {
	out := make([]byte, TemporaryLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("password: generate: %w", err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}

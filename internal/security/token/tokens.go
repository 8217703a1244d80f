// Package tokens genera strings aleatorios criptográficos: refresh tokens
// opacos y credenciales de cliente (client_id / client_secret).
package tokens

import (
	"crypto/rand"
	"encoding/base64"
)

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RefreshTokenLen es el largo fijo del refresh token opaco.
const RefreshTokenLen = 64

// GenerateRefreshToken genera un token opaco de 64 chars letras+dígitos.
func GenerateRefreshToken() (string, error) {
	return randomAlphanum(RefreshTokenLen)
}

// GenerateClientID genera el identificador público de una app: "client_" +
// 16 bytes aleatorios en base64url sin padding.
func GenerateClientID() (string, error) {
	s, err := randomURLSafe(16)
	if err != nil {
		return "", err
	}
	return "client_" + s, nil
}

// GenerateClientSecret genera el secreto de una app (32 bytes, base64url).
// El plaintext se emite una sola vez; en reposo solo vive su hash.
func GenerateClientSecret() (string, error) {
	return randomURLSafe(32)
}

func randomURLSafe(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomAlphanum(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, v := range b {
		out[i] = alphanum[int(v)%len(alphanum)]
	}
	return string(out), nil
}

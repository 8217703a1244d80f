// Package jwt emite y verifica access tokens firmados (compactos,
// self-contained). Firma simétrica con un solo algoritmo fijo (default
// HS256); la clave y el algoritmo vienen de configuración.
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken es el sentinel único de verificación: malformado, firma
// inválida, expirado o sin subject colapsan acá. El codec nunca filtra al
// caller el motivo de la falla.
var ErrInvalidToken = errors.New("invalid token")

// Claims es el payload decodificado de un access token.
// AppID/AppName solo están presentes en tokens de SSO launch.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Roles     []string
	AppID     string
	AppName   string
	ExpiresAt time.Time
}

// Issuer firma y verifica tokens con clave simétrica.
type Issuer struct {
	secret []byte
	method jwtv5.SigningMethod
	alg    string

	// AccessTTL es el TTL por defecto cuando Issue recibe ttl <= 0.
	AccessTTL time.Duration
}

// New crea un Issuer. alg soportado: "HS256" | "HS384" | "HS512"
// (cualquier otro valor cae a HS256).
func New(secret string, alg string, accessTTL time.Duration) *Issuer {
	m := jwtv5.SigningMethodHS256
	switch alg {
	case "HS384":
		m = jwtv5.SigningMethodHS384
	case "HS512":
		m = jwtv5.SigningMethodHS512
	}
	return &Issuer{
		secret:    []byte(secret),
		method:    m,
		alg:       m.Alg(),
		AccessTTL: accessTTL,
	}
}

// Issue firma un token con exp = now + ttl (ttl == 0 usa AccessTTL; un
// ttl negativo emite un token ya vencido, útil en tests de expiración).
// Devuelve el token compacto y el instante de expiración.
func (i *Issuer) Issue(c Claims, ttl time.Duration) (string, time.Time, error) {
	if c.Subject == "" {
		return "", time.Time{}, errors.New("jwt: empty subject")
	}
	if ttl == 0 {
		ttl = i.AccessTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := jwtv5.MapClaims{
		"sub":   c.Subject,
		"email": c.Email,
		"roles": c.Roles,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	if c.Name != "" {
		claims["name"] = c.Name
	}
	if c.AppID != "" {
		claims["app_id"] = c.AppID
		claims["app_name"] = c.AppName
	}

	tk := jwtv5.NewWithClaims(i.method, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify chequea firma y expiración atómicamente y decodifica claims.
// Sin leeway de clock skew. Subject es obligatorio; su ausencia invalida
// el token aunque el resto esté bien formado.
func (i *Issuer) Verify(token string) (*Claims, error) {
	parsed, err := jwtv5.Parse(token,
		func(t *jwtv5.Token) (any, error) { return i.secret, nil },
		jwtv5.WithValidMethods([]string{i.alg}),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	c := &Claims{Subject: sub}
	c.Email, _ = mc["email"].(string)
	c.Name, _ = mc["name"].(string)
	c.AppID, _ = mc["app_id"].(string)
	c.AppName, _ = mc["app_name"].(string)
	if raw, ok := mc["roles"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				c.Roles = append(c.Roles, s)
			}
		}
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

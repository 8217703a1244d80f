package core

import "time"

// User es la identidad global del SSO. Email es la clave de identidad
// (case-insensitive: siempre se persiste en lowercase).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Roles        []string  `json:"roles"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// App es una aplicación de terceros registrada en el SSO.
// ClientSecretHash nunca sale en plaintext después de la creación.
type App struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	RedirectURIs     []string  `json:"redirect_uris"`
	Description      *string   `json:"description,omitempty"`
	LogoURL          *string   `json:"logo_url,omitempty"`
	WebsiteURL       *string   `json:"website_url,omitempty"`
	ClientID         string    `json:"client_id"`
	ClientSecretHash string    `json:"-"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// AppUser es la arista de membresía User↔App con roles scoped a la app.
// Invariante: a lo sumo un registro por par (user_id, app_id).
type AppUser struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AppID     string    `json:"app_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// RefreshToken es un token de sesión opaco, de un solo uso, persistido
// con expiración absoluta. El access token firmado no se persiste.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserUpdate es un update parcial: solo los campos no-nil se aplican.
type UserUpdate struct {
	Email *string
	Name  *string
	Roles *[]string
}

// AppUpdate es un update parcial de App.
type AppUpdate struct {
	Name         *string
	RedirectURIs *[]string
	Description  *string
	LogoURL      *string
	WebsiteURL   *string
}

// Empty indica si el update no toca ningún campo.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Name == nil && u.Roles == nil
}

func (a AppUpdate) Empty() bool {
	return a.Name == nil && a.RedirectURIs == nil && a.Description == nil &&
		a.LogoURL == nil && a.WebsiteURL == nil
}

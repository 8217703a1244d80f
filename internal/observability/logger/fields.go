package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar HTTP

func RequestID(v string) zap.Field      { return zap.String("request_id", v) }
func Method(v string) zap.Field        { return zap.String("method", v) }
func Path(v string) zap.Field          { return zap.String("path", v) }
func Status(v int) zap.Field           { return zap.Int("status", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func ClientIP(v string) zap.Field      { return zap.String("client_ip", v) }

// Campos estándar de negocio

func UserID(v string) zap.Field   { return zap.String("user_id", v) }
func AppID(v string) zap.Field    { return zap.String("app_id", v) }
func ClientID(v string) zap.Field { return zap.String("client_id", v) }

// Email crea un campo para el email (usar con cuidado en prod).
func Email(v string) zap.Field { return zap.String("email", v) }

// Campos estándar de sistema

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }

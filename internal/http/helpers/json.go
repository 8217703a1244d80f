// Package helpers agrupa utilidades chicas de la capa HTTP.
package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes limita el tamaño de cualquier cuerpo JSON aceptado.
const maxBodyBytes = 1 << 20 // 1 MiB

// ReadJSON decodifica el cuerpo en dst con límite de tamaño y rechaza
// campos desconocidos. Devuelve un error apto para mostrar al cliente.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("content-type no soportado: %s", ct)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError

		switch {
		case errors.Is(err, io.EOF):
			return errors.New("el cuerpo de la solicitud está vacío")
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("JSON mal formado (offset %d)", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return fmt.Errorf("tipo inválido para el campo %q", typeErr.Field)
		case errors.As(err, &maxErr):
			return fmt.Errorf("el cuerpo excede el límite de %d bytes", maxErr.Limit)
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("campo desconocido %s", field)
		default:
			return err
		}
	}

	// un solo objeto JSON por request
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("el cuerpo debe contener un único objeto JSON")
	}
	return nil
}

// WriteJSON serializa v con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

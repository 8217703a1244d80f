package password

import (
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	phc, err := Hash(Default, "s3creto-muy-largo")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$") {
		t.Fatalf("formato PHC inesperado: %q", phc)
	}
	if !Verify("s3creto-muy-largo", phc) {
		t.Fatal("Verify rechazó el password correcto")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	phc, err := Hash(Default, "correcto")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if Verify("incorrecto", phc) {
		t.Fatal("Verify aceptó un password incorrecto")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, err := Hash(Default, "mismo")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(Default, "mismo")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("dos hashes del mismo password no deberían coincidir (salt)")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, phc := range []string{
		"",
		"no-es-un-hash",
		"$argon2i$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA", // variante equivocada
		"$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA",   // salt inválido
	} {
		if Verify("lo-que-sea", phc) {
			t.Fatalf("Verify aceptó un hash malformado: %q", phc)
		}
	}
}

// Package signing provides the RSA key material and the canonical payload
// construction used to authenticate requests against a truth network server.
//
// Payloads are serialized field-for-field in the order the server's verifier
// reconstructs them. The byte sequence produced here is the byte sequence
// that gets hashed and signed, so the structs in payload.go are the wire
// contract: reordering a field breaks every signature.
package signing

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
)

// KeySize is the RSA modulus size in bits for generated key pairs.
const KeySize = 2048

// KeyPair holds a PEM-encoded RSA key pair. The JSON field names match the
// credential file layout, so the struct can be embedded there directly.
type KeyPair struct {
	PublicKeyPEM  string `json:"publicKey"`
	PrivateKeyPEM string `json:"privateKey"`
}

// GenerateKeyPair creates a fresh RSA-2048 key pair. The public key is
// encoded as PKIX PEM, the private key as PKCS#8 PEM.
func GenerateKeyPair() (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, KeySize)
	if err != nil {
		return nil, fmt.Errorf("generating RSA key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("encoding public key: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("encoding private key: %w", err)
	}

	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})

	return &KeyPair{
		PublicKeyPEM:  string(pubPEM),
		PrivateKeyPEM: string(privPEM),
	}, nil
}

// ParsePrivateKey decodes a PEM-encoded RSA private key. PKCS#8 is the
// format we generate; PKCS#1 is accepted for keys imported from elsewhere.
func ParsePrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is %T, want *rsa.PrivateKey", key)
		}
		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return key, nil
}

// ParsePublicKey decodes a PEM-encoded PKIX RSA public key.
func ParsePublicKey(pemStr string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in public key")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, want *rsa.PublicKey", key)
	}
	return rsaKey, nil
}

// Fingerprint returns the hex-encoded SHA-256 digest of the public key's
// PKIX DER bytes. It identifies a key pair in logs and key listings without
// exposing the key itself.
func (kp *KeyPair) Fingerprint() (string, error) {
	block, _ := pem.Decode([]byte(kp.PublicKeyPEM))
	if block == nil {
		return "", fmt.Errorf("no PEM block found in public key")
	}
	sum := sha256.Sum256(block.Bytes)
	return hex.EncodeToString(sum[:]), nil
}

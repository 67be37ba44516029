package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/veritasnet/veritas-cli/pkg/errs"
)

// Sign computes the hex-encoded RSA PKCS#1 v1.5 signature over the SHA-256
// digest of payload. PKCS#1 v1.5 is deterministic, so identical payload and
// key always produce an identical signature.
func Sign(payload []byte, privateKeyPEM string) (string, error) {
	if privateKeyPEM == "" {
		return "", errs.Precondition("no private key available, generate a key pair first")
	}

	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", errs.Persistence(err, "stored private key is unusable")
	}

	digest := sha256.Sum256(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("signing payload: %w", err)
	}

	return hex.EncodeToString(sig), nil
}

// Verify checks a hex-encoded signature produced by Sign against the
// payload and the PEM-encoded public half of the signing key.
func Verify(payload []byte, signatureHex, publicKeyPEM string) error {
	key, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return err
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	digest := sha256.Sum256(payload)
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], sig); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/veritasnet/veritas-cli/pkg/signing"
)

// c-shared exports of the signing primitives for host languages that
// submit to a truth service themselves. All functions take and return
// JSON strings; returned strings must be freed with FreeString.

// GenerateKeyPair creates a new RSA-2048 key pair.
// Returns JSON {publicKey, privateKey, fingerprint}.
//
//export GenerateKeyPair
func GenerateKeyPair() *C.char {
	kp, err := signing.GenerateKeyPair()
	if err != nil {
		return C.CString(fmtError("KEYGEN_ERROR", err.Error()))
	}
	fp, err := kp.Fingerprint()
	if err != nil {
		return C.CString(fmtError("KEYGEN_ERROR", err.Error()))
	}

	out, _ := json.Marshal(map[string]string{
		"publicKey":   kp.PublicKeyPEM,
		"privateKey":  kp.PrivateKeyPEM,
		"fingerprint": fp,
	})
	return C.CString(string(out))
}

// CanonicalClaim renders claim fields into the exact byte sequence the
// server verifies. Accepts JSON with the claim payload fields in any
// order; a missing evidence array is normalized to [].
//
//export CanonicalClaim
func CanonicalClaim(fieldsJSON *C.char) *C.char {
	var fields signing.ClaimPayload
	if err := json.Unmarshal([]byte(C.GoString(fieldsJSON)), &fields); err != nil {
		return C.CString(fmtError("JSON_PARSE_ERROR", err.Error()))
	}

	payload := signing.NewClaimPayload(
		fields.Claim, fields.Evidence, fields.PublicKey, fields.Type,
		fields.ParentID, fields.Timestamp, fields.Semantic,
	)
	return canonicalResult(payload.Canonical())
}

// CanonicalAuth renders register/login fields into canonical form.
// Accepts JSON {action, publicKey, timestamp}.
//
//export CanonicalAuth
func CanonicalAuth(fieldsJSON *C.char) *C.char {
	var fields signing.AuthPayload
	if err := json.Unmarshal([]byte(C.GoString(fieldsJSON)), &fields); err != nil {
		return C.CString(fmtError("JSON_PARSE_ERROR", err.Error()))
	}

	payload := signing.NewAuthPayload(fields.Action, fields.PublicKey, fields.Timestamp)
	return canonicalResult(payload.Canonical())
}

// CanonicalProof renders proof fields into canonical form. Accepts JSON
// {claimId, action, publicKey, timestamp, reason, confidence}.
//
//export CanonicalProof
func CanonicalProof(fieldsJSON *C.char) *C.char {
	var fields signing.ProofPayload
	if err := json.Unmarshal([]byte(C.GoString(fieldsJSON)), &fields); err != nil {
		return C.CString(fmtError("JSON_PARSE_ERROR", err.Error()))
	}

	payload := signing.NewProofPayload(
		fields.ClaimID, fields.Action, fields.PublicKey,
		fields.Timestamp, fields.Reason, fields.Confidence,
	)
	return canonicalResult(payload.Canonical())
}

// SignPayload signs a canonical payload with a PEM private key.
// Returns JSON {signature} with the hex signature.
//
//export SignPayload
func SignPayload(payload *C.char, privateKeyPEM *C.char) *C.char {
	sig, err := signing.Sign([]byte(C.GoString(payload)), C.GoString(privateKeyPEM))
	if err != nil {
		return C.CString(fmtError("SIGN_ERROR", err.Error()))
	}

	out, _ := json.Marshal(map[string]string{"signature": sig})
	return C.CString(string(out))
}

// VerifyPayload checks a hex signature over a canonical payload against a
// PEM public key. Returns JSON {valid: true|false}, with a message on
// failure.
//
//export VerifyPayload
func VerifyPayload(payload *C.char, signatureHex *C.char, publicKeyPEM *C.char) *C.char {
	err := signing.Verify([]byte(C.GoString(payload)), C.GoString(signatureHex), C.GoString(publicKeyPEM))
	if err != nil {
		out, _ := json.Marshal(map[string]any{"valid": false, "message": err.Error()})
		return C.CString(string(out))
	}

	out, _ := json.Marshal(map[string]any{"valid": true})
	return C.CString(string(out))
}

// FreeString frees the memory allocated for a C string by Go.
//
//export FreeString
func FreeString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

func canonicalResult(canonical []byte, err error) *C.char {
	if err != nil {
		return C.CString(fmtError("CANONICAL_ERROR", err.Error()))
	}
	out, _ := json.Marshal(map[string]string{"canonical": string(canonical)})
	return C.CString(string(out))
}

func fmtError(code, msg string) string {
	bytes, _ := json.Marshal(map[string]string{"error": code, "message": msg})
	return string(bytes)
}

func main() {}

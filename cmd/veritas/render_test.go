package main

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasnet/veritas-cli/pkg/truthapi"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "this is...", truncate("this is far too long", 10))
	assert.Len(t, truncate("this is far too long", 10), 10)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "clm_8f2a", shortID("clm_8f2a"))
	assert.Equal(t, "abcdef123456", shortID("abcdef123456"))
	assert.Equal(t, "abcdef123456", shortID("abcdef1234567890deadbeef"))
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "", formatTime(time.Time{}))

	stamp := time.Date(2024, 4, 5, 12, 30, 0, 0, time.UTC)
	formatted := formatTime(stamp)
	parsed, err := time.Parse(time.RFC3339, formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(stamp))
}

func TestFlattenPEM(t *testing.T) {
	pem := "-----BEGIN PUBLIC KEY-----\nMIIBIjAN\r\nBgkqhkiG\n-----END PUBLIC KEY-----\n"
	flat := flattenPEM(pem)
	assert.NotContains(t, flat, "\n")
	assert.NotContains(t, flat, "\r")
	assert.Equal(t, "-----BEGIN PUBLIC KEY-----MIIBIjANBgkqhkiG-----END PUBLIC KEY-----", flat)
}

func TestStatusEmoji(t *testing.T) {
	prev := noColor
	defer func() { noColor = prev }()

	noColor = false
	assert.Equal(t, "✅", statusEmoji(true))
	assert.Equal(t, "•", statusEmoji(false))
	assert.Equal(t, "🔑", emoji("🔑", "[key]"))

	noColor = true
	assert.Equal(t, "[ok]", statusEmoji(true))
	assert.Equal(t, "[--]", statusEmoji(false))
	assert.Equal(t, "[key]", emoji("🔑", "[key]"))
}

func TestClaimsTable(t *testing.T) {
	claims := []truthapi.Claim{
		{
			ID:               "clm_1234567890abcdef",
			Claim:            "water boils at 100C at sea level",
			Type:             "statement",
			CredibilityScore: 0.87,
			Verified:         true,
			CreatedAt:        time.Date(2024, 4, 5, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:    "clm_2",
			Claim: "the moon is made of cheese",
			Type:  "statement",
		},
	}

	var buf bytes.Buffer
	claimsTable(&buf, claims)
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "CLAIM")
	assert.Contains(t, lines[0], "SCORE")
	assert.Contains(t, lines[1], "clm_12345678")
	assert.NotContains(t, lines[1], "clm_1234567890abcdef")
	assert.Contains(t, lines[1], "0.87")
	assert.Contains(t, lines[1], "yes")
	assert.Contains(t, lines[2], "0.00")
	assert.Contains(t, lines[2], "no")
}

func TestClaimsCSV(t *testing.T) {
	claims := []truthapi.Claim{
		{
			ID:               "clm_1",
			Claim:            `a claim with "quotes", and commas`,
			Type:             "measurement",
			PublicKey:        "PEM",
			CredibilityScore: 0.5,
			Confirmations:    3,
			Disputes:         1,
			Verified:         true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, claimsCSV(&buf, claims))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"ID", "Claim", "Type", "PublicKey", "Score", "Confirmations", "Disputes", "Verified", "Created"}, records[0])
	assert.Equal(t, "clm_1", records[1][0])
	assert.Equal(t, `a claim with "quotes", and commas`, records[1][1])
	assert.Equal(t, "0.50", records[1][4])
	assert.Equal(t, "3", records[1][5])
	assert.Equal(t, "1", records[1][6])
	assert.Equal(t, "true", records[1][7])
	assert.Equal(t, "", records[1][8])
}

// Package redaction holds fixture code for exercising secret redaction.
//
// CASE 2: Encoded secrets.
// Expected: these LEAK. Regex redaction does not decode anything; this file
// documents the boundary so the gap is a known one, not a surprise.
package redaction

const (
	// Base64 of "sk-proj-abcdef1234567890"
	Base64Key = "c2stcHJvai1hYmNkZWYxMjM0NTY3ODkw"

	// Hex of the same key
	HexKey = "736b2d70726f6a2d616263646566313233343536373839"

	// URL-encoded assignment
	URLEncodedKey = "api_key%3Dsk-proj-abcdef1234567890"

	// ROT13 ("fx-" instead of "sk-")
	ROT13Key = "fx-cebw-nopqrs1234567890"

	// Split across constants and joined at runtime
	KeyPrefix = "sk-proj-"
	KeyMiddle = "abcdef"
	KeySuffix = "1234567890"

	// Reversed
	ReversedKey = "0987654321fedcba-jorp-ks"
)

// Secrets inside serialized config blobs DO match, because the engine
// scans raw text rather than parsed structures.
var EmbeddedJSON = `{
	"apiKey": "sk-proj-embedded0in0json012345678",
	"nested": {"token": "ghp_nestedtoken1234567890abcd"}
}`

var EmbeddedEnvFile = `
DB_HOST=localhost
API_KEY=sk-proj-envfile0secret0123456789
`

// AssembledKey recreates a full key at runtime; static scanning cannot
// see the joined value.
func AssembledKey() string {
	return KeyPrefix + KeyMiddle + KeySuffix
}

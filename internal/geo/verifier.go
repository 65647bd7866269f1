package geo

import "strings"

// Result is the collaborator's answer for a zip code.
type Result struct {
	Allowed bool
	Reason  string
}

// Verifier answers whether a zip code falls inside the club's service area.
type Verifier interface {
	Verify(zip string) Result
}

// AllowlistVerifier accepts zips matching any configured prefix. An empty
// prefix list means the club serves everywhere (no gate configured).
type AllowlistVerifier struct {
	prefixes []string
}

func NewAllowlistVerifier(prefixes []string) *AllowlistVerifier {
	return &AllowlistVerifier{prefixes: prefixes}
}

func (v *AllowlistVerifier) Verify(zip string) Result {
	zip = strings.TrimSpace(zip)
	if len(v.prefixes) == 0 {
		return Result{Allowed: true}
	}

	for _, prefix := range v.prefixes {
		if strings.HasPrefix(zip, prefix) {
			return Result{Allowed: true}
		}
	}

	return Result{
		Allowed: false,
		Reason:  "zip code is outside the club's service area",
	}
}

//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParsePlanID tests that parsing never panics on arbitrary input and
// that any accepted value round-trips through String.
func FuzzParsePlanID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE support_plans;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParsePlanID(input)
		if err == nil {
			roundTrip, err2 := ParsePlanID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs ensures every ID type validates identically.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errUser := ParseUserID(input)
		_, errPlan := ParsePlanID(input)
		_, errGoal := ParseGoalID(input)
		_, errConsent := ParseConsentID(input)

		if errUser == nil {
			if errPlan != nil || errGoal != nil || errConsent != nil {
				t.Error("inconsistent parsing across ID types")
			}
		} else {
			if errPlan == nil || errGoal == nil || errConsent == nil {
				t.Error("inconsistent rejection across ID types")
			}
		}
	})
}

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseSakID checks that parsing never panics and that accepted ids round-trip.
func FuzzParseSakID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseSakID(input)
		if err == nil {
			roundTrip, err2 := ParseSakID(id.String())
			if err2 != nil {
				t.Errorf("valid id failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed id value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseSaksnummer checks that accepted saksnummer are never below the first number.
func FuzzParseSaksnummer(f *testing.F) {
	f.Add("2021")
	f.Add("-1")
	f.Add("9223372036854775808")

	f.Fuzz(func(t *testing.T, input string) {
		nr, err := ParseSaksnummer(input)
		if err == nil && nr < FoersteSaksnummer {
			t.Errorf("accepted saksnummer %d below %d", nr, FoersteSaksnummer)
		}
	})
}

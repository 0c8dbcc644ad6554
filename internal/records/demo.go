package records

import (
	"fmt"
	"time"
)

//nolint:gochecknoglobals // Read-only sample data.
var demoNames = []string{"ada", "grace", "linus", "ken", "barbara", "margaret", "dennis", "frances"}

// Demo generates n sample contact records. Every seventh record carries a
// malformed email and every eleventh a malformed date, so rules have
// something to flag.
func Demo(n int) []Record {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Record, max(n, 0))
	for i := range out {
		name := demoNames[i%len(demoNames)]
		email := fmt.Sprintf("%s%d@example.com", name, i)
		if i%7 == 6 {
			email = fmt.Sprintf("%s%d.example.com", name, i)
		}
		joined := base.AddDate(0, 0, i).Format(time.DateOnly)
		if i%11 == 10 {
			joined = "someday"
		}
		out[i] = Record{
			Index: i,
			Keys:  []string{"email", "joined", "name", "score"},
			Fields: map[string]string{
				"name":   name,
				"email":  email,
				"joined": joined,
				"score":  fmt.Sprintf("%d", (i*37)%100),
			},
		}
	}
	return out
}

// DemoRules are the rules that fit Demo records.
func DemoRules() Rules {
	return Rules{
		"name":   {"required"},
		"email":  {"required", "email"},
		"joined": {"date"},
		"score":  {"number"},
	}
}

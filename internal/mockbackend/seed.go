package mockbackend

import (
	"fmt"
	"strings"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WithSeed fills the backend with n fake records per top-level collection
// plus a few collaterals on loan 1.
func WithSeed(n int) Option {
	return func(b *Backend) {
		b.seed = n
	}
}

// Seed inserts n fake records per collection.
func (b *Backend) Seed(n int) error {
	if n <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	title := cases.Title(language.English)
	for i := 0; i < n; i++ {
		client, err := fakeClient()
		if err != nil {
			return fmt.Errorf("mockbackend: seed client: %w", err)
		}
		b.decorateLocked("clients", client)
		b.insertLocked("/clients", client)

		b.insertLocked("/funds", Record{
			"name":       fmt.Sprintf("%s fund %d", title.String(faker.Word()), i+1),
			"externalId": uuid.NewString(),
		})

		picks, err := faker.RandomInt(1, 28, 2)
		if err != nil {
			return fmt.Errorf("mockbackend: seed holiday: %w", err)
		}
		from, to := picks[0], picks[1]
		if to < from {
			from, to = to, from
		}
		holiday := Record{
			"name":             faker.Word() + " day",
			"description":      faker.Sentence(),
			"fromDate":         []int{2025, i%12 + 1, from},
			"toDate":           []int{2025, i%12 + 1, to},
			"reschedulingType": 1,
		}
		b.decorateLocked("holidays", holiday)
		b.insertLocked("/holidays", holiday)

		b.insertLocked("/loans/1/collaterals", b.collateralLocked(i))
	}

	ranges := []Record{
		{"classification": "Current", "minimumAgeDays": 0, "maximumAgeDays": 0},
		{"classification": "1-30", "minimumAgeDays": 1, "maximumAgeDays": 30},
		{"classification": "30+", "minimumAgeDays": 31},
	}
	for _, r := range ranges {
		b.insertLocked("/delinquency/ranges", r)
	}
	b.insertLocked("/taxes/component", Record{
		"name":              "VAT",
		"percentage":        16.5,
		"creditAccountType": enumOption(2, "accountType.liability", "LIABILITY"),
		"creditAccount":     map[string]any{"id": 201, "name": "VAT payable"},
		"startDate":         []int{2024, 1, 1},
	})
	b.insertLocked("/entityDatatableChecks", Record{
		"entity":        "m_client",
		"status":        map[string]any{"id": 100, "code": "100", "value": "create"},
		"datatableName": "client_household",
	})
	return nil
}

func (b *Backend) collateralLocked(i int) Record {
	types := []int{51, 52, 53}
	record := Record{
		"collateralTypeId": types[i%len(types)],
		"value":            float64(1000 * (i + 1)),
		"description":      faker.Sentence(),
	}
	b.decorateLocked("collaterals", record)
	return record
}

func fakeClient() (Record, error) {
	digits, err := faker.RandomInt(0, 9, 9)
	if err != nil {
		return nil, err
	}
	var mobile strings.Builder
	mobile.WriteString("+2659")
	for _, d := range digits[:8] {
		mobile.WriteByte(byte('0' + d))
	}
	return Record{
		"officeId":       1,
		"legalFormId":    1,
		"firstname":      faker.FirstName(),
		"lastname":       faker.LastName(),
		"mobileNo":       mobile.String(),
		"emailAddress":   strings.ToLower(faker.Email()),
		"externalId":     uuid.NewString(),
		"active":         true,
		"activationDate": []int{2024, 1, 15},
	}, nil
}

// Package seed loads demo listings for local development. It is only wired
// in when SEED_DEMO_DATA is set and never runs against a store that already
// holds owners.
package seed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"realestate/internal/common/logging"
	"realestate/internal/listings/domain"
)

type ownerSpec struct {
	id       string
	name     string
	address  string
	photo    string
	birthday time.Time
}

type propertySpec struct {
	id      string
	name    string
	address string
	price   int64
	code    string
	year    int
	ownerID string
	images  []string
}

var owners = []ownerSpec{
	{
		id:       "11111111-1111-1111-1111-111111111111",
		name:     "María Fernanda López",
		address:  "Carrera 43A #1-50, El Poblado, Medellín",
		photo:    "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=400",
		birthday: time.Date(1978, 3, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		id:       "22222222-2222-2222-2222-222222222222",
		name:     "Carlos Alberto Restrepo",
		address:  "Calle 10 #40-20, Laureles, Medellín",
		photo:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400",
		birthday: time.Date(1965, 8, 22, 0, 0, 0, 0, time.UTC),
	},
	{
		id:       "33333333-3333-3333-3333-333333333333",
		name:     "Ana María Gómez",
		address:  "Carrera 25 #2-15, Envigado, Antioquia",
		photo:    "https://images.unsplash.com/photo-1580489944761-15a19d654956?w=400",
		birthday: time.Date(1982, 11, 8, 0, 0, 0, 0, time.UTC),
	},
	{
		id:       "44444444-4444-4444-4444-444444444444",
		name:     "Inversiones Antioquia S.A.S.",
		address:  "Calle 7 #42-30, El Poblado, Medellín",
		photo:    "https://images.unsplash.com/photo-1560179707-f14e90ef3623?w=400",
		birthday: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
	},
	{
		id:       "55555555-5555-5555-5555-555555555555",
		name:     "Juan Pablo Mejía",
		address:  "Carrera 65 #48A-10, Estadio, Medellín",
		photo:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400",
		birthday: time.Date(1975, 5, 20, 0, 0, 0, 0, time.UTC),
	},
}

var properties = []propertySpec{
	{
		id:      "aaaa1111-1111-1111-1111-111111111111",
		name:    "Penthouse en El Poblado",
		address: "Carrera 34 #7-20, El Poblado, Medellín",
		price:   2850000000,
		code:    "PH-EPO-001",
		year:    2022,
		ownerID: "11111111-1111-1111-1111-111111111111",
		images: []string{
			"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=800",
			"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?w=800",
		},
	},
	{
		id:      "aaaa2222-2222-2222-2222-222222222222",
		name:    "Apartamento en Provenza",
		address: "Calle 9 #43B-15, Provenza, Medellín",
		price:   1450000000,
		code:    "AP-PRV-002",
		year:    2021,
		ownerID: "11111111-1111-1111-1111-111111111111",
		images: []string{
			"https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?w=800",
		},
	},
	{
		id:      "aaaa3333-3333-3333-3333-333333333333",
		name:    "Casa Campestre en Las Palmas",
		address: "Kilómetro 8 Vía Las Palmas, Medellín",
		price:   3200000000,
		code:    "CC-LPM-003",
		year:    2019,
		ownerID: "22222222-2222-2222-2222-222222222222",
		images: []string{
			"https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800",
			"https://images.unsplash.com/photo-1600585154340-be6161a56a0c?w=800",
		},
	},
	{
		id:      "aaaa4444-4444-4444-4444-444444444444",
		name:    "Apartamento en Laureles",
		address: "Circular 3 #70-45, Laureles, Medellín",
		price:   680000000,
		code:    "AP-LAU-004",
		year:    2018,
		ownerID: "22222222-2222-2222-2222-222222222222",
		images: []string{
			"https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=800",
		},
	},
	{
		id:      "aaaa5555-5555-5555-5555-555555555555",
		name:    "Casa en Envigado",
		address: "Carrera 43A #38S-25, Envigado, Antioquia",
		price:   950000000,
		code:    "CA-ENV-005",
		year:    2020,
		ownerID: "33333333-3333-3333-3333-333333333333",
		images: []string{
			"https://images.unsplash.com/photo-1583608205776-bfd35f0d9f83?w=800",
		},
	},
	{
		id:      "aaaa6666-6666-6666-6666-666666666666",
		name:    "Apartamento en Sabaneta",
		address: "Calle 77Sur #43A-10, Sabaneta, Antioquia",
		price:   420000000,
		code:    "AP-SAB-006",
		year:    2023,
		ownerID: "33333333-3333-3333-3333-333333333333",
		images: []string{
			"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?w=800",
		},
	},
	{
		id:      "aaaa7777-7777-7777-7777-777777777777",
		name:    "Oficina en Ciudad del Río",
		address: "Carrera 48 #12-70, Ciudad del Río, Medellín",
		price:   890000000,
		code:    "OF-CDR-007",
		year:    2021,
		ownerID: "44444444-4444-4444-4444-444444444444",
		images: []string{
			"https://images.unsplash.com/photo-1497366216548-37526070297c?w=800",
		},
	},
	{
		id:      "aaaa8888-8888-8888-8888-888888888888",
		name:    "Local Comercial en El Tesoro",
		address: "Centro Comercial El Tesoro, El Poblado, Medellín",
		price:   1650000000,
		code:    "LC-TES-008",
		year:    2020,
		ownerID: "44444444-4444-4444-4444-444444444444",
		images: []string{
			"https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=800",
		},
	},
	{
		id:      "aaaa9999-9999-9999-9999-999999999999",
		name:    "Apartamento Estadio",
		address: "Carrera 70 #44-15, Estadio, Medellín",
		price:   520000000,
		code:    "AP-EST-009",
		year:    2017,
		ownerID: "55555555-5555-5555-5555-555555555555",
		images: []string{
			"https://images.unsplash.com/photo-1502672023488-70e25813eb80?w=800",
		},
	},
	{
		id:      "aaaabbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
		name:    "Loft en Manila",
		address: "Calle 10 #38-30, Manila, Medellín",
		price:   380000000,
		code:    "LF-MAN-010",
		year:    2022,
		ownerID: "55555555-5555-5555-5555-555555555555",
		images: []string{
			"https://images.unsplash.com/photo-1536376072261-38c75010e6c9?w=800",
		},
	},
}

// Store is the persistence surface the seeder needs.
type Store interface {
	domain.AtomicExecutor
	domain.Repositories
}

// Run loads the demo data set in one transaction. It is a no-op when the
// store already holds owners, so restarting a dev server never duplicates
// listings.
func Run(ctx context.Context, store Store) error {
	existing, err := store.Owners().FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logging.DebugContext(ctx, "Seed skipped, owners already present", "owners", len(existing))
		return nil
	}

	now := time.Now().UTC()

	err = store.Atomic(ctx, func(repos domain.Repositories) error {
		for _, spec := range owners {
			owner := domain.ReconstructOwner(
				domain.OwnerID(uuid.MustParse(spec.id)),
				spec.name, spec.address, spec.photo,
				spec.birthday,
				now, now,
			)
			if err := repos.Owners().Save(ctx, owner); err != nil {
				return err
			}
		}

		for _, spec := range properties {
			property := domain.ReconstructProperty(
				domain.PropertyID(uuid.MustParse(spec.id)),
				spec.name, spec.address,
				decimal.NewFromInt(spec.price),
				spec.code, spec.year,
				domain.OwnerID(uuid.MustParse(spec.ownerID)),
				now, now,
			)
			if err := repos.Properties().Save(ctx, property); err != nil {
				return err
			}

			for _, file := range spec.images {
				image, err := domain.NewPropertyImage(property.ID(), file, true, now)
				if err != nil {
					return err
				}
				if err := repos.Images().Add(ctx, image); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logging.InfoContext(ctx, "Demo data seeded",
		"owners", len(owners),
		"properties", len(properties),
	)
	return nil
}

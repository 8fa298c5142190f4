package ingest

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/maxviazov/lexico-users/internal/model"
)

// Generator fills records with synthetic personal data.
// Values are random and may repeat across records; only the key is unique.
type Generator struct {
	f faker.Faker
}

func NewGenerator() *Generator {
	return &Generator{f: faker.New()}
}

// NewSeededGenerator yields the same sequence for the same seed.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{f: faker.NewWithSeed(rand.NewSource(seed))}
}

// Next builds a fresh record for key. Nothing is shared between calls.
func (g *Generator) Next(key int64) model.Record {
	return model.Record{
		Key:   key,
		Name:  g.f.Person().Name(),
		Phone: g.f.Phone().Number(),
		Email: g.f.Internet().Email(),
	}
}

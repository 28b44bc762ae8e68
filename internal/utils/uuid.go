package utils

import "github.com/google/uuid"

// RecordIDGenerator produces client-side record identifiers. UUIDv7 keeps
// the time-ordering property of the historical epoch-millis IDs while being
// collision-safe within the same millisecond.
type RecordIDGenerator struct {
}

func NewRecordIDGenerator() *RecordIDGenerator {
	return &RecordIDGenerator{}
}

func (g *RecordIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

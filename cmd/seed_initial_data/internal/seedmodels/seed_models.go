package seedmodels

import "quizmaster/internal/domain"

// SeedUser is the demo account created by the seeder.
type SeedUser struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SeedGeneration is one ready-made quiz owned by the demo account.
type SeedGeneration struct {
	Subject   string            `json:"subject"`
	Topic     string            `json:"topic"`
	Questions []domain.Question `json:"questions"`
}

// SeedFile is the top-level shape of the JSON seed file.
type SeedFile struct {
	User        SeedUser         `json:"user"`
	Generations []SeedGeneration `json:"generations"`
}

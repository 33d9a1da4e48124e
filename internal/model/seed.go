package model

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedStudents returns the sample dataset used when no durable data exists.
func SeedStudents() []Student {
	students, err := parseSeed(seedYAML)
	if err != nil {
		// The dataset is compiled in; a parse failure is a build defect.
		panic(err)
	}
	return students
}

func parseSeed(data []byte) ([]Student, error) {
	var records []StudentRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("model: parse seed dataset: %w", err)
	}
	students := make([]Student, len(records))
	for i, r := range records {
		students[i] = Student{StudentRecord: r}
	}
	return students, nil
}

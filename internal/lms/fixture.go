package lms

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFixture builds a MemoryRepository from a YAML table dump. The fixture
// maps table names to lists of records:
//
//	user:
//	  - id: 5
//	    firstname: Ada
//	    lastname: Lovelace
//	course:
//	  - id: 1
//	    fullname: Site course
//	    lang: en
//
// Used for offline/dry-run transforms and local development against a
// captured slice of LMS data.
func LoadFixture(path string) (*MemoryRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lms: read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture parses fixture YAML into a populated MemoryRepository.
func ParseFixture(raw []byte) (*MemoryRepository, error) {
	var tables map[string][]map[string]interface{}
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("lms: parse fixture: %w", err)
	}

	repo := NewMemoryRepository()
	for table, rows := range tables {
		for i, row := range rows {
			if err := repo.Insert(table, Record(row)); err != nil {
				return nil, fmt.Errorf("lms: fixture table %q row %d: %w", table, i, err)
			}
		}
	}
	return repo, nil
}

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/userhub/userhub/internal/handler/dto"
	"github.com/userhub/userhub/internal/model"
)

type fixtureFile struct {
	Users []fixture `yaml:"users"`
}

type fixture struct {
	Email       string  `yaml:"email"`
	FirstName   string  `yaml:"firstName"`
	LastName    string  `yaml:"lastName"`
	Birthday    string  `yaml:"birthday"`
	Address     *string `yaml:"address"`
	PhoneNumber *string `yaml:"phoneNumber"`

	birthday model.Date
}

// loadFixtures reads and parses path. Every birthday must be a YYYY-MM-DD
// date; nothing is sent when one is not.
func loadFixtures(path string) ([]fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return parseFixtures(data)
}

func parseFixtures(data []byte) ([]fixture, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	if len(file.Users) == 0 {
		return nil, fmt.Errorf("no users found in fixtures")
	}

	for i := range file.Users {
		d, err := model.ParseDate(file.Users[i].Birthday)
		if err != nil {
			return nil, fmt.Errorf("user %d: birthday: %w", i+1, err)
		}
		file.Users[i].birthday = d
	}

	return file.Users, nil
}

func (f fixture) toRequest() dto.UserRequest {
	email, first, last := f.Email, f.FirstName, f.LastName
	birthday := f.birthday
	return dto.UserRequest{
		Email:       &email,
		FirstName:   &first,
		LastName:    &last,
		Birthday:    &birthday,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
	}
}

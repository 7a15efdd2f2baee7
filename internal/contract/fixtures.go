// Package contract verifies that a reqres-compatible service still honours
// the request and response shapes the client relies on.
package contract

import (
	"fmt"
	"os"

	"calc-harness/internal/reqres"

	"gopkg.in/yaml.v3"
)

// Credentials is an email/password pair.
type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Fixtures are the inputs and expected values of the contract cases.
type Fixtures struct {
	User          reqres.User    `yaml:"user"`
	Support       reqres.Support `yaml:"support"`
	MissingUserID int            `yaml:"missingUserId"`

	Register           Credentials `yaml:"register"`
	RegisterID         int         `yaml:"registerId"`
	RegisterNoPassword Credentials `yaml:"registerNoPassword"`

	Login           Credentials `yaml:"login"`
	LoginNoPassword Credentials `yaml:"loginNoPassword"`

	Token string `yaml:"token"`

	UpdateUserID int    `yaml:"updateUserId"`
	UpdateName   string `yaml:"updateName"`
	UpdateJob    string `yaml:"updateJob"`
}

// DefaultFixtures match the public service.
func DefaultFixtures() Fixtures {
	return Fixtures{
		User: reqres.User{
			ID:        2,
			Email:     "janet.weaver@reqres.in",
			FirstName: "Janet",
			LastName:  "Weaver",
			Avatar:    "https://reqres.in/img/faces/2-image.jpg",
		},
		Support: reqres.Support{
			URL:  "https://contentcaddy.io?utm_source=reqres&utm_medium=json&utm_campaign=referral",
			Text: "Tired of writing endless social media content? Let Content Caddy generate it for you.",
		},
		MissingUserID: 23,

		Register:           Credentials{Email: "eve.holt@reqres.in", Password: "pistol"},
		RegisterID:         4,
		RegisterNoPassword: Credentials{Email: "sydney@fife"},

		Login:           Credentials{Email: "eve.holt@reqres.in", Password: "cityslicka"},
		LoginNoPassword: Credentials{Email: "peter@klaven"},

		Token: "QpwL5tke4Pnpja7X4",

		UpdateUserID: 2,
		UpdateName:   "morpheus",
		UpdateJob:    "zion resident",
	}
}

// LoadFixtures reads YAML from path over DefaultFixtures, so a file only
// needs the values it changes.
func LoadFixtures(path string) (Fixtures, error) {
	f := DefaultFixtures()

	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read fixtures: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return f, nil
}

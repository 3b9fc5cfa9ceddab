// Package trojantest drives trojanlinter.Lint from declarative YAML test
// cases, adapted from the teacher's sqltest.Fixture (which set up a
// database connection from env vars before handing it to a test) and from
// the original project's tests/cases/*.yaml + test_main.py harness. Here
// there's no external resource to provision — a Fixture just loads and
// runs cases — but the shape (a constructor building a reusable test
// helper, consumed from ordinary testify-based _test.go files) is the
// same.
package trojantest

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	trojanlinter "github.com/encukou/trojan-linter"
)

// Case is one YAML-described scenario: a snippet of source text, the
// profile to lint it with, and the finding kinds expected to come out, in
// the order the analyzer discovers them.
type Case struct {
	Name    string   `yaml:"name"`
	Source  string   `yaml:"source"`
	Profile string   `yaml:"profile"`
	Want    []string `yaml:"want"`
	WantErr string   `yaml:"want_err"`
}

// Fixture loads and runs a YAML file of Cases.
type Fixture struct {
	Cases []Case
}

// LoadFixture reads and parses path into a Fixture.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trojantest: reading %s: %w", path, err)
	}
	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("trojantest: parsing %s: %w", path, err)
	}
	return &Fixture{Cases: cases}, nil
}

// Run lints c.Source under c.Profile and reports whether the resulting
// finding-kind sequence matches c.Want (or, if c.WantErr is set, whether
// Lint failed with an error whose message contains it).
func Run(c Case) error {
	profile, err := profileFor(c.Profile)
	if err != nil {
		return err
	}

	file, err := trojanlinter.Lint(c.Name, c.Source, profile)
	if c.WantErr != "" {
		if err == nil {
			return fmt.Errorf("case %q: expected an error containing %q, got none", c.Name, c.WantErr)
		}
		if !strings.Contains(err.Error(), c.WantErr) {
			return fmt.Errorf("case %q: error %q does not contain %q", c.Name, err.Error(), c.WantErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("case %q: unexpected error: %w", c.Name, err)
	}

	var got []string
	for _, line := range file.Lines {
		for _, tok := range line.Tokens {
			for _, f := range tok.Findings() {
				got = append(got, kindName(f))
			}
		}
		for _, f := range line.Findings() {
			got = append(got, kindName(f))
		}
	}

	if !reflect.DeepEqual(got, c.Want) {
		return fmt.Errorf("case %q: findings %v, want %v", c.Name, got, c.Want)
	}
	return nil
}

func profileFor(name string) (trojanlinter.Profile, error) {
	switch name {
	case "", "python":
		return trojanlinter.PythonProfile(), nil
	case "testing":
		return trojanlinter.TestingProfile(), nil
	default:
		return trojanlinter.Profile{}, fmt.Errorf("trojantest: unknown profile %q", name)
	}
}

func kindName(f trojanlinter.Finding) string {
	t := reflect.TypeOf(f)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

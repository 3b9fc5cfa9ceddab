package trojantest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLCases(t *testing.T) {
	fixture, err := LoadFixture("testdata/cases.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, fixture.Cases)

	for _, c := range fixture.Cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			assert.NoError(t, Run(c))
		})
	}
}

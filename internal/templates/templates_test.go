package templates

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcforge/internal/domain"
	"calcforge/internal/roi"
)

func TestDefault_AllVerticalsPresent(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, domain.AllVerticals, c.Verticals())
}

func TestDefault_TemplatesCalculate(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, v := range c.Verticals() {
		t.Run(string(v), func(t *testing.T) {
			in, err := c.Get(string(v))
			require.NoError(t, err)
			require.NoError(t, roi.Validate(in))

			res, err := roi.Calculate(in)
			require.NoError(t, err)
			assert.Len(t, res.Yearly, domain.HorizonYears)
		})
	}
}

func TestGet_KnownValues(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	in, err := c.Get("restaurants")
	require.NoError(t, err)

	assert.Equal(t, 350000.0, in.AnnualCalls)
	assert.Equal(t, 0.75, in.AgentCostPerMin)
	assert.False(t, in.BusinessHoursOnly)
	require.Len(t, in.Intents, 5)
	assert.Equal(t, "New Reservations", in.Intents[0].Name)
	require.NotNil(t, in.Intents[0].RevenuePerAbandon)
	assert.Equal(t, 65.0, *in.Intents[0].RevenuePerAbandon)

	util, err := c.Get("utilities")
	require.NoError(t, err)
	for _, row := range util.Intents {
		assert.Nil(t, row.RevenuePerAbandon, row.Name)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	a, err := c.Get("retail")
	require.NoError(t, err)
	a.Intents[0].ContainmentM3 = 0
	*a.Intents[0].RevenuePerAbandon = 999

	b, err := c.Get("retail")
	require.NoError(t, err)
	assert.Equal(t, 0.85, b.Intents[0].ContainmentM3)
	assert.Equal(t, 25.0, *b.Intents[0].RevenuePerAbandon)
}

func TestGet_Unknown(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, err = c.Get("aerospace")
	assert.True(t, errors.Is(err, ErrUnknownVertical))
}

func TestListing(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	l := c.Listing()
	assert.Len(t, l.Verticals, 7)
	assert.Equal(t, "utilities", l.Verticals[0])
	assert.Contains(t, l.Descriptions["utilities"], "PG&E")
	assert.Contains(t, l.CaseStudies["contact_center"], "Atos")
}

func TestLoad_RejectsInvalidTemplate(t *testing.T) {
	body := `
templates:
  - vertical: broken
    inputs:
      annual_calls: 1000
      intents:
        - name: "Only"
          volume_share: 0.5
          avg_minutes: 2
`
	_, err := Load(strings.NewReader(body))
	require.Error(t, err)
	assert.ErrorIs(t, err, roi.ErrInvalidInputs)
}

func TestLoad_RejectsDuplicates(t *testing.T) {
	body := `
templates:
  - vertical: a
    inputs:
      intents: [{name: x, volume_share: 1}]
  - vertical: a
    inputs:
      intents: [{name: x, volume_share: 1}]
`
	_, err := Load(strings.NewReader(body))
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	body := `
templates:
  - vertical: a
    colour: blue
    inputs:
      intents: [{name: x, volume_share: 1}]
`
	_, err := Load(strings.NewReader(body))
	assert.Error(t, err)
}

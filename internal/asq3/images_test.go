package asq3

import (
	"testing"

	"github.com/jagoanbunda/jagoanbunda-data/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageName(t *testing.T) {
	c, err := reference.Load()
	require.NoError(t, err)

	got, err := ParseImageName("/tmp/images/12-bulan_motorik-kasar_3.png", c)
	require.NoError(t, err)
	assert.Equal(t, ImageName{File: "12-bulan_motorik-kasar_3.png", AgeMonths: 12, DomainCode: "gross_motor", QuestionNumber: 3}, got)

	bad := []string{
		"12-bulan_motorik-kasar.png",
		"12-bulan_motorik-kasar_3_extra.png",
		"13-bulan_komunikasi_1.png",
		"12-bulan_bahasa_1.png",
		"12-bulan_komunikasi_7.png",
		"12-bulan_komunikasi_x.png",
		"12-bulan_komunikasi_1.jpg",
	}
	for _, name := range bad {
		_, err := ParseImageName(name, c)
		assert.Error(t, err, name)
	}
}

package dian_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-manufactura/pkg/dian"
)

func TestComputeNITVerificationDigit(t *testing.T) {
	tests := []struct {
		base string
		want byte
	}{
		{"800197268", '4'},   // DIAN
		{"860034313", '7'},
		{"800.197.268", '4'}, // con puntos
		{"1234567", '2'},     // persona natural, menos de 9 dígitos
	}
	for _, tt := range tests {
		got, err := dian.ComputeNITVerificationDigit(tt.base)
		require.NoError(t, err, tt.base)
		assert.Equal(t, tt.want, got, tt.base)
	}
}

func TestComputeNITVerificationDigit_LongitudInvalida(t *testing.T) {
	_, err := dian.ComputeNITVerificationDigit("123")
	assert.Error(t, err)
	_, err = dian.ComputeNITVerificationDigit("1234567890123456")
	assert.Error(t, err)
}

func TestValidateNITVerificationDigit(t *testing.T) {
	assert.NoError(t, dian.ValidateNITVerificationDigit("800197268-4"))
	assert.NoError(t, dian.ValidateNITVerificationDigit("800.197.268-4"))
	assert.NoError(t, dian.ValidateNITVerificationDigit("8001972684"))
	assert.Error(t, dian.ValidateNITVerificationDigit("800197268-5"))
	assert.Error(t, dian.ValidateNITVerificationDigit("12-3"))
}

func TestNormalizeNIT(t *testing.T) {
	assert.Equal(t, "800197268-4", dian.NormalizeNIT("800.197.268 - 4"))
	base, dv := dian.SplitNIT("800197268-4")
	assert.Equal(t, "800197268", base)
	assert.Equal(t, "4", dv)
}

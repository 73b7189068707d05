package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/pkg/validator"
)

type color string

func (c color) Valid() bool { return c == "azul" || c == "verde" }

type payload struct {
	Name     string `json:"nome" validate:"notblank,max=10"`
	Quantity int64  `json:"quantidade" validate:"gt=0"`
	Color    color  `json:"cor" validate:"enum"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	require.NoError(t, v.Validate(payload{Name: "Arroz", Quantity: 1, Color: "azul"}))

	err = v.Validate(payload{Name: "   ", Quantity: 0, Color: "roxo", Email: "x"})
	require.Error(t, err)
	assert.True(t, validator.IsValidationError(err))

	fields := validator.Fields(err)
	assert.Equal(t, "es requerido", fields["nome"])
	assert.Equal(t, "debe ser mayor que 0", fields["quantidade"])
	assert.Contains(t, fields["cor"], "roxo")
	assert.Equal(t, "debe ser un email válido", fields["email"])
}

func TestFields_NotValidation(t *testing.T) {
	assert.Nil(t, validator.Fields(errors.New("otro")))
	assert.False(t, validator.IsValidationError(errors.New("otro")))
}

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMenuCommand(t *testing.T) {
	cmd := NewMenuCommand()

	assert.Equal(t, "menu", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
}

func TestNewQueryCommand(t *testing.T) {
	cmd := NewQueryCommand()

	assert.Equal(t, "query <query> [args...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.ValidArgsFunction, "query names should complete")
}

func TestNewProceduresCommand(t *testing.T) {
	cmd := NewProceduresCommand()

	assert.Equal(t, "procedures", cmd.Use)
	assert.Contains(t, cmd.Aliases, "ls")
}

func TestNewDoctorCommand(t *testing.T) {
	cmd := NewDoctorCommand()

	assert.Equal(t, "doctor", cmd.Use)
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
}

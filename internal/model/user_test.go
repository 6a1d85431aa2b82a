package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	name := "Imam"
	empty := ""

	assert.Equal(t, "Imam", User{Email: "a@b.co", Name: &name}.DisplayName())
	assert.Equal(t, "a@b.co", User{Email: "a@b.co", Name: &empty}.DisplayName())
	assert.Equal(t, "a@b.co", User{Email: "a@b.co"}.DisplayName())
}

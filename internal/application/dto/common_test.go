package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name string
		in   dto.PageRequest
		want dto.PageRequest
	}{
		{"sin parámetros", dto.PageRequest{}, dto.PageRequest{Limit: dto.DefaultPageLimit}},
		{"dentro del rango", dto.PageRequest{Limit: 50, Offset: 10}, dto.PageRequest{Limit: 50, Offset: 10}},
		{"limit sobre el tope", dto.PageRequest{Limit: 500}, dto.PageRequest{Limit: dto.MaxPageLimit}},
		{"negativos", dto.PageRequest{Limit: -3, Offset: -1}, dto.PageRequest{Limit: dto.DefaultPageLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

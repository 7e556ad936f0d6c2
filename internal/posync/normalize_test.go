package posync

import (
	"testing"

	"github.com/farxc/vendas_sync/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want store.Status
	}{
		{"OCUPADA", store.StatusOpen},
		{"Aberto", store.StatusOpen},
		{"fechada", store.StatusClosed},
		{"LIVRE", store.StatusClosed},
		{"", store.StatusUnknown},
		{"  Mesa ocupada ", store.StatusOpen},
		{"Fechado p/ limpeza", store.StatusClosed},
		{"reservada", store.StatusUnknown},
		{"   ", store.StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

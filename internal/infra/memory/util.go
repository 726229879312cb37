package memory

import (
	"errors"

	"github.com/salonbook/salon-scheduler/internal/dto"
)

var errDuplicateKey = errors.New("duplicate primary key")

func paginate[T any](items []T, p dto.Pagination) []T {
	p = p.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

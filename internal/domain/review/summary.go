package review

import "math"

type Summary struct {
	TotalReviews            int         `json:"total_reviews"`
	AverageRating           float64     `json:"average_rating"`
	AverageServiceRating    *float64    `json:"average_service_rating,omitempty"`
	AverageStaffRating      *float64    `json:"average_staff_rating,omitempty"`
	AverageAtmosphereRating *float64    `json:"average_atmosphere_rating,omitempty"`
	RatingDistribution      map[int]int `json:"rating_distribution"`
}

type mean struct {
	sum   int
	count int
}

func (m *mean) add(v *int) {
	if v == nil {
		return
	}
	m.sum += *v
	m.count++
}

func (m mean) value() *float64 {
	if m.count == 0 {
		return nil
	}
	v := round2(float64(m.sum) / float64(m.count))
	return &v
}

// Summarize aggregates rows into a summary. With no rows it returns the
// zero summary with a zero-filled distribution.
func Summarize(rows []Ratings) Summary {
	s := Summary{RatingDistribution: make(map[int]int, MaxRating)}
	for v := MinRating; v <= MaxRating; v++ {
		s.RatingDistribution[v] = 0
	}
	if len(rows) == 0 {
		return s
	}

	var overall, service, staff, atmosphere mean
	for _, r := range rows {
		overall.sum += r.Overall
		overall.count++
		s.RatingDistribution[r.Overall]++
		service.add(r.Service)
		staff.add(r.Staff)
		atmosphere.add(r.Atmosphere)
	}

	s.TotalReviews = len(rows)
	s.AverageRating = *overall.value()
	s.AverageServiceRating = service.value()
	s.AverageStaffRating = staff.value()
	s.AverageAtmosphereRating = atmosphere.value()
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

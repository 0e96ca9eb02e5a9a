package instrument

import "strings"

// Profile описывает возможности серии анализаторов, которые влияют на
// количество опрашиваемых маркеров и трасс.
type Profile struct {
	Series      string `json:"series"`
	MarkerCount int    `json:"marker_count"`
	TraceCount  int    `json:"trace_count"`
}

const (
	SeriesGeneric  = "GENERIC"
	SeriesHandheld = "N934X"
	SeriesESA      = "E440X"
)

// GetModelProfile выбирает профиль по строке модели из *IDN?.
func GetModelProfile(model string) Profile {
	m := strings.ToUpper(strings.TrimSpace(model))

	// Профиль по умолчанию
	profile := Profile{Series: SeriesGeneric, MarkerCount: 6, TraceCount: 3}

	if strings.HasPrefix(m, "N934") {
		profile = Profile{Series: SeriesHandheld, MarkerCount: 6, TraceCount: 3}
	} else if strings.HasPrefix(m, "E440") {
		profile = Profile{Series: SeriesESA, MarkerCount: 4, TraceCount: 3}
	}

	return profile
}

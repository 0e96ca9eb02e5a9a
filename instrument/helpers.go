package instrument

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MHzToHz переводит мегагерцы в целые герцы с отбрасыванием дробной части.
func MHzToHz(mhz float64) int64 {
	return int64(mhz * 1e6)
}

// HzToMHz переводит герцы в мегагерцы.
func HzToMHz(hz float64) float64 {
	return hz / 1e6
}

func parseFloat(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return f, nil
}

func parseInt(name, s string) (int, error) {
	f, err := parseFloat(name, s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: %q is not an integer", name, s)
	}
	return int(f), nil
}

// parseBool понимает ON/OFF, 1/0 и 1.0/0.0.
func parseBool(name, s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON", "1", "1.0", "TRUE":
		return true, nil
	case "OFF", "0", "0.0", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("%s: %q is not a boolean", name, s)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// parseLevels разбирает список значений через запятую.
func parseLevels(s string) ([]float64, error) {
	var levels []float64
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("point %d: %q is not a number", i+1, part)
		}
		levels = append(levels, v)
	}
	return levels, nil
}

// linspace возвращает n равномерно распределенных значений от start до stop включительно.
func linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[n-1] = stop
	return out
}

// fieldReader разбирает именованные поля ответа и запоминает первую ошибку.
type fieldReader struct {
	fields map[string]string
	err    error
}

func (r *fieldReader) raw(name string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.fields[name]
	if !ok {
		r.err = fmt.Errorf("response has no field %q", name)
	}
	return v, ok
}

func (r *fieldReader) str(name string) string {
	v, _ := r.raw(name)
	return v
}

func (r *fieldReader) float(name string) float64 {
	s, ok := r.raw(name)
	if !ok {
		return 0
	}
	v, err := parseFloat(name, s)
	r.err = err
	return v
}

func (r *fieldReader) int(name string) int {
	s, ok := r.raw(name)
	if !ok {
		return 0
	}
	v, err := parseInt(name, s)
	r.err = err
	return v
}

func (r *fieldReader) bool(name string) bool {
	s, ok := r.raw(name)
	if !ok {
		return false
	}
	v, err := parseBool(name, s)
	r.err = err
	return v
}

package dispatch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
)

// MaxPlaceholders - наибольшее число позиционных параметров шаблона.
const MaxPlaceholders = 8

var placeholders = [MaxPlaceholders]string{"111", "222", "333", "444", "555", "666", "777", "888"}

// FormatValue приводит значение к виду, принятому на проводе. Число, равное
// своей целой части, записывается без десятичной точки.
func FormatValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", fmt.Errorf("nil value")
	case string:
		return strings.TrimSpace(val), nil
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case bool:
		if val {
			return "ON", nil
		}
		return "OFF", nil
	case fmt.Stringer:
		return strings.TrimSpace(val.String()), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("value %v is not finite", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e18 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// NormalizeNumber приводит числовой текст к виду значения SET: "100000.0"
// становится "100000", "100000.5" не меняется. Нечисловой текст и значения
// вне конечного диапазона возвращаются как есть.
func NormalizeNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	out, err := formatFloat(f)
	if err != nil {
		return s
	}
	return out
}

// FormatValues форматирует список значений.
func FormatValues(values []interface{}) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		s, err := FormatValue(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = s
	}
	return out, nil
}

// PlaceholderCount возвращает номер старшего позиционного параметра в шаблоне.
func PlaceholderCount(template string) int {
	for i := MaxPlaceholders; i > 0; i-- {
		if strings.Contains(template, placeholders[i-1]) {
			return i
		}
	}
	return 0
}

// Substitute подставляет значения вместо 111..888 за один проход слева
// направо, поэтому подставленный текст повторно не просматривается.
// Число значений должно совпадать с номером старшего параметра шаблона.
func Substitute(template string, values []string) (string, error) {
	if len(values) > MaxPlaceholders {
		return "", yakerrors.Newf(yakerrors.KindContract, template,
			"at most %d values allowed, got %d", MaxPlaceholders, len(values))
	}
	need := PlaceholderCount(template)
	if len(values) != need {
		return "", yakerrors.Newf(yakerrors.KindContract, template,
			"template needs %d values, got %d", need, len(values))
	}
	if need == 0 {
		return template, nil
	}

	pairs := make([]string, 0, 2*need)
	for i, v := range values {
		pairs = append(pairs, placeholders[i], v)
	}
	return strings.NewReplacer(pairs...).Replace(template), nil
}

// SplitFields делит ответ по ";" и отбрасывает пустые поля.
func SplitFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ";") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// MapFields сопоставляет поля ответа с именами. Число полей должно совпадать.
func MapFields(fields, names []string) (map[string]string, error) {
	if len(fields) != len(names) {
		return nil, yakerrors.Newf(yakerrors.KindParse, "",
			"expected %d fields (%s), got %d", len(names), strings.Join(names, ";"), len(fields))
	}
	out := make(map[string]string, len(names))
	for i, name := range names {
		out[name] = fields[i]
	}
	return out, nil
}

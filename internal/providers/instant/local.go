package instant

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/musage/internal/core"
)

var (
	dateRe = regexp.MustCompile(`(?i)(what.*(date|day).*today|today.*(date|day)|what day is (it|today)|` +
		`current date|date today|what is today|what's today|today's date)`)
	timeRe = regexp.MustCompile(`(?i)(what.*(time|clock).*now|current time|what time is it|` +
		`time (right )?now|what's the time)`)
	yearRe = regexp.MustCompile(`(?i)(what.*(year).*now|current year|what year is it|what's the year)`)

	mathRe = regexp.MustCompile(`(?i)^\s*(what\s+is\s+|calculate\s+|compute\s+|eval\s+|solve\s+)?` +
		`([\d.]+\s*(\*\*|[+\-*/^%])\s*[\d.]+(?:\s*(\*\*|[+\-*/^%])\s*[\d.]+)*)\s*[=?]?\s*$`)
	percentRe = regexp.MustCompile(`(?i)(what\s+is\s+)?(\d+(?:\.\d+)?)\s*(%|percent)\s+of\s+(\d+(?:\.\d+)?)`)
	sqrtRe    = regexp.MustCompile(`(?i)(what\s+is\s+)?(square\s+root|sqrt)\s+(of\s+)?(\d+(?:\.\d+)?)`)
	powerRe   = regexp.MustCompile(`(?i)(what\s+is\s+)?(\d+(?:\.\d+)?)\s+(to\s+the\s+power\s+of|raised\s+to)\s+(\d+(?:\.\d+)?)`)

	ageRe   = regexp.MustCompile(`(?i)(how\s+old\s+(is|would)\s+(someone|a\s+person)|age\s+of\s+someone)\s+(born\s+in\s+|if\s+born\s+in\s+)?(\d{4})`)
	myAgeRe = regexp.MustCompile(`(?i)i\s+(was|am)\s+born\s+in\s+(\d{4})`)
)

// conversion turns the number captured by re into a formatted answer.
type conversion struct {
	re      *regexp.Regexp
	convert func(v float64) string
}

func unitConversion(pattern, from, to string, factor float64) conversion {
	return conversion{
		re: regexp.MustCompile(`(?i)([\d.]+)\s*` + pattern),
		convert: func(v float64) string {
			return fmt.Sprintf("%s %s  =  %s %s", formatNumber(v), from, formatNumber(v*factor), to)
		},
	}
}

func temperature(pattern string, convert func(v float64) string) conversion {
	return conversion{re: regexp.MustCompile(`(?i)([\-\d.]+)\s*°?\s*` + pattern), convert: convert}
}

// Order matters: the first matching pattern answers.
var conversions = []conversion{
	temperature(`(f|fahrenheit)\s+(to|in|into)\s+(c|celsius|centigrade)`, func(v float64) string {
		return fmt.Sprintf("%s°F  =  %s°C", formatNumber(v), formatNumber((v-32)*5/9))
	}),
	temperature(`(c|celsius)\s+(to|in|into)\s+(f|fahrenheit)`, func(v float64) string {
		return fmt.Sprintf("%s°C  =  %s°F", formatNumber(v), formatNumber(v*9/5+32))
	}),
	temperature(`(c|celsius)\s+(to|in|into)\s+(k|kelvin)`, func(v float64) string {
		return fmt.Sprintf("%s°C  =  %s K", formatNumber(v), formatNumber(v+273.15))
	}),
	temperature(`(k|kelvin)\s+(to|in|into)\s+(c|celsius)`, func(v float64) string {
		return fmt.Sprintf("%s K  =  %s°C", formatNumber(v), formatNumber(v-273.15))
	}),
	temperature(`(k|kelvin)\s+(to|in|into)\s+(f|fahrenheit)`, func(v float64) string {
		return fmt.Sprintf("%s K  =  %s°F", formatNumber(v), formatNumber((v-273.15)*9/5+32))
	}),

	unitConversion(`(km|kilometers?|kilometres?)\s+(to|in|into)\s+(mi|miles?)`, "km", "miles", 0.621371),
	unitConversion(`(mi|miles?)\s+(to|in|into)\s+(km|kilometers?|kilometres?)`, "miles", "km", 1.60934),
	unitConversion(`(cm|centim[ei]ters?)\s+(to|in|into)\s+(in|inch|inches)`, "cm", "inches", 0.393701),
	unitConversion(`(in|inch|inches)\s+(to|in|into)\s+(cm|centim[ei]ters?)`, "inches", "cm", 2.54),
	unitConversion(`(m|meters?|metres?)\s+(to|in|into)\s+(ft|feet|foot)`, "m", "ft", 3.28084),
	unitConversion(`(ft|feet|foot)\s+(to|in|into)\s+(m|meters?|metres?)`, "ft", "m", 0.3048),

	unitConversion(`(kg|kilograms?)\s+(to|in|into)\s+(lb|lbs|pounds?)`, "kg", "lbs", 2.20462),
	unitConversion(`(lb|lbs|pounds?)\s+(to|in|into)\s+(kg|kilograms?)`, "lbs", "kg", 0.453592),
	unitConversion(`(g|grams?)\s+(to|in|into)\s+(oz|ounces?)`, "g", "oz", 0.035274),
	unitConversion(`(oz|ounces?)\s+(to|in|into)\s+(g|grams?)`, "oz", "g", 28.3495),

	unitConversion(`(mph|miles\s+per\s+hour)\s+(to|in|into)\s+(kph|kmh|km/h|km\s+per\s+hour)`, "mph", "km/h", 1.60934),
	unitConversion(`(kph|kmh|km/h|kilometers?\s+per\s+hour)\s+(to|in|into)\s+(mph|miles\s+per\s+hour)`, "km/h", "mph", 0.621371),
}

// Local answers date, time, arithmetic, unit conversion and age questions
// without any external lookup.
type Local struct {
	now func() time.Time
}

func NewLocal() *Local {
	return &Local{now: time.Now}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Source() core.AnswerSource { return core.SourceLocal }

func (l *Local) TryAnswer(_ context.Context, query string) (string, bool) {
	q := strings.TrimSpace(query)
	now := l.now()

	switch {
	case dateRe.MatchString(q):
		return "Today is " + now.Format("Monday, January 2, 2006") + ".", true
	case timeRe.MatchString(q):
		return "The current time is " + now.Format("03:04 PM") + ".", true
	case yearRe.MatchString(q):
		return fmt.Sprintf("The current year is %d.", now.Year()), true
	}

	if m := sqrtRe.FindStringSubmatch(q); m != nil {
		n, _ := strconv.ParseFloat(m[4], 64)
		return fmt.Sprintf("√%s = %s", formatNumber(n), formatNumber(math.Sqrt(n))), true
	}
	if m := powerRe.FindStringSubmatch(q); m != nil {
		base, _ := strconv.ParseFloat(m[2], 64)
		exp, _ := strconv.ParseFloat(m[4], 64)
		return fmt.Sprintf("%s ^ %s = %s", formatNumber(base), formatNumber(exp), formatNumber(math.Pow(base, exp))), true
	}
	if m := percentRe.FindStringSubmatch(q); m != nil {
		pct, _ := strconv.ParseFloat(m[2], 64)
		base, _ := strconv.ParseFloat(m[4], 64)
		return fmt.Sprintf("%s%% of %s = %s", formatNumber(pct), formatNumber(base), formatNumber(pct/100*base)), true
	}
	if m := mathRe.FindStringSubmatch(q); m != nil {
		expr := strings.TrimSpace(strings.ReplaceAll(m[2], "^", "**"))
		if v, err := evaluate(expr); err == nil {
			return expr + " = " + formatNumber(v), true
		}
	}

	for _, c := range conversions {
		m := c.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return "", false
		}
		return c.convert(v), true
	}

	if m := ageRe.FindStringSubmatch(q); m != nil {
		year, _ := strconv.Atoi(m[5])
		return fmt.Sprintf("Someone born in %d is %d years old in %d.", year, now.Year()-year, now.Year()), true
	}
	if m := myAgeRe.FindStringSubmatch(q); m != nil {
		year, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("If you were born in %d, you are %d years old.", year, now.Year()-year), true
	}

	return "", false
}

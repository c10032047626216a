package knowledge

import (
	"fmt"
	"math"
	"os"
	"os/user"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"deskmate/internal/textmatch"
)

// Env is the wall-clock and host view dynamic answers compute from.
type Env struct {
	Now      func() time.Time
	Hostname func() (string, error)
	Username func() string
	OS       func() string
}

// SystemEnv reads the real clock and host.
func SystemEnv() Env {
	return Env{
		Now:      time.Now,
		Hostname: os.Hostname,
		Username: currentUsername,
		OS:       func() string { return runtime.GOOS + "/" + runtime.GOARCH },
	}
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func (e Env) withDefaults() Env {
	sys := SystemEnv()
	if e.Now == nil {
		e.Now = sys.Now
	}
	if e.Hostname == nil {
		e.Hostname = sys.Hostname
	}
	if e.Username == nil {
		e.Username = sys.Username
	}
	if e.OS == nil {
		e.OS = sys.OS
	}
	return e
}

// Dynamic is a computed answer. It applies when Trigger is a substring of the
// normalized utterance, or Pattern matches it. Compute runs on every query;
// returning false means the entry does not apply after all.
type Dynamic struct {
	Name    string
	Trigger string
	Pattern *regexp.Regexp
	Compute func(utterance string, env Env) (string, bool)
}

func (d Dynamic) applies(text string) bool {
	if d.Pattern != nil {
		return d.Pattern.MatchString(text)
	}
	return d.Trigger != "" && strings.Contains(text, d.Trigger)
}

const (
	clockLayout = "15:04:05"
	dateLayout  = "Monday, January 02, 2006"
)

// DefaultDynamic returns the computed-answer table in evaluation order.
// Arithmetic runs first so a time or static entry never shadows it.
func DefaultDynamic() []Dynamic {
	currentTime := func(_ string, env Env) (string, bool) {
		now := env.Now()
		return fmt.Sprintf("The current time is %s on %s.", now.Format(clockLayout), now.Format(dateLayout)), true
	}
	today := func(_ string, env Env) (string, bool) {
		return fmt.Sprintf("Today is %s.", env.Now().Format(dateLayout)), true
	}
	return []Dynamic{
		{Name: "arithmetic", Pattern: textmatch.ArithmeticPattern, Compute: computeArithmetic},
		{Name: "current_time", Trigger: "current time", Compute: currentTime},
		{Name: "what_time", Trigger: "what time is it", Compute: func(_ string, env Env) (string, bool) {
			return fmt.Sprintf("It's %s right now.", env.Now().Format(clockLayout)), true
		}},
		{Name: "what_day", Trigger: "what day is it", Compute: today},
		{Name: "todays_date", Trigger: "today's date", Compute: today},
		{Name: "computer_name", Trigger: "computer name", Compute: func(_ string, env Env) (string, bool) {
			name, err := env.Hostname()
			if err != nil || name == "" {
				return "", false
			}
			return fmt.Sprintf("This computer is named %s.", name), true
		}},
		{Name: "username", Trigger: "username", Compute: func(_ string, env Env) (string, bool) {
			name := env.Username()
			if name == "" {
				return "", false
			}
			return fmt.Sprintf("The current user is %s.", name), true
		}},
		{Name: "operating_system", Trigger: "operating system", Compute: func(_ string, env Env) (string, bool) {
			return fmt.Sprintf("This system is running %s.", env.OS()), true
		}},
	}
}

// computeArithmetic evaluates the first "<a> <op> <b>" in the utterance.
// Division by zero and non-finite results are not answers.
func computeArithmetic(utterance string, _ Env) (string, bool) {
	m := textmatch.ArithmeticPattern.FindStringSubmatch(utterance)
	if m == nil {
		return "", false
	}
	a, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}
	b, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return "", false
	}

	var result float64
	switch m[2] {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "", false
		}
		result = a / b
	default:
		return "", false
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return "", false
	}
	return fmt.Sprintf("%s %s %s = %s", formatNumber(a), m[2], formatNumber(b), formatNumber(result)), true
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', 12, 64)
}

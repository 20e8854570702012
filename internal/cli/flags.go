package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*regionFlag)(nil)
	_ pflag.Value = (*bucketFlag)(nil)
	_ pflag.Value = (*dateFlag)(nil)
)

// regionFlag is a strictly parsed --region value.
type regionFlag struct {
	value domain.Region
	set   bool
}

func (f *regionFlag) String() string { return string(f.value) }
func (f *regionFlag) Type() string   { return "region" }

func (f *regionFlag) Set(s string) error {
	r, ok := domain.LookupRegion(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return fmt.Errorf("unknown region %q (want morning, afternoon, evening or backlog)", s)
	}
	f.value, f.set = r, true
	return nil
}

// bucketAliases are accepted in addition to the stored tags.
var bucketAliases = map[string]domain.TaskBucket{
	"1":    domain.BucketMust,
	"3":    domain.BucketComplementary,
	"5":    domain.BucketMisc,
	"comp": domain.BucketComplementary,
}

// bucketFlag is a strictly parsed --bucket value.
type bucketFlag struct {
	value domain.TaskBucket
	set   bool
}

func (f *bucketFlag) String() string { return string(f.value) }
func (f *bucketFlag) Type() string   { return "bucket" }

func (f *bucketFlag) Set(s string) error {
	tag := strings.ToLower(strings.TrimSpace(s))
	if b, ok := bucketAliases[tag]; ok {
		f.value, f.set = b, true
		return nil
	}
	b, ok := domain.LookupBucket(tag)
	if !ok {
		return fmt.Errorf("unknown bucket %q (want must, complementary, misc or none)", s)
	}
	f.value, f.set = b, true
	return nil
}

// dateFlag accepts YYYY-MM-DD, today, tomorrow, yesterday or a signed day
// offset such as +2 or -1. Relative values resolve against the engine clock.
type dateFlag struct {
	raw    string
	abs    time.Time
	offset int
	set    bool
}

func (f *dateFlag) String() string { return f.raw }
func (f *dateFlag) Type() string   { return "date" }

func (f *dateFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	f.abs, f.offset = time.Time{}, 0

	switch s {
	case "today":
	case "tomorrow":
		f.offset = 1
	case "yesterday":
		f.offset = -1
	default:
		if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("invalid day offset %q", s)
			}
			f.offset = n
			break
		}
		t, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD, today, tomorrow or +N)", s)
		}
		f.abs = t
	}
	f.raw, f.set = s, true
	return nil
}

// resolve returns the selected day, or now when the flag was not given.
// Absolute dates are reinterpreted in now's location.
func (f *dateFlag) resolve(now time.Time) time.Time {
	if !f.abs.IsZero() {
		y, m, d := f.abs.Date()
		return time.Date(y, m, d, 12, 0, 0, 0, now.Location())
	}
	return domain.AddDays(now, f.offset)
}

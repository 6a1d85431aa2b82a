// Package hijri converts Gregorian dates to the tabular Islamic calendar.
package hijri

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
	"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
}

var weekdayNames = [7]string{
	"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت",
}

// Date is a day of the Islamic calendar.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-30
}

// MonthName is the Arabic month name.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return monthNames[d.Month-1]
}

func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

// julianDay returns the Julian day number of a proleptic Gregorian date.
func julianDay(y int, m time.Month, d int) int {
	a := (14 - int(m)) / 12
	yy := y + 4800 - a
	mm := int(m) + 12*a - 3
	return d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
}

// FromGregorian converts the calendar date of t (in t's location).
func FromGregorian(t time.Time) Date {
	y, m, d := t.Date()
	l := julianDay(y, m, d) - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30
	return Date{Year: year, Month: month, Day: day}
}

// Calendar formats Hijri dates in a fixed timezone with a day adjustment
// to follow local moon sighting.
type Calendar struct {
	Location   *time.Location
	AdjustDays int
}

func NewCalendar(tz string, adjustDays int) (*Calendar, error) {
	loc := time.UTC
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load hijri timezone %q: %w", tz, err)
		}
	}
	return &Calendar{Location: loc, AdjustDays: adjustDays}, nil
}

// Convert returns the adjusted Hijri date of t.
func (c *Calendar) Convert(t time.Time) Date {
	local := t.In(c.location())
	return FromGregorian(local.AddDate(0, 0, c.AdjustDays))
}

// Format renders "weekday، day month year هـ" with Arabic-Indic digits.
// The weekday is that of t itself; only the Hijri day is adjusted.
func (c *Calendar) Format(t time.Time, digits func(string) string) string {
	local := t.In(c.location())
	h := c.Convert(t)
	s := fmt.Sprintf("%s، %d %s %d هـ", weekdayNames[local.Weekday()], h.Day, h.MonthName(), h.Year)
	if digits != nil {
		s = digits(s)
	}
	return s
}

func (c *Calendar) location() *time.Location {
	if c == nil || c.Location == nil {
		return time.UTC
	}
	return c.Location
}

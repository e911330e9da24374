package service

import (
	"fmt"
	"regexp"
	"time"

	"github.com/tably/orders-api/internal/dto"
)

// Naming policy: person names are letters and spaces only, 3-50 chars.
// This is a business rule, not a technical constraint.
var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

func checkName(field, v string) []string {
	var details []string
	if len(v) < 3 || len(v) > 50 {
		details = append(details, fmt.Sprintf("%s: must be between 3 and 50 characters", field))
	}
	if v != "" && !namePattern.MatchString(v) {
		details = append(details, fmt.Sprintf("%s: must contain only letters and spaces", field))
	}
	return details
}

// checkNameLength bounds a name without the letters-and-spaces rule.
// Product names carry digits and punctuation, so only the length applies.
func checkNameLength(field, v string) []string {
	if len(v) < 3 || len(v) > 50 {
		return []string{fmt.Sprintf("%s: must be between 3 and 50 characters", field)}
	}
	return nil
}

func checkEmail(field, v string) []string {
	if !emailPattern.MatchString(v) {
		return []string{fmt.Sprintf("%s: is not a valid email address", field)}
	}
	return nil
}

const dateLayout = "2006-01-02"

// parseDate parses a date-only value at midnight UTC.
func parseDate(v string) (time.Time, error) {
	return time.Parse(dateLayout, v)
}

// endOfDay widens a date-only bound to cover its whole day.
func endOfDay(t time.Time) time.Time {
	return t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// clampPage normalizes pagination input: page floors at 1, page size falls
// back to the default when out of range.
func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPageSize {
		perPage = defaultPageSize
	}
	return page, perPage
}

func buildPagination(total, page, perPage int) dto.Pagination {
	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}
	p := dto.Pagination{
		Total:   total,
		Pages:   pages,
		Page:    page,
		PerPage: perPage,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

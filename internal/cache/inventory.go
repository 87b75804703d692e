package cache

import (
	"fmt"
	"strings"
	"time"
)

// Key prefixes.
const (
	CategoriesKey        = "establishments:categories"
	DashboardStatsKey    = "admin:dashboard:stats"
	ConsumablesKey       = "consumables:active"
	EstablishmentListKey = "establishments:list:"
	EmployeeListKey      = "employees:list:"
	EstablishmentPrefix  = "establishment:"
	EmployeePrefix       = "employee:"
)

// TTLs per cached resource.
const (
	CategoriesTTL     = 60 * time.Minute
	DashboardStatsTTL = 5 * time.Minute
	ListingTTL        = 10 * time.Minute
	ConsumablesTTL    = 30 * time.Minute
	EntityTTL         = 10 * time.Minute
)

func EstablishmentKey(id fmt.Stringer) string {
	return EstablishmentPrefix + id.String()
}

func EmployeeKey(id fmt.Stringer) string {
	return EmployeePrefix + id.String()
}

// ListKey builds a listing key from a prefix and the normalized query.
func ListKey(prefix string, parts ...any) string {
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = fmt.Sprint(p)
	}
	return prefix + strings.Join(fields, ":")
}

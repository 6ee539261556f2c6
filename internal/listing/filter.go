package listing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hrsuite/bulkupload/internal/sharepoint"
)

// Filter returns the items whose full name, work email, or personal email
// contains the search term, case-insensitively. An empty term keeps everything.
func Filter(items []sharepoint.Item, term string) []sharepoint.Item {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	var matched []sharepoint.Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.FullName()), term) ||
			strings.Contains(strings.ToLower(item.WorkEmail), term) ||
			strings.Contains(strings.ToLower(item.PersonalEmail), term) {
			matched = append(matched, item)
		}
	}
	return matched
}

// SortItems returns a sorted copy of items ordered by the named column.
// Unknown columns leave the order untouched.
func SortItems(items []sharepoint.Item, key string, desc bool) []sharepoint.Item {
	sorted := make([]sharepoint.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			i, j = j, i
		}
		return itemLess(sorted[i], sorted[j], key)
	})
	return sorted
}

func itemLess(a, b sharepoint.Item, key string) bool {
	switch key {
	case "ID":
		return a.ID < b.ID
	case "Salary":
		return a.Salary < b.Salary
	default:
		return textField(a, key) < textField(b, key)
	}
}

func textField(item sharepoint.Item, key string) string {
	switch key {
	case "Title":
		return item.Title
	case "FirstName":
		return item.FirstName
	case "LastName":
		return item.LastName
	case "WorkEmail":
		return item.WorkEmail
	case "PersonalEmail":
		return item.PersonalEmail
	case "BirthDate":
		// ISO timestamps sort lexicographically.
		return item.BirthDate
	case "HireDate":
		return item.HireDate
	case "WorkMode":
		return item.WorkMode
	case "IsMarried":
		return strconv.FormatBool(item.IsMarried)
	case "SocialProfile":
		return item.SocialProfile.URL
	case "JobTitle":
		return item.JobTitle
	case "About":
		return item.About
	default:
		return ""
	}
}

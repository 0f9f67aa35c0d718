package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"blogcore/internal/domain/content"
)

type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagFrequencies counts resolved tag names across posts, most used first.
func TagFrequencies(posts []content.Post) []TagCount {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, t := range p.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			counts[t]++
		}
	}

	stats := make([]TagCount, 0, len(counts))
	for name, c := range counts {
		stats = append(stats, TagCount{Name: name, Count: c})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Count > stats[j].Count
	})
	return stats
}

type ArchiveBucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ArchiveBuckets groups posts by YYYY-MM, newest month first.
func ArchiveBuckets(posts []content.Post, locale content.Locale) []ArchiveBucket {
	counts := make(map[string]int)
	for _, p := range posts {
		t := p.Time()
		if t.IsZero() {
			continue
		}
		counts[t.Format(monthLayout)]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]ArchiveBucket, 0, len(keys))
	for _, k := range keys {
		start, _ := time.Parse(monthLayout, k)
		out = append(out, ArchiveBucket{
			Key:   k,
			Label: MonthLabel(start, locale),
			Count: counts[k],
		})
	}
	return out
}

const monthLayout = "2006-01"

var slovakMonths = [...]string{
	"január", "február", "marec", "apríl", "máj", "jún",
	"júl", "august", "september", "október", "november", "december",
}

// MonthLabel renders "January 2024" or "január 2024".
func MonthLabel(t time.Time, locale content.Locale) string {
	if locale == content.Slovak {
		return fmt.Sprintf("%s %d", slovakMonths[t.Month()-1], t.Year())
	}
	return t.Format("January 2006")
}

type AuthorCount struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AuthorCounts lists authors by number of posts, then by name.
func AuthorCounts(posts []content.Post) []AuthorCount {
	idx := make(map[string]int)
	var out []AuthorCount
	for _, p := range posts {
		if p.Author == nil {
			continue
		}
		i, ok := idx[p.Author.Slug]
		if !ok {
			i = len(out)
			idx[p.Author.Slug] = i
			out = append(out, AuthorCount{Slug: p.Author.Slug, Name: p.Author.Name})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Name < out[j].Name
		}
		return out[i].Count > out[j].Count
	})
	return out
}
